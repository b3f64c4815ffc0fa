package scheduler

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Handle tracks one submitted task. It resolves exactly once, either with the
// task's outcome or with a scheduler sentinel error.
type Handle struct {
	id    uuid.UUID
	sched *Scheduler

	done chan struct{}
	once sync.Once

	value any
	err   error

	// pending points at the queued task while it is still cancellable.
	// Guarded by sched.mu; nil once dispatched or resolved.
	pending *task
}

// ID returns the unique identifier assigned at push time.
func (h *Handle) ID() uuid.UUID { return h.id }

// Done is closed once the handle has resolved.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the handle resolves or the context ends. A context error
// is returned as-is so callers can apply their own timeout semantics.
func (h *Handle) Wait(ctx context.Context) (any, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel removes the task from the waiting list if it has not been dispatched
// yet, failing the handle with ErrCancelled and returning true. Once a task is
// running it is not preemptible: Cancel returns false and the task resolves on
// its own.
func (h *Handle) Cancel() bool {
	h.sched.mu.Lock()
	t := h.pending
	if t == nil {
		h.sched.mu.Unlock()
		return false
	}
	h.pending = nil
	h.sched.removeWaitingLocked(t)
	h.sched.mu.Unlock()

	h.resolve(nil, ErrCancelled)
	return true
}

func (h *Handle) resolve(value any, err error) {
	h.once.Do(func() {
		h.value = value
		h.err = err
		close(h.done)
	})
}
