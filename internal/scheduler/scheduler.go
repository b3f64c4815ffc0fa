package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrCancelled resolves tasks cancelled while still waiting.
	ErrCancelled = errors.New("task cancelled before dispatch")
	// ErrCleared resolves tasks dropped by ClearPending.
	ErrCleared = errors.New("pending task cleared")
	// ErrTerminated resolves every task outstanding when the scheduler closes.
	ErrTerminated = errors.New("scheduler terminated")
)

// Work is a unit of computation admitted by the scheduler. The supplied
// context is cancelled when the scheduler closes; work that cannot observe it
// still runs to completion, but its outcome is discarded.
type Work func(ctx context.Context) (any, error)

type task struct {
	work   Work
	handle *Handle
}

// Scheduler admits up to a fixed number of tasks concurrently and dispatches
// waiting tasks in strict submission order. The zero value is not usable;
// construct with New.
type Scheduler struct {
	limit  int
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	waiting []*task
	running map[*Handle]struct{}
	closed  bool
}

// New constructs a scheduler with concurrency limit K. Limits below one are
// clamped to one.
func New(limit int, logger *slog.Logger) *Scheduler {
	if limit < 1 {
		limit = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		limit:   limit,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		running: make(map[*Handle]struct{}),
	}
}

// Limit returns the configured concurrency limit.
func (s *Scheduler) Limit() int { return s.limit }

// Push enqueues work and returns its handle. If a slot is free the task is
// dispatched immediately; otherwise it waits its turn in FIFO order.
func (s *Scheduler) Push(work Work) *Handle {
	h := &Handle{id: uuid.New(), sched: s, done: make(chan struct{})}
	t := &task{work: work, handle: h}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		h.resolve(nil, ErrTerminated)
		return h
	}
	if len(s.running) < s.limit {
		s.dispatchLocked(t)
	} else {
		h.pending = t
		s.waiting = append(s.waiting, t)
	}
	s.mu.Unlock()
	return h
}

// ClearPending fails every still-waiting task with ErrCleared and empties the
// waiting list. Running tasks are unaffected.
func (s *Scheduler) ClearPending() int {
	s.mu.Lock()
	cleared := s.waiting
	s.waiting = nil
	for _, t := range cleared {
		t.handle.pending = nil
	}
	s.mu.Unlock()

	for _, t := range cleared {
		t.handle.resolve(nil, ErrCleared)
	}
	return len(cleared)
}

// Close tears the scheduler down: every waiting and in-flight task fails with
// ErrTerminated and no further work is admitted. Goroutines already executing
// run to completion but their outcomes are discarded.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	pending := s.waiting
	s.waiting = nil
	for _, t := range pending {
		t.handle.pending = nil
	}
	inflight := make([]*Handle, 0, len(s.running))
	for h := range s.running {
		inflight = append(inflight, h)
	}
	s.mu.Unlock()

	s.cancel()
	for _, t := range pending {
		t.handle.resolve(nil, ErrTerminated)
	}
	for _, h := range inflight {
		h.resolve(nil, ErrTerminated)
	}
	s.logger.Debug("scheduler closed",
		slog.Int("failed_pending", len(pending)),
		slog.Int("failed_running", len(inflight)))
}

// RunningCount reports the number of currently executing tasks.
func (s *Scheduler) RunningCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

// PendingCount reports the number of tasks still waiting for a slot.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.waiting)
}

func (s *Scheduler) dispatchLocked(t *task) {
	t.handle.pending = nil
	s.running[t.handle] = struct{}{}
	go s.run(t)
}

func (s *Scheduler) run(t *task) {
	value, err := s.execute(t.work)
	t.handle.resolve(value, err)

	s.mu.Lock()
	delete(s.running, t.handle)
	if !s.closed && len(s.waiting) > 0 && len(s.running) < s.limit {
		next := s.waiting[0]
		s.waiting = s.waiting[1:]
		s.dispatchLocked(next)
	}
	s.mu.Unlock()
}

// execute isolates task failures: a panicking task fails its own handle and
// nothing else.
func (s *Scheduler) execute(work Work) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panicked", slog.Any("panic", r))
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return work(s.ctx)
}

func (s *Scheduler) removeWaitingLocked(t *task) {
	for i, candidate := range s.waiting {
		if candidate == t {
			s.waiting = append(s.waiting[:i], s.waiting[i+1:]...)
			return
		}
	}
}
