package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cadence/internal/analysis"
	"cadence/internal/config"
	"cadence/internal/identity"
	"cadence/internal/inference"
	"cadence/internal/logging"
	"cadence/internal/media"
	"cadence/internal/scheduler"
	"cadence/internal/store"
)

// ErrTerminated rejects calls made after Terminate. A terminated registry is
// final; open a new one to resume work.
var ErrTerminated = errors.New("registry terminated")

// Outcome is one clip's completed analysis.
type Outcome struct {
	Identity identity.ClipIdentity
	Kind     analysis.MediaKind
	Result   *analysis.Result
}

// Options configures a Registry. Store is required; everything else has a
// working default.
type Options struct {
	Store        *store.Store
	Config       *config.Config
	AudioDecoder media.AudioDecoder
	VideoOpener  media.VideoOpener
	Inference    inference.Client
	Logger       *slog.Logger

	// AudioTimeout and VideoTimeout override the configured second-granularity
	// wait budgets when non-zero. Mostly useful in tests.
	AudioTimeout time.Duration
	VideoTimeout time.Duration
}

// Registry coordinates clip analysis: it assigns identities, deduplicates
// concurrent requests, runs each pipeline on its bounded scheduler, and
// persists lifecycle transitions.
type Registry struct {
	store   *store.Store
	decoder media.AudioDecoder
	opener  media.VideoOpener
	infer   inference.Client
	logger  *slog.Logger

	audio *scheduler.Scheduler
	video *scheduler.Scheduler

	audioTimeout    time.Duration
	videoTimeout    time.Duration
	sampleFractions []float64

	mu         sync.Mutex
	inflight   map[identity.ClipIdentity]*entry
	terminated bool
}

// entry tracks one in-flight analysis so duplicate requests share a single
// execution.
type entry struct {
	handle  *scheduler.Handle
	done    chan struct{}
	outcome *Outcome
	err     error
}

// New constructs a registry. Audio runs on a single slot; video concurrency
// comes from configuration.
func New(opts Options) (*Registry, error) {
	if opts.Store == nil {
		return nil, errors.New("registry requires a store")
	}
	cfg := opts.Config
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	logger := logging.WithComponent(opts.Logger, "registry")

	decoder := opts.AudioDecoder
	if decoder == nil {
		decoder = media.NewAudioDecoder()
	}
	var opener media.VideoOpener = opts.VideoOpener
	if opener == nil {
		opener = media.NewFFmpegDecoder()
	}
	infer := opts.Inference
	if infer == nil {
		infer = inference.Nop{}
	}

	audioTimeout := time.Duration(cfg.Analysis.AudioTimeout) * time.Second
	if opts.AudioTimeout > 0 {
		audioTimeout = opts.AudioTimeout
	}
	videoTimeout := time.Duration(cfg.Analysis.VideoTimeout) * time.Second
	if opts.VideoTimeout > 0 {
		videoTimeout = opts.VideoTimeout
	}

	return &Registry{
		store:           opts.Store,
		decoder:         decoder,
		opener:          opener,
		infer:           infer,
		logger:          logger,
		audio:           scheduler.New(1, logging.WithComponent(opts.Logger, "scheduler.audio")),
		video:           scheduler.New(cfg.Analysis.VideoConcurrency, logging.WithComponent(opts.Logger, "scheduler.video")),
		audioTimeout:    audioTimeout,
		videoTimeout:    videoTimeout,
		sampleFractions: cfg.Analysis.SampleFractions,
		inflight:        make(map[identity.ClipIdentity]*entry),
	}, nil
}

// KindForPath infers the pipeline from the file extension.
func KindForPath(path string) (analysis.MediaKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".mp3", ".flac", ".ogg", ".m4a", ".aac":
		return analysis.KindAudio, true
	case ".mp4", ".mov", ".mkv", ".avi", ".webm":
		return analysis.KindVideo, true
	default:
		return "", false
	}
}

// Analyze runs (or joins) the analysis for the clip at path and blocks until
// it completes, the per-kind timeout passes, or ctx ends. A timeout unblocks
// the caller only: the task keeps running and the record reflects its
// eventual outcome.
func (r *Registry) Analyze(ctx context.Context, path string) (*Outcome, error) {
	return r.analyze(ctx, path, false)
}

// Reanalyze ignores any stored record for the clip and queues a fresh run,
// overwriting the record with the new outcome. Concurrent requests for the
// same identity still share a single execution.
func (r *Registry) Reanalyze(ctx context.Context, path string) (*Outcome, error) {
	return r.analyze(ctx, path, true)
}

func (r *Registry) analyze(ctx context.Context, path string, force bool) (*Outcome, error) {
	id, err := identity.FromFile(path)
	if err != nil {
		return nil, analysis.Wrap(analysis.ErrValidation, "registry", "identify", path, err)
	}
	kind, ok := KindForPath(path)
	if !ok {
		return nil, analysis.Wrap(analysis.ErrDecode, "registry", "identify",
			fmt.Sprintf("unsupported media extension %q", filepath.Ext(path)), nil)
	}

	ent, cached, err := r.admit(ctx, id, kind, path, force)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}
	return r.await(ctx, id, kind, ent)
}

// admit either returns a cached outcome, joins an in-flight entry, or starts
// a new task. With force set the stored record is ignored entirely.
func (r *Registry) admit(ctx context.Context, id identity.ClipIdentity, kind analysis.MediaKind, path string, force bool) (*entry, *Outcome, error) {
	r.mu.Lock()
	if r.terminated {
		r.mu.Unlock()
		return nil, nil, analysis.Wrap(analysis.ErrContextCrash, "registry", "analyze", "", ErrTerminated)
	}
	if ent, ok := r.inflight[id]; ok {
		r.mu.Unlock()
		return ent, nil, nil
	}
	r.mu.Unlock()

	if !force {
		rec, err := r.store.Get(ctx, id.String())
		if err != nil {
			return nil, nil, err
		}
		if rec != nil {
			switch rec.Status {
			case store.StatusReady:
				outcome, err := outcomeFromRecord(rec)
				if err == nil {
					return nil, outcome, nil
				}
				// Unreadable cached result: fall through and re-analyze.
				r.logger.Warn("discarding unreadable cached result",
					slog.String(logging.FieldIdentity, id.String()), logging.Error(err))
			case store.StatusError:
				return nil, nil, analysis.Wrap(analysis.ErrValidation, "registry", "analyze",
					fmt.Sprintf("clip previously failed (%s); retry to re-queue", rec.ErrorMessage), nil)
			}
		}
	}

	r.mu.Lock()
	if r.terminated {
		r.mu.Unlock()
		return nil, nil, analysis.Wrap(analysis.ErrContextCrash, "registry", "analyze", "", ErrTerminated)
	}
	if ent, ok := r.inflight[id]; ok {
		r.mu.Unlock()
		return ent, nil, nil
	}
	ent := &entry{done: make(chan struct{})}
	r.inflight[id] = ent
	r.mu.Unlock()

	if err := r.store.Put(ctx, &store.Record{
		Identity: id.String(),
		Path:     path,
		Kind:     string(kind),
		Status:   store.StatusPending,
	}); err != nil {
		r.dropInflight(id)
		close(ent.done)
		return nil, nil, err
	}

	work := r.workFor(id, kind, path)
	handle := r.schedulerFor(kind).Push(work)
	r.mu.Lock()
	ent.handle = handle
	r.mu.Unlock()
	r.logger.Info("clip queued",
		slog.String(logging.FieldIdentity, id.String()),
		slog.String(logging.FieldKind, string(kind)),
		slog.String(logging.FieldClip, filepath.Base(path)))

	go r.complete(id, kind, path, ent, handle)
	return ent, nil, nil
}

// await blocks on an entry with the pipeline's wall-clock budget applied.
func (r *Registry) await(ctx context.Context, id identity.ClipIdentity, kind analysis.MediaKind, ent *entry) (*Outcome, error) {
	timeout := r.audioTimeout
	if kind == analysis.KindVideo {
		timeout = r.videoTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-ent.done:
		return ent.outcome, ent.err
	case <-waitCtx.Done():
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, analysis.Wrap(analysis.ErrTimeout, "registry", "await",
				fmt.Sprintf("clip %s still analyzing after %s", id, timeout), nil)
		}
		return nil, ctx.Err()
	}
}

// complete waits for the scheduler to resolve the task and persists the final
// record regardless of whether any caller is still listening.
func (r *Registry) complete(id identity.ClipIdentity, kind analysis.MediaKind, path string, ent *entry, handle *scheduler.Handle) {
	value, err := handle.Wait(context.Background())

	rec := &store.Record{
		Identity: id.String(),
		Path:     path,
		Kind:     string(kind),
	}
	if err != nil {
		err = mapTaskError(err)
		rec.Status = store.StatusError
		rec.ErrorMessage = err.Error()
		ent.err = err
	} else {
		result := value.(*analysis.Result)
		payload, marshalErr := json.Marshal(result)
		if marshalErr != nil {
			err = analysis.Wrap(analysis.ErrValidation, "registry", "persist", "encode result", marshalErr)
			rec.Status = store.StatusError
			rec.ErrorMessage = err.Error()
			ent.err = err
		} else {
			rec.Status = store.StatusReady
			rec.ResultJSON = string(payload)
			ent.outcome = &Outcome{Identity: id, Kind: kind, Result: result}
		}
	}

	if putErr := r.store.Put(context.Background(), rec); putErr != nil {
		r.logger.Error("persist analysis record",
			slog.String(logging.FieldIdentity, id.String()), logging.Error(putErr))
	}

	if ent.err != nil && !analysis.IsExpected(ent.err) {
		r.logger.Warn("clip analysis failed",
			slog.String(logging.FieldIdentity, id.String()), logging.Error(ent.err))
	} else if ent.err == nil {
		r.logger.Info("clip analysis complete",
			slog.String(logging.FieldIdentity, id.String()),
			slog.String(logging.FieldKind, string(kind)))
	}

	r.dropInflight(id)
	close(ent.done)
}

// Cancel aborts a not-yet-dispatched analysis. Running tasks are not
// preemptible; Cancel reports false for them.
func (r *Registry) Cancel(id identity.ClipIdentity) bool {
	r.mu.Lock()
	var handle *scheduler.Handle
	if ent, ok := r.inflight[id]; ok {
		handle = ent.handle
	}
	r.mu.Unlock()
	if handle == nil {
		return false
	}
	return handle.Cancel()
}

// Retry re-queues a clip that previously failed. Only records in the error
// status are eligible.
func (r *Registry) Retry(ctx context.Context, id identity.ClipIdentity) (*Outcome, error) {
	rec, err := r.store.Get(ctx, id.String())
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, analysis.Wrap(analysis.ErrValidation, "registry", "retry",
			fmt.Sprintf("unknown clip %s", id), nil)
	}
	if rec.Status != store.StatusError {
		return nil, analysis.Wrap(analysis.ErrValidation, "registry", "retry",
			fmt.Sprintf("clip %s is %s; only errored clips can be retried", id, rec.Status), nil)
	}
	if err := r.store.Delete(ctx, id.String()); err != nil {
		return nil, err
	}
	return r.Analyze(ctx, rec.Path)
}

// ClearPending drops every queued-but-not-started task across both pipelines
// and reports how many were cleared.
func (r *Registry) ClearPending() int {
	return r.audio.ClearPending() + r.video.ClearPending()
}

// Terminate tears down both schedulers. Outstanding tasks fail with the
// execution-context taxonomy and the registry rejects further calls.
func (r *Registry) Terminate() {
	r.mu.Lock()
	if r.terminated {
		r.mu.Unlock()
		return
	}
	r.terminated = true
	r.mu.Unlock()

	r.audio.Close()
	r.video.Close()
	r.logger.Info("registry terminated")
}

func (r *Registry) schedulerFor(kind analysis.MediaKind) *scheduler.Scheduler {
	if kind == analysis.KindVideo {
		return r.video
	}
	return r.audio
}

func (r *Registry) dropInflight(id identity.ClipIdentity) {
	r.mu.Lock()
	delete(r.inflight, id)
	r.mu.Unlock()
}

// mapTaskError translates scheduler sentinels into the shared analysis
// taxonomy. Pipeline errors already carry their markers and pass through.
func mapTaskError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrCancelled):
		return analysis.Wrap(analysis.ErrCancelled, "registry", "analyze", "cancelled before dispatch", nil)
	case errors.Is(err, scheduler.ErrCleared):
		return analysis.Wrap(analysis.ErrCleared, "registry", "analyze", "dropped from waiting list", nil)
	case errors.Is(err, scheduler.ErrTerminated):
		return analysis.Wrap(analysis.ErrContextCrash, "registry", "analyze", "", ErrTerminated)
	case errors.Is(err, context.DeadlineExceeded):
		return analysis.Wrap(analysis.ErrTimeout, "registry", "analyze", "", err)
	default:
		return err
	}
}

func outcomeFromRecord(rec *store.Record) (*Outcome, error) {
	if rec.ResultJSON == "" {
		return nil, errors.New("record has no result payload")
	}
	var result analysis.Result
	if err := json.Unmarshal([]byte(rec.ResultJSON), &result); err != nil {
		return nil, err
	}
	kind, ok := analysis.ParseMediaKind(rec.Kind)
	if !ok {
		return nil, fmt.Errorf("record has unknown kind %q", rec.Kind)
	}
	return &Outcome{
		Identity: identity.ClipIdentity(rec.Identity),
		Kind:     kind,
		Result:   &result,
	}, nil
}
