package registry

import (
	"context"
	"fmt"
	"log/slog"

	"cadence/internal/analysis"
	"cadence/internal/energy"
	"cadence/internal/identity"
	"cadence/internal/inference"
	"cadence/internal/logging"
	"cadence/internal/media"
	"cadence/internal/scheduler"
	"cadence/internal/store"
	"cadence/internal/tempo"
	"cadence/internal/visual"
)

// workFor builds the scheduler closure for one clip. The closure marks the
// record analyzing when it actually starts executing, so queued clips stay
// pending until a slot frees up.
func (r *Registry) workFor(id identity.ClipIdentity, kind analysis.MediaKind, path string) scheduler.Work {
	return func(ctx context.Context) (any, error) {
		if err := r.markAnalyzing(ctx, id, kind, path); err != nil {
			return nil, err
		}
		if kind == analysis.KindVideo {
			return r.runVideo(ctx, path)
		}
		return r.runAudio(ctx, path)
	}
}

func (r *Registry) markAnalyzing(ctx context.Context, id identity.ClipIdentity, kind analysis.MediaKind, path string) error {
	rec := &store.Record{
		Identity: id.String(),
		Path:     path,
		Kind:     string(kind),
		Status:   store.StatusAnalyzing,
	}
	if err := r.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("mark analyzing: %w", err)
	}
	return nil
}

func (r *Registry) runAudio(ctx context.Context, path string) (*analysis.Result, error) {
	buf, err := r.decoder.DecodeAudio(ctx, path)
	if err != nil {
		return nil, analysis.Wrap(analysis.ErrDecode, "audio", "decode", path, err)
	}
	duration := buf.Duration()
	if duration <= 0 {
		return nil, analysis.Wrap(analysis.ErrDecode, "audio", "decode",
			fmt.Sprintf("%s decoded to zero samples", path), nil)
	}

	bpm, beats := tempo.Detect(buf)
	segments := energy.Segment(buf)

	result := &analysis.Result{
		Kind: analysis.KindAudio,
		Audio: &analysis.AudioResult{
			BPM:      bpm,
			Beats:    beats,
			Segments: segments,
			Duration: duration,
		},
	}
	if err := analysis.Validate(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Registry) runVideo(ctx context.Context, path string) (*analysis.Result, error) {
	source, err := r.opener.OpenVideo(ctx, path)
	if err != nil {
		return nil, analysis.Wrap(analysis.ErrDecode, "video", "open", path, err)
	}
	defer source.Close()

	duration := source.Duration()
	if duration <= 0 {
		return nil, analysis.Wrap(analysis.ErrDecode, "video", "open",
			fmt.Sprintf("%s reports no duration", path), nil)
	}

	times := visual.SampleTimes(duration, r.sampleFractions)
	frames := make([]*media.Frame, 0, len(times))
	for _, ts := range times {
		frame, err := source.FrameAt(ctx, ts)
		if err != nil {
			return nil, analysis.Wrap(analysis.ErrDecode, "video", "sample",
				fmt.Sprintf("frame at %.2fs of %s", ts, path), err)
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return nil, analysis.Wrap(analysis.ErrDecode, "video", "sample",
			fmt.Sprintf("no frames sampled from %s", path), nil)
	}

	metrics := visual.Analyze(frames)

	// Object detection rides along on the middle frame and never fails the
	// clip: heuristics stand on their own when the model is unavailable.
	detection, err := r.infer.Detect(ctx, frames[len(frames)/2])
	if err != nil {
		r.logger.Warn("object detection unavailable",
			slog.String(logging.FieldClip, path), logging.Error(err))
		detection = inference.Result{}
	}

	result := &analysis.Result{
		Kind: analysis.KindVideo,
		Video: &analysis.VideoResult{
			Metrics:         metrics,
			SampledFrames:   len(frames),
			Duration:        duration,
			DetectedObjects: detection.DetectedObjects,
			HasFaces:        detection.HasFaces,
		},
	}
	if err := analysis.Validate(result); err != nil {
		return nil, err
	}
	return result, nil
}
