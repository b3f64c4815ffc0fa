package testsupport

import (
	"context"
	"errors"
	"sync/atomic"

	"cadence/internal/media"
)

// StubAudioDecoder serves a fixed buffer (or error) for every decode call and
// counts invocations so tests can assert deduplication.
type StubAudioDecoder struct {
	Buffer *media.SampleBuffer
	Err    error
	// Block, when non-nil, delays the decode until the channel yields or the
	// context is cancelled.
	Block <-chan struct{}

	calls atomic.Int64
}

func (d *StubAudioDecoder) DecodeAudio(ctx context.Context, path string) (*media.SampleBuffer, error) {
	d.calls.Add(1)
	if d.Block != nil {
		select {
		case <-d.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Buffer, nil
}

// Calls reports how many decodes have been attempted.
func (d *StubAudioDecoder) Calls() int64 {
	return d.calls.Load()
}

// StubVideoOpener serves a fixed frame sequence for every open call.
type StubVideoOpener struct {
	Frames   []*media.Frame
	Seconds  float64
	Err      error
	FrameErr error
}

func (o *StubVideoOpener) OpenVideo(ctx context.Context, path string) (media.FrameSource, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	return &stubFrameSource{frames: o.Frames, seconds: o.Seconds, frameErr: o.FrameErr}, nil
}

type stubFrameSource struct {
	frames   []*media.Frame
	seconds  float64
	frameErr error
	next     int
}

func (s *stubFrameSource) Duration() float64 {
	return s.seconds
}

func (s *stubFrameSource) FrameAt(ctx context.Context, seconds float64) (*media.Frame, error) {
	if s.frameErr != nil {
		return nil, s.frameErr
	}
	if len(s.frames) == 0 {
		return nil, errors.New("no frames configured")
	}
	frame := s.frames[s.next%len(s.frames)]
	s.next++
	return frame, nil
}

func (s *stubFrameSource) Close() error { return nil }
