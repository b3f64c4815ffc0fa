package analysis_test

import (
	"errors"
	"testing"

	"cadence/internal/analysis"
)

func validAudioResult() *analysis.Result {
	return &analysis.Result{
		Kind: analysis.KindAudio,
		Audio: &analysis.AudioResult{
			BPM: 120,
			Beats: []analysis.Beat{
				{Timestamp: 0.5, Confidence: 1.0},
				{Timestamp: 1.0, Confidence: 1.0},
			},
			Segments: []analysis.EnergySegment{
				{StartTime: 0, EndTime: 2, Intensity: analysis.IntensityLow},
				{StartTime: 2, EndTime: 4, Intensity: analysis.IntensityHigh},
			},
			Duration: 4,
		},
	}
}

func TestValidateAcceptsAudioResult(t *testing.T) {
	if err := analysis.Validate(validAudioResult()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestValidateAcceptsVideoResult(t *testing.T) {
	result := &analysis.Result{
		Kind: analysis.KindVideo,
		Video: &analysis.VideoResult{
			Metrics: analysis.FrameMetrics{
				AvgBrightness:    0.4,
				VisualComplexity: 0.1,
				MotionLevel:      analysis.MotionMedium,
			},
			SampledFrames: 3,
			Duration:      12.5,
		},
	}
	if err := analysis.Validate(result); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestValidateRejectsBPMOutOfRange(t *testing.T) {
	result := validAudioResult()
	result.Audio.BPM = 260
	err := analysis.Validate(result)
	if !errors.Is(err, analysis.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateRejectsSegmentGap(t *testing.T) {
	result := validAudioResult()
	result.Audio.Segments[1].StartTime = 2.5
	if err := analysis.Validate(result); !errors.Is(err, analysis.ErrValidation) {
		t.Fatalf("expected validation error for gap, got %v", err)
	}
}

func TestValidateRejectsSegmentShortfall(t *testing.T) {
	result := validAudioResult()
	result.Audio.Segments[1].EndTime = 3.5
	if err := analysis.Validate(result); !errors.Is(err, analysis.ErrValidation) {
		t.Fatalf("expected validation error for uncovered tail, got %v", err)
	}
}

func TestValidateRejectsUnorderedBeats(t *testing.T) {
	result := validAudioResult()
	result.Audio.Beats[1].Timestamp = 0.1
	if err := analysis.Validate(result); !errors.Is(err, analysis.ErrValidation) {
		t.Fatalf("expected validation error for unordered beats, got %v", err)
	}
}

func TestValidateRejectsShapeMismatch(t *testing.T) {
	result := validAudioResult()
	result.Video = &analysis.VideoResult{SampledFrames: 1, Duration: 1}
	if err := analysis.Validate(result); !errors.Is(err, analysis.ErrValidation) {
		t.Fatalf("expected validation error for shape mismatch, got %v", err)
	}
}

func TestWrapTagsMarker(t *testing.T) {
	err := analysis.Wrap(analysis.ErrDecode, "media", "decode", "truncated header", nil)
	if !errors.Is(err, analysis.ErrDecode) {
		t.Fatalf("expected ErrDecode marker, got %v", err)
	}
	if errors.Is(err, analysis.ErrTimeout) {
		t.Fatal("unexpected ErrTimeout classification")
	}
}

func TestIsExpected(t *testing.T) {
	if !analysis.IsExpected(analysis.Wrap(analysis.ErrCancelled, "scheduler", "cancel", "", nil)) {
		t.Fatal("cancelled outcomes are expected")
	}
	if analysis.IsExpected(analysis.Wrap(analysis.ErrDecode, "media", "decode", "", nil)) {
		t.Fatal("decode failures are not expected outcomes")
	}
}
