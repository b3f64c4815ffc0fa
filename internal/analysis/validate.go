package analysis

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// segmentTolerance absorbs float accumulation when checking segment adjacency.
const segmentTolerance = 1e-6

// Validate checks a cross-boundary result for structural soundness before it
// may be treated as typed analysis output. Violations fail with ErrValidation.
func Validate(result *Result) error {
	if result == nil {
		return Wrap(ErrValidation, "analysis", "validate", "result is nil", nil)
	}
	if err := structValidator.Struct(result); err != nil {
		return Wrap(ErrValidation, "analysis", "validate", "structural check failed", err)
	}

	switch result.Kind {
	case KindAudio:
		if result.Audio == nil || result.Video != nil {
			return Wrap(ErrValidation, "analysis", "validate", "audio result shape mismatch", nil)
		}
		return validateAudio(result.Audio)
	case KindVideo:
		if result.Video == nil || result.Audio != nil {
			return Wrap(ErrValidation, "analysis", "validate", "video result shape mismatch", nil)
		}
		return validateVideo(result.Video)
	default:
		return Wrap(ErrValidation, "analysis", "validate", fmt.Sprintf("unknown media kind %q", result.Kind), nil)
	}
}

func validateAudio(audio *AudioResult) error {
	prev := math.Inf(-1)
	for i, beat := range audio.Beats {
		if beat.Timestamp < prev {
			return Wrap(ErrValidation, "analysis", "validate",
				fmt.Sprintf("beat %d out of order: %.4f after %.4f", i, beat.Timestamp, prev), nil)
		}
		if beat.Timestamp > audio.Duration+segmentTolerance {
			return Wrap(ErrValidation, "analysis", "validate",
				fmt.Sprintf("beat %d timestamp %.4f beyond duration %.4f", i, beat.Timestamp, audio.Duration), nil)
		}
		prev = beat.Timestamp
	}

	if len(audio.Segments) == 0 {
		return Wrap(ErrValidation, "analysis", "validate", "segment list is empty", nil)
	}
	if math.Abs(audio.Segments[0].StartTime) > segmentTolerance {
		return Wrap(ErrValidation, "analysis", "validate",
			fmt.Sprintf("first segment starts at %.6f, not 0", audio.Segments[0].StartTime), nil)
	}
	for i, seg := range audio.Segments {
		if seg.EndTime <= seg.StartTime {
			return Wrap(ErrValidation, "analysis", "validate",
				fmt.Sprintf("segment %d has non-positive span [%.4f, %.4f)", i, seg.StartTime, seg.EndTime), nil)
		}
		if i > 0 {
			gap := seg.StartTime - audio.Segments[i-1].EndTime
			if math.Abs(gap) > segmentTolerance {
				return Wrap(ErrValidation, "analysis", "validate",
					fmt.Sprintf("segment %d not contiguous: gap of %.6f", i, gap), nil)
			}
		}
	}
	last := audio.Segments[len(audio.Segments)-1]
	if math.Abs(last.EndTime-audio.Duration) > segmentTolerance {
		return Wrap(ErrValidation, "analysis", "validate",
			fmt.Sprintf("segments end at %.6f, duration is %.6f", last.EndTime, audio.Duration), nil)
	}
	return nil
}

func validateVideo(video *VideoResult) error {
	if math.IsNaN(video.Metrics.AvgBrightness) || math.IsNaN(video.Metrics.VisualComplexity) {
		return Wrap(ErrValidation, "analysis", "validate", "frame metrics contain NaN", nil)
	}
	return nil
}
