package analysis

import "strings"

// MediaKind distinguishes the two analysis pipelines.
type MediaKind string

const (
	KindAudio MediaKind = "audio"
	KindVideo MediaKind = "video"
)

// ParseMediaKind converts a string into a known MediaKind.
func ParseMediaKind(value string) (MediaKind, bool) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(value))) {
	case KindAudio:
		return KindAudio, true
	case KindVideo:
		return KindVideo, true
	default:
		return "", false
	}
}

// Intensity classifies the energy level of an audio segment.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// MotionLevel classifies inter-frame motion in a video clip.
type MotionLevel string

const (
	MotionStatic MotionLevel = "static"
	MotionLow    MotionLevel = "low"
	MotionMedium MotionLevel = "medium"
	MotionHigh   MotionLevel = "high"
)

// Beat is a detected rhythmic onset.
type Beat struct {
	Timestamp  float64 `json:"timestamp" validate:"gte=0"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// EnergySegment is a maximal run of equal-intensity one-second windows.
// Segments are contiguous and exhaustively partition [0, duration).
type EnergySegment struct {
	StartTime float64   `json:"start_time" validate:"gte=0"`
	EndTime   float64   `json:"end_time" validate:"gte=0"`
	Intensity Intensity `json:"intensity" validate:"oneof=low medium high"`
}

// FrameMetrics holds visual heuristics computed from sampled frames.
type FrameMetrics struct {
	AvgBrightness    float64     `json:"avg_brightness" validate:"gte=0,lte=1"`
	VisualComplexity float64     `json:"visual_complexity" validate:"gte=0,lte=1"`
	MotionLevel      MotionLevel `json:"motion_level" validate:"oneof=static low medium high"`
}

// AudioResult is the outcome of the audio pipeline for one track.
type AudioResult struct {
	BPM      int             `json:"bpm" validate:"gte=70,lte=180"`
	Beats    []Beat          `json:"beats" validate:"dive"`
	Segments []EnergySegment `json:"segments" validate:"min=1,dive"`
	Duration float64         `json:"duration" validate:"gt=0"`
}

// VideoResult is the outcome of the video pipeline for one clip.
type VideoResult struct {
	Metrics         FrameMetrics `json:"metrics"`
	SampledFrames   int          `json:"sampled_frames" validate:"gte=1"`
	Duration        float64      `json:"duration" validate:"gt=0"`
	DetectedObjects []string     `json:"detected_objects,omitempty"`
	HasFaces        bool         `json:"has_faces"`
}

// Result is the tagged union carried across the execution-context boundary.
// Exactly one of Audio or Video is set, matching Kind.
type Result struct {
	Kind  MediaKind    `json:"kind" validate:"oneof=audio video"`
	Audio *AudioResult `json:"audio,omitempty"`
	Video *VideoResult `json:"video,omitempty"`
}
