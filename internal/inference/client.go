// Package inference defines the boundary to the pretrained-model
// collaborator that turns a frame into object detections. The heuristics
// pipeline only supplies pixel data; everything model-related lives behind
// this interface.
package inference

import (
	"context"

	"cadence/internal/media"
)

// Result is the detection outcome for one frame.
type Result struct {
	DetectedObjects []string `json:"detected_objects"`
	HasFaces        bool     `json:"has_faces"`
}

// Client classifies a single frame.
type Client interface {
	Detect(ctx context.Context, frame *media.Frame) (Result, error)
}

// Nop is the default client used when no inference collaborator is wired in.
type Nop struct{}

func (Nop) Detect(context.Context, *media.Frame) (Result, error) {
	return Result{}, nil
}
