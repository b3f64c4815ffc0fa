// Package registry coordinates clip analysis end to end.
//
// Each request resolves the clip's on-disk identity, deduplicates against
// work already in flight for the same identity, and runs the matching
// pipeline (tempo plus energy for audio, frame heuristics plus optional
// object detection for video) on a bounded scheduler. Lifecycle transitions
// (pending, analyzing, ready, error) are persisted through the store so
// results survive across sessions and errored clips stay put until an
// explicit retry.
package registry
