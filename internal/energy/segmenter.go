// Package energy partitions a track into intensity segments using the clip's
// own energy distribution rather than absolute thresholds.
package energy

import (
	"math"
	"sort"

	"cadence/internal/analysis"
	"cadence/internal/media"
)

const (
	windowSeconds = 1.0

	lowPercentile  = 0.33
	highPercentile = 0.66

	// Windows with RMS below this floor are silence regardless of the
	// clip-local thresholds; percentile thresholds degenerate to zero on a
	// silent clip and would otherwise classify everything upward.
	silenceFloor = 1e-6
)

// Segment classifies one-second windows against the clip's 33rd/66th RMS
// percentiles and run-length merges equal classifications. The returned
// segments are contiguous and exhaustively cover [0, duration).
func Segment(buf *media.SampleBuffer) []analysis.EnergySegment {
	if buf == nil || buf.NumSamples() == 0 || buf.SampleRate <= 0 {
		return nil
	}
	mono := buf.Mono()
	duration := buf.Duration()
	windowSize := int(windowSeconds * float64(buf.SampleRate))

	var energies []float64
	for start := 0; start < len(mono); start += windowSize {
		end := start + windowSize
		if end > len(mono) {
			end = len(mono)
		}
		energies = append(energies, rms(mono[start:end]))
	}

	lowThreshold, highThreshold := thresholds(energies)

	segments := make([]analysis.EnergySegment, 0, len(energies))
	for i, e := range energies {
		intensity := classify(e, lowThreshold, highThreshold)
		startTime := float64(i) * windowSeconds
		endTime := startTime + windowSeconds
		if endTime > duration || i == len(energies)-1 {
			endTime = duration
		}
		if n := len(segments); n > 0 && segments[n-1].Intensity == intensity {
			segments[n-1].EndTime = endTime
			continue
		}
		segments = append(segments, analysis.EnergySegment{
			StartTime: startTime,
			EndTime:   endTime,
			Intensity: intensity,
		})
	}
	return segments
}

func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// thresholds computes the clip-local percentile cut points from the window
// energy distribution.
func thresholds(energies []float64) (low, high float64) {
	sorted := make([]float64, len(energies))
	copy(sorted, energies)
	sort.Float64s(sorted)
	return percentile(sorted, lowPercentile), percentile(sorted, highPercentile)
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func classify(energy, low, high float64) analysis.Intensity {
	switch {
	case energy < silenceFloor:
		return analysis.IntensityLow
	case energy >= high:
		return analysis.IntensityHigh
	case energy >= low:
		return analysis.IntensityMedium
	default:
		return analysis.IntensityLow
	}
}
