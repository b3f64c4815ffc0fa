package energy_test

import (
	"math"
	"testing"

	"cadence/internal/analysis"
	"cadence/internal/energy"
	"cadence/internal/media"
	"cadence/internal/testsupport"
)

func checkCoverage(t *testing.T, segments []analysis.EnergySegment, duration float64) {
	t.Helper()
	if len(segments) == 0 {
		t.Fatal("expected at least one segment")
	}
	if segments[0].StartTime != 0 {
		t.Fatalf("first segment starts at %f, want 0", segments[0].StartTime)
	}
	for i := 1; i < len(segments); i++ {
		if segments[i].StartTime != segments[i-1].EndTime {
			t.Fatalf("segment %d not contiguous: %f != %f", i, segments[i].StartTime, segments[i-1].EndTime)
		}
	}
	last := segments[len(segments)-1]
	if math.Abs(last.EndTime-duration) > 1e-9 {
		t.Fatalf("segments end at %f, duration is %f", last.EndTime, duration)
	}
}

func TestSilenceYieldsSingleLowSegment(t *testing.T) {
	buf := testsupport.SilentBuffer(8000, 7)
	segments := energy.Segment(buf)
	if len(segments) != 1 {
		t.Fatalf("expected one segment for silence, got %d", len(segments))
	}
	if segments[0].Intensity != analysis.IntensityLow {
		t.Fatalf("expected low intensity, got %s", segments[0].Intensity)
	}
	checkCoverage(t, segments, buf.Duration())
}

func TestUniformClipCollapsesToSingleSegment(t *testing.T) {
	buf := testsupport.ConstantBuffer(8000, 5, 0.4)
	segments := energy.Segment(buf)
	if len(segments) != 1 {
		t.Fatalf("expected one segment for uniform energy, got %d", len(segments))
	}
	checkCoverage(t, segments, buf.Duration())
}

func TestRisingEnergyProducesOrderedIntensities(t *testing.T) {
	// Nine one-second windows with strictly increasing per-window level.
	rate := 8000
	samples := make([]float64, rate*9)
	for w := 0; w < 9; w++ {
		level := 0.1 * float64(w+1)
		for i := 0; i < rate; i++ {
			samples[w*rate+i] = level
		}
	}
	buf := &media.SampleBuffer{Channels: [][]float64{samples}, SampleRate: rate}

	segments := energy.Segment(buf)
	checkCoverage(t, segments, buf.Duration())
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segments), segments)
	}
	want := []analysis.Intensity{analysis.IntensityLow, analysis.IntensityMedium, analysis.IntensityHigh}
	for i, intensity := range want {
		if segments[i].Intensity != intensity {
			t.Fatalf("segment %d: expected %s, got %s", i, intensity, segments[i].Intensity)
		}
	}
}

func TestPartialFinalWindowIsCovered(t *testing.T) {
	rate := 8000
	samples := make([]float64, rate*3+rate/2) // 3.5 seconds
	for i := range samples {
		samples[i] = 0.2
	}
	buf := &media.SampleBuffer{Channels: [][]float64{samples}, SampleRate: rate}

	segments := energy.Segment(buf)
	checkCoverage(t, segments, 3.5)
}

func TestAlternatingEnergyDoesNotMergeAcrossLevels(t *testing.T) {
	rate := 8000
	samples := make([]float64, rate*6)
	for w := 0; w < 6; w++ {
		level := 0.05
		if w%2 == 1 {
			level = 0.8
		}
		for i := 0; i < rate; i++ {
			samples[w*rate+i] = level
		}
	}
	buf := &media.SampleBuffer{Channels: [][]float64{samples}, SampleRate: rate}

	segments := energy.Segment(buf)
	checkCoverage(t, segments, buf.Duration())
	if len(segments) != 6 {
		t.Fatalf("expected 6 alternating segments, got %d", len(segments))
	}
}
