package tempo_test

import (
	"testing"

	"cadence/internal/tempo"
	"cadence/internal/testsupport"
)

func TestDetectClickTrack(t *testing.T) {
	// 10 seconds of low-frequency clicks at 120 BPM.
	buf := testsupport.ClickTrack(22050, 10, 120)

	bpm, beats := tempo.Detect(buf)
	if bpm < 115 || bpm > 125 {
		t.Fatalf("expected tempo near 120, got %d", bpm)
	}
	if len(beats) < 10 {
		t.Fatalf("expected at least 10 beats for 10s at 2 Hz, got %d", len(beats))
	}
	prev := -1.0
	for i, beat := range beats {
		if beat.Timestamp <= prev {
			t.Fatalf("beat %d out of order: %f after %f", i, beat.Timestamp, prev)
		}
		if beat.Confidence != 1.0 {
			t.Fatalf("beat %d confidence %f, want fixed 1.0", i, beat.Confidence)
		}
		prev = beat.Timestamp
	}
}

func TestDetectSilenceFallsBack(t *testing.T) {
	buf := testsupport.SilentBuffer(22050, 5)
	bpm, beats := tempo.Detect(buf)
	if bpm != 120 {
		t.Fatalf("expected fallback tempo 120, got %d", bpm)
	}
	if len(beats) != 0 {
		t.Fatalf("expected no beats for silence, got %d", len(beats))
	}
}

func TestDetectTooFewOnsetsFallsBack(t *testing.T) {
	// Two clicks cannot anchor a tempo estimate.
	buf := testsupport.ClickTrack(22050, 1, 120)
	bpm, beats := tempo.Detect(buf)
	if bpm != 120 {
		t.Fatalf("expected fallback tempo 120, got %d", bpm)
	}
	if len(beats) != 0 {
		t.Fatalf("expected no beats, got %d", len(beats))
	}
}

func TestDetectNilBuffer(t *testing.T) {
	bpm, beats := tempo.Detect(nil)
	if bpm != 120 || beats != nil {
		t.Fatalf("expected fallback for nil buffer, got %d / %v", bpm, beats)
	}
}

func TestDetectBPMAlwaysInRange(t *testing.T) {
	for _, clickBPM := range []float64{40, 60, 120, 200, 400} {
		buf := testsupport.ClickTrack(22050, 12, clickBPM)
		bpm, _ := tempo.Detect(buf)
		if bpm < 70 || bpm > 180 {
			t.Fatalf("click track at %.0f BPM produced out-of-range tempo %d", clickBPM, bpm)
		}
	}
}
