package visual_test

import (
	"math"
	"testing"

	"cadence/internal/analysis"
	"cadence/internal/media"
	"cadence/internal/testsupport"
	"cadence/internal/visual"
)

func TestIdenticalFramesAreStatic(t *testing.T) {
	a := testsupport.SolidFrame(16, 16, 200, 100, 50)
	b := testsupport.SolidFrame(16, 16, 200, 100, 50)
	metrics := visual.Analyze([]*media.Frame{a, b})
	if metrics.MotionLevel != analysis.MotionStatic {
		t.Fatalf("identical frames must be static, got %s", metrics.MotionLevel)
	}
}

func TestSingleFrameIsStatic(t *testing.T) {
	metrics := visual.Analyze([]*media.Frame{testsupport.SolidFrame(8, 8, 255, 255, 255)})
	if metrics.MotionLevel != analysis.MotionStatic {
		t.Fatalf("a single sampled frame must be static, got %s", metrics.MotionLevel)
	}
}

func TestMotionScoreRegressionScenario(t *testing.T) {
	// Black 10x10 against uniform (31,31,31): the documented normalization
	// yields ~0.0303 and a medium classification.
	black := testsupport.SolidFrame(10, 10, 0, 0, 0)
	gray := testsupport.SolidFrame(10, 10, 31, 31, 31)

	score := visual.MotionScore(black, gray)
	if math.Abs(score-0.0303) > 0.0005 {
		t.Fatalf("expected score near 0.0303, got %f", score)
	}

	metrics := visual.Analyze([]*media.Frame{black, gray})
	if metrics.MotionLevel != analysis.MotionMedium {
		t.Fatalf("expected medium motion, got %s", metrics.MotionLevel)
	}
}

func TestFullSwingMotionIsHigh(t *testing.T) {
	black := testsupport.SolidFrame(10, 10, 0, 0, 0)
	white := testsupport.SolidFrame(10, 10, 255, 255, 255)
	metrics := visual.Analyze([]*media.Frame{black, white})
	if metrics.MotionLevel != analysis.MotionHigh {
		t.Fatalf("expected high motion, got %s", metrics.MotionLevel)
	}
}

func TestAverageBrightness(t *testing.T) {
	dark := testsupport.SolidFrame(8, 8, 0, 0, 0)
	bright := testsupport.SolidFrame(8, 8, 255, 255, 255)
	metrics := visual.Analyze([]*media.Frame{dark, bright})
	if math.Abs(metrics.AvgBrightness-0.5) > 1e-6 {
		t.Fatalf("expected brightness 0.5, got %f", metrics.AvgBrightness)
	}
}

func TestAverageBrightnessIgnoresEmptyFrames(t *testing.T) {
	empty := media.NewFrame(0, 0)
	bright := testsupport.SolidFrame(8, 8, 255, 255, 255)
	metrics := visual.Analyze([]*media.Frame{empty, bright})
	if math.Abs(metrics.AvgBrightness-1.0) > 1e-6 {
		t.Fatalf("zero-pixel frames must not dilute brightness, got %f", metrics.AvgBrightness)
	}
}

func TestComplexityOnSolidFrameIsZero(t *testing.T) {
	metrics := visual.Analyze([]*media.Frame{testsupport.SolidFrame(16, 16, 120, 120, 120)})
	if metrics.VisualComplexity != 0 {
		t.Fatalf("solid frame has no edges, got complexity %f", metrics.VisualComplexity)
	}
}

func TestComplexityDetectsHardEdge(t *testing.T) {
	// Left half black, right half white: a strong vertical edge.
	frame := media.NewFrame(16, 16)
	for y := 0; y < 16; y++ {
		for x := 8; x < 16; x++ {
			offset := (y*16 + x) * 4
			frame.Pix[offset] = 255
			frame.Pix[offset+1] = 255
			frame.Pix[offset+2] = 255
		}
	}
	metrics := visual.Analyze([]*media.Frame{frame})
	if metrics.VisualComplexity <= 0 {
		t.Fatal("expected nonzero complexity for a hard edge")
	}
	if metrics.VisualComplexity > 1 {
		t.Fatalf("complexity must stay within [0,1], got %f", metrics.VisualComplexity)
	}
}

func TestSampleTimes(t *testing.T) {
	times := visual.SampleTimes(100, nil)
	want := []float64{20, 50, 80}
	if len(times) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(times))
	}
	for i := range want {
		if math.Abs(times[i]-want[i]) > 1e-9 {
			t.Fatalf("sample %d: expected %f, got %f", i, want[i], times[i])
		}
	}
}

func TestSampleTimesCollapseForShortClips(t *testing.T) {
	times := visual.SampleTimes(1.0, nil)
	if len(times) > 2 {
		t.Fatalf("short clips should yield 1-2 samples, got %d", len(times))
	}
	if len(times) == 0 {
		t.Fatal("expected at least one sample")
	}
	if visual.SampleTimes(0, nil) != nil {
		t.Fatal("expected no samples for zero duration")
	}
}
