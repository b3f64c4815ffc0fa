package testsupport

import (
	"math"

	"cadence/internal/media"
)

// SilentBuffer returns a mono all-zero sample buffer.
func SilentBuffer(sampleRate int, seconds float64) *media.SampleBuffer {
	samples := make([]float64, int(float64(sampleRate)*seconds))
	return &media.SampleBuffer{
		Channels:   [][]float64{samples},
		SampleRate: sampleRate,
	}
}

// ConstantBuffer returns a mono buffer holding a flat DC level. Useful for
// exercising RMS-based code with a known energy.
func ConstantBuffer(sampleRate int, seconds float64, level float64) *media.SampleBuffer {
	samples := make([]float64, int(float64(sampleRate)*seconds))
	for i := range samples {
		samples[i] = level
	}
	return &media.SampleBuffer{
		Channels:   [][]float64{samples},
		SampleRate: sampleRate,
	}
}

// ClickTrack synthesizes a metronome-style signal with one percussive click
// per beat at the given tempo. Each click is a short decaying burst mixing
// low, mid, and high frequency content so it registers in every analysis
// band.
func ClickTrack(sampleRate int, seconds float64, bpm float64) *media.SampleBuffer {
	samples := make([]float64, int(float64(sampleRate)*seconds))
	beatInterval := 60.0 / bpm
	clickDuration := 0.06
	decay := 0.015

	for beat := 0.0; beat < seconds; beat += beatInterval {
		start := int(beat * float64(sampleRate))
		length := int(clickDuration * float64(sampleRate))
		for i := 0; i < length && start+i < len(samples); i++ {
			t := float64(i) / float64(sampleRate)
			envelope := 0.8 * math.Exp(-t/decay)
			tone := math.Sin(2*math.Pi*100*t) +
				math.Sin(2*math.Pi*1500*t) +
				math.Sin(2*math.Pi*6000*t)
			samples[start+i] += envelope * tone / 3
		}
	}
	return &media.SampleBuffer{
		Channels:   [][]float64{samples},
		SampleRate: sampleRate,
	}
}

// SolidFrame returns a frame filled with one opaque color.
func SolidFrame(width, height int, r, g, b uint8) *media.Frame {
	frame := media.NewFrame(width, height)
	for i := 0; i < len(frame.Pix); i += 4 {
		frame.Pix[i] = r
		frame.Pix[i+1] = g
		frame.Pix[i+2] = b
		frame.Pix[i+3] = 0xFF
	}
	return frame
}
