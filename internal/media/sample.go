package media

// SampleBuffer holds decoded per-channel floating-point audio samples.
// It is owned by the analysis task for its lifetime and released when the
// task resolves.
type SampleBuffer struct {
	Channels   [][]float64
	SampleRate int
}

// NumSamples returns the per-channel sample count.
func (b *SampleBuffer) NumSamples() int {
	if b == nil || len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the buffer length in seconds.
func (b *SampleBuffer) Duration() float64 {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return float64(b.NumSamples()) / float64(b.SampleRate)
}

// Mono downmixes all channels into a single averaged channel. A one-channel
// buffer returns its channel directly without copying.
func (b *SampleBuffer) Mono() []float64 {
	if b == nil || len(b.Channels) == 0 {
		return nil
	}
	if len(b.Channels) == 1 {
		return b.Channels[0]
	}
	n := b.NumSamples()
	mono := make([]float64, n)
	scale := 1.0 / float64(len(b.Channels))
	for _, channel := range b.Channels {
		for i := 0; i < n && i < len(channel); i++ {
			mono[i] += channel[i] * scale
		}
	}
	return mono
}
