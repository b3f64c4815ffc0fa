package tempo

import "math"

// biquad is a direct-form-I second-order IIR section with RBJ cookbook
// coefficients, used to split the signal into rhythm-relevant bands.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	x1, x2     float64
	y1, y2     float64
}

func newLowPass(sampleRate int, freq, q float64) *biquad {
	w0 := 2 * math.Pi * freq / float64(sampleRate)
	cosw0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b1 := 1 - cosw0
	b0 := b1 / 2
	return normalize(b0, b1, b0, 1+alpha, -2*cosw0, 1-alpha)
}

func newHighPass(sampleRate int, freq, q float64) *biquad {
	w0 := 2 * math.Pi * freq / float64(sampleRate)
	cosw0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := (1 + cosw0) / 2
	return normalize(b0, -(1 + cosw0), b0, 1+alpha, -2*cosw0, 1-alpha)
}

func newBandPass(sampleRate int, freq, q float64) *biquad {
	w0 := 2 * math.Pi * freq / float64(sampleRate)
	cosw0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	// Constant-peak-gain band pass.
	return normalize(alpha, 0, -alpha, 1+alpha, -2*cosw0, 1-alpha)
}

func normalize(b0, b1, b2, a0, a1, a2 float64) *biquad {
	return &biquad{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

// apply filters src into a freshly allocated buffer of identical length.
func (f *biquad) apply(src []float64) []float64 {
	dst := make([]float64, len(src))
	for i, x := range src {
		y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
		f.x2, f.x1 = f.x1, x
		f.y2, f.y1 = f.y1, y
		dst[i] = y
	}
	return dst
}
