// Package tempo estimates a track's tempo and beat positions from band-wise
// onset detection.
package tempo

import (
	"math"

	"cadence/internal/analysis"
	"cadence/internal/media"
)

const (
	frameSize = 1024
	hopSize   = 256

	lowPassHz  = 200.0
	bandPassHz = 1500.0
	bandPassQ  = 1.0
	highPassHz = 5000.0

	weightLow  = 1.0
	weightMid  = 0.5
	weightHigh = 0.8

	// Peak picking: a candidate must beat its neighbors and the local average
	// over ~0.5 s of onset frames, scaled and offset to reject noise.
	localAverageSeconds = 0.5
	thresholdScale      = 1.2
	thresholdOffset     = 0.01

	// Tempo estimation.
	minPeaksForTempo = 4
	fallbackBPM      = 120
	minIOISeconds    = 0.1
	binTolerance     = 0.05
	minBPM           = 70.0
	maxBPM           = 180.0
)

// Detect estimates tempo and beat positions for a decoded sample buffer.
// With fewer than four usable onsets it reports the fallback tempo and no
// beats rather than guessing.
func Detect(buf *media.SampleBuffer) (int, []analysis.Beat) {
	if buf == nil || buf.NumSamples() == 0 || buf.SampleRate <= 0 {
		return fallbackBPM, nil
	}
	mono := buf.Mono()

	low := newLowPass(buf.SampleRate, lowPassHz, math.Sqrt2/2).apply(mono)
	mid := newBandPass(buf.SampleRate, bandPassHz, bandPassQ).apply(mono)
	high := newHighPass(buf.SampleRate, highPassHz, math.Sqrt2/2).apply(mono)

	combined := combineODFs(
		onsetFunction(envelope(low)),
		onsetFunction(envelope(mid)),
		onsetFunction(envelope(high)),
	)

	framesPerWindow := int(localAverageSeconds * float64(buf.SampleRate) / hopSize)
	peaks := pickPeaks(combined, framesPerWindow)

	timestamps := make([]float64, len(peaks))
	for i, frame := range peaks {
		timestamps[i] = float64(frame) * hopSize / float64(buf.SampleRate)
	}

	if len(timestamps) < minPeaksForTempo {
		return fallbackBPM, nil
	}

	beats := make([]analysis.Beat, len(timestamps))
	for i, ts := range timestamps {
		beats[i] = analysis.Beat{Timestamp: ts, Confidence: 1.0}
	}
	return estimateBPM(timestamps), beats
}

// envelope computes short-time RMS energy over fixed frames.
func envelope(samples []float64) []float64 {
	if len(samples) < frameSize {
		return nil
	}
	frames := (len(samples)-frameSize)/hopSize + 1
	env := make([]float64, frames)
	for i := 0; i < frames; i++ {
		start := i * hopSize
		var sum float64
		for _, s := range samples[start : start+frameSize] {
			sum += s * s
		}
		env[i] = math.Sqrt(sum / frameSize)
	}
	return env
}

// onsetFunction is the rectified first difference of an envelope: only energy
// increases count.
func onsetFunction(env []float64) []float64 {
	if len(env) == 0 {
		return nil
	}
	odf := make([]float64, len(env))
	for i := 1; i < len(env); i++ {
		if d := env[i] - env[i-1]; d > 0 {
			odf[i] = d
		}
	}
	return odf
}

// combineODFs mixes band onset functions with fixed weights; bass dominates
// rhythm perception.
func combineODFs(low, mid, high []float64) []float64 {
	n := len(low)
	if len(mid) < n {
		n = len(mid)
	}
	if len(high) < n {
		n = len(high)
	}
	combined := make([]float64, n)
	for i := 0; i < n; i++ {
		combined[i] = low[i]*weightLow + mid[i]*weightMid + high[i]*weightHigh
	}
	return combined
}

// pickPeaks selects local maxima exceeding an adaptive threshold computed
// over a symmetric window around each candidate.
func pickPeaks(odf []float64, framesPerWindow int) []int {
	if framesPerWindow < 1 {
		framesPerWindow = 1
	}
	half := framesPerWindow / 2
	var peaks []int
	for i := 1; i < len(odf)-1; i++ {
		if odf[i] <= odf[i-1] || odf[i] <= odf[i+1] {
			continue
		}
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= len(odf) {
			hi = len(odf) - 1
		}
		var sum float64
		for _, v := range odf[lo : hi+1] {
			sum += v
		}
		localAverage := sum / float64(hi-lo+1)
		if odf[i] > localAverage*thresholdScale+thresholdOffset {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// estimateBPM clusters instantaneous tempos from inter-onset intervals and
// octave-corrects the winning bin into the canonical range.
func estimateBPM(timestamps []float64) int {
	var tempos []float64
	for i := 1; i < len(timestamps); i++ {
		ioi := timestamps[i] - timestamps[i-1]
		if ioi <= minIOISeconds {
			continue
		}
		tempos = append(tempos, 60.0/ioi)
	}
	if len(tempos) == 0 {
		return fallbackBPM
	}

	type bin struct {
		representative float64
		sum            float64
		count          int
	}
	var bins []*bin
	for _, tempo := range tempos {
		var match *bin
		for _, b := range bins {
			if math.Abs(tempo-b.representative) <= b.representative*binTolerance {
				match = b
				break
			}
		}
		if match == nil {
			match = &bin{representative: tempo}
			bins = append(bins, match)
		}
		match.sum += tempo
		match.count++
	}

	best := bins[0]
	for _, b := range bins[1:] {
		if b.count > best.count {
			best = b
		}
	}

	bpm := best.sum / float64(best.count)
	for bpm < minBPM {
		bpm *= 2
	}
	for bpm > maxBPM {
		bpm /= 2
	}
	return int(math.Round(bpm))
}
