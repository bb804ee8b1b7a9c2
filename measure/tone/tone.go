package tone

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-pvshift/dsp/core"
	"github.com/cwbudde/algo-pvshift/dsp/window"
)

// minLength is the shortest signal that yields a usable spectrum.
const minLength = 8

var (
	// ErrShortSignal reports a signal too short to analyze.
	ErrShortSignal = errors.New("tone: signal too short")
	// ErrSampleRate reports a non-positive or non-finite sample rate.
	ErrSampleRate = errors.New("tone: sample rate must be positive and finite")
	// ErrSilent reports a signal without spectral energy.
	ErrSilent = errors.New("tone: signal is silent")
)

// Spectrum returns the magnitude spectrum of the Hann-windowed signal, bins
// 0 through len(signal)/2. The DC offset is removed before windowing.
func Spectrum(signal []float64) ([]float64, error) {
	if len(signal) < minLength {
		return nil, fmt.Errorf("%w: %d samples, need %d", ErrShortSignal, len(signal), minLength)
	}

	win, err := window.Hann(len(signal), window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("tone: %w", err)
	}

	dc := f64.Sum(signal) / float64(len(signal))

	seq := make([]float64, len(signal))
	for i, v := range signal {
		seq[i] = (v - dc) * win[i]
	}

	coeffs := fourier.NewFFT(len(seq)).Coefficients(nil, seq)

	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = cmplx.Abs(c)
	}

	return mags, nil
}

// PeakBin returns the fractional bin index of the strongest component in
// mags, ignoring DC.
func PeakBin(mags []float64) (float64, error) {
	if len(mags) < 3 {
		return 0, fmt.Errorf("%w: %d bins", ErrShortSignal, len(mags))
	}

	best := 1
	for i := 2; i < len(mags); i++ {
		if mags[i] > mags[best] {
			best = i
		}
	}

	if mags[best] <= 0 {
		return 0, ErrSilent
	}

	if best == len(mags)-1 {
		return float64(best), nil
	}

	return float64(best) + parabolicOffset(mags[best-1], mags[best], mags[best+1]), nil
}

// DominantFrequency returns the frequency in Hz of the strongest component
// of signal sampled at sampleRate.
func DominantFrequency(signal []float64, sampleRate float64) (float64, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("%w: %v", ErrSampleRate, sampleRate)
	}

	mags, err := Spectrum(signal)
	if err != nil {
		return 0, err
	}

	bin, err := PeakBin(mags)
	if err != nil {
		return 0, err
	}

	return bin * sampleRate / float64(len(signal)), nil
}

// parabolicOffset fits a parabola through three log-magnitudes and returns
// the vertex position relative to the centre, in [-0.5, 0.5].
func parabolicOffset(left, centre, right float64) float64 {
	const floor = 1e-300

	a := math.Log(math.Max(left, floor))
	b := math.Log(math.Max(centre, floor))
	c := math.Log(math.Max(right, floor))

	den := a - 2*b + c
	if den == 0 {
		return 0
	}

	return core.Clamp(0.5*(a-c)/den, -0.5, 0.5)
}
