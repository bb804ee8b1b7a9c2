// Package level meters float32 audio blocks: DC, RMS, peak, crest factor
// and the number of samples at or beyond full scale.
package level

import (
	"math"

	"github.com/tphakala/simd/f32"

	"github.com/cwbudde/algo-pvshift/dsp/core"
)

// Stats holds level statistics of everything a [Meter] has seen.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max |x|
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS (linear)
	CrestFactor_dB float64
	Clipped        int // samples with |x| >= 1
}

// Meter accumulates level statistics across blocks. The zero value is ready
// to use.
type Meter struct {
	n       int
	sum     float64
	sumSq   float64
	peak    float64
	clipped int
}

// Update adds a block of samples.
func (m *Meter) Update(samples []float32) {
	if len(samples) == 0 {
		return
	}

	m.n += len(samples)
	m.sum += float64(f32.Sum(samples))
	m.sumSq += float64(f32.DotProductUnsafe(samples, samples))

	for _, v := range samples {
		a := math.Abs(float64(v))
		if a > m.peak {
			m.peak = a
		}

		if a >= 1 {
			m.clipped++
		}
	}
}

// Result returns the statistics accumulated so far.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		return Stats{
			RMS_dB:         math.Inf(-1),
			Peak_dB:        math.Inf(-1),
			CrestFactor_dB: math.Inf(-1),
		}
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq / nf)

	var crest, crestdB float64
	if rms > 0 {
		crest = m.peak / rms
		crestdB = core.LinearToDB(crest)
	}

	return Stats{
		Length:         m.n,
		DC:             m.sum / nf,
		RMS:            rms,
		RMS_dB:         core.LinearToDB(rms),
		Peak:           m.peak,
		Peak_dB:        core.LinearToDB(m.peak),
		CrestFactor:    crest,
		CrestFactor_dB: crestdB,
		Clipped:        m.clipped,
	}
}

// Reset clears the meter.
func (m *Meter) Reset() {
	*m = Meter{}
}
