package pvoc

import (
	"fmt"
	"math"
	"math/cmplx"
)

const minFFTSize = 4

// CollisionPolicy selects which source bin's frequency a target bin keeps
// when several source bins round to it. Magnitudes are always summed.
type CollisionPolicy int

const (
	// CollisionLastWins keeps the frequency of the highest source bin.
	CollisionLastWins CollisionPolicy = iota
	// CollisionLoudestWins keeps the frequency of the strongest source bin.
	CollisionLoudestWins
)

// Option configures a [Channel].
type Option func(*Channel)

// WithCollisionPolicy selects the remap collision policy.
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(c *Channel) {
		c.policy = p
	}
}

// Channel holds the phase-vocoder state of one audio channel.
//
// Phase history persists across calls; the analysis and synthesis arrays are
// recomputed on every hop. Channel is not safe for concurrent use.
type Channel struct {
	fftSize int
	hop     int
	policy  CollisionPolicy

	// expected phase advance of bin 1 over one hop
	binAdvance float64
	// converts a wrapped phase deviation into a bin offset
	deviationToBins float64

	lastInputPhase  []float64
	lastOutputPhase []float64

	analysisFrequency  []float64
	analysisMagnitude  []float64
	synthesisFrequency []float64
	synthesisMagnitude []float64
	synthesisPeak      []float64
}

// NewChannel allocates state for frames of fftSize samples advanced by hop.
func NewChannel(fftSize, hop int, opts ...Option) (*Channel, error) {
	if fftSize < minFFTSize || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("pvoc: fft size must be a power of two >= %d: %d", minFFTSize, fftSize)
	}

	if hop <= 0 || hop >= fftSize {
		return nil, fmt.Errorf("pvoc: hop must be in [1, %d): %d", fftSize, hop)
	}

	bins := fftSize/2 + 1
	c := &Channel{
		fftSize:            fftSize,
		hop:                hop,
		binAdvance:         twoPi * float64(hop) / float64(fftSize),
		deviationToBins:    float64(fftSize) / float64(hop) / twoPi,
		lastInputPhase:     make([]float64, bins),
		lastOutputPhase:    make([]float64, bins),
		analysisFrequency:  make([]float64, bins),
		analysisMagnitude:  make([]float64, bins),
		synthesisFrequency: make([]float64, bins),
		synthesisMagnitude: make([]float64, bins),
		synthesisPeak:      make([]float64, bins),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

// FFTSize returns the frame length the channel was built for.
func (c *Channel) FFTSize() int { return c.fftSize }

// Hop returns the analysis hop in samples.
func (c *Channel) Hop() int { return c.hop }

// Policy returns the remap collision policy.
func (c *Channel) Policy() CollisionPolicy { return c.policy }

// Reset clears the input and output phase history.
func (c *Channel) Reset() {
	clear(c.lastInputPhase)
	clear(c.lastOutputPhase)
	clear(c.analysisFrequency)
	clear(c.analysisMagnitude)
	clear(c.synthesisFrequency)
	clear(c.synthesisMagnitude)
}

// Shift runs Analyze, RemapBins and Synthesize on spectrum in place.
func (c *Channel) Shift(spectrum []complex128, ratio float64) {
	c.Analyze(spectrum)
	c.RemapBins(ratio)
	c.Synthesize(spectrum)
}

// Analyze estimates magnitude and true (fractional) bin frequency for bins
// [0, fftSize/2) of spectrum and advances the input phase history.
//
// spectrum must have length fftSize.
func (c *Channel) Analyze(spectrum []complex128) {
	half := c.fftSize / 2
	_ = spectrum[c.fftSize-1]

	for i := range half {
		magnitude := cmplx.Abs(spectrum[i])
		phase := cmplx.Phase(spectrum[i])

		deviation := WrapPhase(phase - c.lastInputPhase[i] - float64(i)*c.binAdvance)

		c.analysisFrequency[i] = float64(i) + deviation*c.deviationToBins
		c.analysisMagnitude[i] = magnitude
		c.lastInputPhase[i] = phase
	}
}

// RemapBins moves every analysed bin i to round(i*ratio), scaling its
// frequency by ratio. Targets outside [0, fftSize/2] are dropped.
func (c *Channel) RemapBins(ratio float64) {
	half := c.fftSize / 2

	clear(c.synthesisMagnitude)
	clear(c.synthesisFrequency)

	if c.policy == CollisionLoudestWins {
		for i := range c.synthesisPeak {
			c.synthesisPeak[i] = -1
		}
	}

	for i := range half {
		target := int(math.Floor(float64(i)*ratio + 0.5))
		if target < 0 || target > half {
			continue
		}

		magnitude := c.analysisMagnitude[i]
		c.synthesisMagnitude[target] += magnitude

		if c.policy == CollisionLoudestWins {
			if magnitude <= c.synthesisPeak[target] {
				continue
			}

			c.synthesisPeak[target] = magnitude
		}

		c.synthesisFrequency[target] = c.analysisFrequency[i] * ratio
	}
}

// Synthesize rebuilds bins [0, fftSize/2) of spectrum from the remapped
// magnitudes and frequencies and mirrors them into the upper half so the
// inverse transform is real. The Nyquist bin is left untouched.
func (c *Channel) Synthesize(spectrum []complex128) {
	n := c.fftSize
	half := n / 2
	_ = spectrum[n-1]

	for i := range half {
		deviation := c.synthesisFrequency[i] - float64(i)
		advance := deviation/c.deviationToBins + float64(i)*c.binAdvance
		phase := WrapPhase(c.lastOutputPhase[i] + advance)

		sin, cos := math.Sincos(phase)
		magnitude := c.synthesisMagnitude[i]
		spectrum[i] = complex(magnitude*cos, magnitude*sin)

		if i > 0 {
			spectrum[n-i] = complex(magnitude*cos, -magnitude*sin)
		}

		c.lastOutputPhase[i] = phase
	}
}
