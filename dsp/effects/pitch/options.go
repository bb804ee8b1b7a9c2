package pitch

import (
	"github.com/cwbudde/algo-pvshift/dsp/param"
	"github.com/cwbudde/algo-pvshift/dsp/pvoc"
)

const minFFTSize = 4

// Option configures an [Engine].
type Option func(*config)

type config struct {
	fftSize     int
	planned     bool
	coefficient float64
	raw         bool
	policy      pvoc.CollisionPolicy
	pitch       float64
}

func defaultConfig() config {
	return config{
		coefficient: param.DefaultCoefficient,
		policy:      pvoc.CollisionLastWins,
	}
}

// WithFFTSize fixes the FFT size up front. The engine then accepts blocks of
// any length instead of deriving the size from the first block.
func WithFFTSize(size int) Option {
	return func(c *config) {
		c.fftSize = size
	}
}

// WithPlannedFFT runs the transforms through a precomputed algo-fft plan
// instead of the built-in radix-2 kernel.
func WithPlannedFFT() Option {
	return func(c *config) {
		c.planned = true
	}
}

// WithSmoothing sets the per-block pitch follower coefficient in (0, 1].
func WithSmoothing(coefficient float64) Option {
	return func(c *config) {
		c.coefficient = coefficient
	}
}

// WithRawOverlapAdd disables output normalization, leaving the overlap-add
// gain of the squared Hann window (about 1.5) in the output.
func WithRawOverlapAdd() Option {
	return func(c *config) {
		c.raw = true
	}
}

// WithCollisionPolicy selects how remapped bins that collide keep their frequency.
func WithCollisionPolicy(p pvoc.CollisionPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithPitchControl sets the initial pitch control in octaves, applied without
// smoothing.
func WithPitchControl(octaves float64) Option {
	return func(c *config) {
		c.pitch = octaves
	}
}
