// Package window generates the raised-cosine analysis/synthesis window used
// by the phase-vocoder pipeline and reports its overlap-add properties.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Hann returns size Hann window coefficients.
//
// The default symmetric form is 0.5*(1 - cos(2*pi*i/(size-1))), so the first
// and last coefficients are zero. [WithPeriodic] divides by size instead.
func Hann(size int, opts ...Option) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}

	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, size)
	for i := range out {
		x := samplePosition(i, size, cfg.periodic)
		out[i] = 0.5 * (1 - math.Cos(2*math.Pi*x))
	}

	return out, nil
}

// Apply writes src multiplied by coeffs into dst. All slices must have the
// same length; dst may alias src.
func Apply(dst, src, coeffs []float64) error {
	if len(src) != len(coeffs) || len(dst) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlock(dst, src, coeffs)

	return nil
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
