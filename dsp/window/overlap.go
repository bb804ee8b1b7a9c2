package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// OverlapProfile returns the overlap-add envelope of a window used for both
// analysis and synthesis at the given hop.
//
// Element j is the sum of w[j+k*hop]^2 over every k that stays inside the
// window. A constant profile means the window/hop pair reconstructs its input
// exactly after scaling by 1/profile.
func OverlapProfile(coeffs []float64, hop int) ([]float64, error) {
	if err := validateHop(len(coeffs), hop); err != nil {
		return nil, err
	}

	squared := make([]float64, len(coeffs))
	vecmath.MulBlock(squared, coeffs, coeffs)

	profile := make([]float64, hop)
	for start := 0; start < len(squared); start += hop {
		seg := squared[start:min(start+hop, len(squared))]
		vecmath.AddBlockInPlace(profile[:len(seg)], seg)
	}

	return profile, nil
}

// OverlapGain returns the mean of [OverlapProfile]: the factor by which a
// windowed overlap-add chain amplifies its input.
func OverlapGain(coeffs []float64, hop int) (float64, error) {
	profile, err := OverlapProfile(coeffs, hop)
	if err != nil {
		return 0, err
	}

	return mean(profile), nil
}

// OverlapRipple returns the largest deviation of the overlap-add envelope
// from its mean, relative to the mean. Zero means perfect reconstruction.
func OverlapRipple(coeffs []float64, hop int) (float64, error) {
	profile, err := OverlapProfile(coeffs, hop)
	if err != nil {
		return 0, err
	}

	m := mean(profile)
	if m == 0 {
		return 0, errZeroOverlap
	}

	worst := 0.0
	for _, v := range profile {
		worst = math.Max(worst, math.Abs(v-m))
	}

	return worst / m, nil
}

func mean(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v
	}

	return sum / float64(len(x))
}
