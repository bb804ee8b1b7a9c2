// Package core holds small numeric helpers shared by the pitch-shifting
// tools: clamping, level conversion and integer PCM scaling.
package core

import "math"

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// PCMFullScale returns the largest positive sample value of signed integer
// PCM at bitDepth, or 0 for depths other than 16, 24 and 32.
func PCMFullScale(bitDepth int) float64 {
	switch bitDepth {
	case 16, 24, 32:
		return float64(int64(1)<<(bitDepth-1) - 1)
	default:
		return 0
	}
}

// ToPCM converts a float sample to integer PCM at fullScale, clamping it to
// [-1, 1] first. The result is truncated toward zero.
func ToPCM(sample float32, fullScale float64) int {
	return int(Clamp(float64(sample), -1, 1) * fullScale)
}
