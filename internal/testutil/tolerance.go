package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireFinite32 fails t if any float32 element is NaN or Inf.
func RequireFinite32(t *testing.T, data []float32) {
	t.Helper()
	for i, v := range data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}

// RequireDelayed fails t if got does not reproduce want delayed by delay
// samples within eps, checked over got[from:].
func RequireDelayed(t *testing.T, got, want []float64, delay, from int, eps float64) {
	t.Helper()
	for i := max(from, delay); i < len(got) && i-delay < len(want); i++ {
		if d := math.Abs(got[i] - want[i-delay]); d > eps {
			t.Fatalf("index %d: got %v, want %v (input index %d, diff %v > eps %v)",
				i, got[i], want[i-delay], i-delay, d, eps)
		}
	}
}
