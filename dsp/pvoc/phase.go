package pvoc

import "math"

const twoPi = 2 * math.Pi

// WrapPhase folds x into (-pi, pi].
func WrapPhase(x float64) float64 {
	var w float64
	if x >= 0 {
		w = math.Mod(x+math.Pi, twoPi) - math.Pi
	} else {
		w = math.Mod(x-math.Pi, -twoPi) + math.Pi
	}

	if w <= -math.Pi {
		w += twoPi
	}

	return w
}
