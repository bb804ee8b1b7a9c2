package param

import (
	"errors"
	"fmt"
	"math"
)

// ErrCoefficient reports a smoothing coefficient outside (0, 1].
var ErrCoefficient = errors.New("param: smoothing coefficient must be in (0, 1]")

// DefaultCoefficient is the one-pole follower coefficient applied per block.
const DefaultCoefficient = 0.1

// Smoother follows a pitch control value (in octaves) with a one-pole filter
// updated once per block and exposes the resulting frequency ratio 2^follower.
type Smoother struct {
	coefficient float64
	follower    float64
	ratio       float64
}

// NewSmoother creates a smoother with the given per-block coefficient.
// coefficient must be in (0, 1]; 1 disables smoothing.
func NewSmoother(coefficient float64) (*Smoother, error) {
	if math.IsNaN(coefficient) || coefficient <= 0 || coefficient > 1 {
		return nil, fmt.Errorf("%w: %f", ErrCoefficient, coefficient)
	}

	return &Smoother{coefficient: coefficient, ratio: 1}, nil
}

// Coefficient returns the per-block follower coefficient.
func (s *Smoother) Coefficient() float64 { return s.coefficient }

// Follower returns the current smoothed control value.
func (s *Smoother) Follower() float64 { return s.follower }

// Ratio returns 2^Follower().
func (s *Smoother) Ratio() float64 { return s.ratio }

// Update moves the follower one block toward target and returns the new ratio.
func (s *Smoother) Update(target float64) float64 {
	s.follower += s.coefficient * (target - s.follower)
	s.ratio = math.Exp2(s.follower)

	return s.ratio
}

// Snap sets the follower to value without smoothing.
func (s *Smoother) Snap(value float64) {
	s.follower = value
	s.ratio = math.Exp2(value)
}

// Reset returns the follower to unity (control 0, ratio 1).
func (s *Smoother) Reset() {
	s.Snap(0)
}

// BlocksToConverge returns how many Update calls a smoother with the given
// coefficient needs before an initial distance from its target decays to at
// most tolerance. It returns 0 when no update is needed and -1 for invalid
// arguments.
func BlocksToConverge(coefficient, distance, tolerance float64) int {
	distance = math.Abs(distance)
	if tolerance <= 0 || coefficient <= 0 || coefficient > 1 {
		return -1
	}

	if distance <= tolerance {
		return 0
	}

	if coefficient == 1 {
		return 1
	}

	return int(math.Ceil(math.Log(tolerance/distance) / math.Log(1-coefficient)))
}
