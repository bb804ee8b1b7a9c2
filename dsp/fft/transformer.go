package fft

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ErrSize is returned when a transform is asked to run on a buffer whose
// length is not the size it was built for.
var ErrSize = errors.New("fft: buffer length does not match transform size")

// Transformer runs in-place forward and inverse complex transforms.
//
// Inverse must include the 1/N scaling so that Inverse(Forward(x)) == x.
type Transformer interface {
	Forward(buf []complex128) error
	Inverse(buf []complex128) error
}

// Radix2 is the built-in [Transformer]. It holds no state and accepts any
// power-of-two length.
type Radix2 struct{}

// Forward runs [Forward] on buf.
func (Radix2) Forward(buf []complex128) error {
	Forward(buf)
	return nil
}

// Inverse runs [Inverse] on buf.
func (Radix2) Inverse(buf []complex128) error {
	Inverse(buf)
	return nil
}

// Planned is a [Transformer] backed by a precomputed algo-fft plan of a
// fixed size.
type Planned struct {
	size int
	plan *algofft.Plan[complex128]
}

// NewPlanned creates a planned transform for buffers of length size.
func NewPlanned(size int) (*Planned, error) {
	if !IsPowerOf2(size) {
		return nil, fmt.Errorf("fft: planned size must be a power of two: %d", size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("fft: failed to create plan: %w", err)
	}

	return &Planned{size: size, plan: plan}, nil
}

// Size returns the transform length the plan was built for.
func (p *Planned) Size() int { return p.size }

// Forward transforms buf in place.
func (p *Planned) Forward(buf []complex128) error {
	if len(buf) != p.size {
		return fmt.Errorf("%w: got %d, want %d", ErrSize, len(buf), p.size)
	}

	if err := p.plan.Forward(buf, buf); err != nil {
		return fmt.Errorf("fft: forward failed: %w", err)
	}

	return nil
}

// Inverse transforms buf back to the time domain in place.
func (p *Planned) Inverse(buf []complex128) error {
	if len(buf) != p.size {
		return fmt.Errorf("%w: got %d, want %d", ErrSize, len(buf), p.size)
	}

	if err := p.plan.Inverse(buf, buf); err != nil {
		return fmt.Errorf("fft: inverse failed: %w", err)
	}

	return nil
}

var (
	_ Transformer = Radix2{}
	_ Transformer = (*Planned)(nil)
)
