package pitch

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pvshift/dsp/fft"
	"github.com/cwbudde/algo-pvshift/dsp/pvoc"
)

// overlapFactor is the number of frame slots per channel; hop = fftSize/overlapFactor.
const overlapFactor = 4

// FrameScheduler turns a continuous mono sample stream into four overlapping
// analysis frames offset by one hop each, pitch-shifts every frame as it
// completes and rebuilds the output by windowed overlap-add.
//
// For every input sample each slot first flushes its stored (already
// resynthesised) sample at the current offset into the output, weighted by
// the window, then stores the new windowed input sample in its place. A slot
// whose offset reaches fftSize runs transform, vocoder and inverse transform
// before anything else is written to it. The output lags the input by
// exactly fftSize samples.
//
// FrameScheduler is not safe for concurrent use.
type FrameScheduler struct {
	fftSize int
	hop     int
	gain    float64

	window    []float64
	transform fft.Transformer
	vocoder   *pvoc.Channel

	frames  [overlapFactor][]float64
	offsets [overlapFactor]int

	spectrum []complex128
	input    []float64
	acc      []float64
	scratch  []float64
}

// NewFrameScheduler builds a scheduler around vocoder, whose hop must be a
// quarter of its FFT size. win is shared read-only and must match the FFT
// size; transform may also be shared between schedulers. gain scales the
// overlap-add sum.
func NewFrameScheduler(win []float64, transform fft.Transformer, vocoder *pvoc.Channel, gain float64) (*FrameScheduler, error) {
	if vocoder == nil || transform == nil {
		return nil, fmt.Errorf("pitch: frame scheduler needs a vocoder and a transform")
	}

	fftSize := vocoder.FFTSize()
	hop := vocoder.Hop()

	if hop*overlapFactor != fftSize {
		return nil, fmt.Errorf("pitch: hop must be fft size / %d: hop %d, fft size %d", overlapFactor, hop, fftSize)
	}

	if len(win) != fftSize {
		return nil, fmt.Errorf("pitch: window length %d does not match fft size %d", len(win), fftSize)
	}

	s := &FrameScheduler{
		fftSize:   fftSize,
		hop:       hop,
		gain:      gain,
		window:    win,
		transform: transform,
		vocoder:   vocoder,
		spectrum:  make([]complex128, fftSize),
		input:     make([]float64, hop),
		acc:       make([]float64, hop),
		scratch:   make([]float64, hop),
	}

	for k := range s.frames {
		s.frames[k] = make([]float64, fftSize)
	}

	s.resetOffsets()

	return s, nil
}

// FFTSize returns the frame length in samples.
func (s *FrameScheduler) FFTSize() int { return s.fftSize }

// Hop returns the distance between successive frames in samples.
func (s *FrameScheduler) Hop() int { return s.hop }

// Latency returns the delay between input and output in samples.
func (s *FrameScheduler) Latency() int { return s.fftSize }

// Reset clears all frames and phase history and rewinds the slot offsets.
func (s *FrameScheduler) Reset() {
	for k := range s.frames {
		clear(s.frames[k])
	}

	s.resetOffsets()
	s.vocoder.Reset()
}

// Process consumes in and writes the same number of samples to out, shifting
// pitch by ratio. in and out may be the same slice.
func (s *FrameScheduler) Process(in, out []float32, ratio float64) error {
	if len(in) != len(out) {
		return fmt.Errorf("%w: input %d samples, output %d", ErrChannelMismatch, len(in), len(out))
	}

	for pos := 0; pos < len(in); {
		// All slot offsets are congruent modulo hop, so slot 0 tells how far
		// the next frame boundary is.
		n := min(s.hop-s.offsets[0]%s.hop, len(in)-pos)

		input := s.input[:n]
		for i, v := range in[pos : pos+n] {
			input[i] = float64(v)
		}

		acc := s.acc[:n]
		clear(acc)

		scratch := s.scratch[:n]
		for k := range s.frames {
			off := s.offsets[k]
			frame := s.frames[k][off : off+n]
			win := s.window[off : off+n]

			vecmath.MulBlock(scratch, frame, win)
			vecmath.AddBlockInPlace(acc, scratch)
			vecmath.MulBlock(frame, input, win)

			s.offsets[k] = off + n
		}

		vecmath.ScaleBlock(acc, acc, s.gain)

		for i, v := range acc {
			out[pos+i] = float32(v)
		}

		for k := range s.frames {
			if s.offsets[k] < s.fftSize {
				continue
			}

			if err := s.processFrame(k, ratio); err != nil {
				return err
			}

			s.offsets[k] = 0
		}

		pos += n
	}

	return nil
}

func (s *FrameScheduler) processFrame(k int, ratio float64) error {
	frame := s.frames[k]
	for i, v := range frame {
		s.spectrum[i] = complex(v, 0)
	}

	if err := s.transform.Forward(s.spectrum); err != nil {
		return fmt.Errorf("pitch: forward transform: %w", err)
	}

	s.vocoder.Shift(s.spectrum, ratio)

	if err := s.transform.Inverse(s.spectrum); err != nil {
		return fmt.Errorf("pitch: inverse transform: %w", err)
	}

	for i, v := range s.spectrum {
		frame[i] = real(v)
	}

	return nil
}

// resetOffsets staggers the slots one hop apart: slot k completes its first
// frame after k*hop samples, slot 0 after a full frame.
func (s *FrameScheduler) resetOffsets() {
	for k := range s.offsets {
		s.offsets[k] = (s.fftSize - k*s.hop) % s.fftSize
	}
}
