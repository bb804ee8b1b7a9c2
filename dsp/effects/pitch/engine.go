package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pvshift/dsp/fft"
	"github.com/cwbudde/algo-pvshift/dsp/param"
	"github.com/cwbudde/algo-pvshift/dsp/pvoc"
	"github.com/cwbudde/algo-pvshift/dsp/window"
)

// Engine is a multi-channel phase-vocoder pitch shifter driven one audio
// block at a time.
//
// Pitch control is expressed in octaves: the frequency ratio is 2^control,
// so 0 is unity, 1 is an octave up and -1 an octave down. The control is
// smoothed once per block by a one-pole follower.
//
// The engine starts uninitialized. The first non-empty [Engine.Process] call
// locks in the channel count and, unless [WithFFTSize] was given, derives the
// FFT size from the block length; all buffers are allocated at that point and
// steady-state processing does not allocate.
//
// Engine is not safe for concurrent use; callers serialize Process calls.
type Engine struct {
	cfg      config
	smoother *param.Smoother
	target   float64

	fftSize  int
	gain     float64
	channels []*FrameScheduler
}

// New creates an uninitialized engine.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.fftSize != 0 && !validFFTSize(cfg.fftSize) {
		return nil, fmt.Errorf("%w: %d", ErrBlockSize, cfg.fftSize)
	}

	if !isFinite(cfg.pitch) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidPitch, cfg.pitch)
	}

	smoother, err := param.NewSmoother(cfg.coefficient)
	if err != nil {
		return nil, fmt.Errorf("pitch: %w", err)
	}

	smoother.Snap(cfg.pitch)

	return &Engine{
		cfg:      cfg,
		smoother: smoother,
		target:   cfg.pitch,
	}, nil
}

// Initialized reports whether the session size has been locked in.
func (e *Engine) Initialized() bool { return e.channels != nil }

// FFTSize returns the session FFT size, or the configured size (possibly 0)
// before initialization.
func (e *Engine) FFTSize() int {
	if e.Initialized() {
		return e.fftSize
	}

	return e.cfg.fftSize
}

// HopSize returns FFTSize()/4.
func (e *Engine) HopSize() int { return e.FFTSize() / overlapFactor }

// Latency returns the fixed processing delay in samples the host should
// compensate for. It equals FFTSize().
func (e *Engine) Latency() int { return e.FFTSize() }

// OutputGain returns the factor applied to the overlap-add sum: 1 with
// [WithRawOverlapAdd], otherwise the inverse of the window's overlap gain.
// It is 0 before initialization.
func (e *Engine) OutputGain() float64 { return e.gain }

// Channels returns the locked channel count, or 0 before initialization.
func (e *Engine) Channels() int { return len(e.channels) }

// PitchControl returns the target pitch control in octaves.
func (e *Engine) PitchControl() float64 { return e.target }

// PitchSemitones returns the target pitch control in semitones.
func (e *Engine) PitchSemitones() float64 { return 12 * e.target }

// PitchRatio returns the smoothed frequency ratio used by the last block.
func (e *Engine) PitchRatio() float64 { return e.smoother.Ratio() }

// SetPitchControl sets the target pitch control in octaves. The applied
// ratio glides toward it over the following blocks.
func (e *Engine) SetPitchControl(octaves float64) error {
	if !isFinite(octaves) {
		return fmt.Errorf("%w: %f", ErrInvalidPitch, octaves)
	}

	e.target = octaves

	return nil
}

// SetPitchSemitones sets the target pitch control in semitones.
func (e *Engine) SetPitchSemitones(semitones float64) error {
	return e.SetPitchControl(semitones / 12)
}

// SnapPitchControl sets the target and the smoothed value at once, skipping
// the glide.
func (e *Engine) SnapPitchControl(octaves float64) error {
	if err := e.SetPitchControl(octaves); err != nil {
		return err
	}

	e.smoother.Snap(octaves)

	return nil
}

// Reset clears frames and phase history on every channel and settles the
// smoother on the current target. Session sizing is kept.
func (e *Engine) Reset() {
	for _, ch := range e.channels {
		ch.Reset()
	}

	e.smoother.Snap(e.target)
}

// Process shifts one block. in and out hold one slice per channel, all of the
// same length; out is fully overwritten and may alias in. changes carries the
// pitch automation points for this block, of which only the last is used.
//
// Zero channels or zero-length blocks are accepted and produce no audio
// work; the pitch smoother still advances.
func (e *Engine) Process(in, out [][]float32, changes param.Queue) error {
	if p, ok := changes.Last(); ok {
		e.target = p.Value
	}

	ratio := e.smoother.Update(e.target)

	if len(in) == 0 || len(out) == 0 || len(in[0]) == 0 {
		return nil
	}

	blockLen := len(in[0])

	if !e.Initialized() {
		if err := e.init(len(in), blockLen); err != nil {
			return err
		}
	}

	if err := e.validate(in, out, blockLen); err != nil {
		return err
	}

	for ch, s := range e.channels {
		if err := s.Process(in[ch], out[ch], ratio); err != nil {
			return fmt.Errorf("pitch: channel %d: %w", ch, err)
		}
	}

	return nil
}

func (e *Engine) init(channels, blockLen int) error {
	size := e.cfg.fftSize
	if size == 0 {
		size = blockLen
	}

	if !validFFTSize(size) {
		return fmt.Errorf("%w: %d", ErrBlockSize, size)
	}

	hop := size / overlapFactor

	win, err := window.Hann(size)
	if err != nil {
		return fmt.Errorf("pitch: %w", err)
	}

	gain := 1.0
	if !e.cfg.raw {
		overlap, err := window.OverlapGain(win, hop)
		if err != nil {
			return fmt.Errorf("pitch: %w", err)
		}

		gain = 1 / overlap
	}

	var transform fft.Transformer = fft.Radix2{}
	if e.cfg.planned {
		planned, err := fft.NewPlanned(size)
		if err != nil {
			return fmt.Errorf("pitch: %w", err)
		}

		transform = planned
	}

	schedulers := make([]*FrameScheduler, channels)
	for ch := range schedulers {
		vocoder, err := pvoc.NewChannel(size, hop, pvoc.WithCollisionPolicy(e.cfg.policy))
		if err != nil {
			return fmt.Errorf("pitch: %w", err)
		}

		schedulers[ch], err = NewFrameScheduler(win, transform, vocoder, gain)
		if err != nil {
			return err
		}
	}

	e.fftSize = size
	e.gain = gain
	e.channels = schedulers

	return nil
}

func (e *Engine) validate(in, out [][]float32, blockLen int) error {
	if len(in) != len(e.channels) || len(out) != len(e.channels) {
		return fmt.Errorf("%w: %d inputs, %d outputs, session has %d channels",
			ErrChannelMismatch, len(in), len(out), len(e.channels))
	}

	if e.cfg.fftSize == 0 && blockLen != e.fftSize {
		return fmt.Errorf("%w: got %d, session size %d", ErrBlockSizeChanged, blockLen, e.fftSize)
	}

	for ch := range in {
		if len(in[ch]) != blockLen || len(out[ch]) != blockLen {
			return fmt.Errorf("%w: channel %d has %d input and %d output samples, want %d",
				ErrChannelMismatch, ch, len(in[ch]), len(out[ch]), blockLen)
		}
	}

	return nil
}

func validFFTSize(n int) bool {
	return n >= minFFTSize && fft.IsPowerOf2(n)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
