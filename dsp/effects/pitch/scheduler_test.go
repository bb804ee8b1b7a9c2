package pitch

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pvshift/dsp/fft"
	"github.com/cwbudde/algo-pvshift/dsp/pvoc"
	"github.com/cwbudde/algo-pvshift/dsp/window"
	"github.com/cwbudde/algo-pvshift/internal/testutil"
)

func newTestScheduler(t *testing.T, fftSize int) *FrameScheduler {
	t.Helper()

	win, err := window.Hann(fftSize)
	if err != nil {
		t.Fatalf("Hann() error = %v", err)
	}

	gain, err := window.OverlapGain(win, fftSize/overlapFactor)
	if err != nil {
		t.Fatalf("OverlapGain() error = %v", err)
	}

	vocoder, err := pvoc.NewChannel(fftSize, fftSize/overlapFactor)
	if err != nil {
		t.Fatalf("NewChannel() error = %v", err)
	}

	s, err := NewFrameScheduler(win, fft.Radix2{}, vocoder, 1/gain)
	if err != nil {
		t.Fatalf("NewFrameScheduler() error = %v", err)
	}

	return s
}

func TestNewFrameSchedulerValidation(t *testing.T) {
	win, _ := window.Hann(64)

	quarter, _ := pvoc.NewChannel(64, 16)
	eighth, _ := pvoc.NewChannel(64, 8)
	larger, _ := pvoc.NewChannel(128, 32)

	tests := []struct {
		name      string
		vocoder   *pvoc.Channel
		transform fft.Transformer
		wantErr   bool
	}{
		{name: "valid", vocoder: quarter, transform: fft.Radix2{}},
		{name: "nil vocoder", vocoder: nil, transform: fft.Radix2{}, wantErr: true},
		{name: "nil transform", vocoder: quarter, transform: nil, wantErr: true},
		{name: "hop not quarter", vocoder: eighth, transform: fft.Radix2{}, wantErr: true},
		{name: "window length mismatch", vocoder: larger, transform: fft.Radix2{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrameScheduler(win, tt.transform, tt.vocoder, 1)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFrameScheduler() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFrameSchedulerGeometry(t *testing.T) {
	s := newTestScheduler(t, 256)

	if s.FFTSize() != 256 || s.Hop() != 64 || s.Latency() != 256 {
		t.Fatalf("geometry = (%d, %d, %d), want (256, 64, 256)", s.FFTSize(), s.Hop(), s.Latency())
	}
}

func TestFrameSchedulerUnityRatioDelaysInput(t *testing.T) {
	const n = 256

	s := newTestScheduler(t, n)

	signal := testutil.DeterministicSine(1000, 48000, 0.5, 12*n)
	out := make([]float32, len(signal))

	if err := s.Process(testutil.Float32(signal), out, 1); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	got := testutil.Float64(out)
	for i := range n {
		if math.Abs(got[i]) > 1e-6 {
			t.Fatalf("out[%d] = %v before the latency has elapsed", i, got[i])
		}
	}

	testutil.RequireDelayed(t, got, signal, n, 2*n, 1e-3)
}

func TestFrameSchedulerUnityRatioNoise(t *testing.T) {
	const n = 128

	s := newTestScheduler(t, n)

	signal := testutil.DeterministicNoise(7, 0.5, 16*n)
	out := make([]float32, len(signal))

	if err := s.Process(testutil.Float32(signal), out, 1); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	testutil.RequireDelayed(t, testutil.Float64(out), signal, n, 2*n, 1e-3)
}

func TestFrameSchedulerBlockPartitionInvariant(t *testing.T) {
	const n = 64

	whole := newTestScheduler(t, n)
	split := newTestScheduler(t, n)

	in := testutil.Float32(testutil.DeterministicNoise(3, 0.5, 40*n))

	want := make([]float32, len(in))
	if err := whole.Process(in, want, 1.5); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	got := make([]float32, len(in))
	sizes := []int{1, 7, 63, 64, 65, 200, 3}
	for pos, i := 0, 0; pos < len(in); i++ {
		end := min(pos+sizes[i%len(sizes)], len(in))
		if err := split.Process(in[pos:end], got[pos:end], 1.5); err != nil {
			t.Fatalf("Process() error = %v", err)
		}

		pos = end
	}

	diff, err := testutil.MaxAbsDiff(testutil.Float64(got), testutil.Float64(want))
	if err != nil {
		t.Fatal(err)
	}

	if diff > 1e-6 {
		t.Fatalf("block partition changed output: max diff %v", diff)
	}
}

func TestFrameSchedulerInPlace(t *testing.T) {
	const n = 128

	ref := newTestScheduler(t, n)
	inPlace := newTestScheduler(t, n)

	in := testutil.Float32(testutil.DeterministicNoise(11, 0.5, 8*n))

	want := make([]float32, len(in))
	if err := ref.Process(in, want, 0.75); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	buf := append([]float32(nil), in...)
	if err := inPlace.Process(buf, buf, 0.75); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("in-place out[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestFrameSchedulerLengthMismatch(t *testing.T) {
	s := newTestScheduler(t, 64)

	err := s.Process(make([]float32, 10), make([]float32, 9), 1)
	if !errors.Is(err, ErrChannelMismatch) {
		t.Fatalf("Process() error = %v, want ErrChannelMismatch", err)
	}
}

func TestFrameSchedulerReset(t *testing.T) {
	const n = 64

	s := newTestScheduler(t, n)
	in := testutil.Float32(testutil.DeterministicNoise(5, 0.5, 6*n))

	first := make([]float32, len(in))
	if err := s.Process(in, first, 1.25); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	s.Reset()

	second := make([]float32, len(in))
	if err := s.Process(in, second, 1.25); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("after Reset out[%d] = %v, want %v", i, second[i], first[i])
		}
	}
}
