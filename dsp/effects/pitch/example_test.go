package pitch_test

import (
	"fmt"

	"github.com/cwbudde/algo-pvshift/dsp/effects/pitch"
	"github.com/cwbudde/algo-pvshift/dsp/param"
)

func ExampleEngine() {
	e, err := pitch.New(pitch.WithPitchControl(1))
	if err != nil {
		fmt.Println(err)
		return
	}

	left := make([]float32, 1024)
	right := make([]float32, 1024)
	block := [][]float32{left, right}

	// Process in place; the first block fixes the FFT size and channel count.
	if err := e.Process(block, block, nil); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("fft size:", e.FFTSize())
	fmt.Println("latency:", e.Latency())
	fmt.Printf("ratio: %.1f\n", e.PitchRatio())
	// Output:
	// fft size: 1024
	// latency: 1024
	// ratio: 2.0
}

func ExampleEngine_Process() {
	e, err := pitch.New(pitch.WithFFTSize(256))
	if err != nil {
		fmt.Println(err)
		return
	}

	in := [][]float32{make([]float32, 100)}
	out := [][]float32{make([]float32, 100)}

	// Only the final automation point of a block is applied.
	changes := param.Queue{{Offset: 0, Value: 0.5}, {Offset: 64, Value: 1}}
	if err := e.Process(in, out, changes); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("target %.0f octave, ratio after one block %.3f\n", e.PitchControl(), e.PitchRatio())
	// Output: target 1 octave, ratio after one block 1.072
}
