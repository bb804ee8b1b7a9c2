package tone_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pvshift/measure/tone"
)

func ExampleDominantFrequency() {
	const sampleRate = 48000.0

	signal := make([]float64, 4800)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / sampleRate)
	}

	freq, err := tone.DominantFrequency(signal, sampleRate)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%.0f Hz\n", freq)
	// Output: 1000 Hz
}
