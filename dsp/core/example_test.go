package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-pvshift/dsp/core"
)

func ExampleToPCM() {
	fullScale := core.PCMFullScale(16)
	fmt.Println(core.ToPCM(0.5, fullScale), core.ToPCM(2, fullScale))
	// Output: 16383 32767
}

func ExampleLinearToDB() {
	fmt.Printf("%.2f dB\n", core.LinearToDB(0.5))
	// Output: -6.02 dB
}
