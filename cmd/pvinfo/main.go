// Command pvinfo prints the frame geometry of the phase-vocoder pitch shifter.
//
// Usage:
//
//	pvinfo [flags] [size ...]
//
// For every FFT size it prints the hop, the latency in samples and
// milliseconds and the overlap-add properties of the Hann window at
// 4x overlap. Without arguments it covers 256 through 8192.
//
// Examples:
//
//	pvinfo
//	pvinfo -rate 48000 1024 2048
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-pvshift/dsp/core"
	"github.com/cwbudde/algo-pvshift/dsp/effects/pitch"
	"github.com/cwbudde/algo-pvshift/dsp/window"
)

const defaultRate = 44100.0

var defaultSizes = []int{256, 512, 1024, 2048, 4096, 8192}

// geometry describes one FFT size.
type geometry struct {
	size      int
	hop       int
	latency   int
	latencyMS float64
	olaGain   float64
	normalize float64
	rippledB  float64
}

func main() {
	rate := flag.Float64("rate", defaultRate, "sample rate in Hz used for the latency in ms")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pvinfo [flags] [size ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints phase-vocoder frame geometry per FFT size.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pvinfo\n")
		fmt.Fprintf(os.Stderr, "  pvinfo -rate 48000 1024 2048\n")
	}
	flag.Parse()

	sizes, err := parseSizes(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	rows := make([]geometry, 0, len(sizes))
	for _, size := range sizes {
		g, err := describe(size, *rate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: size %d: %v\n", size, err)
			continue
		}
		rows = append(rows, g)
	}

	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "error: no valid sizes\n")
		os.Exit(1)
	}

	if err := printTable(os.Stdout, rows); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseSizes(args []string) ([]int, error) {
	if len(args) == 0 {
		return defaultSizes, nil
	}

	sizes := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q", arg)
		}
		sizes = append(sizes, n)
	}

	return sizes, nil
}

// describe reports the geometry the engine uses for size, taken from an
// engine configured with that size.
func describe(size int, rate float64) (geometry, error) {
	if !(rate > 0) {
		return geometry{}, fmt.Errorf("invalid sample rate %v", rate)
	}

	e, err := pitch.New(pitch.WithFFTSize(size))
	if err != nil {
		return geometry{}, err
	}

	win, err := window.Hann(size)
	if err != nil {
		return geometry{}, err
	}

	gain, err := window.OverlapGain(win, e.HopSize())
	if err != nil {
		return geometry{}, err
	}

	ripple, err := window.OverlapRipple(win, e.HopSize())
	if err != nil {
		return geometry{}, err
	}

	return geometry{
		size:      e.FFTSize(),
		hop:       e.HopSize(),
		latency:   e.Latency(),
		latencyMS: 1000 * float64(e.Latency()) / rate,
		olaGain:   gain,
		normalize: 1 / gain,
		rippledB:  core.LinearToDB(1 + ripple),
	}, nil
}

func printTable(w io.Writer, rows []geometry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "FFT Size\tHop\tLatency [smp]\tLatency [ms]\tOLA Gain\tNormalize\tRipple [dB]\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "--------\t---\t-------------\t------------\t--------\t---------\t-----------\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for _, g := range rows {
		if _, err := fmt.Fprintf(tw, "%d\t%d\t%d\t%.2f\t%.6f\t%.6f\t%.5f\n",
			g.size,
			g.hop,
			g.latency,
			g.latencyMS,
			g.olaGain,
			g.normalize,
			g.rippledB,
		); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}
