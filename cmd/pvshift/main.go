// Command pvshift pitch-shifts WAV files with the phase-vocoder engine.
//
// Usage:
//
//	pvshift [flags] input.wav output.wav
//
// The pitch is given in octaves (-pitch) or semitones (-semitones). Audio is
// processed in blocks of -size samples, which is also the FFT size and the
// processing latency.
//
// Examples:
//
//	pvshift -pitch 1 voice.wav voice_up.wav
//	pvshift -semitones -5 -compensate music.wav music_down.wav
//	pvshift -size 4096 -planned -analyze tone.wav tone_shifted.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-pvshift/dsp/effects/pitch"
	"github.com/cwbudde/algo-pvshift/measure/level"
)

const (
	// CLI defaults
	defaultSize     = 1024
	minRequiredArgs = 2

	semitonesPerOctave = 12

	// Samples of channel 0 kept for -analyze.
	analyzeLimit = 1 << 16
)

var errUsage = errors.New("usage: pvshift [flags] input.wav output.wav")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		logrus.WithError(err).Fatal("pvshift failed")
	}
}

// options holds the parsed command line.
type options struct {
	size       int
	pitch      float64
	planned    bool
	raw        bool
	gain       float64
	compensate bool
	analyze    bool
	verbose    bool
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	fs := flag.NewFlagSet("pvshift", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := options{}
	fs.IntVar(&opts.size, "size", defaultSize, "FFT size and block length in samples (power of two >= 4)")
	fs.Float64Var(&opts.pitch, "pitch", 0, "Pitch shift in octaves (1 = octave up, -1 = octave down)")
	semitones := fs.Float64("semitones", 0, "Pitch shift in semitones (overrides -pitch)")
	fs.BoolVar(&opts.planned, "planned", false, "Use the planned algo-fft backend")
	fs.BoolVar(&opts.raw, "raw", false, "Disable overlap-add normalization")
	fs.Float64Var(&opts.gain, "gain", 1, "Linear output gain")
	fs.BoolVar(&opts.compensate, "compensate", false, "Remove the processing latency so output aligns with input")
	fs.BoolVar(&opts.analyze, "analyze", false, "Log the dominant frequency of input and output channel 0")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: pvshift [flags] input.wav output.wav\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  pvshift -pitch 1 in.wav up.wav           # Octave up\n")
		fmt.Fprintf(stderr, "  pvshift -semitones -7 in.wav down.wav    # Fifth down\n")
		fmt.Fprintf(stderr, "  pvshift -compensate -pitch 0.5 in.wav out.wav\n")
	}

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "semitones" {
			opts.pitch = *semitones / semitonesPerOctave
		}
	})

	if math.IsNaN(opts.gain) || math.IsInf(opts.gain, 0) {
		return options{}, nil, fmt.Errorf("invalid gain: %v", opts.gain)
	}

	if fs.NArg() < minRequiredArgs {
		fs.Usage()
		return options{}, nil, errUsage
	}

	return opts, fs.Args(), nil
}

func run(args []string, stdout io.Writer) error {
	opts, paths, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	configureLogging(opts.verbose, opts.analyze)

	inputPath := paths[0]
	outputPath := paths[1]

	logrus.WithFields(logrus.Fields{
		"input":      inputPath,
		"output":     outputPath,
		"size":       opts.size,
		"octaves":    opts.pitch,
		"planned":    opts.planned,
		"raw":        opts.raw,
		"gain":       opts.gain,
		"compensate": opts.compensate,
	}).Info("Starting pitch shift")

	start := time.Now()

	stats, err := shiftFile(inputPath, outputPath, opts)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	fmt.Fprintf(stdout, "Shifted %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Fprintf(stdout, "  %+.3f octaves (ratio %.4f), %d Hz, %d channels, %d-bit\n",
		opts.pitch, math.Exp2(opts.pitch), stats.rate, stats.channels, stats.bitDepth)
	fmt.Fprintf(stdout, "  %d samples -> %d samples, latency %d\n",
		stats.inputSamples, stats.outputSamples, stats.latency)
	fmt.Fprintf(stdout, "  Output peak %.2f dBFS, %d clipped samples\n",
		stats.outputLevel.Peak_dB, stats.outputLevel.Clipped)

	if seconds := elapsed.Seconds(); seconds > 0 && stats.rate > 0 {
		fmt.Fprintf(stdout, "  Duration: %.2fs, Speed: %.1fx realtime\n",
			seconds, float64(stats.inputSamples)/float64(stats.rate)/seconds)
	}

	return nil
}

func configureLogging(verbose, analyze bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	switch {
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	case analyze:
		logrus.SetLevel(logrus.InfoLevel)
	default:
		logrus.SetLevel(logrus.WarnLevel)
	}
}

type shiftStats struct {
	rate          int
	channels      int
	bitDepth      int
	latency       int
	inputSamples  int64
	outputSamples int64
	inputLevel    level.Stats
	outputLevel   level.Stats
}

func newEngine(opts options) (*pitch.Engine, error) {
	engineOpts := []pitch.Option{
		pitch.WithFFTSize(opts.size),
		pitch.WithPitchControl(opts.pitch),
	}

	if opts.planned {
		engineOpts = append(engineOpts, pitch.WithPlannedFFT())
	}

	if opts.raw {
		engineOpts = append(engineOpts, pitch.WithRawOverlapAdd())
	}

	e, err := pitch.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return e, nil
}

func shiftFile(inputPath, outputPath string, opts options) (stats *shiftStats, err error) {
	// 1. Open and validate input
	input, err := openWAVInput(inputPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	// 2. Create engine
	engine, err := newEngine(opts)
	if err != nil {
		return nil, err
	}

	// 3. Create output writer
	output, err := createWAVOutput(outputPath, input.rate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Close output, capturing close errors on success path (the WAV header is written on close)
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	bufs := newShiftBuffers(input.channels, opts.size, input.bitDepth, input.format)

	stats = &shiftStats{
		rate:     input.rate,
		channels: input.channels,
		bitDepth: input.bitDepth,
		latency:  engine.Latency(),
	}

	skip := 0
	if opts.compensate {
		skip = engine.Latency()
	}

	var inMeter, outMeter level.Meter

	var analysis *analysisTap
	if opts.analyze {
		analysis = newAnalysisTap(engine.Latency())
	}

	// 4. Main processing loop
	for {
		n, err := input.decoder.PCMBuffer(bufs.intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}

		frames := n / input.channels
		if frames == 0 {
			break
		}

		bufs.deinterleave(frames)
		stats.inputSamples += int64(frames)
		meterChannels(&inMeter, bufs.in, frames)

		if err := bufs.process(engine, frames, opts.gain); err != nil {
			return nil, err
		}

		meterChannels(&outMeter, bufs.out, frames)

		analysis.observe(bufs.in[0][:frames], bufs.out[0][:frames])

		written, err := output.write(bufs, frames, &skip)
		if err != nil {
			return nil, err
		}

		stats.outputSamples += int64(written)
	}

	// 5. Flush the latency tail with silence
	if opts.compensate {
		for remaining := engine.Latency(); remaining > 0; {
			frames := min(remaining, opts.size)
			bufs.silence(frames)

			if err := bufs.process(engine, frames, opts.gain); err != nil {
				return nil, err
			}

			meterChannels(&outMeter, bufs.out, frames)
			analysis.observe(nil, bufs.out[0][:frames])

			written, err := output.write(bufs, frames, &skip)
			if err != nil {
				return nil, err
			}

			stats.outputSamples += int64(written)
			remaining -= frames
		}
	}

	analysis.report(input.rate)

	stats.inputLevel = inMeter.Result()
	stats.outputLevel = outMeter.Result()

	logrus.WithFields(logrus.Fields{
		"input_samples":  stats.inputSamples,
		"output_samples": stats.outputSamples,
		"fft_size":       engine.FFTSize(),
		"output_gain":    engine.OutputGain(),
		"input_rms_db":   stats.inputLevel.RMS_dB,
		"output_rms_db":  stats.outputLevel.RMS_dB,
	}).Debug("Pitch shift complete")

	if stats.outputLevel.Clipped > 0 {
		logrus.WithFields(logrus.Fields{
			"clipped": stats.outputLevel.Clipped,
			"peak_db": stats.outputLevel.Peak_dB,
		}).Warn("Output clipped")
	}

	return stats, nil
}
