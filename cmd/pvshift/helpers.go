package main

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
	"github.com/tphakala/simd/f32"

	"github.com/cwbudde/algo-pvshift/dsp/core"
	"github.com/cwbudde/algo-pvshift/dsp/effects/pitch"
	"github.com/cwbudde/algo-pvshift/measure/level"
	"github.com/cwbudde/algo-pvshift/measure/tone"
)

const (
	stereoChannels = 2

	// WAV format tag for integer PCM
	wavFormatPCM = 1
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	format   *audio.Format
}

// openWAVInput opens and validates a PCM WAV file.
func openWAVInput(path string) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	if core.PCMFullScale(bitDepth) == 0 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported bit depth %d in %s", bitDepth, path)
	}

	if format.NumChannels < 1 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("no audio channels in %s", path)
	}

	logrus.WithFields(logrus.Fields{
		"path":      path,
		"rate":      format.SampleRate,
		"channels":  format.NumChannels,
		"bit_depth": bitDepth,
	}).Info("Opened input")

	return &wavInputInfo{
		file:     inputFile,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: bitDepth,
		format:   format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

// createWAVOutput creates the output file and a PCM encoder for it.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// write encodes frames of processed audio from bufs, first dropping up to
// *skip leading frames. It returns the number of frames written.
func (w *wavOutputWriter) write(bufs *shiftBuffers, frames int, skip *int) (int, error) {
	start := min(*skip, frames)
	*skip -= start

	if start == frames {
		return 0, nil
	}

	w.buf.Data = bufs.interleave(start, frames)
	if err := w.encoder.Write(w.buf); err != nil {
		return 0, fmt.Errorf("failed to write audio data: %w", err)
	}

	return frames - start, nil
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to finalize WAV output: %w", err)
	}

	return w.file.Close()
}

// shiftBuffers holds all preallocated buffers for block processing.
type shiftBuffers struct {
	intBuffer   *audio.IntBuffer
	in          [][]float32
	out         [][]float32
	inBlock     [][]float32
	outBlock    [][]float32
	interleaved []float32
	outputInts  []int
	maxVal      float64
	invMaxVal   float32
}

func newShiftBuffers(channels, size, bitDepth int, format *audio.Format) *shiftBuffers {
	maxVal := core.PCMFullScale(bitDepth)

	b := &shiftBuffers{
		intBuffer: &audio.IntBuffer{
			Data:   make([]int, size*channels),
			Format: format,
		},
		in:          make([][]float32, channels),
		out:         make([][]float32, channels),
		inBlock:     make([][]float32, channels),
		outBlock:    make([][]float32, channels),
		interleaved: make([]float32, size*channels),
		outputInts:  make([]int, size*channels),
		maxVal:      maxVal,
		invMaxVal:   float32(1 / maxVal),
	}

	for ch := range channels {
		b.in[ch] = make([]float32, size)
		b.out[ch] = make([]float32, size)
	}

	return b
}

// deinterleave converts frames of interleaved PCM into per-channel floats.
func (b *shiftBuffers) deinterleave(frames int) {
	channels := len(b.in)
	data := b.intBuffer.Data

	for i := range frames {
		for ch := range channels {
			b.in[ch][i] = float32(data[i*channels+ch])
		}
	}

	for ch := range channels {
		f32.Scale(b.in[ch][:frames], b.in[ch][:frames], b.invMaxVal)
	}
}

// meterChannels feeds the first frames samples of every channel to m.
func meterChannels(m *level.Meter, chans [][]float32, frames int) {
	for _, ch := range chans {
		m.Update(ch[:frames])
	}
}

// silence zeroes the first frames input samples of every channel.
func (b *shiftBuffers) silence(frames int) {
	for ch := range b.in {
		clear(b.in[ch][:frames])
	}
}

// process runs the engine over the first frames samples and applies gain.
func (b *shiftBuffers) process(e *pitch.Engine, frames int, gain float64) error {
	for ch := range b.in {
		b.inBlock[ch] = b.in[ch][:frames]
		b.outBlock[ch] = b.out[ch][:frames]
	}

	if err := e.Process(b.inBlock, b.outBlock, nil); err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	if gain != 1 {
		for _, out := range b.outBlock {
			f32.Scale(out, out, float32(gain))
		}
	}

	return nil
}

// interleave converts output frames [start, end) to clamped integer PCM.
// The returned slice is reused by the next call.
func (b *shiftBuffers) interleave(start, end int) []int {
	channels := len(b.out)
	n := (end - start) * channels
	dst := b.interleaved[:n]

	if channels == stereoChannels {
		f32.Interleave2(dst, b.out[0][start:end], b.out[1][start:end])
	} else {
		for i := start; i < end; i++ {
			for ch := range channels {
				dst[(i-start)*channels+ch] = b.out[ch][i]
			}
		}
	}

	ints := b.outputInts[:n]
	for i, v := range dst {
		ints[i] = core.ToPCM(v, b.maxVal)
	}

	return ints
}

// analysisTap collects channel 0 of the input and of the engine output, the
// latter without the leading latency. A nil tap ignores all calls.
type analysisTap struct {
	in, out []float64
	skipOut int
}

func newAnalysisTap(latency int) *analysisTap {
	return &analysisTap{skipOut: latency}
}

func (t *analysisTap) observe(in, out []float32) {
	if t == nil {
		return
	}

	for _, v := range in {
		if len(t.in) < analyzeLimit {
			t.in = append(t.in, float64(v))
		}
	}

	for _, v := range out {
		if t.skipOut > 0 {
			t.skipOut--
			continue
		}

		if len(t.out) < analyzeLimit {
			t.out = append(t.out, float64(v))
		}
	}
}

func (t *analysisTap) report(rate int) {
	if t == nil {
		return
	}

	fields := logrus.Fields{"rate": rate}

	if f, err := tone.DominantFrequency(t.in, float64(rate)); err == nil {
		fields["input_hz"] = f
	} else {
		fields["input_error"] = err.Error()
	}

	if f, err := tone.DominantFrequency(t.out, float64(rate)); err == nil {
		fields["output_hz"] = f
	} else {
		fields["output_error"] = err.Error()
	}

	logrus.WithFields(fields).Info("Dominant frequency")
}
