// Package fft provides the in-place complex transforms used by the
// phase-vocoder pipeline.
//
// Forward and Inverse implement an iterative radix-2 decimation-in-frequency
// FFT over buffers whose length is a power of two. The [Transformer]
// interface lets callers swap in the planned algo-fft backend ([Planned])
// without touching the processing code.
package fft
