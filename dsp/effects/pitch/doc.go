// Package pitch provides a real-time, block-based phase-vocoder pitch shifter.
//
// Included types:
//   - Engine: multi-channel block processor with a smoothed pitch control,
//     lazy session sizing and a fixed look-ahead latency of one FFT frame.
//   - FrameScheduler: per-channel 4x overlapped STFT analysis, pitch
//     modification and windowed overlap-add resynthesis.
package pitch
