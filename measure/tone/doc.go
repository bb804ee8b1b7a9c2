// Package tone estimates the dominant frequency of a sampled signal.
//
// It is used to verify pitch-shifted output: the signal is Hann-windowed,
// transformed with a real FFT and the strongest bin is refined by parabolic
// interpolation of the log-magnitude around it.
package tone
