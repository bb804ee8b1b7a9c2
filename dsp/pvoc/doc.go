// Package pvoc implements per-channel phase-vocoder analysis, bin remapping
// and resynthesis for pitch shifting.
//
// A [Channel] keeps the rolling input and output phase history for one audio
// channel. Each hop, the caller hands it a freshly transformed spectrum:
//
//	ch.Analyze(spectrum)    // magnitude + true bin frequency per bin
//	ch.RemapBins(ratio)     // move every bin to round(i*ratio)
//	ch.Synthesize(spectrum) // rebuild phases, mirror the upper half
//
// [Channel.Shift] runs the three steps in order.
package pvoc
