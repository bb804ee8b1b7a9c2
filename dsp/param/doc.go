// Package param smooths block-rate control values and models the per-block
// automation queues a host delivers alongside audio.
package param
