// internal/audio/buffer.go
// Package audio provides capture, playback and synthesis of PCM audio.
package audio

import (
	"time"
)

// Buffer holds a run of mono float32 samples (-1.0 to 1.0) recorded or
// synthesized at a fixed sample rate. A Buffer is owned by exactly one
// component at a time; ownership transfers when it is handed off and the
// previous owner must not touch it again.
type Buffer struct {
	Samples    []float32
	SampleRate int
}

// NewBuffer creates a buffer wrapping the given samples.
func NewBuffer(samples []float32, sampleRate int) *Buffer {
	return &Buffer{Samples: samples, SampleRate: sampleRate}
}

// Duration returns the buffer's length in time. Zero for an empty buffer
// or an unset sample rate.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// Empty reports whether the buffer contains no samples.
func (b *Buffer) Empty() bool {
	return b == nil || len(b.Samples) == 0
}
