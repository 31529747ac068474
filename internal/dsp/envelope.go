// internal/dsp/envelope.go
// Package dsp converts raw audio into timing information: an envelope
// segmenter that run-length-encodes tone/silence intervals, and a Goertzel
// tone-purity scorer used by the Morse/speech classification heuristic.
package dsp

import (
	"errors"
	"math"
	"time"

	"github.com/runevoice/rune/internal/audio"
)

var (
	// ErrInvalidThreshold indicates threshold must be between 0 and 1
	ErrInvalidThreshold = errors.New("amplitude threshold must be between 0.0 and 1.0")
	// ErrInvalidSmoothing indicates the smoothing window must be non-negative
	ErrInvalidSmoothing = errors.New("smoothing window must be non-negative")
)

// SegmentKind distinguishes tone from silence intervals.
type SegmentKind int

const (
	// Silence is an interval where the envelope stayed at or below threshold.
	Silence SegmentKind = iota
	// Tone is an interval where the envelope stayed above threshold.
	Tone
)

func (k SegmentKind) String() string {
	if k == Tone {
		return "tone"
	}
	return "silence"
}

// Segment is one tone or silence interval. Consecutive segments from a
// single buffer strictly alternate in kind and have positive durations,
// with one exception: an empty buffer yields a single zero-duration
// Silence segment spanning the (empty) buffer.
type Segment struct {
	Kind     SegmentKind
	Duration time.Duration
}

// SegmenterConfig holds configuration for the envelope segmenter.
// All values come from the application config file.
type SegmenterConfig struct {
	// Threshold is the amplitude level above which a sample counts as
	// tone (from config: amplitude_threshold). Fixed, not adaptive:
	// input that never crosses it decodes to nothing, which is the
	// expected result for noise, not an error.
	Threshold float64
	// SmoothingWindow is the moving-average window applied to the
	// rectified signal before thresholding (from config:
	// envelope_smoothing_ms). Zero disables smoothing.
	SmoothingWindow time.Duration
}

// Segmenter converts an audio buffer into alternating tone/silence
// segments by rectifying, smoothing and thresholding the amplitude
// envelope.
type Segmenter struct {
	config SegmenterConfig
}

// NewSegmenter creates a segmenter with the given configuration.
func NewSegmenter(cfg SegmenterConfig) (*Segmenter, error) {
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, ErrInvalidThreshold
	}
	if cfg.SmoothingWindow < 0 {
		return nil, ErrInvalidSmoothing
	}
	return &Segmenter{config: cfg}, nil
}

// Segment produces the tone/silence intervals of a buffer. An empty or
// all-quiet buffer yields a single Silence segment spanning the whole
// buffer; downstream treats that as "no signal", never as a failure.
func (s *Segmenter) Segment(buf *audio.Buffer) []Segment {
	if buf.Empty() || buf.SampleRate <= 0 {
		return []Segment{{Kind: Silence, Duration: buf.Duration()}}
	}

	envelope := s.envelope(buf.Samples, buf.SampleRate)

	var segments []Segment
	current := Silence
	if envelope[0] > s.config.Threshold {
		current = Tone
	}
	runStart := 0

	sampleDuration := func(count int) time.Duration {
		return time.Duration(float64(count) / float64(buf.SampleRate) * float64(time.Second))
	}

	for i := 1; i < len(envelope); i++ {
		kind := Silence
		if envelope[i] > s.config.Threshold {
			kind = Tone
		}
		if kind == current {
			continue
		}
		segments = append(segments, Segment{Kind: current, Duration: sampleDuration(i - runStart)})
		current = kind
		runStart = i
	}
	segments = append(segments, Segment{Kind: current, Duration: sampleDuration(len(envelope) - runStart)})

	return segments
}

// envelope rectifies the samples and applies a running-mean smoothing
// window sized from the sample rate.
func (s *Segmenter) envelope(samples []float32, sampleRate int) []float64 {
	rectified := make([]float64, len(samples))
	for i, v := range samples {
		rectified[i] = math.Abs(float64(v))
	}

	window := int(s.config.SmoothingWindow.Seconds() * float64(sampleRate))
	if window <= 1 {
		return rectified
	}
	if window > len(rectified) {
		window = len(rectified)
	}

	smoothed := make([]float64, len(rectified))
	var sum float64
	for i, v := range rectified {
		sum += v
		if i >= window {
			sum -= rectified[i-window]
			smoothed[i] = sum / float64(window)
		} else {
			smoothed[i] = sum / float64(i+1)
		}
	}
	return smoothed
}

// Config returns the segmenter configuration.
func (s *Segmenter) Config() SegmenterConfig {
	return s.config
}
