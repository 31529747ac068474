// internal/audio/tone.go
package audio

import (
	"errors"
	"math"
	"time"
)

// WPM timing: one word is the standard "PARIS" = 50 dot units, so
// dot_ms = 60000 / (WPM * 50).
const (
	millisecondsPerMinute = 60000.0
	dotsPerWord           = 50.0

	// rampFraction of a dot is faded in/out around each tone to avoid
	// key clicks.
	rampFraction = 0.1
)

var (
	// ErrInvalidWPM indicates WPM must be positive
	ErrInvalidWPM = errors.New("WPM must be positive")
	// ErrInvalidToneFrequency indicates the tone frequency must be
	// positive and below Nyquist
	ErrInvalidToneFrequency = errors.New("tone frequency must be positive and less than Nyquist frequency")
	// ErrInvalidToneSampleRate indicates sample rate must be positive
	ErrInvalidToneSampleRate = errors.New("sample rate must be positive")
)

// ToneConfig holds Morse tone synthesis parameters.
type ToneConfig struct {
	// Frequency of the keyed tone in Hz (from config: tone_frequency).
	Frequency float64
	// WPM sets element timing (from config: wpm).
	WPM int
	// SampleRate of the produced buffer (from config: sample_rate).
	SampleRate int
	// Amplitude of the tone, 0 defaults to 0.8.
	Amplitude float64
}

// DefaultToneConfig returns the conventional 800 Hz keying tone at 12 WPM
// (a 100 ms dot).
func DefaultToneConfig() ToneConfig {
	return ToneConfig{
		Frequency:  800,
		WPM:        12,
		SampleRate: 16000,
		Amplitude:  0.8,
	}
}

// DotDuration returns the dot length implied by the configured WPM.
func (c ToneConfig) DotDuration() time.Duration {
	return time.Duration(millisecondsPerMinute/(float64(c.WPM)*dotsPerWord)) * time.Millisecond
}

func (c ToneConfig) validate() error {
	if c.WPM <= 0 {
		return ErrInvalidWPM
	}
	if c.SampleRate <= 0 {
		return ErrInvalidToneSampleRate
	}
	if c.Frequency <= 0 || c.Frequency >= float64(c.SampleRate)/2 {
		return ErrInvalidToneFrequency
	}
	return nil
}

// SynthesizeMorse renders a dot/dash string as keyed sine tones with
// standard 1:3:1:3:7 spacing: one unit of silence follows each element,
// and each space character adds two more units, so a single space between
// characters totals three units and a triple space between words seven.
// Characters other than '.', '-' and ' ' are ignored.
func SynthesizeMorse(pattern string, cfg ToneConfig) (*Buffer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	amplitude := cfg.Amplitude
	if amplitude <= 0 {
		amplitude = 0.8
	}

	unitSamples := int(cfg.DotDuration().Seconds() * float64(cfg.SampleRate))
	if unitSamples < 1 {
		unitSamples = 1
	}

	var samples []float32
	for _, symbol := range pattern {
		switch symbol {
		case '.':
			samples = appendTone(samples, unitSamples, cfg, amplitude)
			samples = appendSilence(samples, unitSamples)
		case '-':
			samples = appendTone(samples, 3*unitSamples, cfg, amplitude)
			samples = appendSilence(samples, unitSamples)
		case ' ':
			samples = appendSilence(samples, 2*unitSamples)
		}
	}

	return NewBuffer(samples, cfg.SampleRate), nil
}

func appendTone(samples []float32, count int, cfg ToneConfig, amplitude float64) []float32 {
	ramp := int(float64(count) * rampFraction)
	step := 2 * math.Pi * cfg.Frequency / float64(cfg.SampleRate)
	for i := 0; i < count; i++ {
		gain := amplitude
		if ramp > 0 {
			if i < ramp {
				gain *= float64(i) / float64(ramp)
			} else if i >= count-ramp {
				gain *= float64(count-1-i) / float64(ramp)
			}
		}
		samples = append(samples, float32(gain*math.Sin(step*float64(i))))
	}
	return samples
}

func appendSilence(samples []float32, count int) []float32 {
	return append(samples, make([]float32, count)...)
}
