// internal/morse/detect.go
package morse

import (
	"time"

	"github.com/runevoice/rune/internal/dsp"
)

// Detection defaults (from config when wired through the orchestrator).
const (
	// DefaultMinToneSegments is the minimum number of tone intervals a
	// buffer needs before it can be treated as keyed Morse.
	DefaultMinToneSegments = 3
	// DefaultTonePurityMin is the minimum tone-purity score for the
	// Morse branch.
	DefaultTonePurityMin = 0.5
	// DefaultJitterTolerance is the relative deviation from 1x or 3x the
	// estimated unit within which a tone still counts as well-formed.
	DefaultJitterTolerance = 0.35
)

// DetectConfig tunes the Morse/speech consensus heuristic.
type DetectConfig struct {
	// MinToneSegments (from config: min_tone_segments).
	MinToneSegments int
	// TonePurityMin (from config: tone_purity_min).
	TonePurityMin float64
	// JitterTolerance is the allowed relative deviation of tones from
	// exact unit multiples.
	JitterTolerance float64
}

func (c DetectConfig) withDefaults() DetectConfig {
	if c.MinToneSegments <= 0 {
		c.MinToneSegments = DefaultMinToneSegments
	}
	if c.TonePurityMin <= 0 {
		c.TonePurityMin = DefaultTonePurityMin
	}
	if c.JitterTolerance <= 0 {
		c.JitterTolerance = DefaultJitterTolerance
	}
	return c
}

// Likelihood is the outcome of the Morse/speech classification heuristic
// for one captured buffer.
type Likelihood struct {
	// ToneSegments is how many tone intervals the segmenter found.
	ToneSegments int
	// Unit is the estimated time unit, zero when estimation failed.
	Unit time.Duration
	// UnitStable reports whether every tone sits near 1x or 3x the unit.
	UnitStable bool
	// TonePurity is the Goertzel purity score for the buffer.
	TonePurity float64
	// IsMorse is the consensus decision. Anything short of full
	// agreement classifies as speech: speech recognition degrades
	// gracefully to "no match", while a garbage Morse decode of noise
	// does not.
	IsMorse bool
}

// DetectMorse decides whether segmented audio is keyed Morse. The
// consensus requires enough tone segments, a stable unit estimate and a
// tone-dominated spectrum; ambiguity resolves to the speech branch by
// policy and is never surfaced as an error.
func DetectMorse(segments []dsp.Segment, tonePurity float64, cfg DetectConfig) Likelihood {
	cfg = cfg.withDefaults()

	lik := Likelihood{TonePurity: tonePurity}
	for _, seg := range segments {
		if seg.Kind == dsp.Tone {
			lik.ToneSegments++
		}
	}

	unit, err := EstimateUnit(segments)
	if err != nil {
		return lik
	}
	lik.Unit = unit
	lik.UnitStable = unitStable(segments, unit, cfg.JitterTolerance)

	lik.IsMorse = lik.ToneSegments >= cfg.MinToneSegments &&
		lik.UnitStable &&
		tonePurity >= cfg.TonePurityMin
	return lik
}

// unitStable checks that every tone is within tolerance of one dot or one
// dash length.
func unitStable(segments []dsp.Segment, unit time.Duration, tolerance float64) bool {
	for _, seg := range segments {
		if seg.Kind != dsp.Tone {
			continue
		}
		ratio := float64(seg.Duration) / float64(unit)
		nearDot := ratio >= 1-tolerance && ratio <= 1+tolerance
		nearDash := ratio >= DashRatio*(1-tolerance) && ratio <= DashRatio*(1+tolerance)
		if !nearDot && !nearDash {
			return false
		}
	}
	return true
}

// DecodeSegments runs the full decode path: estimate the unit, classify
// every segment, group symbols into tokens and look the tokens up in the
// table. Unrecognized tokens decode to the sentinel; only a buffer with no
// tone at all fails, with ErrInsufficientSignal.
func DecodeSegments(segments []dsp.Segment, bounds Boundaries, sentinel rune) (string, error) {
	unit, err := EstimateUnit(segments)
	if err != nil {
		return "", err
	}
	symbols := Classify(segments, unit, bounds)
	tokens := SymbolsToTokens(symbols)
	return TokensToText(tokens, sentinel), nil
}
