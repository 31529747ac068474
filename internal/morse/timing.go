// internal/morse/timing.go
package morse

import (
	"errors"
	"math"
	"time"

	"github.com/runevoice/rune/internal/dsp"
)

// Standard Morse timing ratios (ITU): dot 1, dash 3, intra-character gap 1,
// inter-character gap 3, inter-word gap 7 time units.
const (
	// DashRatio is the dash duration in time units.
	DashRatio = 3.0
	// InterCharGapRatio is the inter-character gap in time units.
	InterCharGapRatio = 3.0
	// InterWordGapRatio is the inter-word gap in time units.
	InterWordGapRatio = 7.0

	// DefaultDotDashBoundary is the decision boundary between dot and
	// dash, the midpoint of 1 and 3 units.
	DefaultDotDashBoundary = 2.0
	// DefaultCharGapBoundary is the decision boundary between the
	// intra-character and inter-character gap, the midpoint of 1 and 3.
	DefaultCharGapBoundary = 2.0
	// DefaultWordGapBoundary is the decision boundary between the
	// inter-character and inter-word gap.
	DefaultWordGapBoundary = 6.0

	// maxEstimateIterations bounds the partition refinement loop so
	// estimation always terminates.
	maxEstimateIterations = 8
	// estimateEpsilon is the relative change below which the estimate is
	// considered stable.
	estimateEpsilon = 0.01
)

// ErrInsufficientSignal indicates no tone segment was available to
// estimate the time unit from.
var ErrInsufficientSignal = errors.New("no tone segments to estimate time unit from")

// Boundaries holds the classification boundaries in time units. All
// boundaries are inclusive toward the shorter class: a duration exactly on
// a boundary classifies as the shorter symbol, which keeps systematically
// fast senders decodable.
type Boundaries struct {
	// DotDash separates dot from dash (from config: dot_dash_boundary).
	DotDash float64
	// CharGap separates intra-character from inter-character gaps
	// (from config: char_gap_boundary).
	CharGap float64
	// WordGap separates inter-character from inter-word gaps
	// (from config: word_gap_boundary).
	WordGap float64
}

// DefaultBoundaries returns the standard 1:3:7 midpoint boundaries.
func DefaultBoundaries() Boundaries {
	return Boundaries{
		DotDash: DefaultDotDashBoundary,
		CharGap: DefaultCharGapBoundary,
		WordGap: DefaultWordGapBoundary,
	}
}

// withDefaults fills non-positive fields so Classify stays total even on a
// zero-value Boundaries.
func (b Boundaries) withDefaults() Boundaries {
	def := DefaultBoundaries()
	if b.DotDash <= 0 {
		b.DotDash = def.DotDash
	}
	if b.CharGap <= 0 {
		b.CharGap = def.CharGap
	}
	if b.WordGap <= 0 {
		b.WordGap = def.WordGap
	}
	return b
}

// EstimateUnit infers the base time unit (one dot) from a segment run.
//
// The minimum tone duration seeds the estimate: a well-formed sender never
// keys a dot shorter than the true unit, only longer through jitter. The
// estimate is then refined by partitioning tone durations at twice the
// current estimate (dots below, dashes above) and re-averaging the dot
// cluster, iterating until stable. The loop is bounded so malformed input
// terminates; such input surfaces later as unrecognized tokens, not here.
func EstimateUnit(segments []dsp.Segment) (time.Duration, error) {
	var tones []float64
	for _, seg := range segments {
		if seg.Kind == dsp.Tone && seg.Duration > 0 {
			tones = append(tones, float64(seg.Duration))
		}
	}
	if len(tones) == 0 {
		return 0, ErrInsufficientSignal
	}

	estimate := tones[0]
	for _, d := range tones {
		if d < estimate {
			estimate = d
		}
	}

	for i := 0; i < maxEstimateIterations; i++ {
		boundary := 2 * estimate
		var sum float64
		count := 0
		for _, d := range tones {
			if d <= boundary {
				sum += d
				count++
			}
		}
		if count == 0 {
			break
		}
		next := sum / float64(count)
		stable := math.Abs(next-estimate) <= estimate*estimateEpsilon
		estimate = next
		if stable {
			break
		}
	}

	return time.Duration(estimate), nil
}

// Classify maps every segment to a symbol by rounding its duration against
// the time unit. The function is pure and total: every segment maps to
// some symbol, and boundary ties resolve toward the shorter
// classification (dot over dash, smaller gap over larger).
func Classify(segments []dsp.Segment, unit time.Duration, bounds Boundaries) []Symbol {
	if unit <= 0 {
		unit = 1
	}
	bounds = bounds.withDefaults()

	symbols := make([]Symbol, 0, len(segments))
	for _, seg := range segments {
		ratio := float64(seg.Duration) / float64(unit)
		if seg.Kind == dsp.Tone {
			if ratio <= bounds.DotDash {
				symbols = append(symbols, Dot)
			} else {
				symbols = append(symbols, Dash)
			}
			continue
		}
		switch {
		case ratio <= bounds.CharGap:
			symbols = append(symbols, IntraCharGap)
		case ratio <= bounds.WordGap:
			symbols = append(symbols, InterCharGap)
		default:
			symbols = append(symbols, InterWordGap)
		}
	}
	return symbols
}
