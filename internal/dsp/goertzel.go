// internal/dsp/goertzel.go
package dsp

import (
	"errors"
	"math"
)

var (
	// ErrInvalidBlockSize indicates block size must be positive
	ErrInvalidBlockSize = errors.New("block size must be positive")
	// ErrInvalidSampleRate indicates sample rate must be positive
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	// ErrInvalidFrequency indicates frequency must be positive and below Nyquist
	ErrInvalidFrequency = errors.New("target frequency must be positive and less than Nyquist frequency")
)

// minPurityRMS is the block RMS below which a block is considered quiet
// and skipped when scoring tone purity.
const minPurityRMS = 0.01

// Goertzel computes the magnitude of a single frequency bin, which is
// cheaper than an FFT when only one frequency matters. The segmenter works
// on the broadband envelope; Goertzel is used by the Morse-likelihood
// heuristic to check how much of the signal's energy sits at the keyed
// tone frequency.
type Goertzel struct {
	targetFrequency float64
	sampleRate      float64
	blockSize       int
	coefficient     float64 // 2 * cos(2π * k / N)
	normalizer      float64 // 2 / blockSize
}

// NewGoertzel creates a Goertzel scorer for the given tone frequency.
func NewGoertzel(targetFrequency, sampleRate float64, blockSize int) (*Goertzel, error) {
	if blockSize <= 0 {
		return nil, ErrInvalidBlockSize
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if targetFrequency <= 0 || targetFrequency >= sampleRate/2 {
		return nil, ErrInvalidFrequency
	}

	k := (targetFrequency / sampleRate) * float64(blockSize)
	omega := (2.0 * math.Pi * k) / float64(blockSize)

	return &Goertzel{
		targetFrequency: targetFrequency,
		sampleRate:      sampleRate,
		blockSize:       blockSize,
		coefficient:     2.0 * math.Cos(omega),
		normalizer:      2.0 / float64(blockSize),
	}, nil
}

// Magnitude computes the normalized magnitude of the target frequency over
// one block. For input in -1.0..1.0, a pure sine at the target frequency
// scores approximately its amplitude. The block must have at least
// BlockSize samples; extra samples are ignored.
func (g *Goertzel) Magnitude(block []float32) float64 {
	if len(block) < g.blockSize {
		return 0
	}

	var s0, s1, s2 float64
	for i := 0; i < g.blockSize; i++ {
		s0 = float64(block[i]) + g.coefficient*s1 - s2
		s2 = s1
		s1 = s0
	}

	power := s1*s1 + s2*s2 - g.coefficient*s1*s2
	if power < 0 {
		power = 0
	}
	return math.Sqrt(power) * g.normalizer
}

// Purity scores how tone-like the signal is: the mean, over all
// non-quiet blocks, of the target-frequency magnitude relative to the
// block's total energy. A keyed sine tone scores near 1.0, speech and
// noise spread energy across the spectrum and score much lower. Returns 0
// when the buffer holds no audible block.
func (g *Goertzel) Purity(samples []float32) float64 {
	var total float64
	blocks := 0

	for start := 0; start+g.blockSize <= len(samples); start += g.blockSize {
		block := samples[start : start+g.blockSize]

		var sumSquares float64
		for _, v := range block {
			sumSquares += float64(v) * float64(v)
		}
		rms := math.Sqrt(sumSquares / float64(g.blockSize))
		if rms < minPurityRMS {
			continue
		}

		// A full-scale sine has magnitude = amplitude = rms * sqrt(2).
		ratio := g.Magnitude(block) / (rms * math.Sqrt2)
		if ratio > 1 {
			ratio = 1
		}
		total += ratio
		blocks++
	}

	if blocks == 0 {
		return 0
	}
	return total / float64(blocks)
}

// BlockSize returns the configured block size.
func (g *Goertzel) BlockSize() int {
	return g.blockSize
}
