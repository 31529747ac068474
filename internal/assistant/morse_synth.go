// internal/assistant/morse_synth.go
package assistant

import (
	"context"

	"github.com/runevoice/rune/internal/audio"
	"github.com/runevoice/rune/internal/morse"
)

// MorseSynthesizer renders responses as keyed Morse tones instead of
// speech. It doubles as the default Synthesizer when no TTS model is
// wired, and as the response path for sessions whose input was keyed
// Morse (reply_in_morse).
type MorseSynthesizer struct {
	config audio.ToneConfig
}

// NewMorseSynthesizer creates a synthesizer keying at the given tone
// configuration.
func NewMorseSynthesizer(cfg audio.ToneConfig) *MorseSynthesizer {
	return &MorseSynthesizer{config: cfg}
}

// Synthesize encodes the text as Morse and renders it as tones.
func (s *MorseSynthesizer) Synthesize(_ context.Context, text string) (*audio.Buffer, error) {
	return audio.SynthesizeMorse(morse.TextToMorse(text), s.config)
}
