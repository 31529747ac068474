// internal/assistant/assistant.go
// Package assistant defines the capability contracts the orchestrator
// consumes — speech recognition, response generation and speech
// synthesis — plus offline implementations so the device works with no
// external model wired in.
package assistant

import (
	"context"
	"errors"

	"github.com/runevoice/rune/internal/audio"
)

// ErrNoRecognizer indicates no speech recognizer is configured; sessions
// that reach the speech path then fail cleanly back to idle.
var ErrNoRecognizer = errors.New("no speech recognizer configured")

// Recognizer transcribes captured speech. Calls may take seconds; they
// honor the context.
type Recognizer interface {
	Transcribe(ctx context.Context, buf *audio.Buffer) (string, error)
}

// Responder produces a reply for recognized input text.
type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

// Synthesizer renders response text as playable audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*audio.Buffer, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, buf *audio.Buffer) (string, error)

func (f RecognizerFunc) Transcribe(ctx context.Context, buf *audio.Buffer) (string, error) {
	return f(ctx, buf)
}

// NoRecognizer is the default Recognizer when no model is wired: every
// transcription fails with ErrNoRecognizer.
func NoRecognizer() Recognizer {
	return RecognizerFunc(func(context.Context, *audio.Buffer) (string, error) {
		return "", ErrNoRecognizer
	})
}
