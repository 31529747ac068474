// internal/orchestrator/session.go
package orchestrator

import (
	"time"

	"github.com/runevoice/rune/internal/audio"
)

// State is the orchestrator's position in the push-to-talk loop. There is
// no terminal state; the loop runs until its context is cancelled.
type State int

const (
	// StateIdle awaits a button press.
	StateIdle State = iota
	// StateCapturing accumulates microphone audio while the button is held.
	StateCapturing
	// StateClassifying decides between the Morse and speech branches.
	StateClassifying
	// StateRecognizing waits on decode or transcription, then on the
	// assistant and synthesis round trip.
	StateRecognizing
	// StateResponding plays the response; the only interruptible state.
	StateResponding
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateClassifying:
		return "classifying"
	case StateRecognizing:
		return "recognizing"
	case StateResponding:
		return "responding"
	}
	return "unknown"
}

// Session is one push-to-talk interaction. Exactly one session is active
// at a time and the orchestrator owns it exclusively; it is discarded when
// its response finishes playing, when a collaborator fails, or when a
// barge-in supersedes it. The machine state lives on the orchestrator as
// the single source of truth, not on the session.
type Session struct {
	StartedAt      time.Time
	Buffer         *audio.Buffer
	IsMorse        bool
	RecognizedText string
	ResponseText   string
}
