// internal/orchestrator/orchestrator.go
// Package orchestrator runs the push-to-talk interaction state machine:
// button edges drive capture, captured audio is classified as Morse or
// speech, recognized text goes through the assistant round trip and the
// response is played back, with barge-in interruption during playback.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/runevoice/rune/internal/assistant"
	"github.com/runevoice/rune/internal/audio"
	"github.com/runevoice/rune/internal/dsp"
	"github.com/runevoice/rune/internal/input"
	"github.com/runevoice/rune/internal/morse"
)

var (
	// ErrRecorderRequired indicates a capture device is required
	ErrRecorderRequired = errors.New("recorder is required")
	// ErrPlayerRequired indicates a playback sink is required
	ErrPlayerRequired = errors.New("player is required")
	// ErrEventsRequired indicates a button event channel is required
	ErrEventsRequired = errors.New("button event channel is required")
	// ErrNothingRecognized indicates recognition returned no text
	ErrNothingRecognized = errors.New("recognition produced no text")
)

// failureNotice is keyed after a collaborator failure so the user is never
// left with silence: the Morse pattern for '?'.
const failureNotice = "..--.."

// Recorder is the capture side of the microphone/speaker pair. The pair is
// mutually exclusive: recording and playback never overlap.
type Recorder interface {
	Start() error
	Stop() (*audio.Buffer, error)
}

// Player is the playback sink. Stop must be safe at any time, including
// when nothing is playing.
type Player interface {
	Play(buf *audio.Buffer) (<-chan struct{}, error)
	Stop()
}

// Config holds the orchestrator's tunables. Everything here is injected
// from the application config; none of it is a hard assumption.
type Config struct {
	// SampleRate of captured audio, used for the tone-purity scorer.
	SampleRate int
	// PurityBlockSize is the Goertzel block size for purity scoring.
	PurityBlockSize int
	// ToneFrequency is the expected keying tone in Hz.
	ToneFrequency float64
	// AmplitudeThreshold and SmoothingWindow configure the envelope
	// segmenter.
	AmplitudeThreshold float64
	SmoothingWindow    time.Duration
	// Boundaries are the Morse classification boundaries in time units.
	Boundaries morse.Boundaries
	// Detect tunes the Morse/speech consensus heuristic.
	Detect morse.DetectConfig
	// Sentinel replaces unrecognized Morse characters in decoded text.
	Sentinel rune
	// ReplyInMorse keys responses as tones when the input was Morse.
	ReplyInMorse bool
	// Tone configures keyed replies and the audible failure notice.
	Tone audio.ToneConfig
}

// Deps are the collaborators the orchestrator coordinates. Recorder,
// Player and Events are required; missing recognition, response or
// synthesis capabilities fall back to the offline implementations.
type Deps struct {
	Recorder    Recorder
	Player      Player
	Events      <-chan input.ButtonEvent
	Recognizer  assistant.Recognizer
	Responder   assistant.Responder
	Synthesizer assistant.Synthesizer
	Logger      *slog.Logger
}

// Orchestrator is the session state machine. All transitions happen on the
// Run goroutine; state and session are guarded only so observers (logging,
// tests) can read them concurrently.
type Orchestrator struct {
	config Config
	log    *slog.Logger

	recorder    Recorder
	player      Player
	events      <-chan input.ButtonEvent
	recognizer  assistant.Recognizer
	responder   assistant.Responder
	synthesizer assistant.Synthesizer

	segmenter *dsp.Segmenter
	goertzel  *dsp.Goertzel

	mu      sync.Mutex
	state   State
	session *Session

	playbackDone <-chan struct{}
}

// New creates an orchestrator. Fallbacks: a failing recognizer (speech
// input is reported as unavailable), the keyword demo responder, and the
// Morse tone synthesizer.
func New(cfg Config, deps Deps) (*Orchestrator, error) {
	if deps.Recorder == nil {
		return nil, ErrRecorderRequired
	}
	if deps.Player == nil {
		return nil, ErrPlayerRequired
	}
	if deps.Events == nil {
		return nil, ErrEventsRequired
	}

	segmenter, err := dsp.NewSegmenter(dsp.SegmenterConfig{
		Threshold:       cfg.AmplitudeThreshold,
		SmoothingWindow: cfg.SmoothingWindow,
	})
	if err != nil {
		return nil, err
	}

	if cfg.PurityBlockSize <= 0 {
		cfg.PurityBlockSize = 512
	}
	if cfg.Tone.WPM == 0 {
		cfg.Tone = audio.DefaultToneConfig()
	}
	goertzel, err := dsp.NewGoertzel(cfg.ToneFrequency, float64(cfg.SampleRate), cfg.PurityBlockSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		config:      cfg,
		log:         deps.Logger,
		recorder:    deps.Recorder,
		player:      deps.Player,
		events:      deps.Events,
		recognizer:  deps.Recognizer,
		responder:   deps.Responder,
		synthesizer: deps.Synthesizer,
		segmenter:   segmenter,
		goertzel:    goertzel,
		state:       StateIdle,
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	if o.recognizer == nil {
		o.recognizer = assistant.NoRecognizer()
	}
	if o.responder == nil {
		o.responder = assistant.NewKeywordEngine()
	}
	if o.synthesizer == nil {
		o.synthesizer = assistant.NewMorseSynthesizer(cfg.Tone)
	}
	return o, nil
}

// State returns the current machine state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Session returns the active session, nil when idle.
func (o *Orchestrator) Session() *Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) setSession(s *Session) {
	o.mu.Lock()
	o.session = s
	o.mu.Unlock()
}

// Run drives the state machine until the context is cancelled. The
// long-latency recognition and synthesis calls run on this goroutine;
// button edges arriving meanwhile sit in the single-slot event channel and
// are handled on the next loop turn, which is how a press during playback
// becomes an immediate barge-in.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.log.Info("orchestrator started")

	for {
		switch o.State() {
		case StateIdle:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev := <-o.events:
				if ev.Kind == input.Pressed {
					o.beginCapture(ev)
				}
			}

		case StateCapturing:
			select {
			case <-ctx.Done():
				if _, err := o.recorder.Stop(); err != nil {
					o.log.Warn("stopping capture on shutdown", "error", err)
				}
				return ctx.Err()
			case ev := <-o.events:
				// Extra presses while already capturing are
				// debounced; only the release edge matters.
				if ev.Kind == input.Released {
					o.completeSession(ctx)
				}
			}

		case StateResponding:
			select {
			case <-ctx.Done():
				o.player.Stop()
				return ctx.Err()
			case ev := <-o.events:
				if ev.Kind == input.Pressed {
					o.log.Info("barge-in: playback interrupted")
					o.setSession(nil)
					o.beginCapture(ev)
				}
			case <-o.playbackDone:
				o.log.Debug("playback complete")
				o.setSession(nil)
				o.setState(StateIdle)
			}

		default:
			// Classifying and Recognizing are traversed synchronously
			// inside completeSession; observing them here means a
			// failure path missed its reset.
			o.setState(StateIdle)
		}
	}
}

// beginCapture opens a new session. Playback is stopped synchronously
// before capture starts so the device never records its own voice.
func (o *Orchestrator) beginCapture(ev input.ButtonEvent) {
	o.player.Stop()

	o.setSession(&Session{StartedAt: ev.Timestamp})
	if err := o.recorder.Start(); err != nil {
		o.fail("capture", err)
		return
	}
	o.log.Debug("capture started")
	o.setState(StateCapturing)
}

// completeSession runs the release-to-playback pipeline: classify the
// captured buffer, recognize it on the Morse or speech branch, get the
// assistant's response, synthesize and start playback.
func (o *Orchestrator) completeSession(ctx context.Context) {
	o.setState(StateClassifying)

	buf, err := o.recorder.Stop()
	if err != nil {
		o.fail("capture", err)
		return
	}
	session := o.Session()
	session.Buffer = buf

	segments := o.segmenter.Segment(buf)
	purity := o.goertzel.Purity(buf.Samples)
	likelihood := morse.DetectMorse(segments, purity, o.config.Detect)
	session.IsMorse = likelihood.IsMorse
	o.log.Debug("input classified",
		"is_morse", likelihood.IsMorse,
		"tone_segments", likelihood.ToneSegments,
		"unit", likelihood.Unit,
		"purity", likelihood.TonePurity,
	)

	o.setState(StateRecognizing)

	var text string
	if likelihood.IsMorse {
		text, err = morse.DecodeSegments(segments, o.config.Boundaries, o.config.Sentinel)
	} else {
		text, err = o.recognizer.Transcribe(ctx, buf)
	}
	if err != nil {
		o.fail("recognition", err)
		return
	}
	if strings.TrimSpace(text) == "" {
		o.fail("recognition", ErrNothingRecognized)
		return
	}
	session.RecognizedText = text
	o.log.Info("input recognized", "text", text, "is_morse", session.IsMorse)

	response, err := o.responder.Respond(ctx, text)
	if err != nil {
		o.fail("assistant", err)
		return
	}
	session.ResponseText = response
	o.log.Info("assistant responded", "text", response)

	var out *audio.Buffer
	if o.config.ReplyInMorse && session.IsMorse {
		out, err = audio.SynthesizeMorse(morse.TextToMorse(response), o.config.Tone)
	} else {
		out, err = o.synthesizer.Synthesize(ctx, response)
	}
	if err != nil {
		o.fail("synthesis", err)
		return
	}

	done, err := o.player.Play(out)
	if err != nil {
		o.fail("playback", err)
		return
	}
	o.playbackDone = done
	o.setState(StateResponding)
}

// fail reports a collaborator failure, keys an audible notice and resets
// to idle. Session failures are never silent and never leave the machine
// stuck in a non-idle state.
func (o *Orchestrator) fail(stage string, err error) {
	o.log.Error("session failed", "stage", stage, "error", err)

	if notice, synthErr := audio.SynthesizeMorse(failureNotice, o.config.Tone); synthErr == nil {
		if _, playErr := o.player.Play(notice); playErr != nil {
			o.log.Warn("failure notice playback", "error", playErr)
		}
	}

	o.setSession(nil)
	o.setState(StateIdle)
}
