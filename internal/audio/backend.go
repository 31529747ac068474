// internal/audio/backend.go
package audio

import (
	"errors"
	"fmt"
)

// Backend names accepted by the audio_backend config key.
const (
	BackendMiniaudio = "miniaudio"
	BackendPortAudio = "portaudio"
)

// ErrUnknownBackend indicates an unrecognized audio_backend value.
var ErrUnknownBackend = errors.New("unknown audio backend")

// Recorder is a capture device accumulating one push-to-talk span of
// samples per Start/Stop pair.
type Recorder interface {
	Init() error
	Start() error
	Stop() (*Buffer, error)
	Close() error
}

// Sink is a playback device playing one buffer at a time. Stop must be
// safely callable at any time, including when nothing is playing.
type Sink interface {
	Init() error
	Play(buf *Buffer) (<-chan struct{}, error)
	Stop()
	Close() error
}

// NewBackend builds the capture and playback devices for the named
// backend.
func NewBackend(name string, capCfg CaptureConfig, playCfg PlaybackConfig) (Recorder, Sink, error) {
	switch name {
	case BackendMiniaudio, "":
		return NewMicrophone(capCfg), NewSpeaker(playCfg), nil
	case BackendPortAudio:
		return NewPortAudioMicrophone(capCfg), NewPortAudioSpeaker(playCfg), nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}
