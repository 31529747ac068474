// internal/audio/portaudio.go
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// PortAudio backend, selectable via the audio_backend config key for hosts
// where miniaudio misbehaves. Mirrors the Microphone/Speaker contracts.

// PortAudioMicrophone records via a blocking portaudio input stream.
type PortAudioMicrophone struct {
	config CaptureConfig

	mu           sync.Mutex
	stream       *portaudio.Stream
	chunk        []float32
	samples      []float32
	recording    bool
	done         chan struct{}
	limitSamples int
}

// NewPortAudioMicrophone creates a portaudio-backed microphone.
func NewPortAudioMicrophone(cfg CaptureConfig) *PortAudioMicrophone {
	limitSamples := 0
	if cfg.Limit > 0 && cfg.SampleRate > 0 {
		limitSamples = int(cfg.Limit.Seconds() * float64(cfg.SampleRate))
	}
	return &PortAudioMicrophone{
		config:       cfg,
		chunk:        make([]float32, cfg.BufferSize),
		limitSamples: limitSamples,
	}
}

// Init initializes the portaudio runtime.
func (m *PortAudioMicrophone) Init() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("init portaudio: %w", err)
	}
	return nil
}

// Start opens the default input stream and begins accumulating samples.
func (m *PortAudioMicrophone) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.recording {
		return ErrAlreadyRunning
	}

	stream, err := portaudio.OpenDefaultStream(
		m.config.Channels, 0,
		float64(m.config.SampleRate), m.config.BufferSize,
		m.chunk,
	)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}

	m.stream = stream
	m.samples = m.samples[:0]
	m.recording = true
	m.done = make(chan struct{})

	go m.recordLoop(m.done)
	return nil
}

func (m *PortAudioMicrophone) recordLoop(done chan struct{}) {
	defer close(done)

	for {
		m.mu.Lock()
		recording := m.recording
		stream := m.stream
		m.mu.Unlock()
		if !recording || stream == nil {
			return
		}

		if err := stream.Read(); err != nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		m.mu.Lock()
		if m.recording {
			chunk := m.chunk
			if m.limitSamples > 0 {
				room := m.limitSamples - len(m.samples)
				if room <= 0 {
					chunk = nil
				} else if len(chunk) > room {
					chunk = chunk[:room]
				}
			}
			m.samples = append(m.samples, chunk...)
		}
		m.mu.Unlock()
	}
}

// Stop ends the capture and returns the recorded buffer.
func (m *PortAudioMicrophone) Stop() (*Buffer, error) {
	m.mu.Lock()
	if !m.recording {
		m.mu.Unlock()
		return nil, ErrNotRunning
	}
	m.recording = false
	stream := m.stream
	m.stream = nil
	samples := m.samples
	m.samples = nil
	done := m.done
	m.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}
	if stream != nil {
		_ = stream.Stop()
		_ = stream.Close()
	}

	return NewBuffer(samples, m.config.SampleRate), nil
}

// Close releases portaudio resources.
func (m *PortAudioMicrophone) Close() error {
	if _, err := m.Stop(); err != nil && err != ErrNotRunning {
		return err
	}
	return portaudio.Terminate()
}

// PortAudioSpeaker plays buffers via a blocking portaudio output stream.
type PortAudioSpeaker struct {
	config PlaybackConfig

	mu      sync.Mutex
	stream  *portaudio.Stream
	chunk   []float32
	stopped bool
	done    chan struct{}
}

// NewPortAudioSpeaker creates a portaudio-backed speaker.
func NewPortAudioSpeaker(cfg PlaybackConfig) *PortAudioSpeaker {
	return &PortAudioSpeaker{
		config: cfg,
		chunk:  make([]float32, cfg.BufferSize),
	}
}

// Init initializes the portaudio runtime and opens the output stream.
func (s *PortAudioSpeaker) Init() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("init portaudio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(
		0, s.config.Channels,
		float64(s.config.SampleRate), s.config.BufferSize,
		s.chunk,
	)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("start output stream: %w", err)
	}

	s.mu.Lock()
	s.stream = stream
	s.mu.Unlock()
	return nil
}

// Play writes the buffer to the output stream chunk by chunk in the
// background. The returned channel closes when playback finishes or is
// stopped.
func (s *PortAudioSpeaker) Play(buf *Buffer) (<-chan struct{}, error) {
	s.mu.Lock()
	if s.stream == nil {
		s.mu.Unlock()
		return nil, ErrNotInitialized
	}
	if s.done != nil {
		// Cancel the previous playback before starting a new one.
		s.stopped = true
		prev := s.done
		s.mu.Unlock()
		<-prev
		s.mu.Lock()
	}
	s.stopped = false
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	go s.playLoop(buf.Samples, done)
	return done, nil
}

func (s *PortAudioSpeaker) playLoop(samples []float32, done chan struct{}) {
	defer func() {
		s.mu.Lock()
		if s.done == done {
			s.done = nil
		}
		s.mu.Unlock()
		close(done)
	}()

	size := len(s.chunk)
	for start := 0; start < len(samples); start += size {
		s.mu.Lock()
		stopped := s.stopped
		stream := s.stream
		s.mu.Unlock()
		if stopped || stream == nil {
			return
		}

		end := start + size
		if end > len(samples) {
			end = len(samples)
		}
		n := copy(s.chunk, samples[start:end])
		for i := n; i < size; i++ {
			s.chunk[i] = 0
		}
		if err := stream.Write(); err != nil {
			return
		}
	}
}

// Stop discards the remainder of the current playback. Safe to call at
// any time.
func (s *PortAudioSpeaker) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

// Close releases the output stream and portaudio resources.
func (s *PortAudioSpeaker) Close() error {
	s.mu.Lock()
	s.stopped = true
	stream := s.stream
	s.stream = nil
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
	if stream != nil {
		_ = stream.Stop()
		_ = stream.Close()
	}
	return portaudio.Terminate()
}
