// internal/audio/playback.go
package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

// PlaybackConfig holds playback device configuration.
type PlaybackConfig struct {
	DeviceIndex int // -1 for default device
	SampleRate  int
	Channels    int
	BufferSize  int // frames per callback
}

// DefaultPlaybackConfig returns defaults matching the capture side.
func DefaultPlaybackConfig() PlaybackConfig {
	return PlaybackConfig{
		DeviceIndex: -1,
		SampleRate:  16000,
		Channels:    1,
		BufferSize:  512,
	}
}

// Speaker plays one buffer at a time through a playback device. Play
// replaces whatever was queued; Stop discards the remainder and is safe to
// call at any time, including when nothing is playing.
type Speaker struct {
	config PlaybackConfig
	ctx    *malgo.AllocatedContext
	device *malgo.Device

	mu      sync.Mutex
	pending []float32
	pos     int
	playing bool
	done    chan struct{}
}

// NewSpeaker creates a speaker with the given configuration.
func NewSpeaker(cfg PlaybackConfig) *Speaker {
	return &Speaker{config: cfg}
}

// Init initializes the playback device. The device runs continuously and
// emits silence when no buffer is queued, so Play has no startup latency.
func (s *Speaker) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	s.ctx = ctx

	deviceConfig := malgo.DeviceConfig{
		DeviceType:         malgo.Playback,
		SampleRate:         uint32(s.config.SampleRate),
		PeriodSizeInFrames: uint32(s.config.BufferSize),
		Playback: malgo.SubConfig{
			Format:   malgo.FormatF32,
			Channels: uint32(s.config.Channels),
		},
	}

	device, err := malgo.InitDevice(s.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: s.fillOutput,
	})
	if err != nil {
		return fmt.Errorf("init playback device: %w", err)
	}
	s.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		s.device = nil
		return fmt.Errorf("start playback device: %w", err)
	}

	return nil
}

// Play queues a buffer and returns a channel that closes when playback
// finishes, whether it drains naturally or is stopped. A buffer already
// playing is discarded first.
func (s *Speaker) Play(buf *Buffer) (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device == nil {
		return nil, ErrNotInitialized
	}

	s.finishLocked()
	s.pending = buf.Samples
	s.pos = 0
	s.playing = true
	s.done = make(chan struct{})
	return s.done, nil
}

// Stop discards any queued audio immediately. Safe to call at any time.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishLocked()
}

// finishLocked ends the current playback, if any, signalling its done
// channel exactly once. Callers must hold mu.
func (s *Speaker) finishLocked() {
	if !s.playing {
		return
	}
	s.playing = false
	s.pending = nil
	s.pos = 0
	close(s.done)
}

// fillOutput is the device callback: it copies queued samples into the
// output and pads the rest with silence.
func (s *Speaker) fillOutput(pOutput, _ []byte, frameCount uint32) {
	for i := range pOutput {
		pOutput[i] = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return
	}

	frames := int(frameCount)
	for i := 0; i < frames && s.pos < len(s.pending); i++ {
		bits := math.Float32bits(s.pending[s.pos])
		offset := i * 4
		pOutput[offset] = byte(bits)
		pOutput[offset+1] = byte(bits >> 8)
		pOutput[offset+2] = byte(bits >> 16)
		pOutput[offset+3] = byte(bits >> 24)
		s.pos++
	}

	if s.pos >= len(s.pending) {
		s.finishLocked()
	}
}

// Close releases the playback device.
func (s *Speaker) Close() error {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.device != nil {
		_ = s.device.Stop()
		s.device.Uninit()
		s.device = nil
	}
	if s.ctx != nil {
		if err := s.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninit context: %w", err)
		}
		s.ctx.Free()
		s.ctx = nil
	}
	return nil
}
