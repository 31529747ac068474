// internal/audio/capture.go
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
)

var (
	ErrNotInitialized = errors.New("audio device not initialized")
	ErrAlreadyRunning = errors.New("audio capture already running")
	ErrNotRunning     = errors.New("audio capture not running")
)

// CaptureConfig holds audio capture configuration.
type CaptureConfig struct {
	DeviceIndex int           // -1 for default device
	SampleRate  int           // e.g., 16000
	Channels    int           // 1 for mono
	BufferSize  int           // frames per callback
	Limit       time.Duration // capture duration cap, 0 for unlimited
}

// DefaultCaptureConfig returns sensible defaults for push-to-talk capture.
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		DeviceIndex: -1,
		SampleRate:  16000,
		Channels:    1,
		BufferSize:  512,
		Limit:       30 * time.Second,
	}
}

// Microphone records from a capture device into an in-memory buffer. One
// press-to-release span maps to one Start/Stop pair; Stop hands the
// accumulated samples over as a Buffer and the microphone forgets them.
type Microphone struct {
	config CaptureConfig
	ctx    *malgo.AllocatedContext
	device *malgo.Device

	mu           sync.Mutex
	recording    bool
	samples      []float32
	limitSamples int
}

// NewMicrophone creates a microphone with the given configuration.
func NewMicrophone(cfg CaptureConfig) *Microphone {
	limitSamples := 0
	if cfg.Limit > 0 && cfg.SampleRate > 0 {
		limitSamples = int(cfg.Limit.Seconds() * float64(cfg.SampleRate))
	}
	return &Microphone{config: cfg, limitSamples: limitSamples}
}

// Init initializes the audio backend.
func (m *Microphone) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	m.ctx = ctx
	return nil
}

// Start begins accumulating samples.
func (m *Microphone) Start() error {
	m.mu.Lock()
	if m.recording {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	if m.ctx == nil {
		m.mu.Unlock()
		return ErrNotInitialized
	}
	m.samples = m.samples[:0]
	m.mu.Unlock()

	deviceConfig := malgo.DeviceConfig{
		DeviceType:         malgo.Capture,
		SampleRate:         uint32(m.config.SampleRate),
		PeriodSizeInFrames: uint32(m.config.BufferSize),
		Capture: malgo.SubConfig{
			Format:   malgo.FormatF32,
			Channels: uint32(m.config.Channels),
		},
	}

	if m.config.DeviceIndex >= 0 {
		devices, err := m.ctx.Devices(malgo.Capture)
		if err != nil {
			return fmt.Errorf("enumerate devices: %w", err)
		}
		if m.config.DeviceIndex >= len(devices) {
			return fmt.Errorf("device index %d out of range (have %d devices)",
				m.config.DeviceIndex, len(devices))
		}
		deviceConfig.Capture.DeviceID = devices[m.config.DeviceIndex].ID.Pointer()
	}

	onRecvFrames := func(outputSamples, inputSamples []byte, frameCount uint32) {
		if len(inputSamples) == 0 {
			return
		}
		samples := bytesToFloat32(inputSamples)

		m.mu.Lock()
		defer m.mu.Unlock()
		if !m.recording {
			return
		}
		if m.limitSamples > 0 {
			room := m.limitSamples - len(m.samples)
			if room <= 0 {
				return
			}
			if len(samples) > room {
				samples = samples[:room]
			}
		}
		m.samples = append(m.samples, samples...)
	}

	device, err := malgo.InitDevice(m.ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onRecvFrames})
	if err != nil {
		return fmt.Errorf("init capture device: %w", err)
	}

	m.mu.Lock()
	m.device = device
	m.recording = true
	m.mu.Unlock()

	if err := device.Start(); err != nil {
		m.mu.Lock()
		m.device = nil
		m.recording = false
		m.mu.Unlock()
		device.Uninit()
		return fmt.Errorf("start capture device: %w", err)
	}

	return nil
}

// Stop ends the capture and returns the recorded buffer. Ownership of the
// samples transfers to the caller.
func (m *Microphone) Stop() (*Buffer, error) {
	m.mu.Lock()
	if !m.recording {
		m.mu.Unlock()
		return nil, ErrNotRunning
	}
	m.recording = false
	device := m.device
	m.device = nil
	samples := m.samples
	m.samples = nil
	m.mu.Unlock()

	if device != nil {
		_ = device.Stop()
		device.Uninit()
	}

	return NewBuffer(samples, m.config.SampleRate), nil
}

// Close releases all audio resources.
func (m *Microphone) Close() error {
	if m.IsRecording() {
		if _, err := m.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx != nil {
		if err := m.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninit context: %w", err)
		}
		m.ctx.Free()
		m.ctx = nil
	}
	return nil
}

// IsRecording returns true if capture is active.
func (m *Microphone) IsRecording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recording
}

// bytesToFloat32 converts raw little-endian float32 bytes to samples.
func bytesToFloat32(data []byte) []float32 {
	numSamples := len(data) / 4
	samples := make([]float32, numSamples)

	for i := 0; i < numSamples; i++ {
		offset := i * 4
		bits := uint32(data[offset]) |
			uint32(data[offset+1])<<8 |
			uint32(data[offset+2])<<16 |
			uint32(data[offset+3])<<24
		samples[i] = math.Float32frombits(bits)
	}

	return samples
}
