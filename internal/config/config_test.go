package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func validSettings() Settings {
	return Settings{
		AudioBackend:        "miniaudio",
		DeviceIndex:         -1,
		SampleRate:          16000,
		Channels:            1,
		BufferSize:          512,
		CaptureLimitS:       30,
		PollIntervalMs:      10,
		AmplitudeThreshold:  0.3,
		EnvelopeSmoothingMs: 5,
		ToneFrequency:       800,
		MinToneSegments:     3,
		TonePurityMin:       0.5,
		DotDashBoundary:     2.0,
		CharGapBoundary:     2.0,
		WordGapBoundary:     6.0,
		WPM:                 12,
		ReplyInMorse:        true,
		UnknownChar:         "?",
	}
}

func TestInit_CreatesDefaultConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("HOME", configHome)

	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	created := filepath.Join(configHome, AppName, "config.yaml")
	if _, err := os.Stat(created); err != nil {
		t.Fatalf("default config not created at %s: %v", created, err)
	}

	s, err := Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.AudioBackend != "miniaudio" {
		t.Errorf("AudioBackend = %q, want miniaudio", s.AudioBackend)
	}
	if s.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", s.SampleRate)
	}
	if s.WPM != 12 {
		t.Errorf("WPM = %d, want 12", s.WPM)
	}
	if !s.ReplyInMorse {
		t.Error("ReplyInMorse = false, want true")
	}
}

func TestDefaultConfig_IsValid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigType(ConfigType)
	if err := viper.ReadConfig(strings.NewReader(DefaultConfig)); err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("shipped default config does not validate: %v", err)
	}
	if s != validSettings() {
		t.Errorf("shipped defaults = %+v, want %+v", s, validSettings())
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		wantOK bool
	}{
		{"valid", func(*Settings) {}, true},
		{"portaudio backend", func(s *Settings) { s.AudioBackend = "portaudio" }, true},
		{"unknown backend", func(s *Settings) { s.AudioBackend = "pulse" }, false},
		{"sample rate too low", func(s *Settings) { s.SampleRate = 4000 }, false},
		{"stereo", func(s *Settings) { s.Channels = 2 }, false},
		{"buffer not power of two", func(s *Settings) { s.BufferSize = 500 }, false},
		{"buffer too small", func(s *Settings) { s.BufferSize = 32 }, false},
		{"zero capture limit", func(s *Settings) { s.CaptureLimitS = 0 }, false},
		{"zero poll interval", func(s *Settings) { s.PollIntervalMs = 0 }, false},
		{"threshold above one", func(s *Settings) { s.AmplitudeThreshold = 1.5 }, false},
		{"smoothing too long", func(s *Settings) { s.EnvelopeSmoothingMs = 200 }, false},
		{"tone frequency too low", func(s *Settings) { s.ToneFrequency = 50 }, false},
		{"tone frequency too high", func(s *Settings) { s.ToneFrequency = 5000 }, false},
		{"zero min tone segments", func(s *Settings) { s.MinToneSegments = 0 }, false},
		{"purity above one", func(s *Settings) { s.TonePurityMin = 1.5 }, false},
		{"dot dash boundary at one", func(s *Settings) { s.DotDashBoundary = 1.0 }, false},
		{"char gap boundary below one", func(s *Settings) { s.CharGapBoundary = 0.5 }, false},
		{"word gap not beyond char gap", func(s *Settings) { s.WordGapBoundary = 2.0 }, false},
		{"wpm too slow", func(s *Settings) { s.WPM = 4 }, false},
		{"wpm too fast", func(s *Settings) { s.WPM = 90 }, false},
		{"empty unknown char", func(s *Settings) { s.UnknownChar = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("Validate: %v", err)
			}
			if !tt.wantOK && err == nil {
				t.Error("Validate passed, want an error")
			}
		})
	}
}

func TestSettings_Sentinel(t *testing.T) {
	tests := []struct {
		unknownChar string
		want        rune
	}{
		{"?", '?'},
		{"#", '#'},
		{"ab", 'a'},
		{"", '?'},
	}
	for _, tt := range tests {
		s := Settings{UnknownChar: tt.unknownChar}
		if got := s.Sentinel(); got != tt.want {
			t.Errorf("Sentinel with %q = %q, want %q", tt.unknownChar, got, tt.want)
		}
	}
}
