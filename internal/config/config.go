// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	AppName       = "rune"
	ConfigType    = "yaml"
	DefaultConfig = `# Rune Configuration

# Audio device settings
audio_backend: "miniaudio"  # Audio backend: miniaudio or portaudio
device_index: -1            # -1 for default device
sample_rate: 16000          # Audio sample rate in Hz
channels: 1                 # Number of channels (1=mono)
buffer_size: 512            # Frames per audio callback
capture_limit_s: 30         # Maximum capture length per button press, in seconds

# Push-to-talk button
poll_interval_ms: 10        # Button poll interval in milliseconds

# Morse detection
amplitude_threshold: 0.3    # Envelope level above which a sample counts as tone (0.0-1.0)
envelope_smoothing_ms: 5    # Envelope moving-average window in milliseconds
tone_frequency: 800         # Expected keying tone in Hz
min_tone_segments: 3        # Minimum tone intervals before input can be Morse
tone_purity_min: 0.5        # Minimum tone-purity score for the Morse branch (0.0-1.0)

# Morse timing (in dot units; standard ratios are 1:3:1:3:7)
dot_dash_boundary: 2.0      # Tone longer than this many units is a dash
char_gap_boundary: 2.0      # Silence longer than this many units ends a character
word_gap_boundary: 6.0      # Silence longer than this many units ends a word

# Morse output
wpm: 12                     # Keying speed for synthesized Morse replies
reply_in_morse: true        # Key responses as tones when the input was Morse
unknown_char: "?"           # Placeholder for undecodable Morse characters

# Output
debug: false                # Enable debug logging
`
)

// Settings holds all application configuration
type Settings struct {
	// Audio device settings
	AudioBackend  string `mapstructure:"audio_backend"`
	DeviceIndex   int    `mapstructure:"device_index"`
	SampleRate    int    `mapstructure:"sample_rate"`
	Channels      int    `mapstructure:"channels"`
	BufferSize    int    `mapstructure:"buffer_size"`
	CaptureLimitS int    `mapstructure:"capture_limit_s"`

	// Push-to-talk button
	PollIntervalMs int `mapstructure:"poll_interval_ms"`

	// Morse detection
	AmplitudeThreshold  float64 `mapstructure:"amplitude_threshold"`
	EnvelopeSmoothingMs int     `mapstructure:"envelope_smoothing_ms"`
	ToneFrequency       float64 `mapstructure:"tone_frequency"`
	MinToneSegments     int     `mapstructure:"min_tone_segments"`
	TonePurityMin       float64 `mapstructure:"tone_purity_min"`

	// Morse timing boundaries in dot units
	DotDashBoundary float64 `mapstructure:"dot_dash_boundary"`
	CharGapBoundary float64 `mapstructure:"char_gap_boundary"`
	WordGapBoundary float64 `mapstructure:"word_gap_boundary"`

	// Morse output
	WPM          int    `mapstructure:"wpm"`
	ReplyInMorse bool   `mapstructure:"reply_in_morse"`
	UnknownChar  string `mapstructure:"unknown_char"`

	// Output
	Debug bool `mapstructure:"debug"`
}

// Init initializes Viper with defaults and config file.
// Config file search order: current directory, then ~/.config/rune/
func Init() error {
	// Set defaults
	viper.SetDefault("audio_backend", "miniaudio")
	viper.SetDefault("device_index", -1)
	viper.SetDefault("sample_rate", 16000)
	viper.SetDefault("channels", 1)
	viper.SetDefault("buffer_size", 512)
	viper.SetDefault("capture_limit_s", 30)
	viper.SetDefault("poll_interval_ms", 10)
	viper.SetDefault("amplitude_threshold", 0.3)
	viper.SetDefault("envelope_smoothing_ms", 5)
	viper.SetDefault("tone_frequency", 800)
	viper.SetDefault("min_tone_segments", 3)
	viper.SetDefault("tone_purity_min", 0.5)
	viper.SetDefault("dot_dash_boundary", 2.0)
	viper.SetDefault("char_gap_boundary", 2.0)
	viper.SetDefault("word_gap_boundary", 6.0)
	viper.SetDefault("wpm", 12)
	viper.SetDefault("reply_in_morse", true)
	viper.SetDefault("unknown_char", "?")
	viper.SetDefault("debug", false)

	viper.SetConfigType(ConfigType)

	// Priority order: current directory first, then XDG config
	viper.AddConfigPath(".")

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	viper.AddConfigPath(filepath.Join(configDir, AppName))

	// Try .config.yaml first (hidden file), then config.yaml
	viper.SetConfigName(".config")
	if err = viper.ReadInConfig(); err != nil {
		viper.SetConfigName("config")
		err = viper.ReadInConfig()
	}

	// Read config file - if not found, create default in XDG config dir
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			xdgConfigPath := filepath.Join(configDir, AppName)
			if err = ensureConfigExists(xdgConfigPath); err != nil {
				return err
			}
			if err = viper.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		} else {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func ensureConfigExists(configPath string) error {
	configFile := filepath.Join(configPath, "config.yaml")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err = os.MkdirAll(configPath, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		if err = os.WriteFile(configFile, []byte(DefaultConfig), 0644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}
	return nil
}

// Get returns the current settings
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Sentinel returns the unrecognized-character placeholder as a rune.
func (s *Settings) Sentinel() rune {
	for _, r := range s.UnknownChar {
		return r
	}
	return '?'
}

// Validate checks that all settings are within acceptable ranges
func (s *Settings) Validate() error {
	var errs []error

	if s.AudioBackend != "miniaudio" && s.AudioBackend != "portaudio" {
		errs = append(errs, fmt.Errorf("audio_backend must be miniaudio or portaudio, got %q", s.AudioBackend))
	}
	if s.SampleRate < 8000 || s.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %d", s.SampleRate))
	}
	if s.Channels != 1 {
		errs = append(errs, fmt.Errorf("channels must be 1 (mono), got %d", s.Channels))
	}
	if s.BufferSize < 64 || s.BufferSize > 8192 {
		errs = append(errs, fmt.Errorf("buffer_size must be between 64 and 8192, got %d", s.BufferSize))
	}
	if s.BufferSize&(s.BufferSize-1) != 0 {
		errs = append(errs, fmt.Errorf("buffer_size should be a power of 2, got %d", s.BufferSize))
	}
	if s.CaptureLimitS < 1 || s.CaptureLimitS > 300 {
		errs = append(errs, fmt.Errorf("capture_limit_s must be between 1 and 300, got %d", s.CaptureLimitS))
	}
	if s.PollIntervalMs < 1 || s.PollIntervalMs > 1000 {
		errs = append(errs, fmt.Errorf("poll_interval_ms must be between 1 and 1000, got %d", s.PollIntervalMs))
	}

	if s.AmplitudeThreshold < 0.0 || s.AmplitudeThreshold > 1.0 {
		errs = append(errs, fmt.Errorf("amplitude_threshold must be between 0.0 and 1.0, got %v", s.AmplitudeThreshold))
	}
	if s.EnvelopeSmoothingMs < 0 || s.EnvelopeSmoothingMs > 100 {
		errs = append(errs, fmt.Errorf("envelope_smoothing_ms must be between 0 and 100, got %d", s.EnvelopeSmoothingMs))
	}
	if s.ToneFrequency < 100 || s.ToneFrequency > 3000 {
		errs = append(errs, fmt.Errorf("tone_frequency must be between 100 and 3000 Hz, got %v", s.ToneFrequency))
	}
	if s.MinToneSegments < 1 {
		errs = append(errs, fmt.Errorf("min_tone_segments must be at least 1, got %d", s.MinToneSegments))
	}
	if s.TonePurityMin < 0.0 || s.TonePurityMin > 1.0 {
		errs = append(errs, fmt.Errorf("tone_purity_min must be between 0.0 and 1.0, got %v", s.TonePurityMin))
	}

	if s.DotDashBoundary <= 1 {
		errs = append(errs, fmt.Errorf("dot_dash_boundary must be greater than 1, got %v", s.DotDashBoundary))
	}
	if s.CharGapBoundary <= 1 {
		errs = append(errs, fmt.Errorf("char_gap_boundary must be greater than 1, got %v", s.CharGapBoundary))
	}
	if s.WordGapBoundary <= s.CharGapBoundary {
		errs = append(errs, fmt.Errorf("word_gap_boundary must be greater than char_gap_boundary, got %v", s.WordGapBoundary))
	}

	if s.WPM < 5 || s.WPM > 60 {
		errs = append(errs, fmt.Errorf("wpm must be between 5 and 60, got %d", s.WPM))
	}
	if len(s.UnknownChar) == 0 {
		errs = append(errs, errors.New("unknown_char must not be empty"))
	}

	// Nyquist check: tone frequency must be less than half the sample rate
	if s.ToneFrequency >= float64(s.SampleRate)/2 {
		errs = append(errs, fmt.Errorf("tone_frequency (%v Hz) must be less than Nyquist frequency (%v Hz)", s.ToneFrequency, float64(s.SampleRate)/2))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
