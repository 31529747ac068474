// cmd/listen.go
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runevoice/rune/internal/audio"
	"github.com/runevoice/rune/internal/config"
	"github.com/runevoice/rune/internal/input"
	"github.com/runevoice/rune/internal/morse"
	"github.com/runevoice/rune/internal/orchestrator"
	"github.com/runevoice/rune/internal/recovery"
	"github.com/spf13/cobra"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Run the push-to-talk interaction loop",
	Long: `Opens the audio devices and the push-to-talk button and runs the
interaction loop until interrupted. Without a wired button, hitting Enter
toggles the simulated button.`,
	RunE: runListen,
}

func init() {
	rootCmd.AddCommand(listenCmd)
}

func runListen(cmd *cobra.Command, args []string) error {
	settings, err := config.Get()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	captureCfg := audio.CaptureConfig{
		DeviceIndex: settings.DeviceIndex,
		SampleRate:  settings.SampleRate,
		Channels:    settings.Channels,
		BufferSize:  settings.BufferSize,
		Limit:       time.Duration(settings.CaptureLimitS) * time.Second,
	}
	playbackCfg := audio.PlaybackConfig{
		DeviceIndex: settings.DeviceIndex,
		SampleRate:  settings.SampleRate,
		Channels:    settings.Channels,
		BufferSize:  settings.BufferSize,
	}

	recorder, sink, err := audio.NewBackend(settings.AudioBackend, captureCfg, playbackCfg)
	if err != nil {
		return err
	}
	if err := recorder.Init(); err != nil {
		return err
	}
	defer recorder.Close()
	if err := sink.Init(); err != nil {
		return err
	}
	defer sink.Close()

	monitor := input.NewMonitor(
		input.NewKeyboardSource(os.Stdin),
		time.Duration(settings.PollIntervalMs)*time.Millisecond,
	)

	orch, err := orchestrator.New(orchestrator.Config{
		SampleRate:         settings.SampleRate,
		ToneFrequency:      settings.ToneFrequency,
		AmplitudeThreshold: settings.AmplitudeThreshold,
		SmoothingWindow:    time.Duration(settings.EnvelopeSmoothingMs) * time.Millisecond,
		Boundaries: morse.Boundaries{
			DotDash: settings.DotDashBoundary,
			CharGap: settings.CharGapBoundary,
			WordGap: settings.WordGapBoundary,
		},
		Detect: morse.DetectConfig{
			MinToneSegments: settings.MinToneSegments,
			TonePurityMin:   settings.TonePurityMin,
		},
		Sentinel:     settings.Sentinel(),
		ReplyInMorse: settings.ReplyInMorse,
		Tone: audio.ToneConfig{
			Frequency:  settings.ToneFrequency,
			WPM:        settings.WPM,
			SampleRate: settings.SampleRate,
		},
	}, orchestrator.Deps{
		Recorder: recorder,
		Player:   sink,
		Events:   monitor.Events(),
		Logger:   log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		defer recovery.HandlePanicFunc(stop)
		monitor.Run(ctx)
	}()

	log.Info("listening", "backend", settings.AudioBackend, "poll_interval_ms", settings.PollIntervalMs)
	if err := orch.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("shutting down")
	return nil
}
