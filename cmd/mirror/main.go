package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Gurgeron/MagicMirror-Gemini/internal/capture"
	"github.com/Gurgeron/MagicMirror-Gemini/internal/config"
	"github.com/Gurgeron/MagicMirror-Gemini/internal/device"
	"github.com/Gurgeron/MagicMirror-Gemini/internal/logging"
	"github.com/Gurgeron/MagicMirror-Gemini/internal/media"
	"github.com/Gurgeron/MagicMirror-Gemini/internal/pipeline"
	"github.com/Gurgeron/MagicMirror-Gemini/internal/session"
	"github.com/Gurgeron/MagicMirror-Gemini/internal/waveform"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	// A .env next to the binary lets users drop their API key in a plain
	// text file without touching the environment. Absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	mode := flag.String("mode", cfg.Mode, "pixels to stream from: camera, screen or none")
	cameraIndex := flag.Int("camera-index", cfg.CameraIndex, "video capture device index")
	debug := flag.Bool("debug", cfg.Debug, "verbose logging, surface mic overflows")
	flag.Parse()
	cfg.Mode = *mode
	cfg.CameraIndex = *cameraIndex
	cfg.Debug = *debug

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	log := logging.NewWithLevel(level)

	apiKey := config.APIKey()
	if apiKey == "" {
		log.Fatal().Msg("GEMINI_API_KEY or GOOGLE_API_KEY must be set")
	}

	if err := device.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio")
	}
	defer device.Terminate()

	if cfg.Debug {
		devices, err := device.ListInputDevices()
		if err != nil {
			log.Warn().Err(err).Msg("Failed to enumerate input devices")
		}
		for _, d := range devices {
			log.Debug().Str("device", d.Name).Bool("default", d.Default).Msg("Input device available")
		}
	}

	mic, err := device.OpenMicrophone(cfg.Audio.InputDevice, cfg.Audio.SendRate, cfg.Audio.ChunkSize, cfg.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open microphone")
	}
	defer mic.Close()

	speaker, err := device.OpenSpeaker(cfg.Audio.ReceiveRate)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open speaker")
	}
	defer speaker.Close()

	var grabber capture.Grabber
	switch cfg.Mode {
	case "camera":
		g, err := capture.NewCameraGrabber(cfg.CameraIndex)
		if err != nil {
			log.Fatal().Err(err).Int("index", cfg.CameraIndex).Msg("Failed to open camera")
		}
		grabber = g
	case "screen":
		g, err := capture.NewScreenGrabber()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open screen capture")
		}
		grabber = g
	case "none":
	default:
		log.Fatal().Str("mode", cfg.Mode).Msg("Unknown capture mode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	sess, err := session.Connect(ctx, apiKey, session.Config{
		Model:         cfg.Session.Model,
		SystemPrompt:  config.SystemPrompt,
		Voice:         cfg.Session.Voice,
		TriggerTokens: cfg.Session.TriggerTokens,
		TargetTokens:  cfg.Session.TargetTokens,
	})
	if err != nil {
		log.Fatal().Err(err).Str("model", cfg.Session.Model).Msg("Failed to connect live session")
	}

	view := waveform.NewView(ctx, cancel, cfg.Waveform.Width, cfg.Waveform.Height, media.Level)

	pipe := pipeline.New(pipeline.Config{
		Session:  sess,
		Mic:      mic,
		Speaker:  speaker,
		Observer: view,
		Grabber:  grabber,
		Logger:   log,
	})

	log.Info().Str("version", Version).Str("commit", Commit).Str("mode", cfg.Mode).Msg("Magic mirror starting...")

	runErr := make(chan error, 1)
	go func() {
		runErr <- pipe.Run(ctx)
		cancel()
	}()

	// Waveform window - MUST run on main thread
	if err := view.Run(); err != nil {
		log.Error().Err(err).Msg("Waveform window error")
	}

	if err := <-runErr; err != nil {
		log.Error().Err(err).Msg("Pipeline failed")
		os.Exit(1)
	}
}
