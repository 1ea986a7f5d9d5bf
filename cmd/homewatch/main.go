// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

// Package main is the entry point for the Homewatch daemon.
//
// Homewatch watches a camera for known faces and turns recognition
// into an interactive home automation session: the recognized person
// is logged in, greeted, and can control lights, query weather, and
// play music from a command prompt.
//
// # Application Architecture
//
// The daemon initializes components in the following order:
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Known faces: the reference embeddings artifact, fatal if missing
//  3. Fault registry: per-component recovery with severity-tiered logging
//  4. Collaborators: lights, weather, music, voice
//  5. Session manager: FIFO login queue with the command dispatcher
//  6. Supervision tree: detector and orchestrator under suture
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config file (config.yaml, or
// CONFIG_PATH), built-in defaults.
//
// # Frame Source
//
// The capture driver is an integration point: builds without one wire
// the null frame source, which starts cleanly and yields no frames.
// Deployments plug their camera driver in where the detector service
// is constructed below.
//
// # Signal Handling
//
// SIGINT and SIGTERM shut the tree down gracefully: the detector joins
// its worker and releases the stream, the orchestrator stops polling,
// and the session dispatcher exits after its current command.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homewatch/homewatch/internal/config"
	"github.com/homewatch/homewatch/internal/devices"
	"github.com/homewatch/homewatch/internal/faults"
	"github.com/homewatch/homewatch/internal/logging"
	"github.com/homewatch/homewatch/internal/orchestrator"
	"github.com/homewatch/homewatch/internal/recognition"
	"github.com/homewatch/homewatch/internal/session"
	"github.com/homewatch/homewatch/internal/supervisor"
	"github.com/homewatch/homewatch/internal/supervisor/services"
	"github.com/homewatch/homewatch/internal/voice"
	"github.com/homewatch/homewatch/internal/weather"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "homewatch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()
	logger.Info().Msg("homewatch starting")

	known, err := recognition.LoadKnownFaces(cfg.Recognition.EncodingsFile)
	if err != nil {
		return err
	}
	logger.Info().Int("embeddings", known.Len()).Strs("people", known.People()).
		Msg("known faces loaded")

	registry := faults.NewRegistry(faults.DefaultRecoverySet())
	runner := devices.ExecRunner{}

	speaker := voice.New(cfg.Voice.Enabled, voice.Options{
		Rate:   cfg.Voice.Rate,
		Volume: cfg.Voice.Volume,
	}, runner)

	lights := devices.NewLightController(devices.LightOptions{
		Host:              cfg.Lights.Host,
		Command:           cfg.Lights.Command,
		Timeout:           cfg.Lights.Timeout,
		DefaultBrightness: cfg.Lights.DefaultBrightness,
		Colors:            cfg.Lights.Colors,
	}, runner)

	music := devices.NewMusicPlayer(devices.MusicOptions{
		Player:  cfg.Music.Player,
		File:    cfg.Music.File,
		Timeout: cfg.Music.Timeout,
	}, runner)

	var backend weather.Backend
	if !cfg.Weather.UseMock {
		backend = weather.NewHTTPBackend(cfg.Weather.APIURL, cfg.Weather.Latitude, cfg.Weather.Longitude, cfg.Weather.Timeout)
	}
	weatherSvc := weather.NewService(weather.ServiceOptions{
		CacheTTL: cfg.Weather.CacheTTL,
		UseMock:  cfg.Weather.UseMock,
	}, backend)
	defer weatherSvc.Close()

	sessions := session.NewManager(session.Deps{
		Input:        session.NewStdinInput(),
		Speaker:      speaker,
		Lights:       lights,
		Weather:      weatherSvc,
		Music:        music,
		Registry:     registry,
		Out:          os.Stdout,
		CommandDelay: cfg.Session.CommandDelay,
	})

	box := recognition.NewIdentityBox()
	detectorOpts := recognition.DetectorOptions{
		Tolerance:   cfg.Recognition.Tolerance,
		FrameRate:   cfg.Camera.Framerate,
		Warmup:      cfg.Camera.WarmupDelay,
		StopTimeout: cfg.Recognition.StopTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureDecay:     cfg.Supervisor.FailureDecay,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})

	// Camera driver integration point: swap NullFrameSource/NullMatcher
	// for the deployment's capture and embedding implementations.
	tree.AddVisionService(services.NewDetectorService(func() services.DetectorWorker {
		return recognition.NewDetector(detectorOpts,
			recognition.NullFrameSource{}, recognition.NullMatcher{},
			known, box, registry)
	}))
	tree.AddInteractionService(services.NewOrchestratorService(
		orchestrator.New(orchestrator.Options{PollInterval: cfg.Recognition.PollInterval},
			box, sessions, speaker, registry),
	))

	if cfg.Metrics.Enabled {
		startMetricsServer(cfg.Metrics.Addr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Supervisor.ShutdownTimeout)
	defer cancel()
	if closeErr := sessions.Close(shutdownCtx); closeErr != nil {
		logger.Warn().Err(closeErr).Msg("session dispatcher did not stop cleanly")
	}

	stats := registry.Stats()
	logger.Info().Int64("faults_total", stats.Total).Str("busiest", string(stats.Busiest)).
		Msg("homewatch stopped")

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startMetricsServer exposes the Prometheus registry. Scrape failures
// never affect the main pipeline, so errors are only logged.
func startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger := logging.Logger()
			logger.Warn().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	logger := logging.Logger()
	logger.Info().Str("addr", addr).Msg("metrics endpoint listening")
}
