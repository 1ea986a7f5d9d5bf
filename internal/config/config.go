// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

// Package config defines the Homewatch configuration model and its
// koanf-based layered loader (struct defaults, then YAML file, then
// environment variables).
//
// Configuration is loaded once in main() and passed by reference into
// each component's constructor; no component reads ambient global
// state.
package config

import "time"

// Config is the root configuration for the Homewatch process.
type Config struct {
	Logging     LoggingConfig     `koanf:"logging"`
	Camera      CameraConfig      `koanf:"camera"`
	Recognition RecognitionConfig `koanf:"recognition"`
	Voice       VoiceConfig       `koanf:"voice"`
	Lights      LightsConfig      `koanf:"lights"`
	Weather     WeatherConfig     `koanf:"weather"`
	Music       MusicConfig       `koanf:"music"`
	Session     SessionConfig     `koanf:"session"`
	Supervisor  SupervisorConfig  `koanf:"supervisor"`
	Metrics     MetricsConfig     `koanf:"metrics"`
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	// Enabled turns the /metrics HTTP listener on.
	Enabled bool `koanf:"enabled"`
	// Addr is the listen address for the scrape endpoint.
	Addr string `koanf:"addr" validate:"omitempty,hostname_port"`
}

// LoggingConfig controls the global zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// CameraConfig controls the frame source.
type CameraConfig struct {
	// Source is the capture device index handed to the frame source
	// driver.
	Source int `koanf:"source" validate:"gte=0"`

	// Framerate caps how many frames per second the detector consumes.
	Framerate float64 `koanf:"framerate" validate:"gt=0"`

	// Width is the frame width the driver should deliver.
	Width int `koanf:"width" validate:"gt=0"`

	// WarmupDelay is how long to wait after opening the stream before
	// reading frames, letting the sensor settle.
	WarmupDelay time.Duration `koanf:"warmup_delay" validate:"gte=0"`
}

// RecognitionConfig controls face matching and the identity pipeline.
type RecognitionConfig struct {
	// EncodingsFile is the JSON artifact mapping person names to
	// reference embeddings. Missing file aborts startup.
	EncodingsFile string `koanf:"encodings_file" validate:"required"`

	// Tolerance is the maximum embedding distance counted as a match.
	Tolerance float64 `koanf:"tolerance" validate:"gt=0,lte=1"`

	// PollInterval is how often the orchestrator checks for a pending
	// identity change.
	PollInterval time.Duration `koanf:"poll_interval" validate:"gt=0"`

	// StopTimeout bounds how long Detector.Stop waits for the worker
	// to join before releasing resources anyway.
	StopTimeout time.Duration `koanf:"stop_timeout" validate:"gt=0"`
}

// VoiceConfig controls text-to-speech output.
type VoiceConfig struct {
	Enabled bool    `koanf:"enabled"`
	Rate    int     `koanf:"rate" validate:"gt=0"`
	Volume  float64 `koanf:"volume" validate:"gte=0,lte=1"`
}

// LightsConfig controls the smart light collaborator.
type LightsConfig struct {
	// Host is the address of the smart plug on the local network.
	Host string `koanf:"host" validate:"required"`

	// Command is the device CLI used to talk to the plug.
	Command string `koanf:"command" validate:"required"`

	DefaultBrightness int           `koanf:"default_brightness" validate:"min=0,max=100"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`

	// Colors maps a color name to its HSV triple. Unknown names are
	// skipped at dispatch time.
	Colors map[string][]int `koanf:"colors" validate:"dive,len=3"`
}

// WeatherConfig controls the weather collaborator.
type WeatherConfig struct {
	APIURL    string        `koanf:"api_url" validate:"required,url"`
	Latitude  float64       `koanf:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64       `koanf:"longitude" validate:"gte=-180,lte=180"`
	City      string        `koanf:"city"`
	CacheTTL  time.Duration `koanf:"cache_ttl" validate:"gt=0"`
	UseMock   bool          `koanf:"use_mock"`
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
}

// MusicConfig controls the music player collaborator.
type MusicConfig struct {
	Player  string        `koanf:"player" validate:"required"`
	File    string        `koanf:"file" validate:"required"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// SessionConfig controls the command dispatcher.
type SessionConfig struct {
	// CommandDelay is the cooperative pause between dispatched
	// commands.
	CommandDelay time.Duration `koanf:"command_delay" validate:"gte=0"`
}

// SupervisorConfig tunes the suture supervision tree.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gt=0"`
	FailureDecay     float64       `koanf:"failure_decay" validate:"gt=0"`
	FailureBackoff   time.Duration `koanf:"failure_backoff" validate:"gt=0"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Default returns a Config with every field at its default value.
// Defaults are applied first, then overridden by config file and
// environment variables.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Camera: CameraConfig{
			Source:      0,
			Framerate:   2,
			Width:       500,
			WarmupDelay: 2 * time.Second,
		},
		Recognition: RecognitionConfig{
			EncodingsFile: "encodings.json",
			Tolerance:     0.6,
			PollInterval:  time.Second,
			StopTimeout:   5 * time.Second,
		},
		Voice: VoiceConfig{
			Enabled: false,
			Rate:    160,
			Volume:  1.0,
		},
		Lights: LightsConfig{
			Host:              "192.168.12.238",
			Command:           "kasa",
			DefaultBrightness: 80,
			Timeout:           10 * time.Second,
			Colors: map[string][]int{
				"red":    {0, 100, 80},
				"green":  {123, 86, 80},
				"blue":   {245, 84, 70},
				"white":  {0, 0, 100},
				"purple": {277, 86, 75},
				"orange": {30, 100, 85},
			},
		},
		Weather: WeatherConfig{
			APIURL:    "https://api.meteomatics.com",
			Latitude:  41.8781,
			Longitude: -87.6298,
			City:      "Chicago",
			CacheTTL:  5 * time.Minute,
			UseMock:   true,
			Timeout:   10 * time.Second,
		},
		Music: MusicConfig{
			Player:  "mpg123",
			File:    "music.mp3",
			Timeout: 30 * time.Second,
		},
		Session: SessionConfig{
			CommandDelay: time.Second,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9606",
		},
	}
}
