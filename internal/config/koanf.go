// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/homewatch/config.yaml",
	"/etc/homewatch/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from layered sources, highest priority
// last: struct defaults, config file (optional), environment variables.
// The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf config
// paths. Unmapped variables are ignored so unrelated process
// environment never leaks into the config.
func envTransformFunc(key string) string {
	mappings := map[string]string{
		"LOG_LEVEL":  "logging.level",
		"LOG_FORMAT": "logging.format",
		"LOG_CALLER": "logging.caller",

		"CAMERA_SOURCE":       "camera.source",
		"CAMERA_FRAMERATE":    "camera.framerate",
		"CAMERA_WIDTH":        "camera.width",
		"CAMERA_WARMUP_DELAY": "camera.warmup_delay",

		"RECOGNITION_ENCODINGS_FILE": "recognition.encodings_file",
		"RECOGNITION_TOLERANCE":      "recognition.tolerance",
		"RECOGNITION_POLL_INTERVAL":  "recognition.poll_interval",
		"RECOGNITION_STOP_TIMEOUT":   "recognition.stop_timeout",

		"VOICE_ENABLED": "voice.enabled",
		"VOICE_RATE":    "voice.rate",
		"VOICE_VOLUME":  "voice.volume",

		"LIGHTS_HOST":               "lights.host",
		"LIGHTS_COMMAND":            "lights.command",
		"LIGHTS_DEFAULT_BRIGHTNESS": "lights.default_brightness",
		"LIGHTS_TIMEOUT":            "lights.timeout",

		"WEATHER_API_URL":   "weather.api_url",
		"WEATHER_LATITUDE":  "weather.latitude",
		"WEATHER_LONGITUDE": "weather.longitude",
		"WEATHER_CITY":      "weather.city",
		"WEATHER_CACHE_TTL": "weather.cache_ttl",
		"WEATHER_USE_MOCK":  "weather.use_mock",
		"WEATHER_TIMEOUT":   "weather.timeout",

		"MUSIC_PLAYER":  "music.player",
		"MUSIC_FILE":    "music.file",
		"MUSIC_TIMEOUT": "music.timeout",

		"SESSION_COMMAND_DELAY": "session.command_delay",

		"SUPERVISOR_FAILURE_THRESHOLD": "supervisor.failure_threshold",
		"SUPERVISOR_FAILURE_DECAY":     "supervisor.failure_decay",
		"SUPERVISOR_FAILURE_BACKOFF":   "supervisor.failure_backoff",
		"SUPERVISOR_SHUTDOWN_TIMEOUT":  "supervisor.shutdown_timeout",

		"METRICS_ENABLED": "metrics.enabled",
		"METRICS_ADDR":    "metrics.addr",
	}

	if path, ok := mappings[strings.ToUpper(key)]; ok {
		return path
	}
	return ""
}
