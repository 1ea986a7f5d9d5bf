// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package weather

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/homewatch/homewatch/internal/cache"
	"github.com/homewatch/homewatch/internal/faults"
	"github.com/homewatch/homewatch/internal/logging"
	"github.com/homewatch/homewatch/internal/metrics"
)

// ServiceOptions configures a weather Service.
type ServiceOptions struct {
	// CacheTTL is how long a fetched reading stays valid.
	CacheTTL time.Duration
	// UseMock serves fixed readings instead of calling the backend.
	UseMock bool
}

// Service answers weather queries. Lookup order is cache, then mock
// data when enabled, then the backend behind a circuit breaker.
type Service struct {
	opts    ServiceOptions
	backend Backend
	cache   *cache.Cache
	breaker *gobreaker.CircuitBreaker[string]
	logger  zerolog.Logger
}

// NewService builds a weather service. The backend may be nil when
// mock mode is on.
func NewService(opts ServiceOptions, backend Backend) *Service {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "weather-backend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &Service{
		opts:    opts,
		backend: backend,
		cache:   cache.New(opts.CacheTTL),
		breaker: breaker,
		logger:  logging.With().Str("component", "weather").Logger(),
	}
}

// Close releases the cache janitor.
func (s *Service) Close() {
	s.cache.Close()
}

// Get returns the reading for format. Failures come back as
// weather-kind faults so callers can route them to recovery.
func (s *Service) Get(ctx context.Context, format Format) (string, error) {
	key := cache.GenerateKey("weather.get", string(format))
	if v, ok := s.cache.Get(key); ok {
		metrics.WeatherCacheHits.Inc()
		s.logger.Debug().Str("format", string(format)).Msg("weather cache hit")
		return v.(string), nil
	}
	metrics.WeatherCacheMisses.Inc()

	if s.opts.UseMock {
		reading, ok := mockReadings[format]
		if !ok {
			return "", faults.Newf(faults.KindWeather, "no mock reading for format %q", format)
		}
		s.cache.Set(key, reading)
		return reading, nil
	}

	if s.backend == nil {
		return "", faults.New(faults.KindWeather, "no weather backend configured")
	}

	reading, err := s.breaker.Execute(func() (string, error) {
		return s.backend.Fetch(ctx, format)
	})
	if err != nil {
		return "", faults.Wrap(faults.KindWeather, err, "weather lookup failed")
	}

	s.cache.Set(key, reading)
	s.logger.Debug().Str("format", string(format)).Msg("weather reading fetched")
	return reading, nil
}
