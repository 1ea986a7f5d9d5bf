// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Backend fetches one weather reading from an upstream provider.
type Backend interface {
	Fetch(ctx context.Context, format Format) (string, error)
}

// HTTPBackend queries a meteomatics-style API where the reading is
// addressed by path: {base}/{timestamp}/{parameter}/{lat},{lon}/html.
type HTTPBackend struct {
	baseURL   string
	latitude  float64
	longitude float64
	client    *http.Client
	now       func() time.Time
}

// NewHTTPBackend builds a backend for the given API base URL and
// coordinates.
func NewHTTPBackend(baseURL string, latitude, longitude float64, timeout time.Duration) *HTTPBackend {
	return &HTTPBackend{
		baseURL:   strings.TrimRight(baseURL, "/"),
		latitude:  latitude,
		longitude: longitude,
		client:    &http.Client{Timeout: timeout},
		now:       time.Now,
	}
}

// Fetch requests the reading for format at the current time.
func (b *HTTPBackend) Fetch(ctx context.Context, format Format) (string, error) {
	param, ok := apiParams[format]
	if !ok {
		return "", fmt.Errorf("no API parameter for format %q", format)
	}

	endpoint := fmt.Sprintf("%s/%s/%s/%s/html",
		b.baseURL,
		b.now().UTC().Format("2006-01-02T15:04:05Z"),
		url.PathEscape(param),
		fmt.Sprintf("%g,%g", b.latitude, b.longitude),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("building weather request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("reading weather response: %w", err)
	}

	reading := strings.TrimSpace(string(body))
	if reading == "" {
		return "", fmt.Errorf("weather API returned empty body for %s", format)
	}
	return reading, nil
}
