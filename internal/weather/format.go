// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

// Package weather serves weather readings from a TTL cache backed by
// an HTTP weather API, with a mock mode for offline operation.
package weather

import (
	"fmt"
	"strings"
)

// Format identifies one weather reading kind.
type Format string

const (
	FormatTemp    Format = "temp"
	FormatWind    Format = "wind"
	FormatPrecip  Format = "precip"
	FormatSunrise Format = "sunrise"
	FormatSunset  Format = "sunset"
)

// Formats lists every supported format in menu order.
func Formats() []Format {
	return []Format{FormatTemp, FormatWind, FormatPrecip, FormatSunrise, FormatSunset}
}

// ParseFormat normalizes user input into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTemp:
		return FormatTemp, nil
	case FormatWind:
		return FormatWind, nil
	case FormatPrecip:
		return FormatPrecip, nil
	case FormatSunrise:
		return FormatSunrise, nil
	case FormatSunset:
		return FormatSunset, nil
	default:
		return "", fmt.Errorf("unknown weather format %q", s)
	}
}

// apiParams maps a format to the query parameter the weather API
// expects.
var apiParams = map[Format]string{
	FormatTemp:    "t_2m:F",
	FormatWind:    "wind_speed_10m:ms",
	FormatPrecip:  "precip_24h:mm",
	FormatSunrise: "sunrise:sql",
	FormatSunset:  "sunset:sql",
}

// mockReadings are the fixed values served in mock mode.
var mockReadings = map[Format]string{
	FormatTemp:    "72°F",
	FormatWind:    "8 MPH",
	FormatPrecip:  "0.1 inches",
	FormatSunrise: "6:30 AM",
	FormatSunset:  "7:45 PM",
}
