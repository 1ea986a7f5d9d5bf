// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindDefaults(t *testing.T) {
	cases := []struct {
		kind        Kind
		severity    Severity
		recoverable bool
	}{
		{KindCamera, SeverityHigh, true},
		{KindVoice, SeverityMedium, true},
		{KindRecognition, SeverityMedium, true},
		{KindSmartLight, SeverityMedium, true},
		{KindWeather, SeverityLow, true},
		{KindMusic, SeverityMedium, true},
		{KindConfiguration, SeverityHigh, false},
		{KindSystem, SeverityHigh, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			f := New(tc.kind, "boom")
			if f.Severity != tc.severity {
				t.Errorf("severity = %s, want %s", f.Severity, tc.severity)
			}
			if f.Recoverable != tc.recoverable {
				t.Errorf("recoverable = %v, want %v", f.Recoverable, tc.recoverable)
			}
		})
	}
}

func TestWrapNilCause(t *testing.T) {
	if f := Wrap(KindWeather, nil, "fetch"); f != nil {
		t.Errorf("Wrap(nil) = %v, want nil", f)
	}
}

func TestErrorChain(t *testing.T) {
	cause := errors.New("connection refused")
	f := Wrap(KindWeather, cause, "backend fetch failed")

	if !errors.Is(f, cause) {
		t.Error("fault should wrap its cause for errors.Is")
	}

	wrapped := fmt.Errorf("handler: %w", f)
	if !IsKind(wrapped, KindWeather) {
		t.Error("IsKind should see through wrapping")
	}
	if IsKind(wrapped, KindCamera) {
		t.Error("IsKind matched the wrong kind")
	}
}

func TestAsCoercion(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		if As(nil) != nil {
			t.Error("As(nil) should be nil")
		}
	})

	t.Run("fault passes through", func(t *testing.T) {
		f := New(KindVoice, "tts unavailable")
		if got := As(f); got != f {
			t.Errorf("As returned %v, want original fault", got)
		}
	})

	t.Run("plain error becomes system fault", func(t *testing.T) {
		got := As(errors.New("oops"))
		if got.Kind != KindSystem {
			t.Errorf("kind = %s, want %s", got.Kind, KindSystem)
		}
		if got.Severity != SeverityHigh {
			t.Errorf("severity = %s, want %s", got.Severity, SeverityHigh)
		}
	})
}

func TestWithSeverity(t *testing.T) {
	f := New(KindSmartLight, "timeout").WithSeverity(SeverityHigh)
	if f.Severity != SeverityHigh {
		t.Errorf("severity = %s, want %s", f.Severity, SeverityHigh)
	}
}
