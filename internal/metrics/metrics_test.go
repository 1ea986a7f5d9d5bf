// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(FramesProcessed)
	FramesProcessed.Inc()
	if got := testutil.ToFloat64(FramesProcessed); got != before+1 {
		t.Errorf("FramesProcessed = %v, want %v", got, before+1)
	}
}

func TestCommandCounterLabels(t *testing.T) {
	before := testutil.ToFloat64(CommandsDispatched.WithLabelValues("weather"))
	CommandsDispatched.WithLabelValues("weather").Inc()
	CommandsDispatched.WithLabelValues("lights").Inc()

	if got := testutil.ToFloat64(CommandsDispatched.WithLabelValues("weather")); got != before+1 {
		t.Errorf("weather counter = %v, want %v", got, before+1)
	}
}

func TestRecordRecovery(t *testing.T) {
	t.Run("success outcome", func(t *testing.T) {
		before := testutil.ToFloat64(RecoveryAttempts.WithLabelValues("camera", "success"))
		RecordRecovery("camera", true)
		if got := testutil.ToFloat64(RecoveryAttempts.WithLabelValues("camera", "success")); got != before+1 {
			t.Errorf("success counter = %v, want %v", got, before+1)
		}
	})

	t.Run("failure outcome", func(t *testing.T) {
		before := testutil.ToFloat64(RecoveryAttempts.WithLabelValues("weather", "failure"))
		RecordRecovery("weather", false)
		if got := testutil.ToFloat64(RecoveryAttempts.WithLabelValues("weather", "failure")); got != before+1 {
			t.Errorf("failure counter = %v, want %v", got, before+1)
		}
	})
}

func TestSessionQueueDepthGauge(t *testing.T) {
	SessionQueueDepth.Set(2)
	if got := testutil.ToFloat64(SessionQueueDepth); got != 2 {
		t.Errorf("SessionQueueDepth = %v, want 2", got)
	}
	SessionQueueDepth.Set(0)
}

func TestMetricsLint(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric lint: %s: %s", p.Metric, p.Text)
	}
}
