// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

// Package metrics provides Prometheus instrumentation for the control
// loop: frame throughput, identity transitions, session activity,
// command dispatch, fault intake, and weather cache efficiency.
//
// Collectors register on the default registry via promauto. The core
// owns no network listener, so exposure (if any) is left to the
// embedding process.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Detection pipeline

	FramesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homewatch_frames_processed_total",
			Help: "Total number of video frames processed by the detector",
		},
	)

	FrameReadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homewatch_frame_read_failures_total",
			Help: "Total number of frames that could not be read from the frame source",
		},
	)

	FacesMatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homewatch_faces_matched_total",
			Help: "Total number of face embeddings matched against the known set",
		},
	)

	IdentityChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homewatch_identity_changes_total",
			Help: "Total number of debounced identity transitions emitted by the detector",
		},
	)

	// Session lifecycle

	Logins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homewatch_logins_total",
			Help: "Total number of user logins",
		},
	)

	Logouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homewatch_logouts_total",
			Help: "Total number of user logouts",
		},
	)

	SessionQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homewatch_session_queue_depth",
			Help: "Current number of logged-in users",
		},
	)

	CommandsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homewatch_commands_dispatched_total",
			Help: "Total number of dispatched shell commands",
		},
		[]string{"command"},
	)

	// Fault registry

	FaultsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homewatch_faults_total",
			Help: "Total number of faults routed through the registry",
		},
		[]string{"component", "severity"},
	)

	RecoveryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homewatch_fault_recovery_attempts_total",
			Help: "Total number of recovery attempts by component and outcome",
		},
		[]string{"component", "outcome"},
	)

	// Weather cache

	WeatherCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homewatch_weather_cache_hits_total",
			Help: "Total number of weather lookups served from cache",
		},
	)

	WeatherCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homewatch_weather_cache_misses_total",
			Help: "Total number of weather lookups that reached the backend or mock",
		},
	)
)

// RecordRecovery increments the recovery attempt counter with a
// success/failure outcome label.
func RecordRecovery(component string, ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	RecoveryAttempts.WithLabelValues(component, outcome).Inc()
}
