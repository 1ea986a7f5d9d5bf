// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package faults

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/homewatch/homewatch/internal/logging"
	"github.com/homewatch/homewatch/internal/metrics"
)

// Registry is the process-wide fault intake. It logs each fault at a
// level derived from its severity, maintains per-component counters,
// and invokes the matching recovery strategy for recoverable faults.
type Registry struct {
	mu       sync.Mutex
	counts   map[Kind]int64
	recovery RecoverySet
	logger   zerolog.Logger
}

// NewRegistry creates a Registry with the given recovery strategies.
func NewRegistry(recovery RecoverySet) *Registry {
	return &Registry{
		counts:   make(map[Kind]int64),
		recovery: recovery,
		logger:   logging.With().Str("component", "faults").Logger(),
	}
}

// SetLogger replaces the registry logger. Intended for tests.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (r *Registry) SetLogger(l zerolog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = l
}

// Handle logs and counts a fault, then attempts recovery when the
// fault is recoverable. It reports whether the fault was absorbed:
// true when a recovery strategy ran and succeeded, false when the
// fault is non-recoverable, no strategy is registered, or recovery
// failed. Callers treat a false return on a non-recoverable fault as
// fatal to the affected subsystem's startup.
func (r *Registry) Handle(err error) bool {
	f := As(err)
	if f == nil {
		return true
	}

	r.logFault(f)

	r.mu.Lock()
	r.counts[f.Kind]++
	recoverer := r.recovery.For(f.Kind)
	r.mu.Unlock()

	metrics.FaultsRecorded.WithLabelValues(string(f.Kind), string(f.Severity)).Inc()

	if !f.Recoverable {
		r.logger.Error().
			Str("fault_component", string(f.Kind)).
			Msg("non-recoverable fault, no recovery attempted")
		return false
	}

	if recoverer == nil {
		r.logger.Warn().
			Str("fault_component", string(f.Kind)).
			Msg("no recovery strategy registered")
		metrics.RecordRecovery(string(f.Kind), false)
		return false
	}

	if rerr := recoverer.Recover(f); rerr != nil {
		r.logger.Error().
			Err(rerr).
			Str("fault_component", string(f.Kind)).
			Msg("recovery failed")
		metrics.RecordRecovery(string(f.Kind), false)
		return false
	}

	metrics.RecordRecovery(string(f.Kind), true)
	return true
}

// logFault writes the fault at the level its severity demands.
// High and critical faults carry the full cause chain; critical faults
// are additionally flagged so operators can alert on them.
func (r *Registry) logFault(f *Fault) {
	switch f.Severity {
	case SeverityLow:
		r.logger.Warn().
			Str("fault_component", string(f.Kind)).
			Str("severity", string(f.Severity)).
			Msg(f.Error())
	case SeverityMedium:
		r.logger.Error().
			Str("fault_component", string(f.Kind)).
			Str("severity", string(f.Severity)).
			Msg(f.Error())
	case SeverityHigh:
		r.logger.Error().
			Str("fault_component", string(f.Kind)).
			Str("severity", string(f.Severity)).
			AnErr("cause", f.Cause).
			Bool("recoverable", f.Recoverable).
			Msg(f.Error())
	case SeverityCritical:
		r.logger.Error().
			Str("fault_component", string(f.Kind)).
			Str("severity", string(f.Severity)).
			AnErr("cause", f.Cause).
			Bool("recoverable", f.Recoverable).
			Bool("critical", true).
			Msg(f.Error())
	}
}

// Stats is a snapshot of registry counters.
type Stats struct {
	Total       int64
	ByComponent map[Kind]int64

	// Busiest is the component with the most recorded faults, empty
	// when nothing has been recorded.
	Busiest Kind
}

// Stats returns a copy of the current counters.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{ByComponent: make(map[Kind]int64, len(r.counts))}
	var max int64
	for k, n := range r.counts {
		s.ByComponent[k] = n
		s.Total += n
		if n > max {
			max = n
			s.Busiest = k
		}
	}
	return s
}

// Reset clears the counter for one component.
func (r *Registry) Reset(kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.counts, kind)
}

// ResetAll clears every counter.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = make(map[Kind]int64)
}
