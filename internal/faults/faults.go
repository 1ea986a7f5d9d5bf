// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

// Package faults defines the typed error taxonomy for Homewatch and the
// central registry that logs, counts, and optionally recovers from
// component failures.
//
// Every collaborator failure is converted into a Fault at the boundary
// nearest its origin and handed to the Registry; raw errors never
// propagate past that boundary.
package faults

import (
	"errors"
	"fmt"
)

// Kind identifies the component class a fault originated from.
type Kind string

// Known fault kinds. Configuration is the only kind that is
// non-recoverable by default; a configuration fault aborts startup.
const (
	KindCamera        Kind = "camera"
	KindVoice         Kind = "voice"
	KindRecognition   Kind = "facial_recognition"
	KindSmartLight    Kind = "smart_lights"
	KindWeather       Kind = "weather"
	KindMusic         Kind = "music"
	KindConfiguration Kind = "configuration"
	KindSystem        Kind = "system"
)

// Severity expresses how serious a fault is. It selects the log level
// the registry uses and whether diagnostic context is attached.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// defaultSeverity returns the default severity for a kind.
func defaultSeverity(k Kind) Severity {
	switch k {
	case KindCamera, KindConfiguration, KindSystem:
		return SeverityHigh
	case KindWeather:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// defaultRecoverable returns whether faults of this kind may be
// recovered automatically. Configuration faults are always fatal to the
// startup sequence.
func defaultRecoverable(k Kind) bool {
	return k != KindConfiguration
}

// Fault is a typed, severity-tiered error. It wraps the underlying
// cause and carries enough context for the registry to log and route it
// without inspecting the cause itself.
type Fault struct {
	Kind        Kind
	Severity    Severity
	Recoverable bool
	Message     string
	Cause       error
}

// New creates a Fault of the given kind with its default severity and
// recoverability.
func New(kind Kind, message string) *Fault {
	return &Fault{
		Kind:        kind,
		Severity:    defaultSeverity(kind),
		Recoverable: defaultRecoverable(kind),
		Message:     message,
	}
}

// Newf creates a Fault with a formatted message.
func Newf(kind Kind, format string, args ...any) *Fault {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap creates a Fault of the given kind wrapping cause. A nil cause
// returns nil so call sites can wrap unconditionally.
func Wrap(kind Kind, cause error, message string) *Fault {
	if cause == nil {
		return nil
	}
	f := New(kind, message)
	f.Cause = cause
	return f
}

// WithSeverity overrides the default severity.
func (f *Fault) WithSeverity(s Severity) *Fault {
	f.Severity = s
	return f
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", f.Kind, f.Message, f.Cause)
	}
	return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (f *Fault) Unwrap() error {
	return f.Cause
}

// As coerces any error into a *Fault. Errors that are not already
// faults are wrapped as system faults so the registry can still count
// and log them.
func As(err error) *Fault {
	if err == nil {
		return nil
	}
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return &Fault{
		Kind:        KindSystem,
		Severity:    SeverityHigh,
		Recoverable: defaultRecoverable(KindSystem),
		Message:     "unexpected error",
		Cause:       err,
	}
}

// IsKind reports whether err is (or wraps) a Fault of the given kind.
func IsKind(err error, kind Kind) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == kind
}
