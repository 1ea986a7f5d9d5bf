// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package faults

import "github.com/homewatch/homewatch/internal/logging"

// Recoverer attempts an automatic corrective action for a fault.
// A nil return means the fault was absorbed and the component may keep
// going; an error means recovery failed and the caller decides.
type Recoverer interface {
	Recover(f *Fault) error
}

// RecoverySet is the closed mapping from fault kind to recovery
// strategy. One field per recoverable kind keeps unmapped kinds visible
// at compile time instead of hiding behind a string-keyed lookup.
// Configuration faults are non-recoverable and have no slot.
type RecoverySet struct {
	Camera      Recoverer
	Voice       Recoverer
	Recognition Recoverer
	SmartLight  Recoverer
	Weather     Recoverer
	Music       Recoverer
}

// For returns the strategy for a kind, or nil when none applies.
func (s RecoverySet) For(k Kind) Recoverer {
	switch k {
	case KindCamera:
		return s.Camera
	case KindVoice:
		return s.Voice
	case KindRecognition:
		return s.Recognition
	case KindSmartLight:
		return s.SmartLight
	case KindWeather:
		return s.Weather
	case KindMusic:
		return s.Music
	default:
		return nil
	}
}

// noopRecoverer logs the attempt and reports success without corrective
// action. Real reinitialization (camera restart, TTS re-init) is left
// to the owning component; the interface leaves room for it.
type noopRecoverer struct {
	component Kind
}

func (r noopRecoverer) Recover(f *Fault) error {
	logging.Info().
		Str("component", string(r.component)).
		Str("fault", f.Message).
		Msg("attempting recovery")
	return nil
}

// DefaultRecoverySet returns the stock strategy set: every recoverable
// kind gets a logging no-op strategy.
func DefaultRecoverySet() RecoverySet {
	return RecoverySet{
		Camera:      noopRecoverer{KindCamera},
		Voice:       noopRecoverer{KindVoice},
		Recognition: noopRecoverer{KindRecognition},
		SmartLight:  noopRecoverer{KindSmartLight},
		Weather:     noopRecoverer{KindWeather},
		Music:       noopRecoverer{KindMusic},
	}
}

// RecoverFunc adapts a function to the Recoverer interface.
type RecoverFunc func(f *Fault) error

// Recover implements Recoverer.
func (fn RecoverFunc) Recover(f *Fault) error {
	return fn(f)
}
