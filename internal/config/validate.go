// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package config

import (
	"fmt"

	"github.com/homewatch/homewatch/internal/validation"
)

// Validate checks the configuration. Struct tags cover ranges and
// formats; cross-field rules that tags cannot express are checked by
// hand. A validation failure is a configuration-class error: fatal to
// startup, never recovered.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	if c.Recognition.PollInterval >= c.Recognition.StopTimeout {
		return fmt.Errorf(
			"RECOGNITION_POLL_INTERVAL (%s) must be shorter than RECOGNITION_STOP_TIMEOUT (%s)",
			c.Recognition.PollInterval, c.Recognition.StopTimeout,
		)
	}

	for name, hsv := range c.Lights.Colors {
		if hsv[0] < 0 || hsv[0] > 360 {
			return fmt.Errorf("lights color %q: hue %d out of range [0,360]", name, hsv[0])
		}
		if hsv[1] < 0 || hsv[1] > 100 || hsv[2] < 0 || hsv[2] > 100 {
			return fmt.Errorf("lights color %q: saturation/value out of range [0,100]", name)
		}
	}

	return nil
}
