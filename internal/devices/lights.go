// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package devices

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/homewatch/homewatch/internal/faults"
	"github.com/homewatch/homewatch/internal/logging"
)

// LightOptions configures the smart light controller.
type LightOptions struct {
	// Host is the smart plug address on the local network.
	Host string
	// Command is the plug vendor CLI binary.
	Command string
	// Timeout bounds each CLI invocation.
	Timeout time.Duration
	// DefaultBrightness is applied when the user asks for the light
	// without picking a level.
	DefaultBrightness int
	// Colors maps color names to HSV triples {hue, saturation, value}.
	Colors map[string][]int
}

// DefaultColors is the built-in color table.
func DefaultColors() map[string][]int {
	return map[string][]int{
		"red":    {0, 100, 80},
		"green":  {123, 86, 80},
		"blue":   {245, 84, 70},
		"white":  {0, 0, 100},
		"purple": {277, 86, 75},
		"orange": {30, 100, 85},
	}
}

// LightController turns the smart light on and off and adjusts its
// brightness and color. Only the power toggle is load bearing:
// brightness and color failures degrade to warnings so the light still
// ends up in the requested power state.
type LightController struct {
	opts   LightOptions
	runner Runner
	logger zerolog.Logger
}

// NewLightController wires a light controller over the given runner.
func NewLightController(opts LightOptions, runner Runner) *LightController {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.DefaultBrightness <= 0 || opts.DefaultBrightness > 100 {
		opts.DefaultBrightness = 80
	}
	if opts.Colors == nil {
		opts.Colors = DefaultColors()
	}
	return &LightController{
		opts:   opts,
		runner: runner,
		logger: logging.With().Str("component", "lights").Logger(),
	}
}

// ColorNames reports the configured color names, sorted for stable
// prompts.
func (c *LightController) ColorNames() []string {
	names := make([]string, 0, len(c.opts.Colors))
	for name := range c.opts.Colors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultBrightness reports the level applied when none is requested.
func (c *LightController) DefaultBrightness() int {
	return c.opts.DefaultBrightness
}

// On powers the light on, then applies brightness and color when
// requested. A nil brightness leaves the level alone; any provided
// value is clamped to [0, 100] before it reaches the device. An empty
// color leaves the color alone.
func (c *LightController) On(ctx context.Context, brightness *int, color string) error {
	if err := c.power(ctx, "on"); err != nil {
		return err
	}

	if brightness != nil {
		level := clampBrightness(*brightness)
		if level != *brightness {
			c.logger.Warn().Int("requested", *brightness).Int("applied", level).
				Msg("brightness clamped to valid range")
		}
		if err := c.runCommand(ctx, "brightness", strconv.Itoa(level)); err != nil {
			c.logger.Warn().Err(err).Msg("brightness adjustment failed")
		}
	}

	if color != "" {
		hsv, ok := c.opts.Colors[color]
		if !ok {
			c.logger.Warn().Str("color", color).Msg("unknown color ignored")
		} else if err := c.runCommand(ctx, "hsv",
			strconv.Itoa(hsv[0]), strconv.Itoa(hsv[1]), strconv.Itoa(hsv[2])); err != nil {
			c.logger.Warn().Err(err).Msg("color adjustment failed")
		}
	}
	return nil
}

// Off powers the light off.
func (c *LightController) Off(ctx context.Context) error {
	return c.power(ctx, "off")
}

func (c *LightController) power(ctx context.Context, state string) error {
	if err := c.runCommand(ctx, state); err != nil {
		f := faults.Wrap(faults.KindSmartLight, err, "light power "+state+" failed")
		if errors.Is(err, ErrTimeout) {
			f = f.WithSeverity(faults.SeverityHigh)
		}
		return f
	}
	c.logger.Info().Str("state", state).Msg("light power set")
	return nil
}

// runCommand invokes the plug CLI with the shared host argument.
func (c *LightController) runCommand(ctx context.Context, args ...string) error {
	full := append([]string{"--host", c.opts.Host}, args...)
	res, err := c.runner.Run(ctx, c.opts.Timeout, c.opts.Command, full...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &commandError{command: c.opts.Command, exitCode: res.ExitCode, stderr: res.Stderr}
	}
	return nil
}

func clampBrightness(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

type commandError struct {
	command  string
	exitCode int
	stderr   string
}

func (e *commandError) Error() string {
	msg := e.command + " exited " + strconv.Itoa(e.exitCode)
	if e.stderr != "" {
		msg += ": " + e.stderr
	}
	return msg
}
