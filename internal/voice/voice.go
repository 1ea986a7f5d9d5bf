// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

// Package voice provides spoken feedback. Speech is best effort
// everywhere: a broken synthesizer never blocks the session flow.
package voice

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/homewatch/homewatch/internal/devices"
	"github.com/homewatch/homewatch/internal/faults"
	"github.com/homewatch/homewatch/internal/logging"
)

// Speaker voices a line of text.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// NullSpeaker silently discards all speech. Used when voice output is
// disabled.
type NullSpeaker struct{}

func (NullSpeaker) Speak(context.Context, string) error { return nil }

// Options configures the synthesizer speaker.
type Options struct {
	// Rate is the speech rate in words per minute.
	Rate int
	// Volume is the output amplitude in [0, 1].
	Volume float64
}

const speakTimeout = 10 * time.Second

// ExecSpeaker voices text through the espeak synthesizer binary.
type ExecSpeaker struct {
	opts   Options
	runner devices.Runner
	logger zerolog.Logger
}

// NewExecSpeaker builds a speaker over the given runner.
func NewExecSpeaker(opts Options, runner devices.Runner) *ExecSpeaker {
	if opts.Rate <= 0 {
		opts.Rate = 175
	}
	if opts.Volume <= 0 || opts.Volume > 1 {
		opts.Volume = 1
	}
	return &ExecSpeaker{
		opts:   opts,
		runner: runner,
		logger: logging.With().Str("component", "voice").Logger(),
	}
}

// Speak voices text, blocking until playback finishes.
func (s *ExecSpeaker) Speak(ctx context.Context, text string) error {
	// espeak amplitude range is 0-200.
	amplitude := int(s.opts.Volume * 200)
	res, err := s.runner.Run(ctx, speakTimeout, "espeak",
		"-s", strconv.Itoa(s.opts.Rate),
		"-a", strconv.Itoa(amplitude),
		text,
	)
	if err != nil {
		return faults.Wrap(faults.KindVoice, err, "speech synthesis failed")
	}
	if res.ExitCode != 0 {
		return faults.Newf(faults.KindVoice, "speech synthesizer exited %d: %s", res.ExitCode, res.Stderr)
	}
	s.logger.Debug().Str("text", text).Msg("spoke")
	return nil
}

// New picks a speaker implementation from configuration: the
// synthesizer when enabled, otherwise the null speaker.
func New(enabled bool, opts Options, runner devices.Runner) Speaker {
	if !enabled {
		return NullSpeaker{}
	}
	return NewExecSpeaker(opts, runner)
}
