// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package devices

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/homewatch/homewatch/internal/faults"
	"github.com/homewatch/homewatch/internal/logging"
)

// MusicOptions configures the music player.
type MusicOptions struct {
	// Player is the command line audio player binary.
	Player string
	// File is the track to play.
	File string
	// Timeout bounds one playback invocation.
	Timeout time.Duration
}

// MusicPlayer plays a configured audio file through an external
// player process.
type MusicPlayer struct {
	opts   MusicOptions
	runner Runner
	logger zerolog.Logger
}

// NewMusicPlayer wires a music player over the given runner.
func NewMusicPlayer(opts MusicOptions, runner Runner) *MusicPlayer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &MusicPlayer{
		opts:   opts,
		runner: runner,
		logger: logging.With().Str("component", "music").Logger(),
	}
}

// Play starts playback and blocks until the track ends, the timeout
// fires, or the player fails.
func (p *MusicPlayer) Play(ctx context.Context) error {
	if _, err := os.Stat(p.opts.File); err != nil {
		return faults.Wrap(faults.KindMusic, err, "audio file not available")
	}

	p.logger.Info().Str("file", p.opts.File).Msg("starting playback")
	res, err := p.runner.Run(ctx, p.opts.Timeout, p.opts.Player, "-vC", p.opts.File)
	if err != nil {
		return faults.Wrap(faults.KindMusic, err, "audio player failed")
	}
	if res.ExitCode != 0 {
		return faults.Newf(faults.KindMusic, "audio player exited %d: %s", res.ExitCode, res.Stderr)
	}
	return nil
}
