// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

// Package orchestrator connects the identification pipeline to the
// session layer: it polls the identity mailbox and turns each change
// into a login with a spoken greeting.
package orchestrator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/homewatch/homewatch/internal/faults"
	"github.com/homewatch/homewatch/internal/logging"
	"github.com/homewatch/homewatch/internal/recognition"
	"github.com/homewatch/homewatch/internal/session"
	"github.com/homewatch/homewatch/internal/voice"
)

// Options configures the orchestrator.
type Options struct {
	// PollInterval is how often the identity mailbox is checked.
	PollInterval time.Duration
}

// Orchestrator is the control loop between detector and sessions.
type Orchestrator struct {
	opts     Options
	box      *recognition.IdentityBox
	sessions *session.Manager
	speaker  voice.Speaker
	registry *faults.Registry
	logger   zerolog.Logger
}

// New wires an orchestrator over a shared identity box.
func New(opts Options, box *recognition.IdentityBox, sessions *session.Manager, speaker voice.Speaker, registry *faults.Registry) *Orchestrator {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if speaker == nil {
		speaker = voice.NullSpeaker{}
	}
	return &Orchestrator{
		opts:     opts,
		box:      box,
		sessions: sessions,
		speaker:  speaker,
		registry: registry,
		logger:   logging.With().Str("component", "orchestrator").Logger(),
	}
}

// Run polls the identity box until ctx is canceled. Each pending
// change logs the person in and greets them.
func (o *Orchestrator) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.opts.PollInterval)
	defer ticker.Stop()

	o.logger.Info().Dur("poll_interval", o.opts.PollInterval).Msg("orchestrator running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			o.poll(ctx)
		}
	}
}

// poll consumes at most one identity change per tick.
func (o *Orchestrator) poll(ctx context.Context) {
	name, ok := o.box.TakeChange()
	if !ok {
		return
	}
	o.logger.Info().Str("identity", name).Msg("identity change consumed")
	o.sessions.Login(name)
	if err := o.speaker.Speak(ctx, "Hello "+name); err != nil {
		o.registry.Handle(err)
	}
}
