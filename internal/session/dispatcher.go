// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/homewatch/homewatch/internal/faults"
	"github.com/homewatch/homewatch/internal/logging"
	"github.com/homewatch/homewatch/internal/metrics"
	"github.com/homewatch/homewatch/internal/validation"
	"github.com/homewatch/homewatch/internal/weather"
)

const helpText = `Available commands:
  lights  - turn the lights on or off, set brightness and color
  weather - current temp, wind, precip, sunrise, or sunset
  music   - play music
  status  - show who is logged in
  help    - show this message
  logout  - log out`

const unknownCommandText = "Sorry, I don't currently recognize that command. Type 'help' for available commands."

// lightRequest validates the lights sub-prompt answer.
type lightRequest struct {
	Power string `validate:"required,oneof=on off"`
}

// dispatcher is the exclusive command worker. Exactly one runs per
// manager while the queue is non-empty; it reads commands one at a
// time and serves them against the head session.
type dispatcher struct {
	mgr    *Manager
	ctx    context.Context
	cancel context.CancelFunc
	stop   chan struct{}
	once   sync.Once
	done   chan struct{}
	logger zerolog.Logger
}

func newDispatcher(m *Manager) *dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &dispatcher{
		mgr:    m,
		ctx:    ctx,
		cancel: cancel,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logging.With().Str("component", "dispatcher").Logger(),
	}
}

// requestStop asks the worker to exit after the current command. Safe
// to call from inside a command handler and more than once.
func (d *dispatcher) requestStop() {
	d.once.Do(func() {
		close(d.stop)
		d.cancel()
	})
}

func (d *dispatcher) stopping() bool {
	select {
	case <-d.stop:
		return true
	default:
		return false
	}
}

func (d *dispatcher) run() {
	defer close(d.done)
	defer d.mgr.dispatcherExited(d)
	d.logger.Debug().Msg("dispatcher started")

	for {
		if d.stopping() {
			d.logger.Debug().Msg("dispatcher stopped")
			return
		}
		name, ok := d.mgr.Active()
		if !ok {
			return
		}

		line, err := d.mgr.deps.Input.ReadLine(fmt.Sprintf("Hi %s. What would you like to do? ", name))
		if err != nil {
			if isClosed(err) {
				d.logger.Info().Msg("command input closed, dispatcher exiting")
				return
			}
			d.mgr.deps.Registry.Handle(faults.Wrap(faults.KindSystem, err, "command read failed"))
			d.pause()
			continue
		}

		d.dispatch(strings.ToLower(strings.TrimSpace(line)))
		d.pause()
	}
}

// pause sleeps the configured inter-command delay, waking early on
// stop.
func (d *dispatcher) pause() {
	delay := d.mgr.deps.CommandDelay
	if delay <= 0 {
		return
	}
	select {
	case <-d.stop:
	case <-time.After(delay):
	}
}

func (d *dispatcher) dispatch(cmd string) {
	switch cmd {
	case "":
		return
	case "lights":
		d.handleLights()
	case "weather":
		d.handleWeather()
	case "music":
		d.handleMusic()
	case "status":
		d.handleStatus()
	case "help":
		d.respond(helpText)
	case "logout":
		d.mgr.Logout()
	default:
		d.say(unknownCommandText)
		metrics.CommandsDispatched.WithLabelValues("unknown").Inc()
		return
	}
	metrics.CommandsDispatched.WithLabelValues(cmd).Inc()
}

func (d *dispatcher) handleLights() {
	answer, err := d.prompt("On or off? ")
	if err != nil {
		return
	}
	req := lightRequest{Power: strings.ToLower(strings.TrimSpace(answer))}
	if err := validation.Struct(req); err != nil {
		d.say("Please answer 'on' or 'off'.")
		return
	}

	if req.Power == "off" {
		if err := d.mgr.deps.Lights.Off(d.ctx); err != nil {
			d.mgr.deps.Registry.Handle(err)
			d.say("Sorry, there was an error controlling the lights.")
			return
		}
		d.respond("Lights are now off")
		return
	}

	var brightness *int
	defaultLevel := d.mgr.deps.Lights.DefaultBrightness()
	if answer, err = d.prompt(fmt.Sprintf("Brightness 0-100 (enter for %d)? ", defaultLevel)); err != nil {
		return
	}
	if answer == "" {
		brightness = &defaultLevel
	} else if v, convErr := strconv.Atoi(answer); convErr == nil {
		brightness = &v
	} else {
		d.say("That's not a number, keeping current brightness.")
	}

	color, err := d.prompt(fmt.Sprintf("Color (%s, enter to skip)? ",
		strings.Join(d.mgr.deps.Lights.ColorNames(), ", ")))
	if err != nil {
		return
	}

	if err := d.mgr.deps.Lights.On(d.ctx, brightness, strings.ToLower(color)); err != nil {
		d.mgr.deps.Registry.Handle(err)
		d.say("Sorry, there was an error controlling the lights.")
		return
	}
	d.respond("Lights are now on")
}

func (d *dispatcher) handleWeather() {
	answer, err := d.prompt("Temp, wind, precip, sunrise, or sunset? ")
	if err != nil {
		return
	}
	format, err := weather.ParseFormat(answer)
	if err != nil {
		d.say("Sorry, I don't recognize that weather option.")
		return
	}

	reading, err := d.mgr.deps.Weather.Get(d.ctx, format)
	if err != nil {
		d.mgr.deps.Registry.Handle(err)
		d.say("Sorry, there was an error getting weather information.")
		return
	}
	d.respond(fmt.Sprintf("The %s is %s", format, reading))
}

func (d *dispatcher) handleMusic() {
	d.say("Playing music...")
	if err := d.mgr.deps.Music.Play(d.ctx); err != nil {
		d.mgr.deps.Registry.Handle(err)
		d.say("Sorry, there was an error playing music.")
		return
	}
	d.respond("Music finished playing")
}

func (d *dispatcher) handleStatus() {
	name, ok := d.mgr.Active()
	if !ok {
		d.respond("Nobody is logged in.")
		return
	}
	d.respond(fmt.Sprintf("%s is logged in. %d session(s) in the queue.", name, d.mgr.Len()))
}

// prompt reads one sub-answer. A closed stream stops the dispatcher so
// the outer loop exits on its next pass.
func (d *dispatcher) prompt(text string) (string, error) {
	answer, err := d.mgr.deps.Input.ReadLine(text)
	if err != nil {
		if isClosed(err) {
			d.requestStop()
		} else {
			d.mgr.deps.Registry.Handle(faults.Wrap(faults.KindSystem, err, "command read failed"))
		}
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// say prints to the user without voicing.
func (d *dispatcher) say(text string) {
	fmt.Fprintln(d.mgr.deps.Out, text)
}

// respond prints and speaks a confirmation.
func (d *dispatcher) respond(text string) {
	d.say(text)
	d.mgr.speak(text)
}
