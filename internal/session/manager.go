// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homewatch/homewatch/internal/devices"
	"github.com/homewatch/homewatch/internal/faults"
	"github.com/homewatch/homewatch/internal/logging"
	"github.com/homewatch/homewatch/internal/metrics"
	"github.com/homewatch/homewatch/internal/voice"
	"github.com/homewatch/homewatch/internal/weather"
)

// Deps are the collaborators the dispatcher serves commands with.
type Deps struct {
	Input    CommandInput
	Speaker  voice.Speaker
	Lights   *devices.LightController
	Weather  *weather.Service
	Music    *devices.MusicPlayer
	Registry *faults.Registry

	// Out receives user-visible responses.
	Out io.Writer

	// CommandDelay is the cooperative pause between commands, giving
	// other goroutines room on constrained hardware.
	CommandDelay time.Duration
}

// Session is one queued login.
type Session struct {
	ID   uuid.UUID
	Name string
	At   time.Time
}

// Manager owns the FIFO session queue. The head of the queue is the
// active user; everyone behind waits. Duplicate logins queue again
// rather than being merged. A dispatcher worker runs exactly while the
// queue is non-empty.
type Manager struct {
	mu         sync.Mutex
	queue      []Session
	dispatcher *dispatcher
	deps       Deps
	logger     zerolog.Logger
}

// NewManager builds a session manager. The dispatcher starts lazily on
// the first login.
func NewManager(deps Deps) *Manager {
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Speaker == nil {
		deps.Speaker = voice.NullSpeaker{}
	}
	return &Manager{
		deps:   deps,
		logger: logging.With().Str("component", "session").Logger(),
	}
}

// Login appends a session for name and starts the dispatcher when the
// queue was empty. Returns the new session's ID.
func (m *Manager) Login(name string) uuid.UUID {
	m.mu.Lock()
	wasEmpty := len(m.queue) == 0
	s := Session{ID: uuid.New(), Name: name, At: time.Now()}
	m.queue = append(m.queue, s)
	depth := len(m.queue)

	var d *dispatcher
	if wasEmpty && m.dispatcher == nil {
		d = newDispatcher(m)
		m.dispatcher = d
	}
	m.mu.Unlock()

	metrics.Logins.Inc()
	metrics.SessionQueueDepth.Set(float64(depth))
	m.logger.Info().Str("user", name).Str("session_id", s.ID.String()).
		Int("queue_depth", depth).Msg("user logged in")

	if d != nil {
		go d.run()
	}
	return s.ID
}

// Logout removes the head session. The next queued user, if any, is
// greeted and becomes active; an emptied queue stops the dispatcher.
func (m *Manager) Logout() {
	m.mu.Lock()
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return
	}
	leaving := m.queue[0]
	m.queue = m.queue[1:]
	depth := len(m.queue)
	var next *Session
	if depth > 0 {
		next = &m.queue[0]
	} else if m.dispatcher != nil {
		m.dispatcher.requestStop()
		m.dispatcher = nil
	}
	m.mu.Unlock()

	metrics.Logouts.Inc()
	metrics.SessionQueueDepth.Set(float64(depth))
	m.logger.Info().Str("user", leaving.Name).Int("queue_depth", depth).
		Msg("user logged out")

	m.speak("Goodbye " + leaving.Name)
	if next != nil {
		m.speak("Hello " + next.Name)
	}
}

// Active returns the head session's name, or false when nobody is
// logged in.
func (m *Manager) Active() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return "", false
	}
	return m.queue[0].Name, true
}

// Len reports the queue depth.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Close stops any running dispatcher and waits for it to exit. Used on
// process shutdown.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	d := m.dispatcher
	m.dispatcher = nil
	m.mu.Unlock()
	if d == nil {
		return nil
	}
	d.requestStop()
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// speak voices text best effort, routing synthesizer failures to the
// fault registry.
func (m *Manager) speak(text string) {
	if err := m.deps.Speaker.Speak(context.Background(), text); err != nil {
		m.deps.Registry.Handle(err)
	}
}

// dispatcherExited clears the dispatcher slot when the worker returns
// on its own, such as when the command stream closes.
func (m *Manager) dispatcherExited(d *dispatcher) {
	m.mu.Lock()
	if m.dispatcher == d {
		m.dispatcher = nil
	}
	m.mu.Unlock()
}
