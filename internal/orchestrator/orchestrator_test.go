// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package orchestrator

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/homewatch/homewatch/internal/faults"
	"github.com/homewatch/homewatch/internal/recognition"
	"github.com/homewatch/homewatch/internal/session"
)

type silentInput struct{}

func (silentInput) ReadLine(string) (string, error) { return "", session.ErrInputClosed }

type recordingSpeaker struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (s *recordingSpeaker) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.lines = append(s.lines, text)
	return nil
}

func (s *recordingSpeaker) spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func newOrchestrator(speaker *recordingSpeaker) (*Orchestrator, *recognition.IdentityBox, *session.Manager) {
	registry := faults.NewRegistry(faults.DefaultRecoverySet())
	mgr := session.NewManager(session.Deps{
		Input:    silentInput{},
		Registry: registry,
		Out:      io.Discard,
	})
	box := recognition.NewIdentityBox()
	o := New(Options{PollInterval: 5 * time.Millisecond}, box, mgr, speaker, registry)
	return o, box, mgr
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition not met in time")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestOrchestratorLogsInOnChange(t *testing.T) {
	speaker := &recordingSpeaker{}
	o, box, mgr := newOrchestrator(speaker)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	box.Set("alice")
	waitFor(t, func() bool { return mgr.Len() == 1 })

	name, ok := mgr.Active()
	if !ok || name != "alice" {
		t.Errorf("active = (%q, %v), want (alice, true)", name, ok)
	}
	waitFor(t, func() bool {
		spoken := speaker.spoken()
		return len(spoken) == 1 && spoken[0] == "Hello alice"
	})

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestOrchestratorCoalescedChangeYieldsOneLogin(t *testing.T) {
	speaker := &recordingSpeaker{}
	o, box, mgr := newOrchestrator(speaker)

	// Both writes land before the first poll: only the latest identity
	// must log in.
	box.Set("alice")
	box.Set("bob")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = o.Run(ctx) }()

	waitFor(t, func() bool { return mgr.Len() == 1 })
	time.Sleep(30 * time.Millisecond)

	if n := mgr.Len(); n != 1 {
		t.Errorf("queue depth = %d, want 1", n)
	}
	if name, _ := mgr.Active(); name != "bob" {
		t.Errorf("active = %q, want bob", name)
	}
}

func TestOrchestratorIdleWithoutChanges(t *testing.T) {
	speaker := &recordingSpeaker{}
	o, _, mgr := newOrchestrator(speaker)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = o.Run(ctx)

	if n := mgr.Len(); n != 0 {
		t.Errorf("queue depth = %d, want 0", n)
	}
	if spoken := speaker.spoken(); len(spoken) != 0 {
		t.Errorf("spoken = %v, want none", spoken)
	}
}

func TestOrchestratorSpeakerFailureDoesNotBlockLogin(t *testing.T) {
	speaker := &recordingSpeaker{err: faults.New(faults.KindVoice, "synthesizer offline")}
	o, box, mgr := newOrchestrator(speaker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = o.Run(ctx) }()

	box.Set("alice")
	waitFor(t, func() bool { return mgr.Len() == 1 })
}
