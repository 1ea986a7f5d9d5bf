// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package recognition

import "sync"

// IdentityBox is a single-slot mailbox between the detector and the
// orchestrator. The detector overwrites the slot on every identity
// change; the orchestrator polls with TakeChange. Rapid successive
// changes coalesce: only the latest identity survives until consumed.
type IdentityBox struct {
	mu      sync.Mutex
	name    string
	changed bool
}

// NewIdentityBox returns an empty box with no pending change.
func NewIdentityBox() *IdentityBox {
	return &IdentityBox{name: Unknown}
}

// Set records a new identity and marks the box changed, replacing any
// unconsumed value.
func (b *IdentityBox) Set(name string) {
	b.mu.Lock()
	b.name = name
	b.changed = true
	b.mu.Unlock()
}

// TakeChange atomically reads the current identity and clears the
// change flag. The second return is false when no change was pending
// since the last call.
func (b *IdentityBox) TakeChange() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.changed {
		return "", false
	}
	b.changed = false
	return b.name, true
}

// Peek returns the current identity without clearing the change flag.
func (b *IdentityBox) Peek() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.name
}
