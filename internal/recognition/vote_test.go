// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package recognition

import "testing"

func TestVoteWinner(t *testing.T) {
	set, err := NewKnownFaceSet(
		[]string{"alice", "bob", "alice", "bob", "carol"},
		[]Embedding{{0}, {1}, {2}, {3}, {4}},
	)
	if err != nil {
		t.Fatalf("NewKnownFaceSet: %v", err)
	}

	tests := []struct {
		name    string
		matches []bool
		want    string
	}{
		{"no matches", []bool{false, false, false, false, false}, Unknown},
		{"clear majority", []bool{true, false, true, false, false}, "alice"},
		{"single match", []bool{false, false, false, false, true}, "carol"},
		{"tie resolves to first seen", []bool{false, true, true, false, false}, "bob"},
		{"three way tie", []bool{true, true, false, false, true}, "alice"},
		{"short matches slice tolerated", []bool{false, true}, "bob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := voteWinner(set, tt.matches); got != tt.want {
				t.Errorf("voteWinner = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVoteWinnerDeterministic(t *testing.T) {
	// Repeated votes over a tied slate must always produce the same
	// winner regardless of map iteration order.
	set, err := NewKnownFaceSet(
		[]string{"bob", "alice", "bob", "alice"},
		[]Embedding{{0}, {1}, {2}, {3}},
	)
	if err != nil {
		t.Fatalf("NewKnownFaceSet: %v", err)
	}
	matches := []bool{true, true, true, true}
	for i := 0; i < 100; i++ {
		if got := voteWinner(set, matches); got != "bob" {
			t.Fatalf("iteration %d: voteWinner = %q, want %q", i, got, "bob")
		}
	}
}
