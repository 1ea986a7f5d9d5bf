// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package recognition

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/homewatch/homewatch/internal/faults"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "encodings.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestLoadKnownFaces(t *testing.T) {
	t.Run("valid artifact", func(t *testing.T) {
		path := writeArtifact(t, `{
			"names": ["alice", "bob", "alice"],
			"encodings": [[0.1, 0.2], [0.3, 0.4], [0.15, 0.25]]
		}`)
		set, err := LoadKnownFaces(path)
		if err != nil {
			t.Fatalf("LoadKnownFaces: %v", err)
		}
		if set.Len() != 3 {
			t.Errorf("Len = %d, want 3", set.Len())
		}
		if got := set.Name(1); got != "bob" {
			t.Errorf("Name(1) = %q, want %q", got, "bob")
		}
		people := set.People()
		if len(people) != 2 || people[0] != "alice" || people[1] != "bob" {
			t.Errorf("People = %v, want [alice bob]", people)
		}
	})

	t.Run("missing file is a configuration fault", func(t *testing.T) {
		_, err := LoadKnownFaces(filepath.Join(t.TempDir(), "nope.json"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !faults.IsKind(err, faults.KindConfiguration) {
			t.Errorf("kind = %v, want configuration", err)
		}
	})

	t.Run("malformed json is a configuration fault", func(t *testing.T) {
		path := writeArtifact(t, `{"names": [`)
		_, err := LoadKnownFaces(path)
		if !faults.IsKind(err, faults.KindConfiguration) {
			t.Errorf("kind = %v, want configuration", err)
		}
	})

	t.Run("mismatched parallel arrays rejected", func(t *testing.T) {
		path := writeArtifact(t, `{"names": ["alice"], "encodings": []}`)
		if _, err := LoadKnownFaces(path); err == nil {
			t.Fatal("expected error for mismatched arrays")
		}
	})

	t.Run("empty artifact rejected", func(t *testing.T) {
		path := writeArtifact(t, `{"names": [], "encodings": []}`)
		if _, err := LoadKnownFaces(path); err == nil {
			t.Fatal("expected error for empty artifact")
		}
	})
}

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Embedding
		want float64
	}{
		{"identical", Embedding{1, 2, 3}, Embedding{1, 2, 3}, 0},
		{"unit apart", Embedding{0, 0}, Embedding{1, 0}, 1},
		{"pythagorean", Embedding{0, 0}, Embedding{3, 4}, 5},
		{"mismatched lengths", Embedding{1}, Embedding{1, 2}, math.Inf(1)},
		{"empty vectors", Embedding{}, Embedding{}, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EuclideanDistance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 && !(math.IsInf(got, 1) && math.IsInf(tt.want, 1)) {
				t.Errorf("EuclideanDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchEuclidean(t *testing.T) {
	known := []Embedding{{0, 0}, {10, 0}, {0.5, 0}}
	got := MatchEuclidean(known, Embedding{0, 0}, 0.6)
	want := []bool{true, false, true}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
