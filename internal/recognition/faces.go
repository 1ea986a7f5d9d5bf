// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

// Package recognition implements the identification pipeline: known
// face storage, embedding matching with majority vote, and the
// background detector that turns video frames into debounced identity
// change events.
package recognition

import (
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-json"

	"github.com/homewatch/homewatch/internal/faults"
)

// Embedding is a face embedding vector produced by the face matcher.
type Embedding []float32

// Unknown is the identity reported when no known face matches.
const Unknown = "Unknown"

// KnownFaceSet holds the reference embeddings loaded once at startup.
// Entries keep their artifact order: the vote tie-break depends on it.
// Read-only after load.
type KnownFaceSet struct {
	names      []string
	embeddings []Embedding
}

// encodingsArtifact is the on-disk JSON shape: two parallel arrays, one
// name per reference embedding. A person with several reference images
// appears once per image.
type encodingsArtifact struct {
	Names     []string    `json:"names"`
	Encodings []Embedding `json:"encodings"`
}

// LoadKnownFaces reads the encodings artifact from path. A missing or
// malformed artifact is a configuration fault: fatal, never recovered.
func LoadKnownFaces(path string) (*KnownFaceSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, faults.Wrap(faults.KindConfiguration, err,
			fmt.Sprintf("encodings file %s not readable", path))
	}

	var artifact encodingsArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, faults.Wrap(faults.KindConfiguration, err,
			fmt.Sprintf("encodings file %s not parseable", path))
	}
	if len(artifact.Names) != len(artifact.Encodings) {
		return nil, faults.Newf(faults.KindConfiguration,
			"encodings file %s corrupt: %d names vs %d encodings",
			path, len(artifact.Names), len(artifact.Encodings))
	}
	if len(artifact.Names) == 0 {
		return nil, faults.Newf(faults.KindConfiguration,
			"encodings file %s contains no reference faces", path)
	}

	return NewKnownFaceSet(artifact.Names, artifact.Encodings)
}

// NewKnownFaceSet builds a face set from parallel name/embedding
// slices, preserving order.
func NewKnownFaceSet(names []string, embeddings []Embedding) (*KnownFaceSet, error) {
	if len(names) != len(embeddings) {
		return nil, fmt.Errorf("mismatched lengths: %d names, %d embeddings", len(names), len(embeddings))
	}
	s := &KnownFaceSet{
		names:      make([]string, len(names)),
		embeddings: make([]Embedding, len(embeddings)),
	}
	copy(s.names, names)
	copy(s.embeddings, embeddings)
	return s, nil
}

// Len returns the number of reference embeddings.
func (s *KnownFaceSet) Len() int {
	return len(s.embeddings)
}

// Name returns the name owning reference embedding i.
func (s *KnownFaceSet) Name(i int) string {
	return s.names[i]
}

// Embeddings returns the reference embeddings in artifact order.
// Callers must not mutate the returned slice.
func (s *KnownFaceSet) Embeddings() []Embedding {
	return s.embeddings
}

// People returns the distinct names in first-seen order.
func (s *KnownFaceSet) People() []string {
	seen := make(map[string]struct{}, len(s.names))
	var out []string
	for _, n := range s.names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// EuclideanDistance computes the L2 distance between two embeddings.
// Mismatched or empty vectors yield +Inf so they can never match.
func EuclideanDistance(a, b Embedding) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// MatchEuclidean compares candidate against every known embedding,
// reporting one boolean per reference: true where the distance is
// within tolerance.
func MatchEuclidean(known []Embedding, candidate Embedding, tolerance float64) []bool {
	matches := make([]bool, len(known))
	for i, ref := range known {
		matches[i] = EuclideanDistance(ref, candidate) <= tolerance
	}
	return matches
}
