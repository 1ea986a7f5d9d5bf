// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package recognition

import "context"

// Frame is one decoded video frame handed to the face matcher.
type Frame struct {
	// Data holds packed RGB pixels, row-major.
	Data   []byte
	Width  int
	Height int
}

// Box is a face bounding box in frame coordinates.
type Box struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// FrameSource abstracts the camera or video stream. Implementations
// wrap the actual capture hardware.
type FrameSource interface {
	// Start opens the stream. A failure here is fatal to the detector.
	Start(ctx context.Context) error
	// NextFrame returns the next available frame, or (nil, nil) when no
	// frame is ready yet.
	NextFrame() (*Frame, error)
	// Stop releases the stream. Safe to call after a failed Start.
	Stop() error
}

// FaceMatcher abstracts the face location and embedding model.
type FaceMatcher interface {
	// Locate finds face bounding boxes in a frame.
	Locate(frame *Frame) ([]Box, error)
	// Encode computes one embedding per located box.
	Encode(frame *Frame, boxes []Box) ([]Embedding, error)
	// Compare reports, per known embedding, whether candidate is within
	// tolerance of it.
	Compare(known []Embedding, candidate Embedding, tolerance float64) []bool
}

// NullFrameSource is the integration point placeholder used when no
// capture driver is wired in. It starts cleanly and never yields a
// frame, leaving the detector idle.
type NullFrameSource struct{}

func (NullFrameSource) Start(context.Context) error { return nil }

func (NullFrameSource) NextFrame() (*Frame, error) { return nil, nil }

func (NullFrameSource) Stop() error { return nil }

// NullMatcher pairs with NullFrameSource: it locates nothing and
// compares with euclidean distance.
type NullMatcher struct{}

func (NullMatcher) Locate(*Frame) ([]Box, error) { return nil, nil }

func (NullMatcher) Encode(*Frame, []Box) ([]Embedding, error) { return nil, nil }

func (NullMatcher) Compare(known []Embedding, c Embedding, tol float64) []bool {
	return MatchEuclidean(known, c, tol)
}
