// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package recognition

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/homewatch/homewatch/internal/faults"
)

// queueSource feeds a fixed sequence of frames, then reports no frame
// available forever.
type queueSource struct {
	mu       sync.Mutex
	frames   []*Frame
	startErr error
	stopped  bool
}

func (s *queueSource) Start(context.Context) error { return s.startErr }

func (s *queueSource) NextFrame() (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil, nil
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	return f, nil
}

func (s *queueSource) Stop() error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	return nil
}

func (s *queueSource) wasStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// tagMatcher treats the first byte of a frame as a known-set index:
// every frame yields one face whose embedding matches exactly that
// reference. A zero first byte means no face in frame.
type tagMatcher struct{}

func (tagMatcher) Locate(f *Frame) ([]Box, error) {
	if len(f.Data) == 0 || f.Data[0] == 0 {
		return nil, nil
	}
	return []Box{{Top: 0, Right: 10, Bottom: 10, Left: 0}}, nil
}

func (tagMatcher) Encode(f *Frame, boxes []Box) ([]Embedding, error) {
	return []Embedding{{float32(f.Data[0])}}, nil
}

func (tagMatcher) Compare(known []Embedding, c Embedding, tol float64) []bool {
	return MatchEuclidean(known, c, tol)
}

func frameFor(tag byte) *Frame {
	return &Frame{Data: []byte{tag}, Width: 1, Height: 1}
}

func testFaceSet(t *testing.T) *KnownFaceSet {
	t.Helper()
	// Reference embedding i carries value i+1, matching frame tag i+1.
	set, err := NewKnownFaceSet(
		[]string{"alice", "bob"},
		[]Embedding{{1}, {2}},
	)
	if err != nil {
		t.Fatalf("NewKnownFaceSet: %v", err)
	}
	return set
}

func newTestDetector(t *testing.T, source FrameSource) (*Detector, *IdentityBox) {
	t.Helper()
	box := NewIdentityBox()
	registry := faults.NewRegistry(faults.DefaultRecoverySet())
	d := NewDetector(DetectorOptions{
		Tolerance:   0.4,
		FrameRate:   500,
		Warmup:      0,
		StopTimeout: 2 * time.Second,
	}, source, tagMatcher{}, testFaceSet(t), box, registry)
	return d, box
}

func waitForChange(t *testing.T, box *IdentityBox) string {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if name, ok := box.TakeChange(); ok {
			return name
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for identity change")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestDetectorEmitsOnRecognition(t *testing.T) {
	source := &queueSource{frames: []*Frame{frameFor(1)}}
	d, box := newTestDetector(t, source)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	if got := waitForChange(t, box); got != "alice" {
		t.Errorf("identity = %q, want alice", got)
	}
}

func TestDetectorDebouncesRepeats(t *testing.T) {
	source := &queueSource{frames: []*Frame{
		frameFor(1), frameFor(1), frameFor(1), frameFor(2),
	}}
	d, box := newTestDetector(t, source)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	// Repeated alice frames must collapse into one event; the bob
	// frame then produces the second.
	if got := waitForChange(t, box); got != "alice" {
		t.Fatalf("first identity = %q, want alice", got)
	}
	if got := waitForChange(t, box); got != "bob" {
		t.Fatalf("second identity = %q, want bob", got)
	}
	if _, ok := box.TakeChange(); ok {
		t.Error("unexpected third identity change")
	}
}

func TestDetectorIgnoresUnmatchedFaces(t *testing.T) {
	// Tag 9 encodes an embedding far from every reference.
	source := &queueSource{frames: []*Frame{frameFor(9), frameFor(9)}}
	d, box := newTestDetector(t, source)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	time.Sleep(50 * time.Millisecond)
	if name, ok := box.TakeChange(); ok {
		t.Errorf("unexpected identity change %q for unmatched face", name)
	}
}

func TestDetectorFatalStreamOpen(t *testing.T) {
	source := &queueSource{startErr: errors.New("device busy")}
	d, _ := newTestDetector(t, source)

	err := d.Start(context.Background())
	if err == nil {
		t.Fatal("expected start error")
	}
	if !faults.IsKind(err, faults.KindCamera) {
		t.Errorf("kind = %v, want camera", err)
	}
	if !source.wasStopped() {
		t.Error("frame source not released after failed start")
	}
	if d.State() != StateStopped {
		t.Errorf("state = %d, want stopped", d.State())
	}
}

func TestDetectorStop(t *testing.T) {
	t.Run("releases source and is idempotent", func(t *testing.T) {
		source := &queueSource{}
		d, _ := newTestDetector(t, source)
		if err := d.Start(context.Background()); err != nil {
			t.Fatalf("Start: %v", err)
		}
		if err := d.Stop(); err != nil {
			t.Fatalf("Stop: %v", err)
		}
		if !source.wasStopped() {
			t.Error("frame source not released")
		}
		if err := d.Stop(); err != nil {
			t.Errorf("second Stop: %v", err)
		}
		if d.State() != StateStopped {
			t.Errorf("state = %d, want stopped", d.State())
		}
	})

	t.Run("stop before start", func(t *testing.T) {
		d, _ := newTestDetector(t, &queueSource{})
		if err := d.Stop(); err != nil {
			t.Errorf("Stop on idle detector: %v", err)
		}
	})

	t.Run("start after stop rejected", func(t *testing.T) {
		d, _ := newTestDetector(t, &queueSource{})
		if err := d.Stop(); err != nil {
			t.Fatalf("Stop: %v", err)
		}
		if err := d.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
			t.Errorf("Start after Stop = %v, want ErrAlreadyStarted", err)
		}
	})
}
