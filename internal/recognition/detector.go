// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package recognition

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/homewatch/homewatch/internal/faults"
	"github.com/homewatch/homewatch/internal/logging"
	"github.com/homewatch/homewatch/internal/metrics"
)

// Detector lifecycle states.
const (
	StateIdle int32 = iota
	StateRunning
	StateStopping
	StateStopped
)

// ErrAlreadyStarted is returned by Start on a detector that is not idle.
var ErrAlreadyStarted = errors.New("detector already started")

// ErrStopTimeout is returned by Stop when the worker does not exit
// within the configured join timeout. The frame source is still
// released.
var ErrStopTimeout = errors.New("detector worker did not stop in time")

// DetectorOptions configures a Detector.
type DetectorOptions struct {
	// Tolerance is the maximum embedding distance for a match.
	Tolerance float64
	// FrameRate caps frame processing in frames per second.
	FrameRate float64
	// Warmup is the delay after stream start before the first frame
	// read, letting the camera sensor settle.
	Warmup time.Duration
	// StopTimeout bounds how long Stop waits for the worker to exit.
	StopTimeout time.Duration
}

// Detector is the background identification worker. It reads frames,
// matches faces against the known set, votes a winner per frame, and
// publishes debounced identity changes to the IdentityBox.
type Detector struct {
	opts     DetectorOptions
	source   FrameSource
	matcher  FaceMatcher
	known    *KnownFaceSet
	box      *IdentityBox
	registry *faults.Registry
	limiter  *rate.Limiter
	logger   zerolog.Logger

	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}

	// lastEmitted debounces identity events. Seeded with Unknown so the
	// very first recognized person always produces an event.
	lastEmitted string
	frames      int64
	startedAt   time.Time
}

// NewDetector wires a detector. The box may be shared with an
// orchestrator polling it.
func NewDetector(opts DetectorOptions, source FrameSource, matcher FaceMatcher, known *KnownFaceSet, box *IdentityBox, registry *faults.Registry) *Detector {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 2
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = 5 * time.Second
	}
	return &Detector{
		opts:        opts,
		source:      source,
		matcher:     matcher,
		known:       known,
		box:         box,
		registry:    registry,
		limiter:     rate.NewLimiter(rate.Limit(opts.FrameRate), 1),
		logger:      logging.With().Str("component", "detector").Logger(),
		lastEmitted: Unknown,
	}
}

// State returns the current lifecycle state.
func (d *Detector) State() int32 {
	return d.state.Load()
}

// Start opens the frame source and launches the worker goroutine. A
// stream open failure is the one fatal error: the detector releases
// the source and reports the camera fault to the caller.
func (d *Detector) Start(ctx context.Context) error {
	if !d.state.CompareAndSwap(StateIdle, StateRunning) {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})

	if err := d.source.Start(runCtx); err != nil {
		cancel()
		close(d.done)
		d.state.Store(StateStopped)
		if stopErr := d.source.Stop(); stopErr != nil {
			d.logger.Warn().Err(stopErr).Msg("frame source release after failed start")
		}
		return faults.Wrap(faults.KindCamera, err, "video stream failed to open").
			WithSeverity(faults.SeverityCritical)
	}

	d.startedAt = time.Now()
	d.logger.Info().
		Float64("frame_rate", d.opts.FrameRate).
		Float64("tolerance", d.opts.Tolerance).
		Int("known_embeddings", d.known.Len()).
		Msg("detector starting")

	go d.run(runCtx)
	return nil
}

// Stop requests shutdown and waits up to StopTimeout for the worker to
// exit. The frame source is released unconditionally, even on timeout.
// Safe to call from any state and more than once.
func (d *Detector) Stop() error {
	switch d.state.Load() {
	case StateIdle:
		d.state.Store(StateStopped)
		return nil
	case StateStopped:
		return nil
	}
	d.state.Store(StateStopping)
	d.cancel()

	var joinErr error
	select {
	case <-d.done:
	case <-time.After(d.opts.StopTimeout):
		joinErr = ErrStopTimeout
		d.logger.Error().Dur("timeout", d.opts.StopTimeout).Msg("detector worker join timed out")
	}

	if err := d.source.Stop(); err != nil {
		d.registry.Handle(faults.Wrap(faults.KindCamera, err, "video stream release failed"))
	}
	d.state.Store(StateStopped)

	elapsed := time.Since(d.startedAt)
	frames := atomic.LoadInt64(&d.frames)
	fps := 0.0
	if elapsed > 0 {
		fps = float64(frames) / elapsed.Seconds()
	}
	d.logger.Info().
		Int64("frames", frames).
		Dur("elapsed", elapsed).
		Float64("effective_fps", fps).
		Msg("detector stopped")
	return joinErr
}

func (d *Detector) run(ctx context.Context) {
	defer close(d.done)

	if d.opts.Warmup > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.opts.Warmup):
		}
	}

	for {
		if err := d.limiter.Wait(ctx); err != nil {
			return
		}
		d.processFrame(ctx)
	}
}

// processFrame runs one read/match/vote cycle. Every failure inside a
// cycle is non-fatal: it is reported to the fault registry and the
// frame is skipped.
func (d *Detector) processFrame(ctx context.Context) {
	frame, err := d.source.NextFrame()
	if err != nil {
		metrics.FrameReadFailures.Inc()
		d.registry.Handle(faults.Wrap(faults.KindCamera, err, "frame read failed"))
		return
	}
	if frame == nil {
		return
	}
	atomic.AddInt64(&d.frames, 1)
	metrics.FramesProcessed.Inc()

	boxes, err := d.matcher.Locate(frame)
	if err != nil {
		d.registry.Handle(faults.Wrap(faults.KindRecognition, err, "face location failed"))
		return
	}
	if len(boxes) == 0 {
		return
	}

	embeddings, err := d.matcher.Encode(frame, boxes)
	if err != nil {
		d.registry.Handle(faults.Wrap(faults.KindRecognition, err, "face encoding failed"))
		return
	}

	for _, candidate := range embeddings {
		if ctx.Err() != nil {
			return
		}
		matches := d.matcher.Compare(d.known.Embeddings(), candidate, d.opts.Tolerance)
		winner := voteWinner(d.known, matches)
		if winner == Unknown {
			continue
		}
		metrics.FacesMatched.Inc()
		d.emit(winner)
	}
}

// emit publishes winner if it differs from the last emitted identity.
func (d *Detector) emit(winner string) {
	if winner == d.lastEmitted {
		return
	}
	d.lastEmitted = winner
	d.box.Set(winner)
	metrics.IdentityChanges.Inc()
	d.logger.Info().Str("identity", winner).Msg("identity change detected")
}
