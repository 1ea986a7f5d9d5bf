// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

// Package services wraps the long-running workers as suture services.
package services

import (
	"context"
)

// DetectorWorker matches the recognition detector's start/stop API
// without importing the recognition package.
type DetectorWorker interface {
	// Start opens the stream and launches the worker. Fatal on stream
	// open failure.
	Start(ctx context.Context) error
	// Stop joins the worker and releases the stream.
	Stop() error
}

// DetectorService runs the face detector under supervision. Detector
// workers are single-use (their lifecycle ends at stopped), so the
// service holds a factory and builds a fresh worker on every restart.
type DetectorService struct {
	newWorker func() DetectorWorker
	name      string
}

// NewDetectorService wraps a detector worker factory.
func NewDetectorService(newWorker func() DetectorWorker) *DetectorService {
	return &DetectorService{newWorker: newWorker, name: "face-detector"}
}

// Serve implements suture.Service: it starts a worker, parks until the
// context ends, then stops it. A fatal start error propagates to
// suture, which restarts with backoff.
func (s *DetectorService) Serve(ctx context.Context) error {
	worker := s.newWorker()
	if err := worker.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	if err := worker.Stop(); err != nil {
		return err
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture log messages.
func (s *DetectorService) String() string {
	return s.name
}
