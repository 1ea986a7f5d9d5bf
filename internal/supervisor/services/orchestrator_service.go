// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package services

import (
	"context"
)

// OrchestratorLoop matches the orchestrator's Run method without
// importing the orchestrator package.
type OrchestratorLoop interface {
	// Run polls for identity changes until the context is canceled.
	Run(ctx context.Context) error
}

// OrchestratorService runs the identity poll loop under supervision.
type OrchestratorService struct {
	loop OrchestratorLoop
	name string
}

// NewOrchestratorService wraps an orchestrator loop.
func NewOrchestratorService(loop OrchestratorLoop) *OrchestratorService {
	return &OrchestratorService{loop: loop, name: "orchestrator"}
}

// Serve implements suture.Service.
func (s *OrchestratorService) Serve(ctx context.Context) error {
	return s.loop.Run(ctx)
}

// String implements fmt.Stringer for suture log messages.
func (s *OrchestratorService) String() string {
	return s.name
}
