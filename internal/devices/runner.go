// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

// Package devices drives external hardware through their CLI tools:
// smart lights via the plug vendor's client and music via a command
// line player.
package devices

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout reports that a device command exceeded its deadline.
var ErrTimeout = errors.New("device command timed out")

// Result captures one device command invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes a device command with a bounded runtime.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error)
}

// ExecRunner runs device commands as subprocesses.
type ExecRunner struct{}

// pipeGrace bounds how long Wait keeps draining stdout/stderr after
// the process exits or the deadline fires. Device CLIs sometimes leave
// a background child holding the inherited pipe; without this bound
// Wait blocks until that child exits, defeating the timeout.
const pipeGrace = time.Second

// Run executes name with args, killing the process at the timeout.
// A non-zero exit is not an error here; callers inspect ExitCode.
func (ExecRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.WaitDelay = pipeGrace
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		return res, fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, name)
	}
	if err != nil {
		// The process itself succeeded; only abandoned pipe drains
		// remained.
		if errors.Is(err, exec.ErrWaitDelay) {
			return res, nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("running %s: %w", name, err)
	}
	return res, nil
}
