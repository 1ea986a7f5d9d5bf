// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

// Package session owns the login queue and the command dispatcher
// that serves whoever is at the head of it.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrInputClosed reports that the command stream ended. The dispatcher
// treats it as a graceful shutdown, distinct from a read failure.
var ErrInputClosed = errors.New("command input closed")

// CommandInput supplies one line of user input per call. ReadLine
// blocks until a line arrives, returns ErrInputClosed when the stream
// ends, or any other error on a read failure.
type CommandInput interface {
	ReadLine(prompt string) (string, error)
}

// StdinInput reads commands interactively from standard input.
type StdinInput struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewStdinInput builds the interactive input over os.Stdin/os.Stdout.
func NewStdinInput() *StdinInput {
	return &StdinInput{reader: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// ReadLine prints prompt and returns the next line with surrounding
// whitespace trimmed.
func (s *StdinInput) ReadLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				return trimmed, nil
			}
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("reading command input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// isClosed reports whether err means the input stream is gone rather
// than a transient failure.
func isClosed(err error) bool {
	return errors.Is(err, ErrInputClosed) || errors.Is(err, io.EOF)
}
