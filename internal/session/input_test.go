// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package session

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStdinInputReadLine(t *testing.T) {
	t.Run("trims and prompts", func(t *testing.T) {
		var out bytes.Buffer
		in := &StdinInput{reader: bufio.NewReader(strings.NewReader("  lights  \n")), out: &out}
		got, err := in.ReadLine("What? ")
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != "lights" {
			t.Errorf("line = %q, want lights", got)
		}
		if out.String() != "What? " {
			t.Errorf("prompt = %q", out.String())
		}
	})

	t.Run("final line without newline", func(t *testing.T) {
		var out bytes.Buffer
		in := &StdinInput{reader: bufio.NewReader(strings.NewReader("logout")), out: &out}
		got, err := in.ReadLine("> ")
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != "logout" {
			t.Errorf("line = %q, want logout", got)
		}
	})

	t.Run("exhausted stream reports closed", func(t *testing.T) {
		var out bytes.Buffer
		in := &StdinInput{reader: bufio.NewReader(strings.NewReader("")), out: &out}
		_, err := in.ReadLine("> ")
		if !errors.Is(err, ErrInputClosed) {
			t.Errorf("err = %v, want ErrInputClosed", err)
		}
	})
}
