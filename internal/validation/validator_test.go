// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Brightness int     `validate:"min=0,max=100"`
	Format     string  `validate:"oneof=temp wind precip sunrise sunset"`
	Tolerance  float64 `validate:"gt=0,lte=1"`
}

func valid() sample {
	return sample{Brightness: 80, Format: "temp", Tolerance: 0.6}
}

func TestStructValid(t *testing.T) {
	s := valid()
	if err := Struct(&s); err != nil {
		t.Errorf("expected valid struct, got %v", err)
	}
}

func TestStructFieldFailures(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*sample)
		wantField string
	}{
		{"brightness too high", func(s *sample) { s.Brightness = 150 }, "Brightness"},
		{"brightness negative", func(s *sample) { s.Brightness = -5 }, "Brightness"},
		{"unknown format", func(s *sample) { s.Format = "humidity" }, "Format"},
		{"tolerance zero", func(s *sample) { s.Tolerance = 0 }, "Tolerance"},
		{"tolerance above one", func(s *sample) { s.Tolerance = 1.5 }, "Tolerance"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.mutate(&s)

			err := Struct(&s)
			if err == nil {
				t.Fatal("expected validation failure")
			}

			var serr *StructError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *StructError, got %T", err)
			}
			if len(serr.Fields) != 1 || serr.Fields[0].Field != tc.wantField {
				t.Errorf("fields = %+v, want single failure on %s", serr.Fields, tc.wantField)
			}
		})
	}
}

func TestStructErrorMessage(t *testing.T) {
	s := sample{Brightness: 200, Format: "bogus", Tolerance: 0.5}
	err := Struct(&s)
	if err == nil {
		t.Fatal("expected failure")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Brightness") || !strings.Contains(msg, "Format") {
		t.Errorf("message should name every failed field: %q", msg)
	}
}

func TestValidatorSingleton(t *testing.T) {
	if Validator() != Validator() {
		t.Error("Validator must return the same instance")
	}
}
