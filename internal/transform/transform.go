// Package transform cleans each entity's raw table and engineers the
// readmission feature table. Cleaning is row-recoverable: malformed dates
// and numbers become nulls, never batch failures. Every operation returns a
// fresh table; inputs are not mutated.
package transform

import (
	"fmt"
	"strings"
	"time"
)

// Transformer holds the feature-engineering parameters. The zero value is
// not usable; construct with New.
type Transformer struct {
	// WindowDays is the readmission window: a subsequent admission within
	// this many days of discharge counts as a readmission.
	WindowDays int

	// now supplies the reference time for age derivation. Overridable in
	// tests for stable age buckets.
	now func() time.Time
}

// New returns a Transformer with the given readmission window.
func New(windowDays int) *Transformer {
	return &Transformer{
		WindowDays: windowDays,
		now:        time.Now,
	}
}

// NewAt returns a Transformer whose age derivation is anchored to a fixed
// reference time.
func NewAt(windowDays int, ref time.Time) *Transformer {
	return &Transformer{
		WindowDays: windowDays,
		now:        func() time.Time { return ref },
	}
}

// SchemaError reports required columns absent before a derivation step.
type SchemaError struct {
	Entity  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Entity, strings.Join(e.Missing, ", "))
}
