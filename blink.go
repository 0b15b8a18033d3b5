// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package blink drives an LED, or any other two-state output, attached to a
// single GPIO line.
//
// Supports simple operations such as:
//   - on/off/toggle
//   - timed blinks, either a fixed number of times or until cancelled
//   - named timing presets (normal, fast, slow, double)
//
// The Controller hides the electrical polarity of the line from its callers,
// so an active low LED is driven with the same calls as an active high one.
//
// Example of use:
//
//	c, err := blink.New(line, blink.AsActiveLow())
//	if err != nil {
//		return err
//	}
//	defer c.Release()
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	c.BlinkPattern(ctx, "fast", blink.Forever)
//
// The line itself is provided by the platform, e.g. the rpi, rpio and sysfs
// subpackages, and a Controller assumes it is the sole driver of that line.
package blink

import (
	"fmt"

	"github.com/pkg/errors"
)

// Level represents the high (true) or low (false) level of a Line.
type Level bool

// Level of a line, High / Low
const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// Line is a single controllable output line.
//
// Writes must be immediately observable on read.
type Line interface {
	// Name identifies the line, e.g. "GPIO4" or "ACT".
	Name() string

	// SetLevel drives the line to the given electrical level.
	SetLevel(Level) error

	// Level returns the current electrical level of the line.
	Level() (Level, error)
}

// HardwareFault indicates a Line could not be read or written.
type HardwareFault struct {
	// Line is the name of the line that failed.
	Line string

	// Op is the failed operation, "read" or "write".
	Op string

	// Err is the underlying error returned by the line.
	Err error
}

func (e *HardwareFault) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Line, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *HardwareFault) Unwrap() error {
	return e.Err
}

var (
	// ErrInvalidArgument indicates a timing parameter or count is out of range.
	// No line writes are performed when it is returned.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrReleased indicates the controller has already been released.
	ErrReleased = errors.New("already released")
)

// fault wraps an error returned by a line into a HardwareFault, unless it is
// one already.
func fault(line Line, op string, err error) error {
	var hf *HardwareFault
	if errors.As(err, &hf) {
		return err
	}
	return &HardwareFault{Line: line.Name(), Op: op, Err: err}
}
