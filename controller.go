// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blink

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// Forever is the count that repeats a blink until its context is done.
const Forever = -1

// Timing of the double blink.
const (
	doubleOn    = 100 * time.Millisecond
	doubleGap   = 100 * time.Millisecond
	doublePause = time.Second
)

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Controller drives a single Line as an on/off output.
//
// A Controller is not safe for concurrent use, and assumes it is the only
// driver of its line.
type Controller struct {
	line    Line
	active  Level
	on      bool
	initial bool

	released bool

	sleeper Sleeper
	presets *Presets
	logger  Logger
}

// Status is a snapshot of the state of a Controller.
type Status struct {
	// Line is the name of the controlled line.
	Line string

	// On is the last commanded logical state.
	On bool

	// Level is the electrical level read back from the line.
	Level Level
}

// Option modifies the construction of a Controller.
type Option func(*Controller)

// WithActiveLevel sets the electrical level that turns the output on.
// The default is High.
func WithActiveLevel(l Level) Option {
	return func(c *Controller) {
		c.active = l
	}
}

// AsActiveLow indicates the output is on when the line is Low.
func AsActiveLow() Option {
	return WithActiveLevel(Low)
}

// WithInitialState sets the logical state the line is driven to by New.
// The default is off.
func WithInitialState(on bool) Option {
	return func(c *Controller) {
		c.initial = on
	}
}

// WithSleeper replaces the Sleeper used for blink timing.
func WithSleeper(s Sleeper) Option {
	return func(c *Controller) {
		c.sleeper = s
	}
}

// WithPresets replaces the preset table used by BlinkPattern.
func WithPresets(p *Presets) Option {
	return func(c *Controller) {
		c.presets = p
	}
}

// WithLogger sets the logger used to report preset fallbacks.
func WithLogger(l Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a Controller that owns the line.
//
// A nil line, or a nil Sleeper, Presets or Logger option, is an
// ErrInvalidArgument.
//
// The line is driven to the initial state before New returns, so the
// returned Controller and the line agree.
func New(line Line, options ...Option) (*Controller, error) {
	if line == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "nil line")
	}
	c := &Controller{
		line:    line,
		active:  High,
		sleeper: TimerSleeper{},
		presets: DefaultPresets(),
		logger:  slog.Default(),
	}
	for _, option := range options {
		option(c)
	}
	switch {
	case c.sleeper == nil:
		return nil, errors.Wrap(ErrInvalidArgument, "nil sleeper")
	case c.presets == nil:
		return nil, errors.Wrap(ErrInvalidArgument, "nil presets")
	case c.logger == nil:
		return nil, errors.Wrap(ErrInvalidArgument, "nil logger")
	}
	if err := c.set(c.initial); err != nil {
		return nil, err
	}
	return c, nil
}

// Line returns the name of the controlled line.
func (c *Controller) Line() string {
	return c.line.Name()
}

// IsOn returns the last commanded logical state.
func (c *Controller) IsOn() bool {
	return c.on
}

// Presets returns the preset table used by BlinkPattern.
func (c *Controller) Presets() *Presets {
	return c.presets
}

// On turns the output on.
func (c *Controller) On() error {
	if c.released {
		return ErrReleased
	}
	return c.set(true)
}

// Off turns the output off.
func (c *Controller) Off() error {
	if c.released {
		return ErrReleased
	}
	return c.set(false)
}

// Toggle inverts the output.
//
// The new state is derived from the last commanded state, not from the line.
func (c *Controller) Toggle() error {
	if c.released {
		return ErrReleased
	}
	return c.set(!c.on)
}

// BlinkOnce turns the output on for onDuration, then off.
//
// If ctx is done before onDuration has elapsed the output is turned off and
// the context error returned.
func (c *Controller) BlinkOnce(ctx context.Context, onDuration time.Duration) error {
	if c.released {
		return ErrReleased
	}
	if onDuration < 0 {
		return errors.Wrapf(ErrInvalidArgument, "negative on duration %v", onDuration)
	}
	if err := ctx.Err(); err != nil {
		return c.abort(err)
	}
	return c.blinkOnce(ctx, onDuration)
}

// Blink performs count blinks, each on for onDuration and repeating every
// interval.
//
// There is no pause after the final blink. A count of 0 does nothing and a
// count of Forever blinks until ctx is done.
// When ctx is done the output is turned off and the context error returned.
func (c *Controller) Blink(ctx context.Context, interval, onDuration time.Duration, count int) error {
	if c.released {
		return ErrReleased
	}
	p := Pattern{Interval: interval, OnDuration: onDuration}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := validateCount(count); err != nil {
		return err
	}
	return c.repeat(ctx, count, interval-onDuration, func() error {
		return c.blinkOnce(ctx, onDuration)
	})
}

// BlinkPattern blinks using the named preset.
//
// An unknown name falls back to the default preset, and the fallback is
// logged as a warning.
func (c *Controller) BlinkPattern(ctx context.Context, name string, count int) error {
	if c.released {
		return ErrReleased
	}
	p, resolved, ok := c.presets.Resolve(name)
	if !ok {
		c.logger.Warn("unknown blink preset, using default",
			"line", c.line.Name(),
			"preset", name,
			"default", resolved)
	}
	return c.Blink(ctx, p.Interval, p.OnDuration, count)
}

// DoubleBlink performs count double blinks, pausing a second between each.
//
// Each double blink is two 100ms flashes separated by 100ms.
func (c *Controller) DoubleBlink(ctx context.Context, count int) error {
	if c.released {
		return ErrReleased
	}
	if err := validateCount(count); err != nil {
		return err
	}
	return c.repeat(ctx, count, doublePause, func() error {
		if err := c.blinkOnce(ctx, doubleOn); err != nil {
			return err
		}
		if err := c.sleep(ctx, doubleGap); err != nil {
			return c.abort(err)
		}
		return c.blinkOnce(ctx, doubleOn)
	})
}

// Status returns the current state of the controller and its line.
func (c *Controller) Status() (Status, error) {
	if c.released {
		return Status{}, ErrReleased
	}
	l, err := c.line.Level()
	if err != nil {
		return Status{}, fault(c.line, "read", err)
	}
	return Status{Line: c.line.Name(), On: c.on, Level: l}, nil
}

// Release turns the output off and relinquishes the line.
//
// Release may be called multiple times. If the final write fails the
// controller is not released and the fault is returned.
func (c *Controller) Release() error {
	if c.released {
		return nil
	}
	if err := c.set(false); err != nil {
		return err
	}
	c.released = true
	return nil
}

func (c *Controller) set(on bool) error {
	l := c.active
	if !on {
		l = !l
	}
	if err := c.line.SetLevel(l); err != nil {
		return fault(c.line, "write", err)
	}
	c.on = on
	return nil
}

func (c *Controller) blinkOnce(ctx context.Context, d time.Duration) error {
	if err := c.set(true); err != nil {
		return err
	}
	if err := c.sleep(ctx, d); err != nil {
		return c.abort(err)
	}
	return c.set(false)
}

// repeat calls once count times, sleeping for pause between calls.
func (c *Controller) repeat(ctx context.Context, count int, pause time.Duration, once func() error) error {
	for i := 0; count == Forever || i < count; i++ {
		if i > 0 {
			if err := c.sleep(ctx, pause); err != nil {
				return c.abort(err)
			}
		} else if err := ctx.Err(); err != nil {
			return c.abort(err)
		}
		if err := once(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	return c.sleeper.Sleep(ctx, d)
}

// abort leaves the output off after a cancelled blink.
func (c *Controller) abort(err error) error {
	if ferr := c.set(false); ferr != nil {
		return ferr
	}
	c.logger.Debug("blink cancelled", "line", c.line.Name(), "err", err)
	return err
}

func validateCount(count int) error {
	if count < 0 && count != Forever {
		return errors.Wrapf(ErrInvalidArgument, "negative count %d", count)
	}
	return nil
}
