// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package mock provides in-memory stand-ins for a blink.Line and a
// blink.Sleeper, for testing and for running without hardware.
package mock

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/warthog618/blink"
)

// Line is an in-memory blink.Line that records every write.
type Line struct {
	mu      sync.Mutex
	name    string
	level   blink.Level
	writes  []blink.Level
	reads   int
	werr    error
	rerr    error
	failAt  int
	monitor io.Writer
}

// NewLine creates a mock line with the given name and initial level.
func NewLine(name string, level blink.Level) *Line {
	return &Line{name: name, level: level, failAt: -1}
}

// Name returns the name of the line.
func (l *Line) Name() string {
	return l.name
}

// SetLevel sets the level of the line, or returns the injected write error.
func (l *Line) SetLevel(v blink.Level) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.werr != nil && (l.failAt < 0 || len(l.writes) >= l.failAt) {
		return l.werr
	}
	if l.monitor != nil && v != l.level {
		fmt.Fprintf(l.monitor, "[line %s] level changed to %v\n", l.name, v)
	}
	l.level = v
	l.writes = append(l.writes, v)
	return nil
}

// Level returns the level of the line, or the injected read error.
func (l *Line) Level() (blink.Level, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reads++
	if l.rerr != nil {
		return blink.Low, l.rerr
	}
	return l.level, nil
}

// Writes returns a copy of the levels written, in order.
func (l *Line) Writes() []blink.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]blink.Level(nil), l.writes...)
}

// Reads returns the number of calls to Level.
func (l *Line) Reads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reads
}

// Reset clears the write log.
func (l *Line) Reset() {
	l.mu.Lock()
	l.writes = nil
	l.reads = 0
	l.mu.Unlock()
}

// FailWrites causes all subsequent writes to return err.
// A nil err restores normal operation.
func (l *Line) FailWrites(err error) {
	l.FailWritesAfter(0, err)
}

// FailWritesAfter causes writes to return err once n writes have been
// logged.
func (l *Line) FailWritesAfter(n int, err error) {
	l.mu.Lock()
	l.werr = err
	l.failAt = n
	l.mu.Unlock()
}

// FailReads causes all subsequent reads to return err.
func (l *Line) FailReads(err error) {
	l.mu.Lock()
	l.rerr = err
	l.mu.Unlock()
}

// Monitor reports each change in level to w.
func (l *Line) Monitor(w io.Writer) {
	l.mu.Lock()
	l.monitor = w
	l.mu.Unlock()
}

// Sleeper is a blink.Sleeper that records the requested durations and
// returns immediately.
type Sleeper struct {
	mu    sync.Mutex
	slept []time.Duration

	// OnSleep, if set, is called with the index of each sleep before it is
	// recorded, e.g. to cancel the context mid-blink.
	OnSleep func(n int)
}

// Sleep records d, or returns the context error if ctx is done.
func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	n := len(s.slept)
	hook := s.OnSleep
	s.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.slept = append(s.slept, d)
	s.mu.Unlock()
	return nil
}

// Slept returns a copy of the durations slept, in order.
func (s *Sleeper) Slept() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.slept...)
}
