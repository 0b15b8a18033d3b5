// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package rpio provides blink lines on a Raspberry Pi using the go-rpio
// library.
package rpio

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
	"github.com/warthog618/blink"
)

var (
	mu     sync.RWMutex
	opened bool
)

var (
	// ErrNotOpen indicates the GPIO memory has not been mapped.
	ErrNotOpen = errors.New("not open")

	// ErrInvalidPin indicates the pin is outside the BCM GPIO range.
	ErrInvalidPin = errors.New("invalid pin")
)

// maxPin is the number of GPIOs on the BCM283x.
const maxPin = 54

// Open maps the GPIO memory.
func Open() error {
	mu.Lock()
	defer mu.Unlock()
	if opened {
		return nil
	}
	if err := rpio.Open(); err != nil {
		return errors.Wrap(err, "failed to open rpio")
	}
	opened = true
	return nil
}

// Close unmaps the GPIO memory.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if !opened {
		return nil
	}
	opened = false
	return rpio.Close()
}

// Line is a GPIO output driven through go-rpio.
type Line struct {
	pin rpio.Pin
}

// NewLine returns the BCM GPIO pin as an output Line.
func NewLine(pin int) (*Line, error) {
	if pin < 0 || pin >= maxPin {
		return nil, errors.Wrapf(ErrInvalidPin, "GPIO%d", pin)
	}
	mu.RLock()
	defer mu.RUnlock()
	if !opened {
		return nil, ErrNotOpen
	}
	l := &Line{pin: rpio.Pin(pin)}
	l.pin.Output()
	return l, nil
}

// Name returns the name of the line, e.g. GPIO2.
func (l *Line) Name() string {
	return fmt.Sprintf("GPIO%d", l.pin)
}

// SetLevel drives the pin high or low.
func (l *Line) SetLevel(v blink.Level) error {
	mu.RLock()
	defer mu.RUnlock()
	if !opened {
		return &blink.HardwareFault{Line: l.Name(), Op: "write", Err: ErrNotOpen}
	}
	if v {
		l.pin.High()
	} else {
		l.pin.Low()
	}
	return nil
}

// Level reads the level of the pin.
func (l *Line) Level() (blink.Level, error) {
	mu.RLock()
	defer mu.RUnlock()
	if !opened {
		return blink.Low, &blink.HardwareFault{Line: l.Name(), Op: "read", Err: ErrNotOpen}
	}
	return l.pin.Read() == rpio.High, nil
}

// Release returns the pin to an input.
func (l *Line) Release() {
	mu.RLock()
	defer mu.RUnlock()
	if opened {
		l.pin.Input()
	}
}
