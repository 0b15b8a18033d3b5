// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package sysfs provides blink lines for LEDs exposed by the Linux LED class
// under /sys/class/leds, such as the ACT LED on a Raspberry Pi.
package sysfs

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/warthog618/blink"
)

// DefaultRoot is the location of the LED class in sysfs.
const DefaultRoot = "/sys/class/leds"

// LED is a sysfs LED treated as a line.
//
// The electrical level is mapped onto brightness, with High being the
// maximum brightness and Low being off.
type LED struct {
	name    string
	path    string
	max     int
	trigger string
}

// Option modifies the construction of an LED.
type Option func(*LED)

// WithRoot overrides the sysfs LED class directory.
func WithRoot(root string) Option {
	return func(l *LED) {
		l.path = filepath.Join(root, l.name)
	}
}

// NewLED opens the named LED for manual control.
//
// The current trigger is recorded and replaced with "none", so the kernel
// no longer drives the LED. Release restores the original trigger.
func NewLED(name string, options ...Option) (*LED, error) {
	l := &LED{
		name: name,
		path: filepath.Join(DefaultRoot, name),
	}
	for _, option := range options {
		option(l)
	}
	if _, err := os.Stat(l.path); err != nil {
		return nil, errors.Wrapf(err, "LED %q not found", name)
	}
	mb, err := l.readInt("max_brightness")
	if err != nil {
		return nil, err
	}
	if mb <= 0 {
		mb = 1
	}
	l.max = mb
	trigger, err := l.readTrigger()
	if err != nil {
		return nil, err
	}
	l.trigger = trigger
	if err := l.write("trigger", "none"); err != nil {
		return nil, err
	}
	return l, nil
}

// Name returns the sysfs name of the LED.
func (l *LED) Name() string {
	return l.name
}

// SetLevel sets the LED to maximum brightness for High, and off for Low.
func (l *LED) SetLevel(v blink.Level) error {
	b := 0
	if v {
		b = l.max
	}
	if err := l.write("brightness", strconv.Itoa(b)); err != nil {
		return &blink.HardwareFault{Line: l.name, Op: "write", Err: err}
	}
	return nil
}

// Level returns High if the LED has any brightness.
func (l *LED) Level() (blink.Level, error) {
	b, err := l.readInt("brightness")
	if err != nil {
		return blink.Low, &blink.HardwareFault{Line: l.name, Op: "read", Err: err}
	}
	return blink.Level(b > 0), nil
}

// Trigger returns the trigger that was active when the LED was opened.
func (l *LED) Trigger() string {
	return l.trigger
}

// Release returns control of the LED to its original trigger.
func (l *LED) Release() error {
	if l.trigger == "" || l.trigger == "none" {
		return nil
	}
	return l.write("trigger", l.trigger)
}

func (l *LED) write(attr, value string) error {
	err := os.WriteFile(filepath.Join(l.path, attr), []byte(value), 0644)
	return errors.Wrapf(err, "failed to set LED %s", attr)
}

func (l *LED) readInt(attr string) (int, error) {
	data, err := os.ReadFile(filepath.Join(l.path, attr))
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read LED %s", attr)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	return v, errors.Wrapf(err, "failed to parse LED %s", attr)
}

// readTrigger returns the active trigger, which the kernel reports in
// brackets among the available triggers.
func (l *LED) readTrigger() (string, error) {
	data, err := os.ReadFile(filepath.Join(l.path, "trigger"))
	if err != nil {
		return "", errors.Wrap(err, "failed to read LED trigger")
	}
	for _, t := range strings.Fields(string(data)) {
		if strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") {
			return strings.Trim(t, "[]"), nil
		}
	}
	return "", nil
}
