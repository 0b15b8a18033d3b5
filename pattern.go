// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blink

import (
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Pattern is the timing of a repeating blink.
type Pattern struct {
	// Interval is the period of one blink, from one turn on to the next.
	Interval time.Duration

	// OnDuration is the time the line is held on within each Interval.
	OnDuration time.Duration
}

// Validate checks that Interval >= OnDuration >= 0.
func (p Pattern) Validate() error {
	if p.OnDuration < 0 {
		return errors.Wrapf(ErrInvalidArgument, "negative on duration %v", p.OnDuration)
	}
	if p.Interval < p.OnDuration {
		return errors.Wrapf(ErrInvalidArgument,
			"interval %v shorter than on duration %v", p.Interval, p.OnDuration)
	}
	return nil
}

// Preset names provided by DefaultPresets.
const (
	PresetNormal = "normal"
	PresetFast   = "fast"
	PresetSlow   = "slow"
	PresetDouble = "double"
)

// Presets is an immutable registry of named patterns with a designated
// default that stands in for unknown names.
type Presets struct {
	patterns map[string]Pattern
	def      string
}

// DefaultPresets returns the standard preset table, with normal as the
// default.
func DefaultPresets() *Presets {
	return &Presets{
		patterns: map[string]Pattern{
			PresetNormal: {Interval: time.Second, OnDuration: 500 * time.Millisecond},
			PresetFast:   {Interval: 500 * time.Millisecond, OnDuration: 200 * time.Millisecond},
			PresetSlow:   {Interval: 2 * time.Second, OnDuration: time.Second},
			PresetDouble: {Interval: 300 * time.Millisecond, OnDuration: 100 * time.Millisecond},
		},
		def: PresetNormal,
	}
}

// NewPresets creates a registry from the given patterns.
//
// Every pattern must be valid and the default must be one of the named
// patterns.
func NewPresets(patterns map[string]Pattern, def string) (*Presets, error) {
	pp := make(map[string]Pattern, len(patterns))
	for name, p := range patterns {
		if err := p.Validate(); err != nil {
			return nil, errors.Wrapf(err, "preset %q", name)
		}
		pp[name] = p
	}
	if _, ok := pp[def]; !ok {
		return nil, errors.Wrapf(ErrInvalidArgument, "unknown default preset %q", def)
	}
	return &Presets{patterns: pp, def: def}, nil
}

// Default returns the name of the default preset.
func (p *Presets) Default() string {
	return p.def
}

// Names returns the preset names in sorted order.
func (p *Presets) Names() []string {
	nn := make([]string, 0, len(p.patterns))
	for n := range p.patterns {
		nn = append(nn, n)
	}
	sort.Strings(nn)
	return nn
}

// Lookup returns the named pattern, if it exists.
func (p *Presets) Lookup(name string) (Pattern, bool) {
	pat, ok := p.patterns[name]
	return pat, ok
}

// Resolve returns the named pattern, or the default pattern if the name is
// not known.
// The returned name is that of the pattern actually selected, and ok is
// false if the default was substituted.
func (p *Presets) Resolve(name string) (pat Pattern, resolved string, ok bool) {
	if pat, ok = p.patterns[name]; ok {
		return pat, name, true
	}
	return p.patterns[p.def], p.def, false
}
