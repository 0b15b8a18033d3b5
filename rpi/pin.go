// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package rpi provides blink lines driven directly through the Raspberry Pi
// GPIO registers (BCM2835 and BCM2711), via /dev/gpiomem.
//
// Example of use:
//
//	rpi.Open()
//	defer rpi.Close()
//
//	pin, err := rpi.NewPin(rpi.GPIO4)
//	...
//	c, err := blink.New(pin)
//
// Pin numbers are the BCM GPIO numbers, not the J8 header positions.
// A mapping from J8 to BCM is provided for those wanting to use the J8
// numbering.
package rpi

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/warthog618/blink"
)

// Pin is a single GPIO pin.
type Pin struct {
	// Immutable fields
	pin      int
	fsel     int
	levelReg int
	clearReg int
	setReg   int
	mask     uint32
	// Mutable fields
	shadow blink.Level
}

// Mode defines the IO mode of a Pin.
type Mode int

// Chipset identifies the GPIO controller.
type Chipset int

const (
	// BCM2835 covers the BCM2835, BCM2836 and BCM2837.
	BCM2835 Chipset = iota
	// BCM2711 is the controller on the Pi 4.
	BCM2711
)

const (
	memLength = 4096

	modeMask uint32 = 7 // pin mode is 3 bits wide

	// BCM2835 returns "gpio" for reads of unimplemented registers, which
	// includes the BCM2711 pull control registers.
	pullCtrlReg2711 = 57
	unimplemented   = 0x6770696f
)

// Pin Mode, a pin can be set in Input or Output mode
const (
	Input Mode = iota
	Output
)

// GPIO pins available on the J8 header.
const (
	GPIO2 = iota + 2
	GPIO3
	GPIO4
	GPIO5
	GPIO6
	GPIO7
	GPIO8
	GPIO9
	GPIO10
	GPIO11
	GPIO12
	GPIO13
	GPIO14
	GPIO15
	GPIO16
	GPIO17
	GPIO18
	GPIO19
	GPIO20
	GPIO21
	GPIO22
	GPIO23
	GPIO24
	GPIO25
	GPIO26
	GPIO27
	MaxGPIOPin
)

// Convenience mapping from J8 pinouts to BCM pinouts.
const (
	J8p3  = GPIO2
	J8p5  = GPIO3
	J8p7  = GPIO4
	J8p8  = GPIO14
	J8p10 = GPIO15
	J8p11 = GPIO17
	J8p12 = GPIO18
	J8p13 = GPIO27
	J8p15 = GPIO22
	J8p16 = GPIO23
	J8p18 = GPIO24
	J8p19 = GPIO10
	J8p21 = GPIO9
	J8p22 = GPIO25
	J8p23 = GPIO11
	J8p24 = GPIO8
	J8p26 = GPIO7
	J8p29 = GPIO5
	J8p31 = GPIO6
	J8p32 = GPIO12
	J8p33 = GPIO13
	J8p35 = GPIO19
	J8p36 = GPIO16
	J8p37 = GPIO26
	J8p38 = GPIO20
	J8p40 = GPIO21
)

var (
	// The memlock covers read/modify/write access to the mem block, and
	// the mapping itself.
	// Individual reads and writes skip the lock on the assumption that
	// register writes are atomic.
	memlock sync.RWMutex
	mem     []uint32
	mem8    []uint8
	chipset Chipset
)

var (
	// ErrAlreadyOpen indicates the mem is already open.
	ErrAlreadyOpen = errors.New("already open")

	// ErrNotOpen indicates the mem has not been opened, or has been closed.
	ErrNotOpen = errors.New("not open")

	// ErrInvalidPin indicates the pin number is not a J8 GPIO.
	ErrInvalidPin = errors.New("invalid pin")
)

// Chip returns the detected GPIO controller.
// Only valid after Open.
func Chip() Chipset {
	return chipset
}

func detectChip() Chipset {
	if mem[pullCtrlReg2711] == unimplemented {
		return BCM2835
	}
	return BCM2711
}

// NewPin creates a new pin object.
// The pin number provided is the BCM GPIO number.
func NewPin(pin int) (*Pin, error) {
	if pin < GPIO2 || pin >= MaxGPIOPin {
		return nil, errors.Wrapf(ErrInvalidPin, "GPIO%d", pin)
	}
	memlock.RLock()
	defer memlock.RUnlock()
	if len(mem) == 0 {
		return nil, ErrNotOpen
	}

	// All the J8 pins are in the first bank.
	mask := uint32(1 << uint(pin&0x1f))
	p := &Pin{
		pin:      pin,
		fsel:     pin / 10,
		levelReg: 13,
		clearReg: 10,
		setReg:   7,
		mask:     mask,
	}
	if mem[p.levelReg]&mask != 0 {
		p.shadow = blink.High
	}
	return p, nil
}

// Name returns the name of the pin, e.g. GPIO4.
func (pin *Pin) Name() string {
	return fmt.Sprintf("GPIO%d", pin.pin)
}

// Pin returns the pin number that this Pin represents.
func (pin *Pin) Pin() int {
	return pin.pin
}

// Shadow returns the value of the last write to an output pin or the last read on an input pin.
func (pin *Pin) Shadow() blink.Level {
	return pin.shadow
}

// Input sets pin as Input.
func (pin *Pin) Input() error {
	return pin.SetMode(Input)
}

// Output sets pin as Output.
func (pin *Pin) Output() error {
	return pin.SetMode(Output)
}

// Mode returns the mode of the pin in the Function Select register.
func (pin *Pin) Mode() (Mode, error) {
	memlock.RLock()
	defer memlock.RUnlock()
	if len(mem) == 0 {
		return Input, ErrNotOpen
	}
	modeShift := uint(pin.pin%10) * 3
	return Mode(mem[pin.fsel] >> modeShift & modeMask), nil
}

// SetMode sets the pin Mode.
func (pin *Pin) SetMode(mode Mode) error {
	// shift for pin mode field within fsel register.
	modeShift := uint(pin.pin%10) * 3

	memlock.Lock()
	defer memlock.Unlock()
	if len(mem) == 0 {
		return ErrNotOpen
	}
	mem[pin.fsel] = mem[pin.fsel]&^(modeMask<<modeShift) | uint32(mode)<<modeShift
	return nil
}

// SetLevel drives the pin to the level.
//
// The pin must already be an Output for the level to reach the header.
func (pin *Pin) SetLevel(level blink.Level) error {
	memlock.RLock()
	defer memlock.RUnlock()
	if len(mem) == 0 {
		return &blink.HardwareFault{Line: pin.Name(), Op: "write", Err: ErrNotOpen}
	}
	if level == blink.Low {
		mem[pin.clearReg] = pin.mask
	} else {
		mem[pin.setReg] = pin.mask
	}
	pin.shadow = level
	return nil
}

// Level reads the level of the pin.
func (pin *Pin) Level() (blink.Level, error) {
	memlock.RLock()
	defer memlock.RUnlock()
	if len(mem) == 0 {
		return blink.Low, &blink.HardwareFault{Line: pin.Name(), Op: "read", Err: ErrNotOpen}
	}
	level := blink.Level(mem[pin.levelReg]&pin.mask != 0)
	pin.shadow = level
	return level, nil
}
