// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/warthog618/blink"
	"github.com/warthog618/blink/rpi"
)

// This example drives GPIO 4, which is pin J8 7.
// The LED double blinks once a second until the program is interrupted,
// and is left off on exit.
// Do not run this on a Raspberry Pi which has this pin externally driven.
func main() {
	err := rpi.Open()
	if err != nil {
		panic(err)
	}
	defer rpi.Close()
	pin, err := rpi.NewPin(rpi.GPIO4)
	if err != nil {
		panic(err)
	}
	defer pin.Input()
	pin.Output()
	c, err := blink.New(pin)
	if err != nil {
		panic(err)
	}
	defer c.Release()

	// capture exit signals to ensure the LED is left off on exit.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	err = c.DoubleBlink(ctx, blink.Forever)
	st, _ := c.Status()
	fmt.Println("Stopped", err, st.Level)
}
