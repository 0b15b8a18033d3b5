// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/warthog618/blink"
)

func init() {
	blinkCmd.Flags().DurationVarP(&blinkOpts.Interval, "interval", "i", time.Second, "time from one blink to the next")
	blinkCmd.Flags().DurationVarP(&blinkOpts.OnDuration, "duration", "d", 500*time.Millisecond, "time the LED is on in each blink")
	blinkCmd.Flags().UintVarP(&blinkOpts.Count, "num-blinks", "n", 0, "exit after n blinks")
	blinkCmd.SetHelpTemplate(blinkCmd.HelpTemplate() + extendedBlinkHelp)
	rootCmd.AddCommand(blinkCmd)
}

var extendedBlinkHelp = `
By default the LED blinks until interrupted, and is left off on exit.
The duration must not exceed the interval.
`

var (
	blinkCmd = &cobra.Command{
		Use:     "blink",
		Short:   "Blink the LED",
		Args:    cobra.NoArgs,
		RunE:    blinkRun,
		Example: "  blinkio blink -i 800ms -d 300ms -n 5",
	}
	blinkOpts = struct {
		Interval   time.Duration
		OnDuration time.Duration
		Count      uint
	}{}
)

func blinkRun(cmd *cobra.Command, args []string) error {
	return runBlink(cmd, func(ctx context.Context, c *blink.Controller) error {
		return c.Blink(ctx, blinkOpts.Interval, blinkOpts.OnDuration, count(blinkOpts.Count))
	})
}
