// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/warthog618/blink"
)

func init() {
	patternCmd.Flags().UintVarP(&patternOpts.Count, "num-blinks", "n", 0, "exit after n blinks")
	patternCmd.SetHelpTemplate(patternCmd.HelpTemplate() + extendedPatternHelp)
	rootCmd.AddCommand(patternCmd)
}

var extendedPatternHelp = `
Presets:
  The available presets are listed by the presets command.
  An unknown preset falls back to the default preset.
`

var (
	patternCmd = &cobra.Command{
		Use:     "pattern [preset]",
		Short:   "Blink the LED using a preset pattern",
		Args:    cobra.MaximumNArgs(1),
		RunE:    pattern,
		Example: "  blinkio pattern fast -n 10",
	}
	patternOpts = struct {
		Count uint
	}{}
)

func pattern(cmd *cobra.Command, args []string) error {
	return runBlink(cmd, func(ctx context.Context, c *blink.Controller) error {
		name := c.Presets().Default()
		if len(args) > 0 {
			name = args[0]
		}
		return c.BlinkPattern(ctx, name, count(patternOpts.Count))
	})
}
