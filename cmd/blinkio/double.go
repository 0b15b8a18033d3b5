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
	doubleCmd.Flags().UintVarP(&doubleOpts.Count, "num-blinks", "n", 0, "exit after n double blinks")
	rootCmd.AddCommand(doubleCmd)
}

var (
	doubleCmd = &cobra.Command{
		Use:   "double",
		Short: "Double blink the LED, once a second",
		Args:  cobra.NoArgs,
		RunE:  double,
	}
	doubleOpts = struct {
		Count uint
	}{}
)

func double(cmd *cobra.Command, args []string) error {
	return runBlink(cmd, func(ctx context.Context, c *blink.Controller) error {
		return c.DoubleBlink(ctx, count(doubleOpts.Count))
	})
}
