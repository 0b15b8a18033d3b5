// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"github.com/spf13/cobra"
	"github.com/warthog618/blink"
)

func init() {
	rootCmd.AddCommand(onCmd, offCmd, toggleCmd)
}

var (
	onCmd = &cobra.Command{
		Use:     "on",
		Short:   "Turn the LED on",
		Args:    cobra.NoArgs,
		RunE:    setter((*blink.Controller).On),
		Example: "  blinkio on --pin J8p7",
	}
	offCmd = &cobra.Command{
		Use:   "off",
		Short: "Turn the LED off",
		Args:  cobra.NoArgs,
		RunE:  setter((*blink.Controller).Off),
	}
	toggleCmd = &cobra.Command{
		Use:   "toggle",
		Short: "Invert the state of the LED",
		Args:  cobra.NoArgs,
		RunE:  setter((*blink.Controller).Toggle),
	}
)

// setter runs a single state change and leaves the line as commanded.
func setter(fn func(*blink.Controller) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		sess, err := newSession(cmd, false)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := sess.close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return fn(sess.c)
	}
}
