// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(presetsCmd)
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the preset blink patterns",
	Args:  cobra.NoArgs,
	RunE:  presets,
}

func presets(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd.Flags())
	if err != nil {
		return err
	}
	pp := s.Presets
	for _, name := range pp.Names() {
		p, _ := pp.Lookup(name)
		mark := " "
		if name == pp.Default() {
			mark = "*"
		}
		fmt.Printf("%s %-8s interval %-6v on %v\n", mark, name, p.Interval, p.OnDuration)
	}
	return nil
}
