// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warthog618/blink/rpi"
)

func init() {
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Identify the Raspberry Pi GPIO chip",
	Args:  cobra.NoArgs,
	RunE:  detect,
}

func detect(cmd *cobra.Command, args []string) error {
	err := rpi.Open()
	if err != nil {
		return err
	}
	defer rpi.Close()
	switch rpi.Chip() {
	case rpi.BCM2835:
		fmt.Println("bcm2835")
	case rpi.BCM2711:
		fmt.Println("bcm2711")
	default:
		fmt.Println("unknown")
	}
	return nil
}
