// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warthog618/blink"
)

func init() {
	statusCmd.Flags().BoolVarP(&statusOpts.Short, "short", "s", false, "single line output format")
	rootCmd.AddCommand(statusCmd)
}

var (
	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Report the state of the LED",
		Args:  cobra.NoArgs,
		RunE:  status,
	}
	statusOpts = struct {
		Short bool
	}{}
)

func status(cmd *cobra.Command, args []string) (err error) {
	sess, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	st, err := sess.c.Status()
	if err != nil {
		return err
	}
	if statusOpts.Short {
		fmt.Printf("%s %t %d\n", st.Line, st.On, level2Int(st.Level))
		return nil
	}
	fmt.Printf("line:  %s\n", st.Line)
	fmt.Printf("on:    %t\n", st.On)
	fmt.Printf("level: %s\n", st.Level)
	return nil
}

func level2Int(l blink.Level) int {
	if l == blink.Low {
		return 0
	}
	return 1
}
