// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package rpi

import "github.com/pkg/errors"

// Open always fails as /dev/gpiomem is only available on Linux.
func Open() error {
	return errors.New("gpiomem is only supported on linux")
}

// Close is a nop.
func Close() error {
	return nil
}
