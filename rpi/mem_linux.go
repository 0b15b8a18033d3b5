// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package rpi

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const gpiomemPath = "/dev/gpiomem"

// Open memory maps the GPIO registers from /dev/gpiomem.
func Open() error {
	memlock.Lock()
	defer memlock.Unlock()
	if len(mem) != 0 {
		return ErrAlreadyOpen
	}
	file, err := os.OpenFile(gpiomemPath, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return errors.Wrap(err, "open gpiomem")
	}
	defer file.Close()

	m8, err := unix.Mmap(
		int(file.Fd()),
		0,
		memLength,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED)
	if err != nil {
		return errors.Wrap(err, "mmap gpiomem")
	}
	mem8 = m8
	mem = unsafe.Slice((*uint32)(unsafe.Pointer(&m8[0])), len(m8)/4)
	chipset = detectChip()
	return nil
}

// Close unmaps GPIO memory.
// Pins created before the Close return ErrNotOpen faults from then on.
func Close() error {
	memlock.Lock()
	defer memlock.Unlock()
	if len(mem) == 0 {
		return nil
	}
	mem = nil
	m8 := mem8
	mem8 = nil
	return unix.Munmap(m8)
}
