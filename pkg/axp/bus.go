// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package axp talks to X-Powers AXP PMICs over a byte addressed register
// bus.
package axp

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Bus is a PMIC register space where every register holds one byte.
type Bus interface {
	ReadReg(reg uint8) (uint8, error)
	WriteReg(reg, val uint8) error
	Close() error
}

// BusError is a failed register transaction.
type BusError struct {
	Op  string
	Reg uint8
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("axp: %s of register %#02x: %v", e.Op, e.Reg, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// Code returns the failure as a negative errno, the way the kernel and
// U-Boot report bus errors. Errors without an errno report -EIO.
func (e *BusError) Code() int {
	var errno unix.Errno
	if errors.As(e.Err, &errno) {
		return -int(errno)
	}
	return -int(unix.EIO)
}

// ErrorCode extracts the numeric code of a bus error, 0 for nil and -EIO
// for anything that did not come from a bus.
func ErrorCode(err error) int {
	if err == nil {
		return 0
	}
	var be *BusError
	if errors.As(err, &be) {
		return be.Code()
	}
	return -int(unix.EIO)
}
