// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axp

import (
	"fmt"
	"os"

	"github.com/u-root/u-root/pkg/kmodule"
	"golang.org/x/sys/unix"
)

const (
	// From linux/i2c-dev.h. FORCE is needed since the kernel PMIC driver
	// usually has the address claimed.
	I2C_SLAVE_FORCE = 0x0706
)

// I2CBus is a PMIC reached through Linux i2c-dev.
type I2CBus struct {
	f *os.File
}

// OpenI2C opens the i2c-dev node dev and binds it to the 7 bit address addr.
// The i2c-dev module is loaded if the node does not exist yet.
func OpenI2C(dev string, addr uint16) (*I2CBus, error) {
	if _, err := os.Stat(dev); os.IsNotExist(err) {
		if err := kmodule.Probe("i2c-dev", ""); err != nil {
			log.Warnf("Could not load i2c-dev: %v", err)
		}
	}
	f, err := os.OpenFile(dev, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	if err := unix.IoctlSetInt(int(f.Fd()), I2C_SLAVE_FORCE, int(addr)); err != nil {
		f.Close()
		return nil, fmt.Errorf("binding %s to address %#02x: %w", dev, addr, err)
	}
	return &I2CBus{f}, nil
}

func (b *I2CBus) ReadReg(reg uint8) (uint8, error) {
	if _, err := b.f.Write([]byte{reg}); err != nil {
		return 0, &BusError{"read", reg, err}
	}
	buf := make([]byte, 1)
	if _, err := b.f.Read(buf); err != nil {
		return 0, &BusError{"read", reg, err}
	}
	return buf[0], nil
}

func (b *I2CBus) WriteReg(reg, val uint8) error {
	if _, err := b.f.Write([]byte{reg, val}); err != nil {
		return &BusError{"write", reg, err}
	}
	return nil
}

func (b *I2CBus) Close() error {
	return b.f.Close()
}
