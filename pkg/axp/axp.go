// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axp

import (
	"github.com/u-root/batchident/pkg/logger"
)

const (
	// AXP818 data buffer. These keep their contents across SoC resets.
	AXP818_DATA0 uint8 = 0x04
	AXP818_DATA1 uint8 = 0x05
	AXP818_DATA2 uint8 = 0x06
	AXP818_DATA3 uint8 = 0x07
)

var log = logger.LogContainer.GetSimpleLogger()

// DataRegister is a single scratch register. The module gives its contents
// no meaning.
type DataRegister struct {
	Bus Bus
	Reg uint8
}

func (d *DataRegister) Read() (uint8, error) {
	v, err := d.Bus.ReadReg(d.Reg)
	if err != nil {
		return 0, err
	}
	log.Debugf("PMIC register %#02x reads %#02x", d.Reg, v)
	return v, nil
}

func (d *DataRegister) Write(v uint8) error {
	if err := d.Bus.WriteReg(d.Reg, v); err != nil {
		return err
	}
	log.Infof("PMIC register %#02x set to %#02x", d.Reg, v)
	return nil
}
