// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/jmhodges/clock"
	"github.com/u-root/batchident/config"
	"github.com/u-root/batchident/pkg/axp"
	"github.com/u-root/batchident/pkg/sunxi"
)

// The SoC and the PMIC are opened on first use so that commands that need
// neither, like printenv, also work on a bench machine.

type socFuse struct {
	regs config.Sid
	soc  *sunxi.Soc
	sid  *sunxi.Sid
}

func (f *socFuse) open() *sunxi.Sid {
	if f.sid == nil {
		f.soc = sunxi.Open()
		f.sid = f.soc.Sid(f.regs, clock.New())
	}
	return f.sid
}

func (f *socFuse) OEM() uint32 {
	return f.open().OEM()
}

func (f *socFuse) ProgramOEM(key uint32) error {
	return f.open().ProgramOEM(key)
}

func (f *socFuse) Close() {
	if f.soc != nil {
		f.soc.Close()
	}
}

type pmicStatus struct {
	bus  string
	addr uint16
	reg  uint8
	b    *axp.I2CBus
}

func (p *pmicStatus) open() (*axp.DataRegister, error) {
	if p.b == nil {
		b, err := axp.OpenI2C(p.bus, p.addr)
		if err != nil {
			return nil, &axp.BusError{Op: "open", Reg: p.reg, Err: err}
		}
		p.b = b
	}
	return &axp.DataRegister{Bus: p.b, Reg: p.reg}, nil
}

func (p *pmicStatus) Read() (uint8, error) {
	d, err := p.open()
	if err != nil {
		return 0, err
	}
	return d.Read()
}

func (p *pmicStatus) Write(v uint8) error {
	d, err := p.open()
	if err != nil {
		return err
	}
	return d.Write(v)
}

func (p *pmicStatus) Close() {
	if p.b != nil {
		p.b.Close()
	}
}
