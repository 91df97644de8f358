// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"time"
)

type Version struct {
	Version string
	GitHash string
}

// Sid describes where the SID controller and the batch identifier live.
type Sid struct {
	ContentBase  uintptr
	OEMOffset    uintptr
	ProgramCtrl  uintptr
	ProgramKey   uintptr
	PollAttempts int
	PollInterval time.Duration
}

// Pmic describes how to reach the companion PMIC scratch register.
type Pmic struct {
	Bus            string
	Address        uint16
	StatusRegister uint8
}

// Env describes the U-Boot environment image.
type Env struct {
	Path string
	Size int
}

type Config struct {
	Sid     Sid
	Pmic    Pmic
	Env     Env
	Version Version
}

var DefaultConfig = &Config{
	// Allwinner A83T/H8 SID block. The OEM word is the only field touched.
	Sid: Sid{
		ContentBase: 0x01c14200,
		OEMOffset:   0x10,
		ProgramCtrl: 0x01c14040,
		ProgramKey:  0x01c14050,

		// 3000 polls 1ms apart is what the factory U-Boot waits for a burn.
		PollAttempts: 3000,
		PollInterval: time.Millisecond,
	},

	// AXP818 in I2C mode. DATA0 is the first of the data buffer registers
	// which survive a reset as long as the PMIC keeps power.
	Pmic: Pmic{
		Bus:            "/dev/i2c-0",
		Address:        0x34,
		StatusRegister: 0x04,
	},

	// Matches CONFIG_ENV_SIZE of the board U-Boot.
	Env: Env{
		Path: "/dev/mmcblk0boot1",
		Size: 0x20000,
	},

	Version: Version{
		Version: gitVersion,
		GitHash: gitHash,
	},
}

var (
	gitVersion = "dev"
	gitHash    = "unknown"
)
