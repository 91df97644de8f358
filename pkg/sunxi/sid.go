// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sunxi

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmhodges/clock"
	"github.com/u-root/batchident/config"
)

const (
	// SID_PRCTL layout: field index in 31:16, opcode in 15:8, operation
	// lock in 7:1 and the busy/start bit in 0.
	SID_OP_PROGRAM uint32 = 0xac01
	SID_PRCTL_BUSY uint32 = 0x1

	// The batch identifier occupies bits 15:0 of the OEM word. The upper
	// half belongs to the vendor and does not make the field burned.
	SID_OEM_IDENT_MASK uint32 = 0xffff
)

var (
	ErrAlreadyProgrammed = errors.New("sid: field already programmed")
	ErrTimeout           = errors.New("sid: timed out waiting for program to finish")
)

// Sid is the security ID controller. It owns the OTP content words and the
// program control/key registers used to burn them.
type Sid struct {
	mem    memProvider
	clk    clock.Clock
	regs   config.Sid
	burned bool
}

func (s *Soc) Sid(regs config.Sid, clk clock.Clock) *Sid {
	return &Sid{mem: s.mem, clk: clk, regs: regs}
}

// OEM returns the raw OEM word from the OTP content area. Unburned bits
// read as zero.
func (s *Sid) OEM() uint32 {
	return s.mem.MustRead32(s.regs.ContentBase + s.regs.OEMOffset)
}

// ProgramOEM burns key into the OEM field and waits for the controller to
// finish. The field is written at most once per Sid: a second call, or a
// call while any identifier bit of the field is already set, fails with
// ErrAlreadyProgrammed without touching the program registers.
//
// On ErrTimeout the burn was started and the field may be partially
// programmed.
func (s *Sid) ProgramOEM(key uint32) error {
	if s.burned {
		return fmt.Errorf("%w: burn already issued", ErrAlreadyProgrammed)
	}
	if cur := s.OEM(); cur&SID_OEM_IDENT_MASK != 0 {
		return fmt.Errorf("%w: OEM reads %#08x", ErrAlreadyProgrammed, cur)
	}
	s.burned = true

	s.mem.MustWrite32(s.regs.ProgramKey, key)
	s.mem.MustWrite32(s.regs.ProgramCtrl, uint32(s.regs.OEMOffset)<<16|SID_OP_PROGRAM)

	for i := 0; i < s.regs.PollAttempts; i++ {
		if s.mem.MustRead32(s.regs.ProgramCtrl)&SID_PRCTL_BUSY == 0 {
			return nil
		}
		s.clk.Sleep(s.regs.PollInterval)
	}
	return fmt.Errorf("%w (%v)", ErrTimeout, time.Duration(s.regs.PollAttempts)*s.regs.PollInterval)
}
