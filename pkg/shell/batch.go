// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shell

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/u-root/batchident/pkg/axp"
	"github.com/u-root/batchident/pkg/batchident"
)

// StatusByte is the PMIC register holding the batch identification status.
// *axp.DataRegister implements it.
type StatusByte interface {
	Read() (uint8, error)
	Write(uint8) error
}

// RegisterBatch adds batchir, batchiw, batchsr and batchsw.
func RegisterBatch(s *Shell, e *batchident.Engine, status StatusByte) {
	s.Register(&Cmd{
		Name:    "batchir",
		MaxArgs: 1,
		Help:    "Read batch identification",
		Run: func(argv []string) Ret {
			fmt.Fprintf(s.Out, "OEM: %v\n", e.Read())
			return Success
		},
	})
	s.Register(&Cmd{
		Name:    "batchiw",
		MaxArgs: 1,
		Help:    "Write batch identification",
		Usage:   "(content to write is taken from '" + batchident.EnvIdent + "' env variable; 2 bytes)",
		Run: func(argv []string) Ret {
			return batchWrite(s, e)
		},
	})
	s.Register(&Cmd{
		Name:    "batchsr",
		MaxArgs: 1,
		Help:    "Read batch identification status",
		Run: func(argv []string) Ret {
			v, err := status.Read()
			if err != nil {
				fmt.Fprintf(s.Out, "Error reading batch identification status: %d\n", axp.ErrorCode(err))
				log.Errorf("batchsr: %v", err)
				return Failure
			}
			fmt.Fprintf(s.Out, "Batch identification status: 0x%02x\n", v)
			return Success
		},
	})
	s.Register(&Cmd{
		Name:    "batchsw",
		MaxArgs: 2,
		Help:    "Write batch identification status",
		Usage:   "<status>",
		Run: func(argv []string) Ret {
			return statusWrite(s, status, argv)
		},
	})
}

func batchWrite(s *Shell, e *batchident.Engine) Ret {
	o, err := e.Write()
	var se *batchident.StoreError
	switch {
	case batchident.IsUsage(err):
		fmt.Fprintf(s.Out, "%v.\n", err)
		return Usage
	case errors.As(err, &se):
		fmt.Fprintf(s.Out, "Cannot set '%s' variable.\n", se.Key)
		log.Errorf("batchiw: %v", err)
		return Failure
	case err != nil:
		// AlreadyDifferent has been explained by the engine already.
		if o != batchident.OutcomeAlreadyDifferent {
			fmt.Fprintf(s.Out, "%v\n", err)
		}
		return Failure
	}
	if !o.Success() {
		return Failure
	}
	return Success
}

func statusWrite(s *Shell, status StatusByte, argv []string) Ret {
	if len(argv) != 2 {
		return Usage
	}
	v, err := strconv.ParseUint(argv[1], 10, 64)
	if err != nil {
		fmt.Fprintf(s.Out, "Cannot parse number.\n")
		return Usage
	}
	if v > 0xff {
		fmt.Fprintf(s.Out, "'status' argument (%d) is out of range [0, 255].\n", v)
		return Usage
	}
	if err := status.Write(uint8(v)); err != nil {
		fmt.Fprintf(s.Out, "Error writing batch identification status: %d\n", axp.ErrorCode(err))
		log.Errorf("batchsw: %v", err)
		return Failure
	}
	fmt.Fprintf(s.Out, "Batch identification status (0x%02x) was written\n", v)
	return Success
}
