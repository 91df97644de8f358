// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batchident

import (
	"strconv"
)

// Outcome of a provisioning attempt, stored in the environment as its
// numeric code.
type Outcome int

const (
	// Set before anything else is tried. Left behind when the attempt dies
	// half way or the input was unusable.
	OutcomeUnset Outcome = iota + 1
	OutcomeAlreadyDifferent
	OutcomeAlreadySame
	OutcomeTimeout
	OutcomeWritten
)

var outcomeNames = map[Outcome]string{
	OutcomeUnset:            "unset",
	OutcomeAlreadyDifferent: "already-different",
	OutcomeAlreadySame:      "already-same",
	OutcomeTimeout:          "timeout",
	OutcomeWritten:          "written",
}

// Code is the environment representation, "1" to "5".
func (o Outcome) Code() string {
	return strconv.Itoa(int(o))
}

func (o Outcome) String() string {
	if n, ok := outcomeNames[o]; ok {
		return n
	}
	return "outcome(" + strconv.Itoa(int(o)) + ")"
}

// Success reports whether the unit ends up holding the requested identifier.
func (o Outcome) Success() bool {
	return o == OutcomeWritten || o == OutcomeAlreadySame
}
