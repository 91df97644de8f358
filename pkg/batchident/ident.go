// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batchident

import (
	"fmt"
)

// Identifier is a batch identifier as the operator writes it: the first
// character in the high byte, the second in the low byte. Zero means the
// unit has not been provisioned.
type Identifier uint16

// ParseIdentifier takes the two byte batch identifier from its string form.
func ParseIdentifier(s string) (Identifier, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: %q is %d bytes, it must be 2", ErrIdentLength, s, len(s))
	}
	return Identifier(s[0])<<8 | Identifier(s[1]), nil
}

// IdentifierFromField decodes the SID OEM word. The field stores the
// characters swapped: first character in bits 7:0, second in bits 15:8.
func IdentifierFromField(word uint32) Identifier {
	return Identifier((word&0xff)<<8 | (word>>8)&0xff)
}

// Key is the value to load into the SID key register to burn id.
func (id Identifier) Key() uint32 {
	return uint32(id.Low())<<8 | uint32(id.High())
}

func (id Identifier) High() byte {
	return byte(id >> 8)
}

func (id Identifier) Low() byte {
	return byte(id)
}

func (id Identifier) String() string {
	return fmt.Sprintf("0x%04x", uint16(id))
}
