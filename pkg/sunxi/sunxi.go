// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Library for accessing Allwinner (sunxi) SoC blocks from Linux userspace.
//
// Registers are reached through /dev/mem, so this needs to run as root on
// the SoC itself with a kernel that does not restrict /dev/mem to RAM.
//
// Some of what this library touches is one-time-programmable. A burned fuse
// stays burned, there is no undo. Read the SID section of the user manual
// before pointing this at a unit you care about.
//
// Call sunxi.Open() and Close() as the first and last thing before and after
// you want to run any library commands.
package sunxi

type Soc struct {
	mem memProvider
}

func Open() *Soc {
	return &Soc{openHostMemory()}
}

func OpenWithMemory(mem memProvider) *Soc {
	return &Soc{mem}
}

func (s *Soc) Close() {
	s.mem.Close()
}
