// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sunxi

type memProvider interface {
	MustRead32(uintptr) uint32
	MustWrite32(uintptr, uint32)
	Close()
}

func (s *Soc) Mem() memProvider {
	return s.mem
}
