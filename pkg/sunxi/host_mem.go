// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sunxi

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const devMem = "/dev/mem"

type hostMem struct {
	mf *os.File
}

func openHostMemory() *hostMem {
	f, err := os.OpenFile(devMem, os.O_RDWR|os.O_SYNC, 0600)
	if err != nil {
		panic(err)
	}
	return &hostMem{f}
}

// Only a handful of registers are touched per invocation, so every access
// maps and unmaps the page it lives on.
func (m *hostMem) mapPage(address uintptr) ([]byte, uintptr) {
	ps := uintptr(unix.Getpagesize())
	page := address &^ (ps - 1)
	mem, err := unix.Mmap(int(m.mf.Fd()), int64(page), int(ps), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		panic(err)
	}
	return mem, address - page
}

func unmapPage(mem []byte) {
	if err := unix.Munmap(mem); err != nil {
		panic(err)
	}
}

func (m *hostMem) MustRead32(address uintptr) uint32 {
	mem, offset := m.mapPage(address)
	defer unmapPage(mem)
	return *(*uint32)(unsafe.Pointer(&mem[offset]))
}

func (m *hostMem) MustWrite32(address uintptr, data uint32) {
	mem, offset := m.mapPage(address)
	defer unmapPage(mem)
	*(*uint32)(unsafe.Pointer(&mem[offset])) = data
}

func (m *hostMem) Close() {
	m.mf.Close()
}
