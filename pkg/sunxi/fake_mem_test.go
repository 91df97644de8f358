// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sunxi

import (
	"fmt"
	"testing"
)

type op struct {
	write   bool
	address uintptr
	data32  uint32
}

type fakeMem struct {
	t   *testing.T
	ops []op
}

func opstr(o *op) string {
	t := "read"
	if o.write {
		t = "write"
	}
	return fmt.Sprintf("{%s @ %08x = %08x}", t, o.address, o.data32)
}

func (m *fakeMem) next() (op, bool) {
	if len(m.ops) == 0 {
		return op{}, false
	}
	o := m.ops[0]
	m.ops = m.ops[1:]
	return o, true
}

func (m *fakeMem) MustRead32(a uintptr) uint32 {
	o, ok := m.next()
	if !ok {
		m.t.Fatalf("Unexpected 32 bit read on %08x", a)
	}
	if o.write || o.address != a {
		m.t.Errorf("Expected %s, got 32 bit read on %08x", opstr(&o), a)
	}
	return o.data32
}

func (m *fakeMem) MustWrite32(a uintptr, d uint32) {
	o, ok := m.next()
	if !ok {
		m.t.Fatalf("Unexpected 32 bit write of %08x on %08x", d, a)
	}
	if !o.write || o.address != a || o.data32 != d {
		m.t.Errorf("Expected %s, got 32 bit write of %08x on %08x", opstr(&o), d, a)
	}
}

func (m *fakeMem) ExpectWrite32(a uintptr, d uint32) {
	m.ops = append(m.ops, op{true, a, d})
}

func (m *fakeMem) FakeRead32(a uintptr, d uint32) {
	m.ops = append(m.ops, op{false, a, d})
}

// Done fails the test if scripted operations were left unused.
func (m *fakeMem) Done() {
	if len(m.ops) != 0 {
		m.t.Errorf("%d expected operations not performed, next %s", len(m.ops), opstr(&m.ops[0]))
	}
}

func (m *fakeMem) Close() {
}

func fakeMemory(t *testing.T) *fakeMem {
	return &fakeMem{t, make([]op, 0)}
}
