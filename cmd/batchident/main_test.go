// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/u-root/batchident/pkg/shell"
	"github.com/u-root/batchident/pkg/ubootenv"
)

type blankFuse struct {
	burned uint32
}

func (f *blankFuse) OEM() uint32 {
	return f.burned
}

func (f *blankFuse) ProgramOEM(key uint32) error {
	f.burned = key
	return nil
}

type scratch struct {
	v uint8
}

func (s *scratch) Read() (uint8, error) {
	return s.v, nil
}

func (s *scratch) Write(v uint8) error {
	s.v = v
	return nil
}

func TestExitCode(t *testing.T) {
	for r, want := range map[shell.Ret]int{
		shell.Success: 0,
		shell.Failure: 1,
		shell.Usage:   2,
	} {
		if c := exitCode(r); c != want {
			t.Errorf("exitCode(%v) = %d, expected %d", r, c, want)
		}
	}
}

func TestProvisioningScript(t *testing.T) {
	fs := afero.NewMemMapFs()
	env, err := ubootenv.Open(fs, "/env", 0x400)
	if err != nil {
		t.Fatalf("ubootenv.Open: %v", err)
	}
	out := &bytes.Buffer{}
	fuse := &blankFuse{}
	status := &scratch{}
	sh := newShell(out, env, fuse, status)

	r, err := sh.Script(strings.NewReader(`
# factory station 3
setenv batch_ident Q7
batchiw
batchsw 200
batchir
batchsr
`))
	if err != nil || r != shell.Success {
		t.Fatalf("Script = %v, %v\n%s", r, err, out.String())
	}
	if fuse.burned != '7'<<8|'Q' {
		t.Errorf("Burned %#x, expected %#x", fuse.burned, '7'<<8|'Q')
	}
	if status.v != 200 {
		t.Errorf("Status byte %d, expected 200", status.v)
	}
	for _, want := range []string{"OEM: 0x5137\n", "Batch identification status: 0xc8\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Output %q lacks %q", out.String(), want)
		}
	}

	// The outcome must be on disk for the next boot stage.
	env2, err := ubootenv.Open(fs, "/env", 0x400)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, _ := env2.Get("batch_ident_status"); v != "5" {
		t.Errorf("batch_ident_status = %q, expected 5", v)
	}
}
