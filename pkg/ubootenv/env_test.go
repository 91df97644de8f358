// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ubootenv

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const (
	envPath = "/dev/mmcblk0boot1"
	envSize = 0x200
)

// image builds an environment the way mkenvimage does.
func image(t *testing.T, entries ...string) []byte {
	b := make([]byte, envSize)
	copy(b[crc32.Size:], strings.Join(entries, "\x00")+"\x00")
	binary.LittleEndian.PutUint32(b, crc32.ChecksumIEEE(b[crc32.Size:]))
	return b
}

func TestOpenExisting(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, envPath, image(t, "baudrate=115200", "batch_ident=AB", "bootcmd=run a; run b"), 0600)
	e, err := Open(fs, envPath, envSize)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for k, want := range map[string]string{
		"baudrate":    "115200",
		"batch_ident": "AB",
		"bootcmd":     "run a; run b",
	} {
		if v, ok := e.Get(k); !ok || v != want {
			t.Errorf("Get(%q) = %q, %v; expected %q", k, v, ok, want)
		}
	}
	if _, ok := e.Get("missing"); ok {
		t.Error("Get of unset variable succeeded")
	}
}

func TestOpenMissingIsEmpty(t *testing.T) {
	e, err := Open(afero.NewMemMapFs(), envPath, envSize)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(e.Keys()) != 0 {
		t.Errorf("Expected empty environment, got %v", e.Keys())
	}
}

func TestOpenBadCRCIsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := image(t, "batch_ident=AB")
	b[0] ^= 0xff
	afero.WriteFile(fs, envPath, b, 0600)
	e, err := Open(fs, envPath, envSize)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := e.Get("batch_ident"); ok {
		t.Error("Variable loaded from corrupt environment")
	}
	if _, err := Parse(b); !errors.Is(err, ErrBadCRC) {
		t.Errorf("Parse: expected ErrBadCRC, got %v", err)
	}
}

func TestSetPersists(t *testing.T) {
	fs := afero.NewMemMapFs()
	e, err := Open(fs, envPath, envSize)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := e.Set("batch_ident_status", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := e.Set("batch_ident", "AB"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := e.Set("batch_ident_status", "5"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	b, err := afero.ReadFile(fs, envPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(b) != envSize {
		t.Errorf("Image is %d bytes, expected %d", len(b), envSize)
	}
	if want := image(t, "batch_ident=AB", "batch_ident_status=5"); string(b) != string(want) {
		t.Errorf("Unexpected image:\n%q\nexpected\n%q", b[:48], want[:48])
	}

	e2, err := Open(fs, envPath, envSize)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, _ := e2.Get("batch_ident_status"); v != "5" {
		t.Errorf("Expected status 5 after reopen, got %q", v)
	}
}

func TestSetEmptyDeletes(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, envPath, image(t, "a=1", "b=2"), 0600)
	e, _ := Open(fs, envPath, envSize)
	if err := e.Set("a", ""); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if keys := e.Keys(); len(keys) != 1 || keys[0] != "b" {
		t.Errorf("Expected only b left, got %v", keys)
	}
}

func TestSetRejects(t *testing.T) {
	e, _ := Open(afero.NewMemMapFs(), envPath, envSize)
	for _, k := range []string{"", "a=b", "a\x00b"} {
		if err := e.Set(k, "x"); !errors.Is(err, ErrBadKey) {
			t.Errorf("Set(%q): expected ErrBadKey, got %v", k, err)
		}
	}
	if err := e.Set("k", "a\x00b"); err == nil {
		t.Error("Value with NUL accepted")
	}
}

func TestSetTooLargeKeepsOld(t *testing.T) {
	fs := afero.NewMemMapFs()
	e, _ := Open(fs, envPath, envSize)
	if err := e.Set("batch_ident", "AB"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	err := e.Set("huge", strings.Repeat("x", envSize))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Expected ErrTooLarge, got %v", err)
	}
	if _, ok := e.Get("huge"); ok {
		t.Error("Unsaved variable kept in memory")
	}
}

func TestSetReadOnlyFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, envPath, image(t, "a=1"), 0600)
	e, _ := Open(afero.NewReadOnlyFs(fs), envPath, envSize)
	if err := e.Set("a", "2"); err == nil {
		t.Fatal("Set on read-only fs succeeded")
	}
	if v, _ := e.Get("a"); v != "1" {
		t.Errorf("Expected a to stay 1, got %q", v)
	}
}
