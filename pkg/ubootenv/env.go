// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ubootenv reads and writes a U-Boot environment image.
//
// The image is a little endian CRC32 of the data area followed by the data
// area itself: NUL terminated key=value entries, an empty entry marking the
// end, zero filled up to the configured environment size.
package ubootenv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/u-root/batchident/pkg/logger"
)

var (
	ErrBadCRC   = errors.New("ubootenv: bad CRC")
	ErrTooLarge = errors.New("ubootenv: environment does not fit")
	ErrBadKey   = errors.New("ubootenv: invalid variable name")

	log = logger.LogContainer.GetSimpleLogger()
)

type Env struct {
	fs   afero.Fs
	path string
	size int
	vars map[string]string
}

// Open loads the environment at path. A missing image or one with a bad CRC
// gives an empty environment, the same way U-Boot falls back to its
// built-in defaults; it is written out on the first Set.
func Open(fs afero.Fs, path string, size int) (*Env, error) {
	e := &Env{fs: fs, path: path, size: size, vars: map[string]string{}}
	b, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		log.Warnf("No environment at %s, starting empty", path)
		return e, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) > size {
		b = b[:size]
	}
	vars, err := Parse(b)
	if errors.Is(err, ErrBadCRC) {
		log.Warnf("Environment at %s: %v, starting empty", path, err)
		return e, nil
	}
	if err != nil {
		return nil, err
	}
	e.vars = vars
	return e, nil
}

func (e *Env) Get(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Set changes key and saves the environment. An empty value deletes key.
// On a failed save the in-memory environment is left unchanged.
func (e *Env) Set(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\x00") {
		return fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	if strings.IndexByte(value, 0) >= 0 {
		return fmt.Errorf("ubootenv: value of %q contains NUL", key)
	}
	old, had := e.vars[key]
	if value == "" {
		delete(e.vars, key)
	} else {
		e.vars[key] = value
	}
	if err := e.Save(); err != nil {
		if had {
			e.vars[key] = old
		} else {
			delete(e.vars, key)
		}
		return err
	}
	return nil
}

// Keys returns the variable names in sorted order.
func (e *Env) Keys() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Env) Save() error {
	b, err := Marshal(e.vars, e.size)
	if err != nil {
		return err
	}
	return afero.WriteFile(e.fs, e.path, b, 0600)
}

// Parse decodes an environment image.
func Parse(b []byte) (map[string]string, error) {
	if len(b) < crc32.Size {
		return nil, fmt.Errorf("%w: image is %d bytes", ErrBadCRC, len(b))
	}
	data := b[crc32.Size:]
	want := binary.LittleEndian.Uint32(b[:crc32.Size])
	if got := crc32.ChecksumIEEE(data); got != want {
		return nil, fmt.Errorf("%w: stored %08x, computed %08x", ErrBadCRC, want, got)
	}
	vars := map[string]string{}
	for len(data) > 0 {
		i := bytes.IndexByte(data, 0)
		if i < 0 {
			i = len(data)
		}
		entry := string(data[:i])
		if entry == "" {
			break
		}
		if k, v, ok := strings.Cut(entry, "="); ok && k != "" {
			vars[k] = v
		}
		data = data[min(i+1, len(data)):]
	}
	return vars, nil
}

// Marshal encodes vars into an image of exactly size bytes.
func Marshal(vars map[string]string, size int) ([]byte, error) {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := make([]byte, size)
	if size < crc32.Size+1 {
		return nil, fmt.Errorf("%w: size %d", ErrTooLarge, size)
	}
	data := b[crc32.Size:]
	n := 0
	for _, k := range keys {
		entry := k + "=" + vars[k]
		// Room for the entry terminator and the final empty entry.
		if n+len(entry)+2 > len(data) {
			return nil, fmt.Errorf("%w: %d bytes available", ErrTooLarge, len(data))
		}
		n += copy(data[n:], entry)
		data[n] = 0
		n++
	}
	binary.LittleEndian.PutUint32(b[:crc32.Size], crc32.ChecksumIEEE(data))
	return b, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
