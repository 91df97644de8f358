// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package batchident provisions the batch identifier kept in the SID OEM
// fuse field and records how each attempt went in the boot environment.
package batchident

import (
	"errors"
	"fmt"
	"io"

	"github.com/u-root/batchident/pkg/logger"
	"github.com/u-root/batchident/pkg/sunxi"
)

const (
	EnvIdent  = "batch_ident"
	EnvStatus = "batch_ident_status"
)

var log = logger.LogContainer.GetSimpleLogger()

// Fuse is the write-once OEM field. *sunxi.Sid implements it.
//
// ProgramOEM must refuse with sunxi.ErrAlreadyProgrammed rather than burn a
// field that is not blank, and report a burn that did not finish with
// sunxi.ErrTimeout.
type Fuse interface {
	OEM() uint32
	ProgramOEM(key uint32) error
}

// Store is the boot environment.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

type Engine struct {
	fuse Fuse
	env  Store
	out  io.Writer
}

// New returns an Engine printing operator messages to out.
func New(fuse Fuse, env Store, out io.Writer) *Engine {
	return &Engine{fuse, env, out}
}

// Read returns the identifier currently in the fuse, zero if unprovisioned.
func (e *Engine) Read() Identifier {
	return IdentifierFromField(e.fuse.OEM())
}

// Write burns the identifier from the batch_ident variable unless the unit
// already has one, and stores the outcome in batch_ident_status.
//
// The status is set to OutcomeUnset before anything else. Malformed input
// returns an error satisfying IsUsage and leaves it there. A unit holding a
// different identifier is never written to.
func (e *Engine) Write() (Outcome, error) {
	if err := e.set(EnvStatus, OutcomeUnset.Code()); err != nil {
		return OutcomeUnset, err
	}

	s, ok := e.env.Get(EnvIdent)
	if !ok || s == "" {
		return OutcomeUnset, ErrIdentMissing
	}
	want, err := ParseIdentifier(s)
	if err != nil {
		return OutcomeUnset, err
	}

	if cur := e.Read(); cur != 0 {
		return e.record(e.classify(cur, want))
	}

	log.Infof("Burning batch identifier %q (key %#08x)", s, want.Key())
	err = e.fuse.ProgramOEM(want.Key())
	switch {
	case errors.Is(err, sunxi.ErrAlreadyProgrammed):
		// A burn was already issued on this fuse. Report against what the
		// field holds now.
		log.Warnf("Fuse refused burn: %v", err)
		return e.record(e.classify(e.Read(), want))
	case errors.Is(err, sunxi.ErrTimeout):
		fmt.Fprintf(e.out, "Writing SID...\n")
		log.Errorf("Batch identifier burn did not finish: %v", err)
		return e.record(OutcomeTimeout, err)
	case err != nil:
		return OutcomeUnset, err
	}
	fmt.Fprintf(e.out, "Writing SID...\n")
	return e.record(OutcomeWritten, nil)
}

func (e *Engine) classify(cur, want Identifier) (Outcome, error) {
	if cur.High() == want.High() && cur.Low() == want.Low() {
		fmt.Fprintf(e.out, "batch is already written to the same value, exiting\n")
		return OutcomeAlreadySame, nil
	}
	fmt.Fprintf(e.out, "batch is already written, but different value, exiting\n")
	return OutcomeAlreadyDifferent, fmt.Errorf("%w: fuse holds %v, requested %v", ErrAlreadyDifferent, cur, want)
}

// record stores the final outcome. A failure to store it fails the attempt
// even when the fuse is fine, since the status is what scripts look at.
func (e *Engine) record(o Outcome, err error) (Outcome, error) {
	outcomes.WithLabelValues(o.String()).Inc()
	log.Infof("Batch identification outcome: %v (%s)", o, o.Code())
	if serr := e.set(EnvStatus, o.Code()); serr != nil {
		if err == nil {
			err = serr
		}
		log.Errorf("Outcome %v not recorded: %v", o, serr)
	}
	return o, err
}

func (e *Engine) set(key, value string) error {
	if err := e.env.Set(key, value); err != nil {
		return &StoreError{key, value, err}
	}
	return nil
}
