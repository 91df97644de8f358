// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package batchident

import (
	"errors"
	"fmt"
)

var (
	ErrIdentMissing     = errors.New("'batch_ident' variable is not defined")
	ErrIdentLength      = errors.New("'batch_ident' has the wrong length")
	ErrAlreadyDifferent = errors.New("batch is already written with a different value")
)

// IsUsage reports whether err comes from missing or malformed operator
// input rather than from the unit.
func IsUsage(err error) bool {
	return errors.Is(err, ErrIdentMissing) || errors.Is(err, ErrIdentLength)
}

// StoreError is a failure to record to the environment.
type StoreError struct {
	Key   string
	Value string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cannot set '%s' variable to %q: %v", e.Key, e.Value, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
