// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"fmt"

	"github.com/beevik/mini6502/translate"
)

var f = translate.From

// Errors
var (
	ErrSyntax          = errors.New(f("syntax error"))
	ErrOperandSyntax   = fmt.Errorf("%w: %s", ErrSyntax, f("unrecognized operand"))
	ErrUnsupportedMode = errors.New(f("addressing mode not supported by instruction"))
	ErrSourceIO        = errors.New(f("unable to read source"))
)

// An Error describes a failure to assemble a line of source code. Line is
// zero when the failure is not tied to a particular line.
type Error struct {
	File string // source file name
	Line int    // 1-based source line number
	Text string // source line text
	Err  error  // underlying cause
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return f("Error in '%s': %v", e.File, e.Err)
	}
	return f("Error in '%s' line %d: %v", e.File, e.Line, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
