// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"

	"github.com/beevik/mini6502/translate"
)

var f = translate.From

// Errors
var (
	ErrOutOfRange      = errors.New(f("address out of range"))
	ErrIllegalOpcode   = errors.New(f("illegal opcode"))
	ErrUnimplemented   = errors.New(f("instruction not implemented"))
	ErrCycleTable      = errors.New(f("instruction cycle cost mismatch"))
	ErrDuplicateOpcode = errors.New(f("duplicate opcode"))
	ErrHalted          = errors.New(f("cpu is halted"))
)

// A Fault describes an instruction the CPU was unable to execute. The CPU
// is halted when a fault occurs.
type Fault struct {
	PC     uint16 // address of the faulting instruction
	Opcode byte   // opcode fetched at PC
	Err    error  // underlying cause
}

func (e *Fault) Error() string {
	return f("fault at $%04X (opcode $%02X): %v", e.PC, e.Opcode, e.Err)
}

func (e *Fault) Unwrap() error {
	return e.Err
}
