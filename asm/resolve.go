// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"

	"github.com/beevik/mini6502/cpu"
)

// An Encoding is a resolved instruction variant together with the operand
// bytes that follow its opcode.
type Encoding struct {
	Inst    cpu.Instruction
	Operand []byte
}

// Bytes returns the opcode followed by the operand bytes.
func (e Encoding) Bytes() []byte {
	return append([]byte{e.Inst.Opcode}, e.Operand...)
}

// Resolve selects the instruction variant of a mnemonic that matches the
// operand text and encodes the operand. An empty operand selects the
// implied or accumulator variant. A '#' operand is an immediate byte given
// as $hh or as a decimal number. A '$' operand is a hexadecimal address
// that selects the zero page variant below $100 and the absolute variant
// otherwise. Mnemonics without a zero page variant, such as JMP and JSR,
// always encode an absolute address. Branch instructions take a '$' operand as their raw relative
// offset byte.
func Resolve(set *cpu.InstructionSet, m cpu.Mnemonic, operand string) (Encoding, error) {
	switch {
	case operand == "":
		for _, mode := range []cpu.Mode{cpu.IMP, cpu.ACC} {
			if inst, ok := set.Find(m, mode); ok {
				return Encoding{Inst: inst}, nil
			}
		}
		return Encoding{}, fmt.Errorf("%w: %s requires an operand", ErrUnsupportedMode, m)

	case operand[0] == '#':
		v, err := parseImmediate(operand[1:])
		if err != nil {
			return Encoding{}, err
		}
		return encode(set, m, cpu.IMM, int(v))

	case operand[0] == '$':
		addr, err := parseHexAddress(operand[1:])
		if err != nil {
			return Encoding{}, err
		}

		if set.HasMode(m, cpu.REL) {
			if !isZeroPage(addr) {
				return Encoding{}, fmt.Errorf("%w: %s offset %s exceeds one byte", ErrUnsupportedMode, m, operand)
			}
			return encode(set, m, cpu.REL, addr)
		}

		if isZeroPage(addr) && set.HasMode(m, cpu.ZPG) {
			return encode(set, m, cpu.ZPG, addr)
		}
		return encode(set, m, cpu.ABS, addr)

	default:
		return Encoding{}, fmt.Errorf("%w '%s'", ErrOperandSyntax, operand)
	}
}

// Parse the value of an immediate operand following its '#'.
func parseImmediate(s string) (byte, error) {
	if len(s) > 0 && s[0] == '$' {
		return hexToByte(s[1:])
	}
	return stringToByte(s)
}

func encode(set *cpu.InstructionSet, m cpu.Mnemonic, mode cpu.Mode, value int) (Encoding, error) {
	inst, ok := set.Find(m, mode)
	if !ok {
		return Encoding{}, fmt.Errorf("%w: %s %s", ErrUnsupportedMode, m, mode)
	}
	return Encoding{
		Inst:    inst,
		Operand: toBytes(mode.OperandBytes(), value),
	}, nil
}
