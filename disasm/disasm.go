// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a disassembler for the instruction subset
// supported by the cpu package.
package disasm

import (
	"fmt"

	"github.com/beevik/mini6502/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = map[cpu.Mode]string{
	cpu.IMM: "#$%s",
	cpu.ZPG: "$%s",
	cpu.ABS: "$%s",
	cpu.REL: "$%s",
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the byte slice. Bytes are
// read little-endian, so the last byte prints first.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Disassemble the machine code in memory image 'm' at address 'addr'.
// Return a 'line' string representing the disassembled instruction and a
// 'next' address that starts the following line of machine code. Bytes
// that do not decode to a known instruction disassemble as "???" and
// occupy a single byte.
func Disassemble(m *cpu.Image, addr uint16) (line string, next uint16) {
	opcode, _ := m.LoadByte(int(addr))
	inst, ok := cpu.GetInstructionSet().Lookup(opcode)
	if !ok {
		return "???", addr + 1
	}

	operand := make([]byte, inst.Length-1)
	if err := m.LoadBytes(int(addr)+1, operand); err != nil {
		return "???", addr + 1
	}

	line = inst.Name
	next = addr + uint16(inst.Length)

	if inst.Mode == cpu.REL {
		// Convert relative offset to absolute address. Targets outside the
		// image keep the raw signed offset.
		offset := int(int8(operand[0]))
		braddr := int(addr) + int(inst.Length) + offset
		if braddr < 0 || braddr >= cpu.ImageSize {
			line += fmt.Sprintf(" *%+d ???", offset)
			return
		}
		operand = []byte{byte(braddr & 0xff), byte(braddr >> 8)}
	}

	if format, ok := modeFormat[inst.Mode]; ok {
		line += " " + fmt.Sprintf(format, hexString(operand))
	}
	return
}

// GetRegisterString returns a string describing the contents of the
// registers. Set status flags print as letters and clear ones as dashes.
func GetRegisterString(r *cpu.Registers) string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X PS=[%s] PC=%04X",
		r.A, r.X, r.Y, getStatusBits(r), r.PC)
}

func getStatusBits(r *cpu.Registers) string {
	v := []bool{
		r.Negative,
		r.Overflow,
		r.Break,
		r.Decimal,
		r.InterruptDisable,
		r.Zero,
		r.Carry,
	}

	s := []byte("NVBDIZC")
	for i := range v {
		if !v[i] {
			s[i] = '-'
		}
	}
	return string(s)
}
