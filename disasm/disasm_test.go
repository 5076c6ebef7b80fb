// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm

import (
	"testing"

	"github.com/beevik/mini6502/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassemble(t *testing.T) {
	mem := cpu.NewImage()
	require.NoError(t, mem.StoreBytes(0, []byte{
		0x89, 0x0a,       // LDA #$0A
		0x85, 0x20,       // STA $20
		0xad, 0x34, 0x12, // LDA $1234
		0x0a,             // ASL
		0xea,             // NOP
		0xd0, 0xfd,       // BNE $0008
		0x02,             // illegal
	}))

	tests := []struct {
		addr uint16
		line string
		next uint16
	}{
		{0x0000, "LDA #$0A", 0x0002},
		{0x0002, "STA $20", 0x0004},
		{0x0004, "LDA $1234", 0x0007},
		{0x0007, "ASL", 0x0008},
		{0x0008, "NOP", 0x0009},
		{0x0009, "BNE $0008", 0x000b},
		{0x000b, "???", 0x000c},
	}

	for _, tt := range tests {
		line, next := Disassemble(mem, tt.addr)
		assert.Equal(t, tt.line, line, "addr $%04X", tt.addr)
		assert.Equal(t, tt.next, next, "addr $%04X", tt.addr)
	}
}

func TestDisassembleTruncated(t *testing.T) {
	mem := cpu.NewImage()
	require.NoError(t, mem.StoreByte(0xffff, 0xad))

	line, next := Disassemble(mem, 0xffff)
	assert.Equal(t, "???", line)
	assert.Equal(t, uint16(0x0000), next)
}

func TestDisassembleBranchOutOfRange(t *testing.T) {
	mem := cpu.NewImage()
	require.NoError(t, mem.StoreBytes(0, []byte{0xd0, 0x80}))
	require.NoError(t, mem.StoreBytes(0xfffe, []byte{0xf0, 0x7f}))

	line, next := Disassemble(mem, 0x0000)
	assert.Equal(t, "BNE *-128 ???", line)
	assert.Equal(t, uint16(0x0002), next)

	line, _ = Disassemble(mem, 0xfffe)
	assert.Equal(t, "BEQ *+127 ???", line)
}

func TestRegisterString(t *testing.T) {
	r := cpu.Registers{A: 0x5e, X: 0x01, Y: 0xff, PC: 0x0123, Negative: true, Carry: true}
	assert.Equal(t, "A=5E X=01 Y=FF PS=[N-----C] PC=0123", GetRegisterString(&r))
}
