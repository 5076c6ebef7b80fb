// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/beevik/mini6502/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(code string) ([]byte, *cpu.Image, error) {
	mem := cpu.NewImage()
	assembly, err := Assemble(strings.NewReader(code), "test", mem, io.Discard, 0)
	if err != nil {
		return []byte{}, mem, err
	}
	return assembly.Code, mem, nil
}

func checkASM(t *testing.T, asm string, expected string) {
	t.Helper()
	code, _, err := assemble(asm)
	if err != nil {
		t.Error(err)
		return
	}

	b := make([]byte, len(code)*2)
	for i, j := 0, 0; i < len(code); i, j = i+1, j+2 {
		v := code[i]
		b[j+0] = hex[v>>4]
		b[j+1] = hex[v&0x0f]
	}
	s := string(b)

	if s != expected {
		t.Error("code doesn't match expected")
		t.Errorf("got: %s\n", s)
		t.Errorf("exp: %s\n", expected)
	}
}

func checkASMError(t *testing.T, asm string, target error) {
	t.Helper()
	_, _, err := assemble(asm)
	if err == nil {
		t.Errorf("Expected error on %s, didn't get one\n", asm)
		return
	}
	if !errors.Is(err, target) {
		t.Errorf("Expected '%v', got '%v'\n", target, err)
	}
}

func TestAddressingIMM(t *testing.T) {
	asm := `
	LDA #$20
	LDX #$20
	LDY #$20
	ADC #$20
	SBC #$20
	CMP #$20
	CPX #$20
	CPY #$20
	AND #$20
	ORA #$20
	EOR #$20`

	checkASM(t, asm, "8920A220A02069"+"20E920C920E020C0202920092049"+"20")
}

func TestDecimalImmediate(t *testing.T) {
	checkASM(t, "LDA #10", "890A")
	checkASM(t, "LDX #0", "A200")
	checkASM(t, "LDY #255", "A0FF")

	checkASMError(t, "LDA #256", ErrSyntax)
	checkASMError(t, "LDA #-1", ErrSyntax)
	checkASMError(t, "LDA #ten", ErrSyntax)
	checkASMError(t, "LDA #", ErrSyntax)
}

func TestHexImmediate(t *testing.T) {
	checkASM(t, "LDA #$ff", "89FF")
	checkASM(t, "LDA #$0A", "890A")

	checkASMError(t, "LDA #$1", ErrSyntax)
	checkASMError(t, "LDA #$123", ErrSyntax)
	checkASMError(t, "LDA #$G0", ErrSyntax)
}

func TestAddressingZPG(t *testing.T) {
	asm := `
	LDA $00
	LDX $20
	LDY $20
	STA $FF
	STX $20
	STY $20
	INC $20
	DEC $20
	BIT $20
	LDA $0012`

	checkASM(t, asm, "A500A620A42085FF86208420E620C6202420A512")
}

func TestAddressingABS(t *testing.T) {
	asm := `
	LDA $1234
	STA $100
	LDX $FFFF
	ASL $2000
	JMP $10
	JSR $1234`

	checkASM(t, asm, "AD34128D0001AEFFFF0E00204C1000203412")
}

func TestZeroPageFallsBackToAbsolute(t *testing.T) {
	set := cpu.GetInstructionSet()
	for _, m := range []cpu.Mnemonic{cpu.JMP, cpu.JSR} {
		e, err := Resolve(set, m, "$10")
		require.NoError(t, err)
		assert.Equal(t, cpu.ABS, e.Inst.Mode, m.String())
		assert.Equal(t, []byte{0x10, 0x00}, e.Operand, m.String())
	}
}

func TestAddressingIMP(t *testing.T) {
	asm := `
	NOP
	CLC
	SEC
	TAX
	TYA
	INX
	DEY
	BRK
	RTS
	PHA`

	checkASM(t, asm, "EA1838AA98E8880060"+"48")
}

func TestAddressingACC(t *testing.T) {
	checkASM(t, "ASL\nLSR\nROL\nROR", "0A4A2A6A")
}

func TestAddressingREL(t *testing.T) {
	checkASM(t, "BNE $FD", "D0FD")
	checkASM(t, "BEQ $02\nBCC $80", "F00290"+"80")

	checkASMError(t, "BNE $100", ErrUnsupportedMode)
	checkASMError(t, "BNE #$10", ErrUnsupportedMode)
	checkASMError(t, "BNE", ErrUnsupportedMode)
}

func TestSyntaxErrors(t *testing.T) {
	checkASMError(t, "FOO", ErrSyntax)
	checkASMError(t, "lda #10", ErrSyntax)
	checkASMError(t, "LDA #10 #20", ErrSyntax)
	checkASMError(t, "LDA $", ErrSyntax)
	checkASMError(t, "LDA $12G4", ErrSyntax)
	checkASMError(t, "LDA $+12", ErrSyntax)
	checkASMError(t, "LDA 10", ErrOperandSyntax)
	checkASMError(t, "LDA 10", ErrSyntax)
	checkASMError(t, "LDA ($10),Y", ErrOperandSyntax)
}

func TestUnsupportedModes(t *testing.T) {
	checkASMError(t, "STA #10", ErrUnsupportedMode)
	checkASMError(t, "LDA", ErrUnsupportedMode)
	checkASMError(t, "INX $10", ErrUnsupportedMode)
	checkASMError(t, "NOP #1", ErrUnsupportedMode)
	checkASMError(t, "JMP #$10", ErrUnsupportedMode)
}

func TestAddressOutOfRange(t *testing.T) {
	checkASMError(t, "LDA $10000", cpu.ErrOutOfRange)
	checkASMError(t, "LDA $123456789ABCDEF0123", cpu.ErrOutOfRange)
	checkASM(t, "LDA $0FFFF", "ADFFFF")
}

func TestErrorLocation(t *testing.T) {
	_, _, err := assemble("NOP\n\n  FOO #1  ; bad\nNOP")

	var asmErr *Error
	require.True(t, errors.As(err, &asmErr))
	assert.Equal(t, "test", asmErr.File)
	assert.Equal(t, 3, asmErr.Line)
	assert.Equal(t, "FOO #1  ; bad", asmErr.Text)
	assert.ErrorIs(t, err, ErrSyntax)
	assert.Contains(t, err.Error(), "line 3")
}

func TestBudget(t *testing.T) {
	assert := assert.New(t)

	_, mem, err := assemble("LDA #10")
	assert.NoError(err)
	assert.Equal(uint32(2), mem.Budget)

	_, mem, err = assemble("LDA #10\nSTA $1234\nINC $10\nNOP")
	assert.NoError(err)
	assert.Equal(uint32(2+4+5+2), mem.Budget)

	mem = cpu.NewImage()
	mem.Budget = 10
	assembly, err := Assemble(strings.NewReader("LDA $10"), "test", mem, io.Discard, 0)
	assert.NoError(err)
	assert.Equal(uint32(13), mem.Budget)
	assert.Equal(uint32(3), assembly.SourceMap.Cycles)
}

func TestFailFastKeepsEarlierLines(t *testing.T) {
	assert := assert.New(t)

	mem := cpu.NewImage()
	assembly, err := Assemble(strings.NewReader("LDA #10\nFOO\nLDA #20"), "test", mem, io.Discard, 0)
	assert.ErrorIs(err, ErrSyntax)
	assert.Equal([]byte{0x89, 0x0a}, assembly.Code)
	assert.Equal(uint32(2), mem.Budget)

	b := make([]byte, 4)
	assert.NoError(mem.LoadBytes(0, b))
	assert.Equal([]byte{0x89, 0x0a, 0x00, 0x00}, b)
}

func TestCommentsAndWhitespace(t *testing.T) {
	asm := `
	; a comment on its own line

	   LDA   #10    ; load ten
	STA $20;store
	`

	checkASM(t, asm, "890A8520")
}

func TestImageOverflow(t *testing.T) {
	assert := assert.New(t)

	fill := strings.Repeat("LDA $1234\n", 0x10000/3)
	code, mem, err := assemble(fill + "NOP")
	assert.NoError(err)
	assert.Len(code, 0x10000)
	assert.Equal(uint32(0x10000/3*4+2), mem.Budget)

	code, mem, err = assemble(fill + "LDA #1")
	assert.ErrorIs(err, cpu.ErrOutOfRange)
	assert.Empty(code)
	last, _ := mem.LoadByte(0xffff)
	assert.Equal(byte(0), last)
	assert.Equal(uint32(0x10000/3*4), mem.Budget)
}

func TestVerboseListing(t *testing.T) {
	var out bytes.Buffer
	mem := cpu.NewImage()
	_, err := Assemble(strings.NewReader("LDA #10\nSTA $1234"), "prog.asm", mem, &out, Verbose)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "-- Assembling prog.asm --")
	assert.Contains(t, s, "0000-*  89 0A")
	assert.Contains(t, s, "0002-*  8D 34 12")
	assert.Contains(t, s, "LDA IMM")
	assert.Contains(t, s, "Assembled 5 bytes, 6 cycles")
}

func TestSourceMap(t *testing.T) {
	mem := cpu.NewImage()
	assembly, err := Assemble(strings.NewReader("NOP\n\nLDA $1234\nNOP"), "prog.asm", mem, io.Discard, 0)
	require.NoError(t, err)

	sm := assembly.SourceMap
	assert.Equal(t, uint32(5), sm.Size)

	file, line := sm.Search(1)
	assert.Equal(t, "prog.asm", file)
	assert.Equal(t, 3, line)

	file, line = sm.Search(4)
	assert.Equal(t, "prog.asm", file)
	assert.Equal(t, 4, line)

	_, line = sm.Search(2)
	assert.Equal(t, -1, line)
}

func TestReadFailure(t *testing.T) {
	mem := cpu.NewImage()
	_, err := Assemble(iotest.ErrReader(errors.New("disk on fire")), "test", mem, io.Discard, 0)
	assert.ErrorIs(t, err, ErrSourceIO)
}

func TestAssembleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.asm")
	require.NoError(t, os.WriteFile(path, []byte("LDA #10\nSTA $20\n"), 0600))

	mem := cpu.NewImage()
	assembly, err := AssembleFile(path, mem, io.Discard, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x0a, 0x85, 0x20}, assembly.Code)
	assert.Equal(t, uint32(5), mem.Budget)

	binPath, mapPath, err := SaveFiles(path, assembly)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "prog.bin"), binPath)

	bin, err := os.ReadFile(binPath)
	require.NoError(t, err)
	assert.Equal(t, assembly.Code, bin)

	sm, err := os.ReadFile(mapPath)
	require.NoError(t, err)
	assert.Contains(t, string(sm), `"Cycles":5`)

	_, err = AssembleFile(filepath.Join(dir, "missing.asm"), mem, io.Discard, 0)
	assert.ErrorIs(t, err, ErrSourceIO)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	set := cpu.GetInstructionSet()
	operands := map[cpu.Mode]string{
		cpu.IMM: "#$12",
		cpu.IMP: "",
		cpu.ACC: "",
		cpu.ZPG: "$12",
		cpu.ABS: "$1234",
		cpu.REL: "$12",
	}

	for opcode := 0; opcode < 256; opcode++ {
		inst, ok := set.Lookup(byte(opcode))
		if !ok {
			continue
		}

		enc, err := Resolve(set, inst.Mnemonic, operands[inst.Mode])
		if !assert.NoError(t, err, inst.Name) {
			continue
		}

		code := enc.Bytes()
		assert.Len(t, code, int(inst.Length), inst.Name)

		decoded, ok := set.Lookup(code[0])
		assert.True(t, ok)
		assert.Equal(t, inst.Mnemonic, decoded.Mnemonic)
		assert.Equal(t, inst.Mode, decoded.Mode)
		assert.Equal(t, inst.Cycles, decoded.Cycles)
	}
}

func TestIdempotent(t *testing.T) {
	src := "LDA #10\nSTA $1234\nLDX $20\nBNE $FD\nNOP"

	_, mem1, err := assemble(src)
	require.NoError(t, err)
	_, mem2, err := assemble(src)
	require.NoError(t, err)

	assert.Equal(t, mem1.Budget, mem2.Budget)

	b1 := make([]byte, cpu.ImageSize)
	b2 := make([]byte, cpu.ImageSize)
	require.NoError(t, mem1.LoadBytes(0, b1))
	require.NoError(t, mem2.LoadBytes(0, b2))
	assert.True(t, bytes.Equal(b1, b2))
}
