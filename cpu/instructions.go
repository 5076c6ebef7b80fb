// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"
	"slices"
	"sync"
)

// A Mnemonic identifies an instruction independent of its addressing mode.
type Mnemonic byte

// All supported mnemonics
const (
	ADC Mnemonic = iota
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA

	mnemonicCount int = iota
)

type instfunc func(c *CPU, inst *Instruction, operand []byte) error

// Emulator implementation for each mnemonic
type opcodeImpl struct {
	sym  Mnemonic
	name string
	fn   instfunc
}

var impl = []opcodeImpl{
	{ADC, "ADC", (*CPU).adc},
	{AND, "AND", (*CPU).and},
	{ASL, "ASL", (*CPU).asl},
	{BCC, "BCC", (*CPU).bcc},
	{BCS, "BCS", (*CPU).bcs},
	{BEQ, "BEQ", (*CPU).beq},
	{BIT, "BIT", (*CPU).bit},
	{BMI, "BMI", (*CPU).bmi},
	{BNE, "BNE", (*CPU).bne},
	{BPL, "BPL", (*CPU).bpl},
	{BRK, "BRK", (*CPU).unimplemented},
	{BVC, "BVC", (*CPU).bvc},
	{BVS, "BVS", (*CPU).bvs},
	{CLC, "CLC", (*CPU).clc},
	{CLD, "CLD", (*CPU).cld},
	{CLI, "CLI", (*CPU).cli},
	{CLV, "CLV", (*CPU).clv},
	{CMP, "CMP", (*CPU).cmp},
	{CPX, "CPX", (*CPU).cpx},
	{CPY, "CPY", (*CPU).cpy},
	{DEC, "DEC", (*CPU).dec},
	{DEX, "DEX", (*CPU).dex},
	{DEY, "DEY", (*CPU).dey},
	{EOR, "EOR", (*CPU).eor},
	{INC, "INC", (*CPU).inc},
	{INX, "INX", (*CPU).inx},
	{INY, "INY", (*CPU).iny},
	{JMP, "JMP", (*CPU).jmp},
	{JSR, "JSR", (*CPU).unimplemented},
	{LDA, "LDA", (*CPU).lda},
	{LDX, "LDX", (*CPU).ldx},
	{LDY, "LDY", (*CPU).ldy},
	{LSR, "LSR", (*CPU).lsr},
	{NOP, "NOP", (*CPU).nop},
	{ORA, "ORA", (*CPU).ora},
	{PHA, "PHA", (*CPU).unimplemented},
	{PHP, "PHP", (*CPU).unimplemented},
	{PLA, "PLA", (*CPU).unimplemented},
	{PLP, "PLP", (*CPU).unimplemented},
	{ROL, "ROL", (*CPU).rol},
	{ROR, "ROR", (*CPU).ror},
	{RTI, "RTI", (*CPU).unimplemented},
	{RTS, "RTS", (*CPU).unimplemented},
	{SBC, "SBC", (*CPU).sbc},
	{SEC, "SEC", (*CPU).sec},
	{SED, "SED", (*CPU).sed},
	{SEI, "SEI", (*CPU).sei},
	{STA, "STA", (*CPU).sta},
	{STX, "STX", (*CPU).stx},
	{STY, "STY", (*CPU).sty},
	{TAX, "TAX", (*CPU).tax},
	{TAY, "TAY", (*CPU).tay},
	{TSX, "TSX", (*CPU).unimplemented},
	{TXA, "TXA", (*CPU).txa},
	{TXS, "TXS", (*CPU).unimplemented},
	{TYA, "TYA", (*CPU).tya},
}

var mnemonics map[string]Mnemonic

func init() {
	mnemonics = make(map[string]Mnemonic, len(impl))
	for _, i := range impl {
		mnemonics[i.name] = i.sym
	}
}

// LookupMnemonic returns the mnemonic with the given name. Names are
// matched exactly, so "lda" is not a mnemonic.
func LookupMnemonic(name string) (Mnemonic, bool) {
	m, ok := mnemonics[name]
	return m, ok
}

func (m Mnemonic) String() string {
	if int(m) < len(impl) {
		return impl[m].name
	}
	return "???"
}

// Mode describes a memory addressing mode.
type Mode byte

// All supported memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	ACC             // Accumulator (no operand)
	ZPG             // Zero Page
	ABS             // Absolute
	REL             // Relative
)

var modeNames = [...]string{"IMM", "IMP", "ACC", "ZPG", "ABS", "REL"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "???"
}

// OperandBytes returns the number of operand bytes that follow the opcode
// of an instruction using the addressing mode.
func (m Mode) OperandBytes() int {
	switch m {
	case IMM, ZPG, REL:
		return 1
	case ABS:
		return 2
	default:
		return 0
	}
}

// Opcode data for a (mnemonic, mode) pair
type opcodeData struct {
	sym    Mnemonic // mnemonic
	mode   Mode     // addressing mode
	opcode byte     // opcode hex value
	cycles byte     // number of CPU cycles to execute command
}

// All valid (mnemonic, mode) pairs. Opcodes follow the NMOS 6502 except
// for LDA immediate, which this toolchain has always encoded as $89.
var data = []opcodeData{
	{LDA, IMM, 0x89, 2},
	{LDA, ZPG, 0xa5, 3},
	{LDA, ABS, 0xad, 4},

	{LDX, IMM, 0xa2, 2},
	{LDX, ZPG, 0xa6, 3},
	{LDX, ABS, 0xae, 4},

	{LDY, IMM, 0xa0, 2},
	{LDY, ZPG, 0xa4, 3},
	{LDY, ABS, 0xac, 4},

	{STA, ZPG, 0x85, 3},
	{STA, ABS, 0x8d, 4},

	{STX, ZPG, 0x86, 3},
	{STX, ABS, 0x8e, 4},

	{STY, ZPG, 0x84, 3},
	{STY, ABS, 0x8c, 4},

	{ADC, IMM, 0x69, 2},
	{ADC, ZPG, 0x65, 3},
	{ADC, ABS, 0x6d, 4},

	{SBC, IMM, 0xe9, 2},
	{SBC, ZPG, 0xe5, 3},
	{SBC, ABS, 0xed, 4},

	{CMP, IMM, 0xc9, 2},
	{CMP, ZPG, 0xc5, 3},
	{CMP, ABS, 0xcd, 4},

	{CPX, IMM, 0xe0, 2},
	{CPX, ZPG, 0xe4, 3},
	{CPX, ABS, 0xec, 4},

	{CPY, IMM, 0xc0, 2},
	{CPY, ZPG, 0xc4, 3},
	{CPY, ABS, 0xcc, 4},

	{BIT, ZPG, 0x24, 3},
	{BIT, ABS, 0x2c, 4},

	{AND, IMM, 0x29, 2},
	{AND, ZPG, 0x25, 3},
	{AND, ABS, 0x2d, 4},

	{ORA, IMM, 0x09, 2},
	{ORA, ZPG, 0x05, 3},
	{ORA, ABS, 0x0d, 4},

	{EOR, IMM, 0x49, 2},
	{EOR, ZPG, 0x45, 3},
	{EOR, ABS, 0x4d, 4},

	{INC, ZPG, 0xe6, 5},
	{INC, ABS, 0xee, 6},

	{DEC, ZPG, 0xc6, 5},
	{DEC, ABS, 0xce, 6},

	{ASL, ACC, 0x0a, 2},
	{ASL, ZPG, 0x06, 5},
	{ASL, ABS, 0x0e, 6},

	{LSR, ACC, 0x4a, 2},
	{LSR, ZPG, 0x46, 5},
	{LSR, ABS, 0x4e, 6},

	{ROL, ACC, 0x2a, 2},
	{ROL, ZPG, 0x26, 5},
	{ROL, ABS, 0x2e, 6},

	{ROR, ACC, 0x6a, 2},
	{ROR, ZPG, 0x66, 5},
	{ROR, ABS, 0x6e, 6},

	{JMP, ABS, 0x4c, 3},
	{JSR, ABS, 0x20, 6},
	{RTS, IMP, 0x60, 6},
	{RTI, IMP, 0x40, 6},
	{BRK, IMP, 0x00, 7},

	{BCC, REL, 0x90, 2},
	{BCS, REL, 0xb0, 2},
	{BEQ, REL, 0xf0, 2},
	{BNE, REL, 0xd0, 2},
	{BMI, REL, 0x30, 2},
	{BPL, REL, 0x10, 2},
	{BVC, REL, 0x50, 2},
	{BVS, REL, 0x70, 2},

	{CLC, IMP, 0x18, 2},
	{SEC, IMP, 0x38, 2},
	{CLI, IMP, 0x58, 2},
	{SEI, IMP, 0x78, 2},
	{CLD, IMP, 0xd8, 2},
	{SED, IMP, 0xf8, 2},
	{CLV, IMP, 0xb8, 2},

	{INX, IMP, 0xe8, 2},
	{INY, IMP, 0xc8, 2},
	{DEX, IMP, 0xca, 2},
	{DEY, IMP, 0x88, 2},
	{NOP, IMP, 0xea, 2},

	{TAX, IMP, 0xaa, 2},
	{TXA, IMP, 0x8a, 2},
	{TAY, IMP, 0xa8, 2},
	{TYA, IMP, 0x98, 2},
	{TXS, IMP, 0x9a, 2},
	{TSX, IMP, 0xba, 2},

	{PHA, IMP, 0x48, 3},
	{PLA, IMP, 0x68, 4},
	{PHP, IMP, 0x08, 3},
	{PLP, IMP, 0x28, 4},
}

// An Instruction describes a CPU instruction variant, including its name,
// its addressing mode, its opcode value, its operand size, and its CPU cycle
// cost.
type Instruction struct {
	Name     string   // all-caps name of the instruction
	Mnemonic Mnemonic // instruction identity
	Mode     Mode     // addressing mode
	Opcode   byte     // hexadecimal opcode value
	Length   byte     // combined size of opcode and operand, in bytes
	Cycles   byte     // number of CPU cycles to execute the instruction
	fn       instfunc // emulator implementation of the function
}

// An InstructionSet defines the set of all instructions that can run on the
// emulated CPU. Lookups return copies, so an instruction set cannot be
// modified once built.
type InstructionSet struct {
	instructions [256]Instruction           // all instructions by opcode
	defined      [256]bool                  // opcodes with an instruction
	variants     map[Mnemonic][]Instruction // variants of each mnemonic
}

// Lookup retrieves the CPU instruction corresponding to the requested
// opcode. It returns false if no instruction uses the opcode.
func (s *InstructionSet) Lookup(opcode byte) (Instruction, bool) {
	return s.instructions[opcode], s.defined[opcode]
}

// Find returns the variant of a mnemonic that uses the addressing mode.
func (s *InstructionSet) Find(m Mnemonic, mode Mode) (Instruction, bool) {
	for _, inst := range s.variants[m] {
		if inst.Mode == mode {
			return inst, true
		}
	}
	return Instruction{}, false
}

// Variants returns all addressing-mode variants of a mnemonic.
func (s *InstructionSet) Variants(m Mnemonic) []Instruction {
	return slices.Clone(s.variants[m])
}

// HasMode reports whether the mnemonic has a variant using the mode.
func (s *InstructionSet) HasMode(m Mnemonic, mode Mode) bool {
	_, ok := s.Find(m, mode)
	return ok
}

// Create an instruction set from a table of (mnemonic, mode) pairs.
func newInstructionSet(rows []opcodeData) (*InstructionSet, error) {
	set := &InstructionSet{
		variants: make(map[Mnemonic][]Instruction),
	}

	for _, d := range rows {
		if d.cycles < 1 || d.cycles > 7 {
			return nil, fmt.Errorf("%w: %s %s costs %d cycles", ErrCycleTable, d.sym, d.mode, d.cycles)
		}
		if set.defined[d.opcode] {
			prev := set.instructions[d.opcode]
			return nil, fmt.Errorf("%w: $%02X used by %s %s and %s %s",
				ErrDuplicateOpcode, d.opcode, prev.Name, prev.Mode, d.sym, d.mode)
		}
		if int(d.sym) >= len(impl) {
			return nil, fmt.Errorf("%w: unknown mnemonic %d", ErrIllegalOpcode, d.sym)
		}

		inst := Instruction{
			Name:     impl[d.sym].name,
			Mnemonic: d.sym,
			Mode:     d.mode,
			Opcode:   d.opcode,
			Length:   byte(1 + d.mode.OperandBytes()),
			Cycles:   d.cycles,
			fn:       impl[d.sym].fn,
		}
		set.instructions[d.opcode] = inst
		set.defined[d.opcode] = true
		set.variants[d.sym] = append(set.variants[d.sym], inst)
	}

	for m := 0; m < mnemonicCount; m++ {
		if len(set.variants[Mnemonic(m)]) == 0 {
			return nil, fmt.Errorf("%w: %s has no encoding", ErrCycleTable, Mnemonic(m))
		}
	}
	return set, nil
}

var (
	instructionSet     *InstructionSet
	instructionSetOnce sync.Once
)

// GetInstructionSet returns the instruction set shared by the assembler
// and the CPU. It panics if the opcode table is inconsistent.
func GetInstructionSet() *InstructionSet {
	instructionSetOnce.Do(func() {
		set, err := newInstructionSet(data)
		if err != nil {
			panic(err)
		}
		instructionSet = set
	})
	return instructionSet
}
