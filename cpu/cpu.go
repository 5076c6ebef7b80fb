// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements the instruction tables, memory image and
// execution engine of a small 6502 subset. Every executed instruction
// draws its cycle cost from the budget stored in the memory image, and
// the CPU halts once the budget is exhausted.
package cpu

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// State describes whether the CPU is able to execute instructions.
type State byte

const (
	// Running CPUs execute instructions while budget remains.
	Running State = iota

	// Halted CPUs have exhausted their budget or faulted.
	Halted
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "halted"
}

// The longest instruction in the table costs this many cycles.
const maxCycles = 7

// CPU represents a single CPU. It contains a pointer to the memory image
// associated with the CPU.
type CPU struct {
	Reg       Registers       // CPU registers
	Mem       *Image          // assigned memory image and cycle budget
	State     State           // running or halted
	Cycles    uint64          // total executed CPU cycles
	LastPC    uint16          // address of the instruction last started
	InstSet   *InstructionSet // Instruction set used by the CPU
	debugger  *Debugger
	log       logrus.FieldLogger
	storeByte func(cpu *CPU, addr uint16, v byte) error
	spent     byte // cycles spent by the current instruction
	limit     byte // cycle cost of the current instruction
}

// NewCPU creates an emulated CPU bound to the specified memory image. If m
// is nil, the CPU gets a new empty image.
func NewCPU(m *Image) *CPU {
	if m == nil {
		m = NewImage()
	}
	cpu := &CPU{
		Mem:       m,
		InstSet:   GetInstructionSet(),
		log:       logrus.StandardLogger(),
		storeByte: (*CPU).storeByteNormal,
	}

	cpu.Reg.Init()
	return cpu
}

// SetLogger replaces the logger receiving execution traces.
func (cpu *CPU) SetLogger(l logrus.FieldLogger) {
	cpu.log = l
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// Reset clears all registers and makes the CPU runnable again. Memory and
// budget are left untouched.
func (cpu *CPU) Reset() {
	cpu.Reg.Init()
	cpu.State = Running
	cpu.Cycles = 0
	cpu.LastPC = 0
}

// Step the cpu by one instruction. A CPU whose budget is exhausted halts
// without executing anything. If the instruction cannot be executed, the
// CPU halts with its registers and budget as they were before the step, and
// the returned error is a *Fault.
func (cpu *CPU) Step() error {
	if cpu.State == Halted {
		return ErrHalted
	}
	if cpu.Mem.Budget == 0 {
		cpu.State = Halted
		return nil
	}

	reg, budget, cycles, lastPC := cpu.Reg, cpu.Mem.Budget, cpu.Cycles, cpu.LastPC
	pc := cpu.Reg.PC

	// Data breakpoints fire mid-instruction and read LastPC.
	cpu.LastPC = pc
	inst, err := cpu.execute()
	if err != nil {
		cpu.Reg, cpu.Mem.Budget, cpu.Cycles, cpu.LastPC = reg, budget, cycles, lastPC
		cpu.State = Halted

		opcode, _ := cpu.Mem.LoadByte(int(pc))
		fault := &Fault{PC: pc, Opcode: opcode, Err: err}
		cpu.log.WithFields(logrus.Fields{
			"pc":     fmt.Sprintf("$%04X", pc),
			"opcode": fmt.Sprintf("$%02X", opcode),
		}).Error(fault)
		return fault
	}

	cpu.log.WithFields(logrus.Fields{
		"pc":     fmt.Sprintf("$%04X", pc),
		"inst":   inst.Name,
		"mode":   inst.Mode.String(),
		"a":      fmt.Sprintf("$%02X", cpu.Reg.A),
		"x":      fmt.Sprintf("$%02X", cpu.Reg.X),
		"y":      fmt.Sprintf("$%02X", cpu.Reg.Y),
		"ps":     fmt.Sprintf("$%02X", cpu.Reg.SavePS()),
		"budget": cpu.Mem.Budget,
	}).Debug("step")

	if cpu.Mem.Budget == 0 {
		cpu.State = Halted
	}

	// Update the debugger so it handle breakpoints.
	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}
	return nil
}

// Run steps the CPU until it halts. It returns nil when the budget runs
// out and a *Fault when an instruction cannot be executed.
func (cpu *CPU) Run() error {
	for cpu.State == Running {
		if err := cpu.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Fetch, decode and execute the instruction at PC.
func (cpu *CPU) execute() (Instruction, error) {
	cpu.spent, cpu.limit = 0, maxCycles

	opcode, err := cpu.fetch()
	if err != nil {
		return Instruction{}, err
	}

	inst, ok := cpu.InstSet.Lookup(opcode)
	if !ok {
		return inst, ErrIllegalOpcode
	}
	cpu.limit = inst.Cycles

	var buf [2]byte
	operand := buf[:inst.Length-1]
	for i := range operand {
		if operand[i], err = cpu.fetch(); err != nil {
			return inst, err
		}
	}

	if err := inst.fn(cpu, &inst, operand); err != nil {
		return inst, err
	}

	// Internal cycles make up whatever the bus accesses did not use.
	for cpu.spent < cpu.limit {
		cpu.tick()
	}
	return inst, nil
}

// Spend one cycle of the current instruction. Spending more cycles than
// the instruction table allows is an error.
func (cpu *CPU) tick() error {
	if cpu.spent >= cpu.limit {
		return ErrCycleTable
	}
	cpu.spent++
	cpu.Cycles++
	cpu.Mem.Spend(1)
	return nil
}

// Read the byte at PC and advance PC past it.
func (cpu *CPU) fetch() (byte, error) {
	v, err := cpu.Mem.LoadByte(int(cpu.Reg.PC))
	if err != nil {
		return 0, err
	}
	if cpu.Reg.PC == 0xffff {
		return 0, ErrOutOfRange
	}
	cpu.Reg.PC++
	return v, cpu.tick()
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the currently debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

// Load a byte value from using the requested addressing mode
// and the operand to determine where to load it from.
func (cpu *CPU) load(mode Mode, operand []byte) (byte, error) {
	switch mode {
	case IMM:
		return operand[0], nil
	case ZPG, ABS:
		if err := cpu.tick(); err != nil {
			return 0, err
		}
		return cpu.Mem.LoadByte(int(operandToAddress(operand)))
	case ACC:
		return cpu.Reg.A, nil
	default:
		return 0, fmt.Errorf("%w: cannot load using %s", ErrUnimplemented, mode)
	}
}

// Store a byte value using the specified addressing mode and the
// variable-sized instruction operand to determine where to store it.
func (cpu *CPU) store(mode Mode, operand []byte, v byte) error {
	switch mode {
	case ZPG, ABS:
		if err := cpu.tick(); err != nil {
			return err
		}
		return cpu.storeByte(cpu, operandToAddress(operand), v)
	case ACC:
		cpu.Reg.A = v
		return nil
	default:
		return fmt.Errorf("%w: cannot store using %s", ErrUnimplemented, mode)
	}
}

// Execute a branch using the instruction operand. Branches cost the same
// whether or not they are taken.
func (cpu *CPU) branch(operand []byte) error {
	target := int(cpu.Reg.PC) + int(int8(operand[0]))
	if target < 0 || target >= ImageSize {
		return ErrOutOfRange
	}
	cpu.Reg.PC = uint16(target)
	return nil
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteNormal(addr uint16, v byte) error {
	return cpu.Mem.StoreByte(int(addr), v)
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteDebugger(addr uint16, v byte) error {
	cpu.debugger.onDataStore(cpu, addr, v)
	return cpu.Mem.StoreByte(int(addr), v)
}

// Update the Zero and Negative flags based on the value of 'v'.
func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.Zero = Zero(v)
	cpu.Reg.Negative = Negative(v)
}

// Add with carry (binary mode only)
func (cpu *CPU) adc(inst *Instruction, operand []byte) error {
	b, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	acc := uint32(cpu.Reg.A)
	add := uint32(b)
	carry := boolToUint32(cpu.Reg.Carry)

	v := acc + add + carry
	cpu.Reg.Carry = (v >= 0x100)
	cpu.Reg.Overflow = (((acc & 0x80) == (add & 0x80)) && ((acc & 0x80) != (v & 0x80)))

	cpu.Reg.A = byte(v)
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Boolean AND
func (cpu *CPU) and(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.A &= v
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Arithmetic Shift Left
func (cpu *CPU) asl(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.Carry = ((v & 0x80) == 0x80)
	v = v << 1
	cpu.updateNZ(v)
	return cpu.store(inst.Mode, operand, v)
}

// Branch if Carry Clear
func (cpu *CPU) bcc(inst *Instruction, operand []byte) error {
	if !cpu.Reg.Carry {
		return cpu.branch(operand)
	}
	return nil
}

// Branch if Carry Set
func (cpu *CPU) bcs(inst *Instruction, operand []byte) error {
	if cpu.Reg.Carry {
		return cpu.branch(operand)
	}
	return nil
}

// Branch if EQual (to zero)
func (cpu *CPU) beq(inst *Instruction, operand []byte) error {
	if cpu.Reg.Zero {
		return cpu.branch(operand)
	}
	return nil
}

// Bit Test
func (cpu *CPU) bit(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.Zero = Zero(v & cpu.Reg.A)
	cpu.Reg.Negative = Negative(v)
	cpu.Reg.Overflow = ((v & 0x40) != 0)
	return nil
}

// Branch if MInus (negative)
func (cpu *CPU) bmi(inst *Instruction, operand []byte) error {
	if cpu.Reg.Negative {
		return cpu.branch(operand)
	}
	return nil
}

// Branch if Not Equal (not zero)
func (cpu *CPU) bne(inst *Instruction, operand []byte) error {
	if !cpu.Reg.Zero {
		return cpu.branch(operand)
	}
	return nil
}

// Branch if PLus (positive)
func (cpu *CPU) bpl(inst *Instruction, operand []byte) error {
	if !cpu.Reg.Negative {
		return cpu.branch(operand)
	}
	return nil
}

// Branch if oVerflow Clear
func (cpu *CPU) bvc(inst *Instruction, operand []byte) error {
	if !cpu.Reg.Overflow {
		return cpu.branch(operand)
	}
	return nil
}

// Branch if oVerflow Set
func (cpu *CPU) bvs(inst *Instruction, operand []byte) error {
	if cpu.Reg.Overflow {
		return cpu.branch(operand)
	}
	return nil
}

// Clear Carry flag
func (cpu *CPU) clc(inst *Instruction, operand []byte) error {
	cpu.Reg.Carry = false
	return nil
}

// Clear Decimal flag
func (cpu *CPU) cld(inst *Instruction, operand []byte) error {
	cpu.Reg.Decimal = false
	return nil
}

// Clear InterruptDisable flag
func (cpu *CPU) cli(inst *Instruction, operand []byte) error {
	cpu.Reg.InterruptDisable = false
	return nil
}

// Clear oVerflow flag
func (cpu *CPU) clv(inst *Instruction, operand []byte) error {
	cpu.Reg.Overflow = false
	return nil
}

// Compare a register to a loaded value.
func (cpu *CPU) compare(reg byte, inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.Carry = (reg >= v)
	cpu.updateNZ(reg - v)
	return nil
}

// Compare to accumulator
func (cpu *CPU) cmp(inst *Instruction, operand []byte) error {
	return cpu.compare(cpu.Reg.A, inst, operand)
}

// Compare to X register
func (cpu *CPU) cpx(inst *Instruction, operand []byte) error {
	return cpu.compare(cpu.Reg.X, inst, operand)
}

// Compare to Y register
func (cpu *CPU) cpy(inst *Instruction, operand []byte) error {
	return cpu.compare(cpu.Reg.Y, inst, operand)
}

// Decrement memory value
func (cpu *CPU) dec(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	v--
	cpu.updateNZ(v)
	return cpu.store(inst.Mode, operand, v)
}

// Decrement X register
func (cpu *CPU) dex(inst *Instruction, operand []byte) error {
	cpu.Reg.X--
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// Decrement Y register
func (cpu *CPU) dey(inst *Instruction, operand []byte) error {
	cpu.Reg.Y--
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

// Boolean XOR
func (cpu *CPU) eor(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.A ^= v
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Increment memory value
func (cpu *CPU) inc(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	v++
	cpu.updateNZ(v)
	return cpu.store(inst.Mode, operand, v)
}

// Increment X register
func (cpu *CPU) inx(inst *Instruction, operand []byte) error {
	cpu.Reg.X++
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// Increment Y register
func (cpu *CPU) iny(inst *Instruction, operand []byte) error {
	cpu.Reg.Y++
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

// Jump to memory address
func (cpu *CPU) jmp(inst *Instruction, operand []byte) error {
	cpu.Reg.PC = operandToAddress(operand)
	return nil
}

// load Accumulator
func (cpu *CPU) lda(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.A = v
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// load the X register
func (cpu *CPU) ldx(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.X = v
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// load the Y register
func (cpu *CPU) ldy(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.Y = v
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

// Logical Shift Right
func (cpu *CPU) lsr(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.Carry = ((v & 1) == 1)
	v = v >> 1
	cpu.updateNZ(v)
	return cpu.store(inst.Mode, operand, v)
}

// No-operation
func (cpu *CPU) nop(inst *Instruction, operand []byte) error {
	return nil
}

// Boolean OR
func (cpu *CPU) ora(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.A |= v
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Rotate Left
func (cpu *CPU) rol(inst *Instruction, operand []byte) error {
	tmp, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	v := (tmp << 1) | boolToByte(cpu.Reg.Carry)
	cpu.Reg.Carry = ((tmp & 0x80) != 0)
	cpu.updateNZ(v)
	return cpu.store(inst.Mode, operand, v)
}

// Rotate Right
func (cpu *CPU) ror(inst *Instruction, operand []byte) error {
	tmp, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	v := (tmp >> 1) | (boolToByte(cpu.Reg.Carry) << 7)
	cpu.Reg.Carry = ((tmp & 1) != 0)
	cpu.updateNZ(v)
	return cpu.store(inst.Mode, operand, v)
}

// Subtract with Carry (binary mode only)
func (cpu *CPU) sbc(inst *Instruction, operand []byte) error {
	b, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	acc := uint32(cpu.Reg.A)
	sub := uint32(b)
	carry := boolToUint32(cpu.Reg.Carry)

	v := 0xff + acc - sub + carry
	cpu.Reg.Carry = (v >= 0x100)
	cpu.Reg.Overflow = (((acc & 0x80) != (sub & 0x80)) && ((acc & 0x80) != (v & 0x80)))

	cpu.Reg.A = byte(v)
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Set Carry flag
func (cpu *CPU) sec(inst *Instruction, operand []byte) error {
	cpu.Reg.Carry = true
	return nil
}

// Set Decimal flag
func (cpu *CPU) sed(inst *Instruction, operand []byte) error {
	cpu.Reg.Decimal = true
	return nil
}

// Set InterruptDisable flag
func (cpu *CPU) sei(inst *Instruction, operand []byte) error {
	cpu.Reg.InterruptDisable = true
	return nil
}

// Store Accumulator
func (cpu *CPU) sta(inst *Instruction, operand []byte) error {
	return cpu.store(inst.Mode, operand, cpu.Reg.A)
}

// Store X register
func (cpu *CPU) stx(inst *Instruction, operand []byte) error {
	return cpu.store(inst.Mode, operand, cpu.Reg.X)
}

// Store Y register
func (cpu *CPU) sty(inst *Instruction, operand []byte) error {
	return cpu.store(inst.Mode, operand, cpu.Reg.Y)
}

// Transfer Accumulator to X register
func (cpu *CPU) tax(inst *Instruction, operand []byte) error {
	cpu.Reg.X = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// Transfer Accumulator to Y register
func (cpu *CPU) tay(inst *Instruction, operand []byte) error {
	cpu.Reg.Y = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

// Transfer X register to Accumulator
func (cpu *CPU) txa(inst *Instruction, operand []byte) error {
	cpu.Reg.A = cpu.Reg.X
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Transfer Y register to the Accumulator
func (cpu *CPU) tya(inst *Instruction, operand []byte) error {
	cpu.Reg.A = cpu.Reg.Y
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Stack and interrupt instructions assemble but do not execute.
func (cpu *CPU) unimplemented(inst *Instruction, operand []byte) error {
	return fmt.Errorf("%w: %s", ErrUnimplemented, inst.Name)
}
