// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" that wraps the mini6502 CPU,
// its 64K memory image, the assembler, a debugger, and other useful tools.
//
// Within the host it is possible to assemble machine code into memory,
// run and step through it within its cycle budget, set address and data
// breakpoints, dump and modify the contents of memory, disassemble memory,
// manipulate CPU registers, and evaluate arbitrary expressions.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/beevik/cmd"
	"github.com/beevik/mini6502/asm"
	"github.com/beevik/mini6502/cpu"
	"github.com/beevik/mini6502/disasm"
	"github.com/sirupsen/logrus"
)

var errQuit = errors.New("exiting program")

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayCycles
	displaySource

	displayAll = displayRegisters | displayCycles | displaySource
)

type state int32

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
	stateInterrupted
)

// A Host represents an emulated mini6502 system with its memory image, a
// built-in assembler, a built-in debugger, and other useful tools.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	mem         *cpu.Image
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	log         *logrus.Logger
	lastCmd     *cmd.Selection
	state       atomic.Int32 // written by Break from other goroutines
	budget      uint32       // budget computed by the last assembly
	source      string
	assembly    *asm.Assembly
	sourceMap   *asm.SourceMap
	settings    *settings
}

// New creates a new mini6502 host environment.
func New() *Host {
	h := &Host{
		output:   bufio.NewWriter(os.Stdout),
		settings: newSettings(),
	}

	// Create the emulated CPU and memory image.
	h.mem = cpu.NewImage()
	h.cpu = cpu.NewCPU(h.mem)

	// Execution traces go to the host output while tracing is enabled.
	h.log = logrus.New()
	h.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	h.log.SetLevel(logrus.DebugLevel)
	h.cpu.SetLogger(h.log)

	// Create a CPU debugger and attach it to the CPU.
	h.debugger = cpu.NewDebugger(newDebugHandler(h))
	h.cpu.AttachDebugger(h.debugger)

	h.onSettingsUpdate()
	return h
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive
	h.onSettingsUpdate()

	if interactive {
		h.println()
	}

	h.displayPC()

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				h.println("Command not found.")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		hc := c.Command.Data.(*command)
		err = hc.handler(h, c)
		if err != nil {
			break
		}
	}
	h.flush()
}

// AssembleFile assembles a file into the host's memory image. Nothing is
// written to disk; use SaveFiles for that.
func (h *Host) AssembleFile(filename string, verbose bool) error {
	var options asm.Option
	if verbose {
		options |= asm.Verbose
	}

	h.mem.Reset()
	h.cpu.Reset()
	h.source, h.assembly, h.sourceMap = "", nil, nil

	assembly, err := asm.AssembleFile(filename, h.mem, h.output, options)
	h.budget = h.mem.Budget
	if err != nil {
		h.printf("%v\n", err)
		return err
	}

	h.source, h.assembly, h.sourceMap = filename, assembly, assembly.SourceMap
	h.settings.NextDisasmAddr = 0
	h.settings.NextMemDumpAddr = 0
	h.printf("Assembled '%s'.\n", filename)
	h.printf("%d bytes, budget %d cycles.\n", len(assembly.Code), h.mem.Budget)
	return nil
}

// SaveFiles writes the machine code and source map of the last successful
// assembly next to its source file.
func (h *Host) SaveFiles() error {
	if h.assembly == nil {
		err := errors.New("nothing assembled")
		h.printf("%v\n", err)
		return err
	}

	binPath, mapPath, err := asm.SaveFiles(h.source, h.assembly)
	if err != nil {
		h.printf("%v\n", err)
		return err
	}

	h.printf("Saved '%s' and '%s'.\n", binPath, mapPath)
	return nil
}

// Break interrupts a running CPU. It is safe to call from another
// goroutine, such as a signal handler. It has no effect while the host is
// waiting for commands.
func (h *Host) Break() {
	h.state.CompareAndSwap(int32(stateRunning), int32(stateInterrupted))
}

func (h *Host) getState() state {
	return state(h.state.Load())
}

func (h *Host) setState(s state) {
	h.state.Store(int32(s))
}

// Leave the running state, reporting an interruption requested by Break.
func (h *Host) stopRunning() {
	if state(h.state.Swap(int32(stateProcessingCommands))) == stateInterrupted {
		h.printf("Interrupted at $%04X.\n", h.cpu.Reg.PC)
		h.displayPC()
	}
}

func (h *Host) write(p []byte) (n int, err error) {
	n, err = h.output.Write(p)
	h.flush()
	return n, err
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
		h.println(d)
	}
}

func (h *Host) cmdAssemble(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	verbose := h.settings.Verbose
	if len(c.Args) >= 2 {
		v, err := stringToBool(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		verbose = v
	}

	h.AssembleFile(c.Args[0], verbose)
	return nil
}

func (h *Host) cmdSave(c cmd.Selection) error {
	h.SaveFiles()
	return nil
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled")
	h.println("----- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	b := h.lookupBreakpoint(c)
	if b == nil {
		return nil
	}

	h.debugger.RemoveBreakpoint(b.Address)
	h.printf("Breakpoint at $%04X removed.\n", b.Address)
	return nil
}

func (h *Host) cmdBreakpointEnable(c cmd.Selection) error {
	b := h.lookupBreakpoint(c)
	if b == nil {
		return nil
	}

	b.Disabled = false
	h.printf("Breakpoint at $%04X enabled.\n", b.Address)
	return nil
}

func (h *Host) cmdBreakpointDisable(c cmd.Selection) error {
	b := h.lookupBreakpoint(c)
	if b == nil {
		return nil
	}

	b.Disabled = true
	h.printf("Breakpoint at $%04X disabled.\n", b.Address)
	return nil
}

func (h *Host) lookupBreakpoint(c cmd.Selection) *cpu.Breakpoint {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
	}
	return b
}

func (h *Host) cmdDataBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled  Value")
	h.println("----- -------  -----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%04X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%04X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if len(c.Args) > 1 {
		value, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, byte(value))
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, byte(value))
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}

	return nil
}

func (h *Host) cmdDataBreakpointRemove(c cmd.Selection) error {
	b := h.lookupDataBreakpoint(c)
	if b == nil {
		return nil
	}

	h.debugger.RemoveDataBreakpoint(b.Address)
	h.printf("Data breakpoint at $%04X removed.\n", b.Address)
	return nil
}

func (h *Host) cmdDataBreakpointEnable(c cmd.Selection) error {
	b := h.lookupDataBreakpoint(c)
	if b == nil {
		return nil
	}

	b.Disabled = false
	h.printf("Data breakpoint at $%04X enabled.\n", b.Address)
	return nil
}

func (h *Host) cmdDataBreakpointDisable(c cmd.Selection) error {
	b := h.lookupDataBreakpoint(c)
	if b == nil {
		return nil
	}

	b.Disabled = true
	h.printf("Data breakpoint at $%04X disabled.\n", b.Address)
	return nil
}

func (h *Host) lookupDataBreakpoint(c cmd.Selection) *cpu.DataBreakpoint {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetDataBreakpoint(addr)
	if b == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
	}
	return b
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextDisasmAddr
	default:
		a, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		l, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = int(l)
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr, displaySource)
		h.println(d)
		if next < addr {
			break
		}
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdEvaluate(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	expr := strings.Join(c.Args, " ")
	v, err := h.evaluate(expr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if v >= 0 && v <= 0xffff {
		h.printf("$%04X (%d)\n", v, v)
	} else {
		h.printf("%d\n", v)
	}
	return nil
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayCommands(cmdsHelp)
		return nil
	}

	name := strings.Join(c.Args, " ")
	if g, ok := groups[strings.ToLower(name)]; ok {
		h.displayCommands(g)
		return nil
	}

	s, err := cmds.Lookup(name)
	switch {
	case err != nil:
		h.printf("%v\n", err)
	case s.Command == nil:
		h.println("Command not found.")
	default:
		hc := s.Command.Data.(*command)
		if hc.Usage != "" {
			h.printf("Syntax: %s\n\n", hc.Usage)
		}
		switch {
		case hc.Description != "":
			h.printf("Description:\n%s\n\n", indentWrap(3, hc.Description))
		case hc.Brief != "":
			h.printf("Description:\n%s.\n\n", indentWrap(3, hc.Brief))
		}
	}
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr
	default:
		a, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := uint16(h.settings.MemDumpBytes)
	if len(c.Args) >= 2 {
		var err error
		bytes, err = h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := make([]byte, 0, len(c.Args)-1)
	for _, s := range c.Args[1:] {
		v, err := h.evaluate(s)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		if v < -128 || v > 0xff {
			h.printf("Value %d is not a byte.\n", v)
			return nil
		}
		b = append(b, byte(v))
	}

	if err := h.mem.StoreBytes(int(addr), b); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("%d byte(s) stored at $%04X.\n", len(b), addr)
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errQuit
}

func (h *Host) cmdRegister(c cmd.Selection) error {
	if len(c.Args) == 0 {
		d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
		h.println(d)
		return nil
	}

	if len(c.Args) < 2 {
		h.displayUsage(c)
		return nil
	}

	key := strings.ToLower(c.Args[0])
	v, err := h.evaluate(strings.Join(c.Args[1:], " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	r := &h.cpu.Reg
	sz := -1
	switch key {
	case "a":
		r.A, sz = byte(v), 1
	case "x":
		r.X, sz = byte(v), 1
	case "y":
		r.Y, sz = byte(v), 1
	case "pc":
		r.PC, sz = uint16(v), 2
	case "n", "negative":
		r.Negative, sz = v != 0, 0
	case "z", "zero":
		r.Zero, sz = v != 0, 0
	case "c", "carry":
		r.Carry, sz = v != 0, 0
	case "i", "interruptdisable":
		r.InterruptDisable, sz = v != 0, 0
	case "d", "decimal":
		r.Decimal, sz = v != 0, 0
	case "v", "overflow":
		r.Overflow, sz = v != 0, 0
	}

	switch sz {
	case 0:
		h.printf("Status flag %s set to %v.\n", strings.ToUpper(key), v != 0)
	case 1:
		h.printf("Register %s set to $%02X.\n", strings.ToUpper(key), byte(v))
	case 2:
		h.printf("Register %s set to $%04X.\n", strings.ToUpper(key), uint16(v))
	default:
		h.printf("Unknown register '%s'.\n", key)
	}
	return nil
}

func (h *Host) cmdReset(c cmd.Selection) error {
	h.cpu.Reset()
	h.mem.Budget = h.budget
	h.printf("CPU reset. Budget %d cycles.\n", h.mem.Budget)
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	if len(c.Args) > 0 {
		pc, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.cpu.SetPC(pc)
	}

	h.printf("Running from $%04X. Press ctrl-C to break.\n", h.cpu.Reg.PC)

	h.setState(stateRunning)
	for h.getState() == stateRunning {
		h.step()
	}
	h.stopRunning()

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage(c)

	default:
		key, value := c.Args[0], strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("setting '%s' not found", key)
		case reflect.String:
			err = h.settings.Set(key, value)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			var v int64
			v, err = h.evaluate(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}

		h.onSettingsUpdate()
	}

	return nil
}

func (h *Host) cmdStep(c cmd.Selection) error {
	// Parse the number of steps.
	count := 1
	if len(c.Args) > 0 {
		n, err := h.parseExpr(c.Args[0])
		if err == nil {
			count = int(n)
		}
	}

	// Step the CPU count times.
	h.setState(stateRunning)
	for i := count - 1; i >= 0 && h.getState() == stateRunning; i-- {
		h.step()
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
			h.println(d)
		}
	}
	h.stopRunning()

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

// Step the CPU once, leaving the running state when it halts or faults.
func (h *Host) step() {
	if h.cpu.State == cpu.Halted {
		h.printf("CPU halted after %d cycles. Budget %d cycles.\n", h.cpu.Cycles, h.mem.Budget)
		h.setState(stateProcessingCommands)
		return
	}

	if err := h.cpu.Step(); err != nil {
		h.printf("%v\n", err)
		h.setState(stateProcessingCommands)
		return
	}

	if h.cpu.State == cpu.Halted && h.getState() == stateRunning {
		h.printf("CPU halted after %d cycles.\n", h.cpu.Cycles)
		h.setState(stateProcessingCommands)
	}
}

func (h *Host) onSettingsUpdate() {
	if h.settings.Trace {
		h.log.SetOutput(writerFunc(h.write))
	} else {
		h.log.SetOutput(io.Discard)
	}
}

// Parse an address argument, where "." stands for the program counter.
func (h *Host) parseAddr(s string) (uint16, error) {
	if s == "." {
		return h.cpu.Reg.PC, nil
	}
	return h.parseExpr(s)
}

func (h *Host) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	var line string
	line, next = disasm.Disassemble(h.mem, addr)

	l := next - addr
	if next < addr {
		l = uint16(0x10000 - int(addr))
	}
	b := make([]byte, l)
	h.mem.LoadBytes(int(addr), b)

	str = fmt.Sprintf("%04X-   %-8s    %-15s", addr, codeString(b), line)

	if (flags & displayRegisters) != 0 {
		str += " " + disasm.GetRegisterString(&h.cpu.Reg)
	}

	if (flags & displayCycles) != 0 {
		str += fmt.Sprintf(" C=%-6d B=%d", h.cpu.Cycles, h.mem.Budget)
	}

	if (flags&displaySource) != 0 && h.sourceMap != nil {
		if file, row := h.sourceMap.Search(int(addr)); row >= 0 {
			str += fmt.Sprintf(" ; %s:%d", filepath.Base(file), row)
		}
	}

	return str, next
}

func (h *Host) dumpMemory(addr0, bytes uint16) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := int(addr0), 6, 32; a <= int(addr1); a, c1, c2 = a+1, c1+3, c2+1 {
			m, _ := h.mem.LoadByte(a)
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := int(addr0) & 0xfff8
	stop := min((int(addr1)+8)&0xffff8, cpu.ImageSize)

	a := start
	for r := start; r < stop; r += 8 {
		addrToBuf(uint16(a), buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= int(addr0) && a <= int(addr1) {
				m, _ := h.mem.LoadByte(a)
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) displayUsage(c cmd.Selection) {
	hc := c.Command.Data.(*command)
	if hc.Usage != "" {
		h.printf("Syntax: %s\n", hc.Usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands(g *commandGroup) {
	h.printf("%s commands:\n", g.name)
	for _, c := range g.commands {
		if c.Brief != "" {
			h.printf("    %-15s  %s\n", c.Name, c.Brief)
		}
	}
	for _, sub := range g.groups {
		h.printf("    %-15s  %s\n", sub.name, sub.brief)
	}
}

func (h *Host) onBreakpoint(cpu *cpu.CPU, b *cpu.Breakpoint) {
	h.setState(stateBreakpoint)
	h.printf("Breakpoint hit at $%04X.\n", b.Address)
	h.displayPC()
}

func (h *Host) onDataBreakpoint(cpu *cpu.CPU, b *cpu.DataBreakpoint) {
	h.printf("Data breakpoint hit on address $%04X.\n", b.Address)

	// The storing instruction has not finished, so only its address is
	// meaningful.
	d, _ := h.disassemble(cpu.LastPC, displaySource)
	h.println(d)

	h.setState(stateBreakpoint)
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}
