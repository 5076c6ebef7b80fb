// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a line-oriented assembler for the instruction
// subset supported by the cpu package. Each line holds one instruction
// and at most one operand. Assembled bytes are written straight into a
// memory image, and the cycle cost of every instruction is added to the
// image's budget.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/mini6502/cpu"
)

// The assembler is a state object used during the assembly of
// machine code from assembly code.
type assembler struct {
	instSet     *cpu.InstructionSet // instruction tables
	mem         *cpu.Image          // image receiving the machine code
	file        string              // source file name
	origin      int                 // address of the first instruction
	pc          int                 // the write cursor
	code        []byte              // generated machine code
	cycles      uint32              // total cycle cost of the code
	sourceLines []SourceLine        // source code line mappings
	out         io.Writer           // output used for verbose output
	verbose     bool                // verbose output
}

// Assembly contains the assembled machine code and other data associated with
// the machine code.
type Assembly struct {
	Code      []byte     // Assembled machine code
	SourceMap *SourceMap // Address to source line mapping
}

// WriteTo saves machine code as binary data into an output writer.
func (a *Assembly) WriteTo(w io.Writer) (n int64, err error) {
	nn, err := w.Write(a.Code)
	return int64(nn), err
}

// Option type used by the Assemble function.
type Option uint

// Options for the Assemble function.
const (
	Verbose Option = 1 << iota // verbose output during assembly
)

const defaultOrigin = 0x0000

// AssembleFile reads a file containing assembly code and assembles it into
// the memory image.
func AssembleFile(path string, mem *cpu.Image, out io.Writer, options Option) (*Assembly, error) {
	inFile, err := os.Open(path)
	if err != nil {
		return nil, &Error{File: path, Err: fmt.Errorf("%w: %v", ErrSourceIO, err)}
	}
	defer inFile.Close()

	return Assemble(inFile, path, mem, out, options)
}

// Assemble reads assembly code from the provided stream and writes the
// machine code into the memory image, starting at address 0. Assembly
// stops at the first line that cannot be assembled. Code generated by the
// lines before it remains in the image, and the returned error is an
// *Error describing the failing line.
func Assemble(r io.Reader, filename string, mem *cpu.Image, out io.Writer, options Option) (*Assembly, error) {
	if out == nil {
		out = os.Stdout
	}

	a := &assembler{
		instSet: cpu.GetInstructionSet(),
		mem:     mem,
		file:    filename,
		origin:  defaultOrigin,
		pc:      defaultOrigin,
		out:     out,
		verbose: (options & Verbose) != 0,
	}

	a.logSection("Assembling " + filepath.Base(filename))
	err := a.parse(r)
	if err != nil && a.verbose {
		fmt.Fprintln(a.out, err)
	}

	assembly := &Assembly{
		Code: a.code,
		SourceMap: &SourceMap{
			Origin: uint16(a.origin),
			Size:   uint32(len(a.code)),
			Cycles: a.cycles,
			Files:  []string{filename},
			Lines:  a.sourceLines,
		},
	}
	a.log("Assembled %d bytes, %d cycles", len(a.code), a.cycles)
	return assembly, err
}

// SaveFiles writes the machine code of an assembly to a binary file and
// its source map to a map file, both named after the source path. It
// returns the names of the files written.
func SaveFiles(path string, assembly *Assembly) (binPath, mapPath string, err error) {
	ext := filepath.Ext(path)
	prefix := path[:len(path)-len(ext)]

	binPath = prefix + ".bin"
	binFile, err := os.OpenFile(binPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", "", err
	}
	defer binFile.Close()

	if _, err = assembly.WriteTo(binFile); err != nil {
		return "", "", err
	}

	mapPath = prefix + ".map"
	mapFile, err := os.OpenFile(mapPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", "", err
	}
	defer mapFile.Close()

	if _, err = assembly.SourceMap.WriteTo(mapFile); err != nil {
		return "", "", err
	}
	return binPath, mapPath, nil
}

// Read the assembly code one line at a time, assembling each line as
// it is read.
func (a *assembler) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		if err := a.parseLine(row, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return &Error{File: a.file, Line: row + 1, Err: fmt.Errorf("%w: %v", ErrSourceIO, err)}
	}
	return nil
}

// Assemble a single line of source code.
func (a *assembler) parseLine(row int, text string) error {
	line := text
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(line)
	var operand string
	switch len(fields) {
	case 0:
		return nil
	case 1:
	case 2:
		operand = fields[1]
	default:
		return a.lineError(row, text, fmt.Errorf("%w: unexpected '%s'", ErrSyntax, fields[2]))
	}

	m, ok := cpu.LookupMnemonic(fields[0])
	if !ok {
		return a.lineError(row, text, fmt.Errorf("%w: unknown instruction '%s'", ErrSyntax, fields[0]))
	}

	enc, err := Resolve(a.instSet, m, operand)
	if err != nil {
		return a.lineError(row, text, err)
	}

	code := enc.Bytes()
	if err := a.mem.StoreBytes(a.pc, code); err != nil {
		return a.lineError(row, text, fmt.Errorf("%w: %d bytes at $%04X", err, len(code), a.pc))
	}

	a.logLine(row, text, "%s %s", enc.Inst.Name, enc.Inst.Mode)
	a.logBytes(a.pc, code)

	a.sourceLines = append(a.sourceLines, SourceLine{
		Address:   a.pc,
		FileIndex: 0,
		Line:      row,
	})
	a.code = append(a.code, code...)
	a.pc += len(code)
	a.cycles += uint32(enc.Inst.Cycles)
	a.mem.Budget += uint32(enc.Inst.Cycles)
	return nil
}

func (a *assembler) lineError(row int, text string, err error) error {
	return &Error{File: a.file, Line: row, Text: strings.TrimSpace(text), Err: err}
}

// In verbose mode, log a string to standard output.
func (a *assembler) log(format string, args ...any) {
	if a.verbose {
		fmt.Fprintf(a.out, format, args...)
		fmt.Fprintf(a.out, "\n")
	}
}

// In verbose mode, log a string and its associated line
// of assembly code.
func (a *assembler) logLine(row int, text string, format string, args ...any) {
	if a.verbose {
		detail := fmt.Sprintf(format, args...)
		fmt.Fprintf(a.out, "%-3d | %-20s | %s\n", row, detail, strings.TrimSpace(text))
	}
}

// In verbose mode, log a series of bytes with starting address.
func (a *assembler) logBytes(addr int, b []byte) {
	if a.verbose {
		a.log("%04X-*  %s", addr, byteString(b))
	}
}

// In verbose mode, log a section header to the standard output.
func (a *assembler) logSection(name string) {
	if a.verbose {
		fmt.Fprintln(a.out, strings.Repeat("-", len(name)+6))
		fmt.Fprintf(a.out, "-- %s --\n", name)
		fmt.Fprintln(a.out, strings.Repeat("-", len(name)+6))
	}
}
