// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// ImageSize is the number of addressable bytes in a memory image.
const ImageSize = 64 * 1024

// An Image is the 16-bit address space the assembler writes into and the
// CPU executes from, together with the cycle budget the assembler computed
// for the program it holds. Addresses are ints so that an access one past
// the end of the address space is reported instead of wrapping.
type Image struct {
	b      [ImageSize]byte
	Budget uint32 // remaining CPU cycles
}

// NewImage creates a zero-filled memory image with an empty budget.
func NewImage() *Image {
	return &Image{}
}

func checkRange(addr, n int) error {
	if addr < 0 || n < 0 || addr+n > ImageSize {
		return ErrOutOfRange
	}
	return nil
}

// LoadByte loads a single byte from the address and returns it.
func (m *Image) LoadByte(addr int) (byte, error) {
	if err := checkRange(addr, 1); err != nil {
		return 0, err
	}
	return m.b[addr], nil
}

// LoadBytes loads len(b) bytes starting at the address into b.
func (m *Image) LoadBytes(addr int, b []byte) error {
	if err := checkRange(addr, len(b)); err != nil {
		return err
	}
	copy(b, m.b[addr:])
	return nil
}

// StoreByte stores a byte at the requested address.
func (m *Image) StoreByte(addr int, v byte) error {
	if err := checkRange(addr, 1); err != nil {
		return err
	}
	m.b[addr] = v
	return nil
}

// StoreBytes stores multiple bytes to the requested address. Nothing is
// stored unless all of b fits in the image.
func (m *Image) StoreBytes(addr int, b []byte) error {
	if err := checkRange(addr, len(b)); err != nil {
		return err
	}
	copy(m.b[addr:], b)
	return nil
}

// Reset zero-fills the image and empties the budget.
func (m *Image) Reset() {
	clear(m.b[:])
	m.Budget = 0
}

// Spend removes n cycles from the budget. The budget never drops below
// zero.
func (m *Image) Spend(n uint32) {
	if n >= m.Budget {
		m.Budget = 0
	} else {
		m.Budget -= n
	}
}

// Convert a 1- or 2-byte operand into an address.
func operandToAddress(operand []byte) uint16 {
	switch {
	case len(operand) == 1:
		return uint16(operand[0])
	case len(operand) == 2:
		return uint16(operand[0]) | uint16(operand[1])<<8
	}
	return 0
}
