// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/beevik/mini6502/cpu"
)

var hex = "0123456789ABCDEF"

func ishex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexchar(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// Convert a two-digit hexadecimal string into a byte.
func hexToByte(s string) (byte, error) {
	if len(s) != 2 || !ishex(s[0]) || !ishex(s[1]) {
		return 0, fmt.Errorf("%w: '%s' is not a 2-digit hex value", ErrSyntax, s)
	}
	return hexchar(s[0])<<4 | hexchar(s[1]), nil
}

// Convert a decimal string in the range 0-255 into a byte.
func stringToByte(s string) (byte, error) {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, fmt.Errorf("%w: '%s' is not a decimal value", ErrSyntax, s)
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s' is not a byte value", ErrSyntax, s)
	}
	return byte(v), nil
}

// Convert a hexadecimal address string (without its '$' prefix) into an
// address. Values beyond the 16-bit address space are out of range.
func parseHexAddress(s string) (int, error) {
	if s == "" || !ishex(s[0]) {
		return 0, fmt.Errorf("%w: '$%s' is not a hex address", ErrSyntax, s)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return 0, fmt.Errorf("%w: $%s", cpu.ErrOutOfRange, s)
	case err != nil:
		return 0, fmt.Errorf("%w: '$%s' is not a hex address", ErrSyntax, s)
	case v > 0xffff:
		return 0, fmt.Errorf("%w: $%s", cpu.ErrOutOfRange, s)
	}
	return int(v), nil
}

// Report whether an address lies in the zero page.
func isZeroPage(addr int) bool {
	return addr >= 0 && addr < 0x100
}

// Return a little-endian representation of the value using the requested
// number of bytes.
func toBytes(bytes, value int) []byte {
	switch bytes {
	case 0:
		return nil
	case 1:
		return []byte{byte(value)}
	default:
		return []byte{byte(value), byte(value >> 8)}
	}
}

// Return a hexadecimal string representation of a byte slice.
func byteString(b []byte) string {
	if len(b) < 1 {
		return ""
	}

	s := make([]byte, len(b)*3-1)
	i, j := 0, 0
	for n := len(b) - 1; i < n; i, j = i+1, j+3 {
		s[j+0] = hex[(b[i] >> 4)]
		s[j+1] = hex[(b[i] & 0x0f)]
		s[j+2] = ' '
	}
	s[j+0] = hex[(b[i] >> 4)]
	s[j+1] = hex[(b[i] & 0x0f)]
	return string(s)
}
