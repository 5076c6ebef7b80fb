// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	errExprNotInt   = errors.New("expression is not an integer")
	errExprTooLarge = errors.New("expression value too large")
)

// Hexadecimal literals are written $1234 in host commands.
var hexLiteral = regexp.MustCompile(`\$([0-9a-fA-F]+)`)

// Evaluate an integer expression. Register names and the remaining cycle
// budget may be used as identifiers.
func (h *Host) evaluate(expr string) (int64, error) {
	expr = hexLiteral.ReplaceAllString(expr, "0x$1")
	prog := "rc = " + strings.ToLower(expr) + "\n"

	thread := starlark.Thread{Name: "evaluate"}
	opts := syntax.FileOptions{}
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, h.identifiers())
	if err != nil {
		return 0, err
	}

	rc, ok := dict["rc"].(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("%w: %s", errExprNotInt, dict["rc"].Type())
	}
	v, ok := rc.Int64()
	if !ok {
		return 0, errExprTooLarge
	}
	return v, nil
}

// Evaluate an expression and truncate it to a 16-bit address. Negative
// values wrap.
func (h *Host) parseExpr(expr string) (uint16, error) {
	v, err := h.evaluate(expr)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		v = 0x10000 + v
	}
	return uint16(v), nil
}

func (h *Host) identifiers() starlark.StringDict {
	r := &h.cpu.Reg
	return starlark.StringDict{
		"a":      starlark.MakeInt(int(r.A)),
		"x":      starlark.MakeInt(int(r.X)),
		"y":      starlark.MakeInt(int(r.Y)),
		"sp":     starlark.MakeInt(int(r.SP)),
		"pc":     starlark.MakeInt(int(r.PC)),
		"ps":     starlark.MakeInt(int(r.SavePS())),
		"budget": starlark.MakeUint64(uint64(h.mem.Budget)),
		"cycles": starlark.MakeUint64(h.cpu.Cycles),
	}
}
