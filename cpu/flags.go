// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Negative reports whether v has bit 7 set.
func Negative(v byte) bool {
	return (v & 0x80) != 0
}

// Zero reports whether v is zero.
func Zero(v byte) bool {
	return v == 0
}
