// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding

import (
	"encoding/binary"
	"errors"
)

var (
	errInputNegative = errors.New("negative input")
	errInputLarge    = errors.New("input is too high for length")
	errLengthInvalid = errors.New("length must be between 1 and 4")
)

// I2OSP 32-bit Integer to Octet Stream Primitive on maximum 4 bytes. Lengths and values are always set by the
// package itself, so misuse panics.
func I2OSP(value int, length uint16) []byte {
	if length == 0 || length > 4 {
		panic(errLengthInvalid)
	}

	if value < 0 {
		panic(errInputNegative)
	}

	if uint64(value) >= 1<<(8*uint64(length)) {
		panic(errInputLarge)
	}

	out := binary.BigEndian.AppendUint32(nil, uint32(value))

	return out[4-length:]
}

// OS2IP Octet Stream to Integer Primitive on maximum 4 bytes / 32 bits. Inputs longer than 4 bytes or empty yield 0,
// callers check lengths beforehand.
func OS2IP(input []byte) int {
	if len(input) == 0 || len(input) > 4 {
		return 0
	}

	var buf [4]byte
	copy(buf[4-len(input):], input)

	return int(binary.BigEndian.Uint32(buf[:]))
}
