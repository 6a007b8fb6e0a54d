// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package encoding provides encoding utilities.
package encoding

import (
	"errors"
)

var (
	// ErrVectorLength indicates a length header pointing outside the input.
	ErrVectorLength = errors.New("vector length header exceeds input")

	// ErrTrailingData indicates bytes left over after decoding all expected vectors.
	ErrTrailingData = errors.New("trailing data after last vector")

	errVectorLengthHeader = errors.New("vector length header must be 1 or 2 bytes")
)

// EncodeVectorLen returns the input prepended with a byte encoding of its length.
func EncodeVectorLen(input []byte, length uint16) []byte {
	switch length {
	case 1, 2:
		return Concat(I2OSP(len(input), length), input)
	default:
		panic(errVectorLengthHeader)
	}
}

// EncodeVector returns the input with a two-byte encoding of its length.
func EncodeVector(input []byte) []byte {
	return EncodeVectorLen(input, 2)
}

// DecodeVectors reads consecutive two-byte length-prefixed vectors from data into out. All of data must be consumed.
// The decoded slices alias data.
func DecodeVectors(data []byte, out ...*[]byte) error {
	offset := 0

	for _, o := range out {
		if len(data)-offset < 2 {
			return ErrVectorLength
		}

		l := OS2IP(data[offset : offset+2])
		offset += 2

		if len(data)-offset < l {
			return ErrVectorLength
		}

		*o = data[offset : offset+l]
		offset += l
	}

	if offset != len(data) {
		return ErrTrailingData
	}

	return nil
}

// Concatenate returns the concatenation of all inputs in a newly allocated slice.
func Concatenate(input ...[]byte) []byte {
	length := 0
	for _, b := range input {
		length += len(b)
	}

	buf := make([]byte, 0, length)
	for _, in := range input {
		buf = append(buf, in...)
	}

	return buf
}

// Concat returns a || b.
func Concat(a, b []byte) []byte {
	return Concatenate(a, b)
}

// SuffixString returns a || b.
func SuffixString(a []byte, b string) []byte {
	return Concatenate(a, []byte(b))
}
