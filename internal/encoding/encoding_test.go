// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding

import (
	"bytes"
	"errors"
	"testing"
)

func hasPanic(f func()) (has bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			has = true

			if e, ok := r.(error); ok {
				err = e
			}
		}
	}()

	f()

	return has, err
}

func TestEncodeVectorLenPanic(t *testing.T) {
	if has, err := hasPanic(func() { EncodeVectorLen(nil, 3) }); !has || !errors.Is(err, errVectorLengthHeader) {
		t.Fatalf("expected a panic with %v, got %v", errVectorLengthHeader, err)
	}

	if has, _ := hasPanic(func() { EncodeVectorLen(make([]byte, 256), 1) }); !has {
		t.Fatal("expected a panic on a vector too long for its header")
	}
}

func TestDecodeVectors(t *testing.T) {
	a, b, c := []byte("first"), []byte{}, []byte("third vector")
	encoded := Concatenate(EncodeVector(a), EncodeVector(b), EncodeVector(c))

	var da, db, dc []byte
	if err := DecodeVectors(encoded, &da, &db, &dc); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(a, da) || len(db) != 0 || !bytes.Equal(c, dc) {
		t.Fatal("decoded vectors differ")
	}

	if err := DecodeVectors(encoded[:len(encoded)-1], &da, &db, &dc); !errors.Is(err, ErrVectorLength) {
		t.Fatalf("expected %v, got %v", ErrVectorLength, err)
	}

	if err := DecodeVectors(encoded, &da, &db); !errors.Is(err, ErrTrailingData) {
		t.Fatalf("expected %v, got %v", ErrTrailingData, err)
	}

	if err := DecodeVectors([]byte{0}, &da); !errors.Is(err, ErrVectorLength) {
		t.Fatalf("expected %v, got %v", ErrVectorLength, err)
	}

	if err := DecodeVectors([]byte{0xff, 0xff, 1}, &da); !errors.Is(err, ErrVectorLength) {
		t.Fatalf("expected %v, got %v", ErrVectorLength, err)
	}
}

func TestI2OSP(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   int
		size    uint16
	}{
		{value: 0, size: 1, encoded: []byte{0}},
		{value: 255, size: 1, encoded: []byte{0xff}},
		{value: 256, size: 2, encoded: []byte{1, 0}},
		{value: 65535, size: 2, encoded: []byte{0xff, 0xff}},
		{value: 1 << 24, size: 4, encoded: []byte{1, 0, 0, 0}},
	}

	for _, test := range tests {
		if r := I2OSP(test.value, test.size); !bytes.Equal(r, test.encoded) {
			t.Errorf("I2OSP(%d, %d) = %v, want %v", test.value, test.size, r, test.encoded)
		}

		if r := OS2IP(test.encoded); r != test.value {
			t.Errorf("OS2IP(%v) = %d, want %d", test.encoded, r, test.value)
		}
	}

	if OS2IP(nil) != 0 || OS2IP(make([]byte, 5)) != 0 {
		t.Error("OS2IP must return 0 on invalid lengths")
	}
}

func TestI2OSP_Panics(t *testing.T) {
	for name, f := range map[string]func(){
		"length 0":  func() { I2OSP(1, 0) },
		"length 5":  func() { I2OSP(1, 5) },
		"negative":  func() { I2OSP(-1, 2) },
		"too large": func() { I2OSP(256, 1) },
	} {
		if has, _ := hasPanic(f); !has {
			t.Errorf("%s: expected a panic", name)
		}
	}
}
