// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package oprf

import (
	"bytes"
	"errors"
	"testing"

	group "github.com/bytemare/crypto"
)

var groups = []group.Group{group.Ristretto255Sha512, group.P256Sha256}

func TestOPRF_BlindIndependence(t *testing.T) {
	for _, g := range groups {
		t.Run(g.String(), func(t *testing.T) {
			input := []byte("password")
			key := g.NewScalar().Random()

			evaluate := func() []byte {
				blind := g.NewScalar().Random()

				blinded, err := Blind(g, input, blind)
				if err != nil {
					t.Fatal(err)
				}

				evaluated, err := Evaluate(key, blinded)
				if err != nil {
					t.Fatal(err)
				}

				out, err := Finalize(g, blind, input, evaluated)
				if err != nil {
					t.Fatal(err)
				}

				return out
			}

			first, second := evaluate(), evaluate()
			if !bytes.Equal(first, second) {
				t.Fatal("output depends on the blind")
			}

			other := g.NewScalar().Random()
			blind := g.NewScalar().Random()
			blinded, _ := Blind(g, input, blind)
			evaluated, _ := Evaluate(other, blinded)

			third, err := Finalize(g, blind, input, evaluated)
			if err != nil {
				t.Fatal(err)
			}

			if bytes.Equal(first, third) {
				t.Fatal("two keys yield the same output")
			}
		})
	}
}

func TestDeriveKey(t *testing.T) {
	for _, g := range groups {
		seed := bytes.Repeat([]byte{7}, 64)

		a, err := DeriveKey(g, seed, []byte("info"))
		if err != nil {
			t.Fatal(err)
		}

		b, err := DeriveKey(g, seed, []byte("info"))
		if err != nil {
			t.Fatal(err)
		}

		c, err := DeriveKey(g, seed, []byte("other"))
		if err != nil {
			t.Fatal(err)
		}

		if !bytes.Equal(a.Encode(), b.Encode()) {
			t.Fatalf("%s: derivation is not deterministic", g)
		}

		if bytes.Equal(a.Encode(), c.Encode()) {
			t.Fatalf("%s: info does not separate derivations", g)
		}
	}
}

func TestOPRF_Errors(t *testing.T) {
	for _, g := range groups {
		zero := g.NewScalar().Zero()
		identity := g.NewElement()
		key := g.NewScalar().Random()

		if _, err := Blind(g, []byte("input"), zero); !errors.Is(err, ErrZeroScalar) {
			t.Errorf("%s: expected %v, got %v", g, ErrZeroScalar, err)
		}

		if _, err := Blind(g, []byte("input"), nil); !errors.Is(err, ErrZeroScalar) {
			t.Errorf("%s: expected %v, got %v", g, ErrZeroScalar, err)
		}

		if _, err := Evaluate(key, identity); !errors.Is(err, ErrIdentity) {
			t.Errorf("%s: expected %v, got %v", g, ErrIdentity, err)
		}

		if _, err := Evaluate(zero, g.Base()); !errors.Is(err, ErrZeroScalar) {
			t.Errorf("%s: expected %v, got %v", g, ErrZeroScalar, err)
		}

		if _, err := Finalize(g, key, []byte("input"), identity); !errors.Is(err, ErrIdentity) {
			t.Errorf("%s: expected %v, got %v", g, ErrIdentity, err)
		}
	}

	if _, err := DeriveKey(group.P384Sha384, []byte("seed"), nil); !errors.Is(err, errUnsupportedGroup) {
		t.Errorf("expected %v, got %v", errUnsupportedGroup, err)
	}
}
