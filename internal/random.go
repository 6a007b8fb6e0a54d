// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"fmt"
	"io"

	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal/oprf"
)

const (
	// SeedLength is the length of the random seeds keys are derived from.
	SeedLength = 64

	// NonceLength is the length of envelope nonces.
	NonceLength = 32
)

// RandomBytes reads length bytes from r.
func RandomBytes(r io.Reader, length int) ([]byte, error) {
	b := make([]byte, length)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRandomSource, err)
	}

	return b, nil
}

// RandomScalar returns a non-zero scalar derived from a fresh random seed drawn from r.
func RandomScalar(g group.Group, r io.Reader, dst string) (*group.Scalar, error) {
	seed, err := RandomBytes(r, SeedLength)
	if err != nil {
		return nil, err
	}

	defer ClearSlice(&seed)

	return oprf.DeriveKey(g, seed, []byte(dst))
}

// RandomKeyPair returns a key pair derived from a fresh random seed drawn from r.
func RandomKeyPair(g group.Group, r io.Reader, dst string) (*group.Scalar, *group.Element, error) {
	sk, err := RandomScalar(g, r, dst)
	if err != nil {
		return nil, nil, err
	}

	return sk, g.Base().Multiply(sk), nil
}
