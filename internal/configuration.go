// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package internal provides structures and functions to operate the protocol that are not part of the public API.
package internal

import (
	"crypto"
	"fmt"
	"io"

	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal/mhf"
)

// Configuration is the per-session, instantiated form of a public configuration.
type Configuration struct {
	KDF        *KDF
	MAC        *Mac
	MHF        *mhf.Parameters
	Random     io.Reader
	Context    []byte
	Serialized []byte
	Hash       crypto.Hash
	Group      group.Group
	ElementLen int
	ScalarLen  int
	NonceLen   int
}

// NewHash returns a fresh running hash for the configured hash function.
func (c *Configuration) NewHash() *Hash {
	return NewHash(c.Hash)
}

// EnvelopeLength returns the size of a sealed envelope.
func (c *Configuration) EnvelopeLength() int {
	return c.NonceLen + c.ScalarLen + c.ElementLen + c.MAC.Size()
}

// DecodeElement decodes a group element, rejecting malformed encodings and the identity.
func (c *Configuration) DecodeElement(input []byte) (*group.Element, error) {
	if len(input) != c.ElementLen {
		return nil, ErrInvalidEncodingLength
	}

	e := c.Group.NewElement()
	if err := e.Decode(input); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidElementEncoding, err)
	}

	if e.IsIdentity() {
		return nil, ErrIdentityElement
	}

	return e, nil
}

// DecodeScalar decodes a non-zero scalar.
func (c *Configuration) DecodeScalar(input []byte) (*group.Scalar, error) {
	if len(input) != c.ScalarLen {
		return nil, ErrInvalidEncodingLength
	}

	s := c.Group.NewScalar()
	if err := s.Decode(input); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScalar, err)
	}

	if s.IsZero() {
		return nil, ErrZeroScalar
	}

	return s, nil
}

// RandomBytes draws length bytes from the configured random source.
func (c *Configuration) RandomBytes(length int) ([]byte, error) {
	return RandomBytes(c.Random, length)
}

// RandomKeyPair draws a fresh key pair from the configured random source.
func (c *Configuration) RandomKeyPair(dst string) (*group.Scalar, *group.Element, error) {
	return RandomKeyPair(c.Group, c.Random, dst)
}

// Xor returns a new slice holding a XOR b. Both must have the same length.
func Xor(a, b []byte) []byte {
	if len(a) != len(b) {
		panic("xor input lengths differ")
	}

	dst := make([]byte, len(a))
	for i := range a {
		dst[i] = a[i] ^ b[i]
	}

	return dst
}
