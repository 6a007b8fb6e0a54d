// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package oprf implements the base mode of an oblivious pseudorandom function over prime-order groups.
package oprf

import (
	"crypto"
	"errors"

	group "github.com/bytemare/crypto"
	"github.com/bytemare/hash"

	"github.com/khonsulabs/custodian-password/internal/encoding"
	"github.com/khonsulabs/custodian-password/internal/tag"
)

var (
	// ErrIdentity indicates an input or output element equal to the group's identity.
	ErrIdentity = errors.New("OPRF element is the identity")

	// ErrZeroScalar indicates a zero blind or key.
	ErrZeroScalar = errors.New("OPRF scalar is zero")

	// ErrDeriveKey indicates that no non-zero scalar could be derived from the seed.
	ErrDeriveKey = errors.New("could not derive a non-zero scalar")

	errUnsupportedGroup = errors.New("unsupported OPRF group")
)

const (
	sRistretto255Sha512 = "ristretto255-SHA512"
	sP256Sha256         = "P256-SHA256"
)

func suite(g group.Group) (string, crypto.Hash, error) {
	switch g {
	case group.Ristretto255Sha512:
		return sRistretto255Sha512, crypto.SHA512, nil
	case group.P256Sha256:
		return sP256Sha256, crypto.SHA256, nil
	default:
		return "", 0, errUnsupportedGroup
	}
}

func contextString(g group.Group) ([]byte, crypto.Hash, error) {
	name, h, err := suite(g)
	if err != nil {
		return nil, 0, err
	}

	return encoding.SuffixString([]byte(tag.OPRF), name), h, nil
}

func lengthPrefix(input []byte) []byte {
	return encoding.EncodeVector(input)
}

// DeriveKey deterministically derives a non-zero scalar from seed, separated by info.
func DeriveKey(g group.Group, seed, info []byte) (*group.Scalar, error) {
	ctx, _, err := contextString(g)
	if err != nil {
		return nil, err
	}

	dst := encoding.SuffixString([]byte(tag.DeriveKeyPair), string(ctx))
	deriveInput := encoding.Concat(seed, lengthPrefix(info))

	for counter := 0; counter < 256; counter++ {
		s := g.HashToScalar(encoding.Concat(deriveInput, []byte{byte(counter)}), dst)
		if !s.IsZero() {
			return s, nil
		}
	}

	return nil, ErrDeriveKey
}

// Blind maps input to the group and blinds it with the blind scalar.
func Blind(g group.Group, input []byte, blind *group.Scalar) (*group.Element, error) {
	if blind == nil || blind.IsZero() {
		return nil, ErrZeroScalar
	}

	ctx, _, err := contextString(g)
	if err != nil {
		return nil, err
	}

	p := g.HashToGroup(input, encoding.SuffixString([]byte(tag.OPRFPrefix), string(ctx)))
	if p.IsIdentity() {
		return nil, ErrIdentity
	}

	return p.Multiply(blind), nil
}

// Evaluate applies the key to the blinded element.
func Evaluate(key *group.Scalar, blinded *group.Element) (*group.Element, error) {
	if key == nil || key.IsZero() {
		return nil, ErrZeroScalar
	}

	if blinded == nil || blinded.IsIdentity() {
		return nil, ErrIdentity
	}

	return blinded.Copy().Multiply(key), nil
}

// Finalize removes the blind from the evaluated element and hashes the result with the input.
func Finalize(g group.Group, blind *group.Scalar, input []byte, evaluated *group.Element) ([]byte, error) {
	if blind == nil || blind.IsZero() {
		return nil, ErrZeroScalar
	}

	if evaluated == nil || evaluated.IsIdentity() {
		return nil, ErrIdentity
	}

	_, id, err := contextString(g)
	if err != nil {
		return nil, err
	}

	unblinded := evaluated.Copy().Multiply(blind.Copy().Invert())

	h := hash.FromCrypto(id).GetHashFunction()
	_, _ = h.Write(lengthPrefix(input))
	_, _ = h.Write(lengthPrefix(unblinded.Encode()))
	_, _ = h.Write([]byte(tag.OPRFFinalize))

	return h.Sum(nil), nil
}
