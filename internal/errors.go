// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import "errors"

// MaxInputLength is the longest credential identifier or password that a two-byte length header can describe.
const MaxInputLength = 1<<16 - 1

var (
	// ErrConfigurationInvalidLength happens when deserializing a configuration of invalid length.
	ErrConfigurationInvalidLength = errors.New("invalid encoded configuration length")

	// ErrInvalidGroup indicates an unsupported group identifier.
	ErrInvalidGroup = errors.New("invalid group identifier")

	// ErrInvalidHash indicates an unsupported hash function identifier.
	ErrInvalidHash = errors.New("invalid hash function identifier")

	// ErrInvalidMHF indicates an unsupported memory-hard function identifier.
	ErrInvalidMHF = errors.New("invalid MHF identifier")

	// ErrMHFParameters indicates out-of-range MHF parameters.
	ErrMHFParameters = errors.New("MHF parameters are out of range")

	// ErrContextTooLong indicates an application context that does not fit its length header.
	ErrContextTooLong = errors.New("application context is too long")

	// ErrInvalidEncodingLength indicates an encoding of unexpected length.
	ErrInvalidEncodingLength = errors.New("invalid encoding length")

	// ErrInvalidElementEncoding indicates a group element that could not be decoded.
	ErrInvalidElementEncoding = errors.New("invalid group element encoding")

	// ErrIdentityElement indicates a group element equal to the identity element.
	ErrIdentityElement = errors.New("element is the identity element")

	// ErrInvalidScalar indicates a scalar that could not be decoded.
	ErrInvalidScalar = errors.New("invalid scalar encoding")

	// ErrZeroScalar indicates a scalar equal to zero.
	ErrZeroScalar = errors.New("scalar is zero")

	// ErrRandomSource indicates the random source could not provide enough bytes.
	ErrRandomSource = errors.New("random source failure")

	// ErrNilMessage indicates a nil or incomplete protocol message.
	ErrNilMessage = errors.New("nil or incomplete message")

	// ErrInvalidBlindedElement indicates an invalid blinded OPRF element.
	ErrInvalidBlindedElement = errors.New("invalid blinded element")

	// ErrInvalidEvaluatedElement indicates an invalid evaluated OPRF element.
	ErrInvalidEvaluatedElement = errors.New("invalid evaluated element")

	// ErrInvalidServerPublicKey indicates an invalid server public key.
	ErrInvalidServerPublicKey = errors.New("invalid server public key")

	// ErrInvalidClientPublicKey indicates an invalid client public key.
	ErrInvalidClientPublicKey = errors.New("invalid client public key")

	// ErrInvalidEphemeralKey indicates an invalid ephemeral public key.
	ErrInvalidEphemeralKey = errors.New("invalid ephemeral public key")

	// ErrInvalidPrivateKey indicates an invalid private key.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidEnvelope indicates an envelope of invalid length.
	ErrInvalidEnvelope = errors.New("invalid envelope")

	// ErrInvalidMAC indicates a MAC of invalid length.
	ErrInvalidMAC = errors.New("invalid MAC length")

	// ErrPublicKeyMismatch indicates a public key that doesn't match its private key.
	ErrPublicKeyMismatch = errors.New("public key does not match private key")

	// ErrInvalidSeedLength indicates a simulation seed of invalid length.
	ErrInvalidSeedLength = errors.New("invalid seed length")

	// ErrStateConsumed indicates a protocol state that was already used.
	ErrStateConsumed = errors.New("protocol state was already consumed")

	// ErrCredentialIDLength indicates a credential identifier that does not fit its length header.
	ErrCredentialIDLength = errors.New("credential identifier is too long")

	// ErrPasswordLength indicates a password that does not fit its length header.
	ErrPasswordLength = errors.New("password is too long")

	// ErrDecodingEmptyHex happens when trying to decode an empty hex string.
	ErrDecodingEmptyHex = errors.New("empty hex string")
)
