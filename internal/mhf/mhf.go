// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package mhf provides the memory-hard functions stretching OPRF outputs.
package mhf

import (
	"crypto"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/bytemare/ksf"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Function identifies a memory-hard function.
type Function byte

const (
	// Argon2id is Argon2 in its hybrid variant.
	Argon2id Function = 1 + iota

	// Argon2i is Argon2 in its data-independent variant.
	Argon2i

	// PBKDF2 is PBKDF2 over HMAC with a configurable hash.
	PBKDF2
)

const (
	maxArgon2Memory = 1 << 22 // 4 GiB, in KiB
	minPBKDF2Rounds = 1
)

var (
	// ErrUnknownFunction indicates an unsupported function identifier.
	ErrUnknownFunction = errors.New("unknown MHF")

	// ErrParameters indicates parameters out of range for the function.
	ErrParameters = errors.New("invalid MHF parameters")
)

// Available returns whether the function identifier is supported.
func (f Function) Available() bool {
	return f == Argon2id || f == Argon2i || f == PBKDF2
}

// String returns the function's name.
func (f Function) String() string {
	switch f {
	case Argon2id:
		return "Argon2id"
	case Argon2i:
		return "Argon2i"
	case PBKDF2:
		return "PBKDF2"
	default:
		return "unknown"
	}
}

// Parameters pins a function and all of its tuning parameters. Argon2 variants read Iterations, Memory (KiB) and
// Parallelism. PBKDF2 reads Hash and Iterations.
type Parameters struct {
	Function    Function
	Hash        crypto.Hash
	Iterations  uint32
	Memory      uint32
	Parallelism uint8
}

// Verify returns an error if the parameters are not usable for the function.
func (p *Parameters) Verify() error {
	switch p.Function {
	case Argon2id, Argon2i:
		if p.Iterations == 0 || p.Parallelism == 0 {
			return fmt.Errorf("%w: %s needs at least one iteration and one lane", ErrParameters, p.Function)
		}

		if p.Memory < 8*uint32(p.Parallelism) || p.Memory > maxArgon2Memory {
			return fmt.Errorf("%w: %s memory must be in [%d, %d] KiB",
				ErrParameters, p.Function, 8*uint32(p.Parallelism), maxArgon2Memory)
		}

		if p.Hash != 0 {
			return fmt.Errorf("%w: %s takes no hash function", ErrParameters, p.Function)
		}
	case PBKDF2:
		if p.Hash != crypto.SHA256 && p.Hash != crypto.SHA512 {
			return fmt.Errorf("%w: PBKDF2 hash must be SHA-256 or SHA-512", ErrParameters)
		}

		if p.Iterations < minPBKDF2Rounds {
			return fmt.Errorf("%w: PBKDF2 needs at least %d iteration", ErrParameters, minPBKDF2Rounds)
		}

		if p.Memory != 0 || p.Parallelism != 0 {
			return fmt.Errorf("%w: PBKDF2 takes no memory or parallelism", ErrParameters)
		}
	default:
		return ErrUnknownFunction
	}

	return nil
}

// Stretch hardens the input into length bytes. The parameters must have been verified.
func (p *Parameters) Stretch(input []byte, length int) []byte {
	switch p.Function {
	case Argon2id:
		f := ksf.Argon2id.Get()
		f.Parameterize(int(p.Iterations), int(p.Memory), int(p.Parallelism))

		return f.Harden(input, nil, length)
	case Argon2i:
		return argon2.Key(input, nil, p.Iterations, p.Memory, p.Parallelism, uint32(length))
	case PBKDF2:
		if p.Hash == crypto.SHA512 {
			f := ksf.PBKDF2Sha512.Get()
			f.Parameterize(int(p.Iterations))

			return f.Harden(input, nil, length)
		}

		return pbkdf2.Key(input, nil, int(p.Iterations), length, sha256.New)
	default:
		panic(ErrUnknownFunction)
	}
}
