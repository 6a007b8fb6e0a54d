// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password

import (
	"bytes"
	"crypto"
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal"
	"github.com/khonsulabs/custodian-password/internal/encoding"
	"github.com/khonsulabs/custodian-password/internal/mhf"
)

// Group identifies the prime-order group used for the OPRF and the key exchange.
type Group byte

const (
	// Ristretto255Sha512 identifies the Ristretto255 group over Curve25519, with SHA-512 hash-to-group.
	Ristretto255Sha512 = Group(group.Ristretto255Sha512)

	// P256Sha256 identifies the NIST P-256 group with SHA-256 hash-to-group.
	P256Sha256 = Group(group.P256Sha256)
)

// Available returns whether the Group byte is recognized in this implementation.
func (g Group) Available() bool {
	return g == Ristretto255Sha512 || g == P256Sha256
}

// Group returns the underlying group.
func (g Group) Group() group.Group {
	return group.Group(g)
}

// String returns the group's name.
func (g Group) String() string {
	switch g {
	case Ristretto255Sha512:
		return "ristretto255"
	case P256Sha256:
		return "P-256"
	default:
		return "unknown"
	}
}

// MHFFunction identifies a memory-hard function.
type MHFFunction byte

const (
	// Argon2id is Argon2 in its hybrid variant.
	Argon2id = MHFFunction(mhf.Argon2id)

	// Argon2i is Argon2 in its data-independent variant.
	Argon2i = MHFFunction(mhf.Argon2i)

	// PBKDF2 is PBKDF2 over HMAC.
	PBKDF2 = MHFFunction(mhf.PBKDF2)
)

// String returns the function's name.
func (f MHFFunction) String() string {
	return mhf.Function(f).String()
}

// MHF pins a memory-hard function and its parameters. Argon2 variants use Memory (in KiB), Iterations and
// Parallelism. PBKDF2 uses Hash and Iterations. Unused fields must be zero.
type MHF struct {
	Function    MHFFunction
	Hash        crypto.Hash
	Iterations  uint32
	Memory      uint32
	Parallelism uint8
}

// Argon2 returns the MHF for an Argon2 variant.
func Argon2(variant MHFFunction, memory, iterations uint32, parallelism uint8) MHF {
	return MHF{Function: variant, Memory: memory, Iterations: iterations, Parallelism: parallelism}
}

// PBKDF2WithHash returns the MHF for PBKDF2 over h.
func PBKDF2WithHash(h crypto.Hash, iterations uint32) MHF {
	return MHF{Function: PBKDF2, Hash: h, Iterations: iterations}
}

func (m MHF) parameters() *mhf.Parameters {
	return &mhf.Parameters{
		Function:    mhf.Function(m.Function),
		Hash:        m.Hash,
		Iterations:  m.Iterations,
		Memory:      m.Memory,
		Parallelism: m.Parallelism,
	}
}

// DefaultContext is the application label used when a Configuration's Context is empty.
const DefaultContext = "custodian-password"

const (
	confFixedLength = 13
	maxContextLen   = 1<<16 - 1
)

// Configuration pins the algebra both parties use. Client and server must use equal configurations.
type Configuration struct {
	// Context is the application label bound into every derived key. DefaultContext is used if empty.
	Context []byte

	// MHF stretches the OPRF output.
	MHF MHF

	// Hash is used for the KDF, the MAC and the transcript.
	Hash crypto.Hash

	// Group is used for the OPRF and the key exchange.
	Group Group
}

// DefaultConfiguration returns a default configuration with strong parameters.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Context: []byte(DefaultContext),
		MHF:     Argon2(Argon2id, 64*1024, 3, 4),
		Hash:    crypto.SHA512,
		Group:   Ristretto255Sha512,
	}
}

func (c *Configuration) context() []byte {
	if len(c.Context) == 0 {
		return []byte(DefaultContext)
	}

	return c.Context
}

// Verify returns an error if the configuration is not usable.
func (c *Configuration) Verify() error {
	if !c.Group.Available() {
		return ErrConfiguration.Join(internal.ErrInvalidGroup)
	}

	if c.Hash != crypto.SHA256 && c.Hash != crypto.SHA512 {
		return ErrConfiguration.Join(internal.ErrInvalidHash)
	}

	if !mhf.Function(c.MHF.Function).Available() {
		return ErrConfiguration.Join(internal.ErrInvalidMHF)
	}

	if err := c.MHF.parameters().Verify(); err != nil {
		return ErrConfiguration.Join(internal.ErrMHFParameters, err)
	}

	if len(c.Context) > maxContextLen {
		return ErrConfiguration.Join(internal.ErrContextTooLong)
	}

	return nil
}

// Serialize returns the byte encoding of the configuration. Two configurations are equal if and only if their
// encodings are.
func (c *Configuration) Serialize() []byte {
	b := make([]byte, 0, confFixedLength)
	b = append(b, byte(c.Group), byte(c.Hash), byte(c.MHF.Function), byte(c.MHF.Hash))
	b = binary.BigEndian.AppendUint32(b, c.MHF.Iterations)
	b = binary.BigEndian.AppendUint32(b, c.MHF.Memory)
	b = append(b, c.MHF.Parallelism)

	return encoding.Concat(b, encoding.EncodeVector(c.context()))
}

// Equal returns whether both configurations are identical.
func (c *Configuration) Equal(other *Configuration) bool {
	if c == nil || other == nil {
		return c == other
	}

	return bytes.Equal(c.Serialize(), other.Serialize())
}

// String returns a human-readable description of the configuration.
func (c *Configuration) String() string {
	switch c.MHF.Function {
	case PBKDF2:
		return fmt.Sprintf("%s/%s/%s(%s, %d)", c.Group, c.Hash, c.MHF.Function, c.MHF.Hash, c.MHF.Iterations)
	default:
		return fmt.Sprintf("%s/%s/%s(m=%d, t=%d, p=%d)", c.Group, c.Hash, c.MHF.Function,
			c.MHF.Memory, c.MHF.Iterations, c.MHF.Parallelism)
	}
}

// DeserializeConfiguration decodes the input and returns a Configuration structure.
func DeserializeConfiguration(encoded []byte) (*Configuration, error) {
	if len(encoded) < confFixedLength+2 {
		return nil, ErrConfiguration.Join(internal.ErrConfigurationInvalidLength)
	}

	var context []byte
	if err := encoding.DecodeVectors(encoded[confFixedLength:], &context); err != nil {
		return nil, ErrConfiguration.Join(internal.ErrConfigurationInvalidLength, err)
	}

	c := &Configuration{
		Context: slices.Clone(context),
		MHF: MHF{
			Function:    MHFFunction(encoded[2]),
			Hash:        crypto.Hash(encoded[3]),
			Iterations:  binary.BigEndian.Uint32(encoded[4:8]),
			Memory:      binary.BigEndian.Uint32(encoded[8:12]),
			Parallelism: encoded[12],
		},
		Hash:  crypto.Hash(encoded[1]),
		Group: Group(encoded[0]),
	}

	if err := c.Verify(); err != nil {
		return nil, err
	}

	return c, nil
}

// toInternal verifies the configuration and instantiates it for one session.
func (c *Configuration) toInternal(random io.Reader) (*internal.Configuration, error) {
	if err := c.Verify(); err != nil {
		return nil, err
	}

	g := c.Group.Group()

	return &internal.Configuration{
		KDF:        internal.NewKDF(c.Hash),
		MAC:        internal.NewMac(c.Hash),
		MHF:        c.MHF.parameters(),
		Random:     random,
		Context:    slices.Clone(c.context()),
		Serialized: c.Serialize(),
		Hash:       c.Hash,
		Group:      g,
		ElementLen: g.ElementLength(),
		ScalarLen:  g.ScalarLength(),
		NonceLen:   internal.NonceLength,
	}, nil
}

// Deserializer returns a pointer to a Deserializer structure allowing deserialization of messages in the given
// configuration.
func (c *Configuration) Deserializer() (*Deserializer, error) {
	conf, err := c.toInternal(nil)
	if err != nil {
		return nil, err
	}

	return &Deserializer{conf: conf, public: c.clone()}, nil
}

func (c *Configuration) clone() *Configuration {
	return &Configuration{
		Context: slices.Clone(c.Context),
		MHF:     c.MHF,
		Hash:    c.Hash,
		Group:   c.Group,
	}
}
