// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password

import (
	"crypto/subtle"
	"encoding/hex"
	"io"
	"log/slog"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal"
	"github.com/khonsulabs/custodian-password/internal/encoding"
	"github.com/khonsulabs/custodian-password/internal/tag"
)

// ServerConfig holds the server's long-term key material. Losing it makes every ServerFile created with it unusable.
// A ServerConfig is safe for concurrent use by multiple sessions.
type ServerConfig struct {
	random     io.Reader
	logger     *slog.Logger
	conf       *Configuration
	privateKey *group.Scalar
	publicKey  *PublicKey

	// seed derives the stand-in records used to answer logins for unregistered credentials.
	seed []byte
}

// NewServerConfig generates a fresh server key pair and simulation seed for the configuration.
func NewServerConfig(conf *Configuration, options ...*Options) (*ServerConfig, error) {
	random, logger := parseOptions(options)

	ic, err := conf.toInternal(random)
	if err != nil {
		return nil, err
	}

	sk, pk, err := ic.RandomKeyPair(tag.DeriveDiffieHellmanKeyPair)
	if err != nil {
		return nil, ErrCrypto.Join(err)
	}

	seed, err := ic.RandomBytes(ic.KDF.Size())
	if err != nil {
		return nil, ErrCrypto.Join(err)
	}

	return &ServerConfig{
		random:     random,
		logger:     logger,
		conf:       conf.clone(),
		privateKey: sk,
		publicKey:  newPublicKey(conf, pk),
		seed:       seed,
	}, nil
}

// Configuration returns a copy of the server's configuration.
func (s *ServerConfig) Configuration() *Configuration {
	return s.conf.clone()
}

// PublicKey returns the server's static public key. Clients can pin it in their ClientConfig.
func (s *ServerConfig) PublicKey() *PublicKey {
	return s.publicKey
}

func (s *ServerConfig) internal() (*internal.Configuration, error) {
	return s.conf.toInternal(s.random)
}

// Flush does a best-effort attempt to clear the server's secrets from memory. The ServerConfig is unusable afterwards.
func (s *ServerConfig) Flush() {
	internal.ClearScalar(&s.privateKey)
	internal.ClearSlice(&s.seed)
}

// Encode encodes the server configuration, including its secrets, into a byte slice.
func (s *ServerConfig) Encode() []byte {
	return encoding.Concatenate(
		encoding.EncodeVector(s.conf.Serialize()),
		encoding.EncodeVector(s.privateKey.Encode()),
		encoding.EncodeVector(s.publicKey.encoded),
		encoding.EncodeVector(s.seed),
	)
}

// Hex encodes the server configuration into a hex string.
func (s *ServerConfig) Hex() string {
	return hex.EncodeToString(s.Encode())
}

// DecodeServerConfig decodes a server configuration from a byte slice and verifies that its key pair is consistent.
func DecodeServerConfig(data []byte, options ...*Options) (*ServerConfig, error) {
	var confBytes, skBytes, pkBytes, seed []byte
	if err := encoding.DecodeVectors(data, &confBytes, &skBytes, &pkBytes, &seed); err != nil {
		return nil, ErrDeserialization.Join(err)
	}

	conf, err := DeserializeConfiguration(confBytes)
	if err != nil {
		return nil, err
	}

	random, logger := parseOptions(options)

	ic, err := conf.toInternal(random)
	if err != nil {
		return nil, err
	}

	sk, err := ic.DecodeScalar(skBytes)
	if err != nil {
		return nil, ErrDeserialization.Join(internal.ErrInvalidPrivateKey, err)
	}

	pk, err := ic.DecodeElement(pkBytes)
	if err != nil {
		return nil, ErrInvalidElement.Join(internal.ErrInvalidServerPublicKey, err)
	}

	if subtle.ConstantTimeCompare(ic.Group.Base().Multiply(sk).Encode(), pkBytes) != 1 {
		return nil, ErrDeserialization.Join(internal.ErrPublicKeyMismatch)
	}

	if len(seed) != ic.KDF.Size() {
		return nil, ErrDeserialization.Join(internal.ErrInvalidSeedLength)
	}

	return &ServerConfig{
		random:     random,
		logger:     logger,
		conf:       conf,
		privateKey: sk,
		publicKey:  newPublicKey(conf, pk),
		seed:       slices.Clone(seed),
	}, nil
}

// DecodeServerConfigHex decodes a server configuration from a hex string.
func DecodeServerConfigHex(data string, options ...*Options) (*ServerConfig, error) {
	if data == "" {
		return nil, ErrDeserialization.Join(internal.ErrDecodingEmptyHex)
	}

	decoded, err := hex.DecodeString(data)
	if err != nil {
		return nil, ErrDeserialization.Join(err)
	}

	return DecodeServerConfig(decoded, options...)
}
