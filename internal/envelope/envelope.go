// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package envelope derives the password-bound keys and seals the client's long-term key material.
package envelope

import (
	"errors"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal"
	"github.com/khonsulabs/custodian-password/internal/encoding"
	"github.com/khonsulabs/custodian-password/internal/tag"
)

// ErrEnvelopeInvalidMac indicates that the envelope's authentication tag did not verify.
var ErrEnvelopeInvalidMac = errors.New("invalid envelope authentication tag")

// Envelope is an authenticated encryption of the client's private key and the server's public key.
type Envelope struct {
	Nonce      []byte
	Ciphertext []byte
	AuthTag    []byte
}

// Serialize returns the byte serialization of the envelope.
func (e *Envelope) Serialize() []byte {
	return encoding.Concatenate(e.Nonce, e.Ciphertext, e.AuthTag)
}

// Deserialize splits an encoded envelope according to the configuration.
func Deserialize(conf *internal.Configuration, input []byte) (*Envelope, error) {
	if len(input) != conf.EnvelopeLength() {
		return nil, internal.ErrInvalidEnvelope
	}

	ctLen := conf.ScalarLen + conf.ElementLen

	return &Envelope{
		Nonce:      slices.Clone(input[:conf.NonceLen]),
		Ciphertext: slices.Clone(input[conf.NonceLen : conf.NonceLen+ctLen]),
		AuthTag:    slices.Clone(input[conf.NonceLen+ctLen:]),
	}, nil
}

func configurationDigest(conf *internal.Configuration) []byte {
	h := conf.NewHash()
	h.Write([]byte(tag.ConfigurationDigest), encoding.EncodeVector(conf.Serialized))

	return h.Sum()
}

// DeriveKeys stretches the OPRF output and derives the envelope key and the export key. The extraction is salted with
// a digest of the whole configuration, and the expansion is bound to the application context and credential
// identifier.
func DeriveKeys(conf *internal.Configuration, oprfOutput, credentialID []byte) (envelopeKey, exportKey []byte) {
	stretched := conf.MHF.Stretch(oprfOutput, conf.KDF.Size())
	randomizedPassword := conf.KDF.Extract(configurationDigest(conf), encoding.Concat(oprfOutput, stretched))
	context := encoding.Concat(encoding.EncodeVector(conf.Context), encoding.EncodeVector(credentialID))

	envelopeKey = conf.KDF.ExpandLabel(randomizedPassword, tag.EnvelopeKey, context)
	exportKey = conf.KDF.ExpandLabel(randomizedPassword, tag.ExportKey, context)

	internal.ClearSlice(&stretched)
	internal.ClearSlice(&randomizedPassword)

	return envelopeKey, exportKey
}

func pad(conf *internal.Configuration, envelopeKey, nonce []byte) []byte {
	return conf.KDF.Expand(envelopeKey, encoding.SuffixString(nonce, tag.EncryptionPad), conf.ScalarLen+conf.ElementLen)
}

func authTag(conf *internal.Configuration, envelopeKey, nonce, ciphertext []byte) []byte {
	authKey := conf.KDF.Expand(envelopeKey, encoding.SuffixString(nonce, tag.AuthKey), conf.KDF.Size())
	return conf.MAC.MAC(authKey, encoding.Concat(nonce, ciphertext))
}

// Seal encrypts the client's private key together with the server's public key under the envelope key. The tag
// authenticates the server's public key as well.
func Seal(
	conf *internal.Configuration,
	envelopeKey, nonce []byte,
	clientPrivateKey *group.Scalar,
	serverPublicKey []byte,
) *Envelope {
	plaintext := encoding.Concat(clientPrivateKey.Encode(), serverPublicKey)
	ciphertext := internal.Xor(plaintext, pad(conf, envelopeKey, nonce))
	internal.ClearSlice(&plaintext)

	return &Envelope{
		Nonce:      nonce,
		Ciphertext: ciphertext,
		AuthTag:    authTag(conf, envelopeKey, nonce, ciphertext),
	}
}

// Open verifies the envelope and recovers the client's private key and the server's public key.
func Open(
	conf *internal.Configuration,
	envelopeKey []byte,
	env *Envelope,
) (*group.Scalar, *group.Element, error) {
	expected := authTag(conf, envelopeKey, env.Nonce, env.Ciphertext)
	if !conf.MAC.Equal(expected, env.AuthTag) {
		return nil, nil, ErrEnvelopeInvalidMac
	}

	plaintext := internal.Xor(env.Ciphertext, pad(conf, envelopeKey, env.Nonce))
	defer internal.ClearSlice(&plaintext)

	sk, err := conf.DecodeScalar(plaintext[:conf.ScalarLen])
	if err != nil {
		return nil, nil, errors.Join(internal.ErrInvalidPrivateKey, err)
	}

	pk, err := conf.DecodeElement(plaintext[conf.ScalarLen:])
	if err != nil {
		return nil, nil, errors.Join(internal.ErrInvalidServerPublicKey, err)
	}

	return sk, pk, nil
}
