// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password

import (
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal"
	"github.com/khonsulabs/custodian-password/internal/encoding"
)

// ServerFile is the server's persistent record for one registered credential. It is created once at registration
// and replaced as a whole on re-registration. Store it keyed by its credential identifier.
type ServerFile struct {
	conf            *Configuration
	oprfKey         *group.Scalar
	clientPublicKey *group.Element
	serverPublicKey *group.Element
	credentialID    []byte
	envelope        []byte
}

// CredentialID returns the credential identifier the file was registered under.
func (f *ServerFile) CredentialID() []byte {
	return slices.Clone(f.credentialID)
}

// Configuration returns a copy of the configuration the file was created with.
func (f *ServerFile) Configuration() *Configuration {
	return f.conf.clone()
}

// ClientPublicKey returns the client's long-term public key.
func (f *ServerFile) ClientPublicKey() *PublicKey {
	return newPublicKey(f.conf, f.clientPublicKey)
}

// ServerPublicKey returns the public key of the server the file was created for.
func (f *ServerFile) ServerPublicKey() *PublicKey {
	return newPublicKey(f.conf, f.serverPublicKey)
}

// Serialize returns the byte encoding of the file.
func (f *ServerFile) Serialize() []byte {
	return encoding.Concatenate(
		encoding.EncodeVector(f.conf.Serialize()),
		encoding.EncodeVector(f.credentialID),
		encoding.EncodeVector(f.oprfKey.Encode()),
		encoding.EncodeVector(f.clientPublicKey.Encode()),
		encoding.EncodeVector(f.envelope),
		encoding.EncodeVector(f.serverPublicKey.Encode()),
	)
}

// Flush does a best-effort attempt to clear the OPRF key from memory.
func (f *ServerFile) Flush() {
	internal.ClearScalar(&f.oprfKey)
}

// ClientFile remembers the server's public key after a successful registration or login, so that later logins can
// verify the server.
type ClientFile struct {
	publicKey *PublicKey
}

// Configuration returns a copy of the configuration the file was created with.
func (f *ClientFile) Configuration() *Configuration {
	return f.publicKey.Configuration()
}

// PublicKey returns the server's public key.
func (f *ClientFile) PublicKey() *PublicKey {
	return f.publicKey
}

// Serialize returns the byte encoding of the file.
func (f *ClientFile) Serialize() []byte {
	return encoding.Concat(
		encoding.EncodeVector(f.publicKey.conf.Serialize()),
		encoding.EncodeVector(f.publicKey.encoded),
	)
}

// DeserializeClientFile decodes a client file, including its configuration.
func DeserializeClientFile(data []byte) (*ClientFile, error) {
	var confBytes, pk []byte
	if err := encoding.DecodeVectors(data, &confBytes, &pk); err != nil {
		return nil, ErrDeserialization.Join(err)
	}

	conf, err := DeserializeConfiguration(confBytes)
	if err != nil {
		return nil, err
	}

	publicKey, err := conf.DecodePublicKey(pk)
	if err != nil {
		return nil, err
	}

	return &ClientFile{publicKey: publicKey}, nil
}
