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
	"crypto/subtle"
	"encoding/hex"
	"slices"

	group "github.com/bytemare/crypto"
)

// PublicKey is a validated static public key, stamped with the configuration it belongs to. It is never the identity
// element.
type PublicKey struct {
	conf    *Configuration
	element *group.Element
	encoded []byte
}

func newPublicKey(conf *Configuration, e *group.Element) *PublicKey {
	return &PublicKey{
		conf:    conf.clone(),
		element: e.Copy(),
		encoded: e.Encode(),
	}
}

// DecodePublicKey decodes and validates a public key for this configuration.
func (c *Configuration) DecodePublicKey(encoded []byte) (*PublicKey, error) {
	d, err := c.Deserializer()
	if err != nil {
		return nil, err
	}

	return d.PublicKey(encoded)
}

// Configuration returns a copy of the configuration the key belongs to.
func (p *PublicKey) Configuration() *Configuration {
	return p.conf.clone()
}

// Encode returns the canonical encoding of the key.
func (p *PublicKey) Encode() []byte {
	return slices.Clone(p.encoded)
}

// Hex returns the hexadecimal encoding of the key.
func (p *PublicKey) Hex() string {
	return hex.EncodeToString(p.encoded)
}

// String implements fmt.Stringer.
func (p *PublicKey) String() string {
	return p.Hex()
}

// Equal returns whether both keys are identical and belong to the same configuration.
func (p *PublicKey) Equal(other *PublicKey) bool {
	if p == nil || other == nil {
		return p == other
	}

	return bytes.Equal(p.encoded, other.encoded) && p.conf.Equal(other.conf)
}

// ExportKey is a secret derived from the password, stable across logins for the same registration and independent of
// any session key. Applications can use it to protect their own data.
type ExportKey []byte

// Equal compares both keys in constant time.
func (k ExportKey) Equal(other ExportKey) bool {
	return subtle.ConstantTimeCompare(k, other) == 1
}

// SessionKey is the secret shared by client and server at the end of a successful login.
type SessionKey []byte

// Equal compares both keys in constant time.
func (k SessionKey) Equal(other SessionKey) bool {
	return subtle.ConstantTimeCompare(k, other) == 1
}
