// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"crypto"
	"crypto/subtle"

	"github.com/bytemare/hash"
)

// fixed resolves id to a fresh bytemare hash instance. id must be available.
func fixed(id crypto.Hash) *hash.Fixed {
	return hash.FromCrypto(id).GetHashFunction()
}

// KDF is HKDF over the configured hash.
type KDF struct {
	h *hash.Fixed
}

// NewKDF returns a KDF built on id.
func NewKDF(id crypto.Hash) *KDF {
	return &KDF{h: fixed(id)}
}

// Extract returns HKDF-Extract(salt, ikm).
func (k *KDF) Extract(salt, ikm []byte) []byte {
	return k.h.HKDFExtract(ikm, salt)
}

// Expand returns length bytes of HKDF-Expand(key, info).
func (k *KDF) Expand(key, info []byte, length int) []byte {
	return k.h.HKDFExpand(key, info, length)
}

// ExpandLabel expands key with info = label || context, to Size() bytes.
func (k *KDF) ExpandLabel(key []byte, label string, context []byte) []byte {
	info := make([]byte, 0, len(label)+len(context))
	info = append(info, label...)
	info = append(info, context...)

	return k.h.HKDFExpand(key, info, k.h.Size())
}

// Size is the length of a pseudorandom key.
func (k *KDF) Size() int {
	return k.h.Size()
}

// Mac is HMAC over the configured hash.
type Mac struct {
	h *hash.Fixed
}

// NewMac returns a Mac built on id.
func NewMac(id crypto.Hash) *Mac {
	return &Mac{h: fixed(id)}
}

// MAC returns HMAC(key, message).
func (m *Mac) MAC(key, message []byte) []byte {
	return m.h.Hmac(message, key)
}

// Equal compares two tags in constant time. Tags of different lengths are never equal.
func (m *Mac) Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Size is the tag length.
func (m *Mac) Size() int {
	return m.h.Size()
}

// Hash is a running transcript hash.
type Hash struct {
	h *hash.Fixed
}

// NewHash returns a Hash with an empty state.
func NewHash(id crypto.Hash) *Hash {
	return &Hash{h: fixed(id)}
}

// Write absorbs every input in order.
func (h *Hash) Write(p ...[]byte) {
	for _, b := range p {
		_, _ = h.h.Write(b)
	}
}

// Sum returns the digest of everything written so far, without resetting the state.
func (h *Hash) Sum() []byte {
	return h.h.Sum(nil)
}

// Size is the digest length.
func (h *Hash) Size() int {
	return h.h.Size()
}
