// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ake provides the triple Diffie-Hellman key exchange bound to the login transcript.
package ake

import (
	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal"
	"github.com/khonsulabs/custodian-password/internal/encoding"
	"github.com/khonsulabs/custodian-password/internal/tag"
)

// Transcript holds every value both parties bind the session keys to, in transcript order.
type Transcript struct {
	CredentialID    []byte
	LoginRequest    []byte
	ServerPublicKey []byte
	ClientPublicKey []byte
	Evaluated       []byte
	Envelope        []byte
	ServerKeyShare  []byte
}

func (t *Transcript) write(conf *internal.Configuration, h *internal.Hash) {
	h.Write([]byte(tag.VersionTag),
		encoding.EncodeVector(conf.Serialized),
		encoding.EncodeVector(t.CredentialID),
		t.LoginRequest,
		encoding.EncodeVector(t.ServerPublicKey),
		encoding.EncodeVector(t.ClientPublicKey),
		t.Evaluated,
		t.Envelope,
		t.ServerKeyShare,
	)
}

func diffieHellman(s *group.Scalar, e *group.Element) *group.Element {
	return e.Copy().Multiply(s)
}

func k3dh(
	p1 *group.Element,
	s1 *group.Scalar,
	p2 *group.Element,
	s2 *group.Scalar,
	p3 *group.Element,
	s3 *group.Scalar,
) []byte {
	e1 := diffieHellman(s1, p1).Encode()
	e2 := diffieHellman(s2, p2).Encode()
	e3 := diffieHellman(s3, p3).Encode()

	return encoding.Concatenate(e1, e2, e3)
}

func core3DH(conf *internal.Configuration, ikm []byte, t *Transcript) (sessionSecret, macS, macC []byte) {
	h := conf.NewHash()
	t.write(conf, h)
	preamble := h.Sum()

	serverMacKey, clientMacKey, sessionSecret := deriveKeys(conf.KDF, ikm, preamble)
	serverMac := conf.MAC.MAC(serverMacKey, preamble)
	h.Write(serverMac)
	clientMac := conf.MAC.MAC(clientMacKey, h.Sum())

	return sessionSecret, serverMac, clientMac
}

func buildLabel(length int, label, context []byte) []byte {
	return encoding.Concatenate(
		encoding.I2OSP(length, 2),
		encoding.EncodeVectorLen(append([]byte(tag.LabelPrefix), label...), 1),
		encoding.EncodeVectorLen(context, 1))
}

func expandLabel(h *internal.KDF, secret, label, context []byte) []byte {
	return h.Expand(secret, buildLabel(h.Size(), label, context), h.Size())
}

func deriveKeys(h *internal.KDF, ikm, context []byte) (serverMacKey, clientMacKey, sessionSecret []byte) {
	prk := h.Extract(nil, ikm)
	handshakeSecret := expandLabel(h, prk, []byte(tag.Handshake), context)
	sessionSecret = expandLabel(h, prk, []byte(tag.SessionKey), context)
	serverMacKey = expandLabel(h, handshakeSecret, []byte(tag.MacServer), nil)
	clientMacKey = expandLabel(h, handshakeSecret, []byte(tag.MacClient), nil)

	return serverMacKey, clientMacKey, sessionSecret
}
