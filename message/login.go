// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package message

import (
	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal/encoding"
)

// LoginRequest is the first message of the login flow, created by the client and sent to the server.
type LoginRequest struct {
	BlindedElement *group.Element
	ClientKeyShare *group.Element
}

// Serialize returns the byte encoding of LoginRequest.
func (m *LoginRequest) Serialize() []byte {
	return encoding.Concat(m.BlindedElement.Encode(), m.ClientKeyShare.Encode())
}

// LoginResponse is the second message of the login flow, created by the server and sent to the client.
type LoginResponse struct {
	EvaluatedElement *group.Element
	ServerKeyShare   *group.Element
	Envelope         []byte
	ServerMac        []byte
}

// Serialize returns the byte encoding of LoginResponse.
func (m *LoginResponse) Serialize() []byte {
	return encoding.Concatenate(m.EvaluatedElement.Encode(), m.Envelope, m.ServerKeyShare.Encode(), m.ServerMac)
}

// LoginFinalization is the last message of the login flow, created by the client and sent to the server.
type LoginFinalization struct {
	ClientMac []byte
}

// Serialize returns the byte encoding of LoginFinalization.
func (m *LoginFinalization) Serialize() []byte {
	return m.ClientMac
}
