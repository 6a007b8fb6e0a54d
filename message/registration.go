// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package message provides the wire messages exchanged during registration and login.
package message

import (
	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal/encoding"
)

// RegistrationRequest is the first message of the registration flow, created by the client and sent to the server.
type RegistrationRequest struct {
	BlindedElement *group.Element
}

// Serialize returns the byte encoding of RegistrationRequest.
func (r *RegistrationRequest) Serialize() []byte {
	return r.BlindedElement.Encode()
}

// RegistrationResponse is the second message of the registration flow, created by the server and sent to the client.
type RegistrationResponse struct {
	EvaluatedElement *group.Element
	ServerPublicKey  *group.Element
}

// Serialize returns the byte encoding of RegistrationResponse.
func (r *RegistrationResponse) Serialize() []byte {
	return encoding.Concat(r.EvaluatedElement.Encode(), r.ServerPublicKey.Encode())
}

// RegistrationFinalization is the last message of the registration flow, created by the client and sent to the
// server.
type RegistrationFinalization struct {
	ClientPublicKey *group.Element
	Envelope        []byte
}

// Serialize returns the byte encoding of RegistrationFinalization.
func (r *RegistrationFinalization) Serialize() []byte {
	return encoding.Concat(r.Envelope, r.ClientPublicKey.Encode())
}
