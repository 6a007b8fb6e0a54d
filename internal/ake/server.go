// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ake

import (
	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal"
	"github.com/khonsulabs/custodian-password/internal/tag"
)

// Server holds the server's expected client MAC and session secret between its two login steps.
type Server struct {
	sessionSecret     []byte
	expectedClientMac []byte
}

// Respond draws the server's ephemeral key share, completes the transcript with it, and returns the server state, the
// key share and the server MAC.
func Respond(
	conf *internal.Configuration,
	serverSecretKey *group.Scalar,
	clientPublicKey, clientKeyShare *group.Element,
	t *Transcript,
) (*Server, *group.Element, []byte, error) {
	esk, epk, err := conf.RandomKeyPair(tag.DeriveDiffieHellmanKeyPair)
	if err != nil {
		return nil, nil, nil, err
	}

	t.ServerKeyShare = epk.Encode()
	ikm := k3dh(clientKeyShare, esk, clientKeyShare, serverSecretKey, clientPublicKey, esk)
	internal.ClearScalar(&esk)

	sessionSecret, serverMac, clientMac := core3DH(conf, ikm, t)
	internal.ClearSlice(&ikm)

	return &Server{sessionSecret: sessionSecret, expectedClientMac: clientMac}, epk, serverMac, nil
}

// Finish verifies the client MAC in constant time and returns the session secret.
func (s *Server) Finish(conf *internal.Configuration, clientMac []byte) ([]byte, bool) {
	if !conf.MAC.Equal(s.expectedClientMac, clientMac) {
		s.Flush()
		return nil, false
	}

	sessionSecret := s.sessionSecret
	s.sessionSecret = nil

	return sessionSecret, true
}

// Flush attempts to zero out the server's secrets.
func (s *Server) Flush() {
	internal.ClearSlice(&s.sessionSecret)
	internal.ClearSlice(&s.expectedClientMac)
}
