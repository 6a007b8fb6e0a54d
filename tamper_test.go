// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password_test

// Tampering tests: a single flipped bit anywhere in a login response, in the client's finalization or in the stored
// file must make the login fail, and never yield keys.

import (
	"bytes"
	"errors"
	"testing"

	password "github.com/khonsulabs/custodian-password"
	"github.com/khonsulabs/custodian-password/message"
)

func flipBit(b []byte, i int) []byte {
	out := bytes.Clone(b)
	out[i] ^= 0x01

	return out
}

func TestTamper_LoginResponse(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := getServer(t, c)
		client := getClient(t, c, nil)
		reg := register(t, client, server, credentialIdentifier, secret)
		d := getDeserializer(t, c.conf)

		elementLen := c.conf.Group.Group().ElementLength()

		state, request, err := password.Login(client, nil, credentialIdentifier, secret)
		if err != nil {
			t.Fatal(err)
		}

		_, response, err := server.Login(request, reg.file, credentialIdentifier)
		if err != nil {
			t.Fatal(err)
		}

		encoded := response.Serialize()
		state.Flush()

		// One position per field: evaluated element, envelope nonce, envelope ciphertext, envelope tag, key share, MAC.
		envelopeLen := len(response.Envelope)
		positions := map[string]int{
			"evaluated":  elementLen / 2,
			"nonce":      elementLen + 1,
			"ciphertext": elementLen + 40,
			"tag":        elementLen + envelopeLen - 1,
			"key share":  elementLen + envelopeLen + elementLen/2,
			"mac":        len(encoded) - 1,
		}

		for name, i := range positions {
			t.Run(name, func(t *testing.T) {
				state, request, err := password.Login(client, nil, credentialIdentifier, secret)
				if err != nil {
					t.Fatal(err)
				}

				serverState, response, err := server.Login(request, reg.file, credentialIdentifier)
				if err != nil {
					t.Fatal(err)
				}

				tampered, err := d.LoginResponse(flipBit(response.Serialize(), i))
				if err != nil {
					if !errors.Is(err, password.ErrInvalidElement) {
						t.Fatalf("unexpected deserialization error: %v", err)
					}

					return
				}

				_, result, err := state.Finish(tampered)
				if err != password.ErrLoginFailed { //nolint:errorlint // the error must be returned bare
					t.Fatalf("expected the bare login failure, got %+v", err)
				}

				if result != nil {
					t.Fatal("keys returned on a tampered response")
				}

				serverState.Flush()
			})
		}
	})
}

func TestTamper_LoginFinalization(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := getServer(t, c)
		client := getClient(t, c, nil)
		reg := register(t, client, server, credentialIdentifier, secret)

		state, request, err := password.Login(client, nil, credentialIdentifier, secret)
		if err != nil {
			t.Fatal(err)
		}

		serverState, response, err := server.Login(request, reg.file, credentialIdentifier)
		if err != nil {
			t.Fatal(err)
		}

		finalization, _, err := state.Finish(response)
		if err != nil {
			t.Fatal(err)
		}

		tampered := &message.LoginFinalization{ClientMac: flipBit(finalization.ClientMac, 0)}
		if _, err = serverState.Finish(tampered); err != password.ErrLoginFailed { //nolint:errorlint // bare error
			t.Fatalf("expected the bare login failure, got %+v", err)
		}
	})
}

func TestTamper_ServerFileEnvelope(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := getServer(t, c)
		client := getClient(t, c, nil)
		reg := register(t, client, server, credentialIdentifier, secret)
		d := getDeserializer(t, c.conf)

		// The envelope is the last-but-one vector of the file, right before the server public key vector.
		encoded := reg.file.Serialize()
		elementLen := c.conf.Group.Group().ElementLength()
		tagPosition := len(encoded) - (2 + elementLen) - 1

		file, err := d.ServerFile(flipBit(encoded, tagPosition))
		if err != nil {
			t.Fatal(err)
		}

		out := login(t, client, server, file, credentialIdentifier, secret)
		if out.clientErr != password.ErrLoginFailed { //nolint:errorlint // the error must be returned bare
			t.Fatalf("expected the bare login failure, got %+v", out.clientErr)
		}
	})
}

func TestTamper_ContextMismatch(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := getServer(t, c)
		reg := register(t, getClient(t, c, nil), server, credentialIdentifier, secret)

		other := *c.conf
		other.Context = []byte("another application")
		client := getClient(t, &configuration{conf: &other}, nil)

		out := login(t, client, server, reg.file, credentialIdentifier, secret)
		if out.clientErr != password.ErrLoginFailed { //nolint:errorlint // the error must be returned bare
			t.Fatalf("expected the bare login failure, got %+v", out.clientErr)
		}
	})
}
