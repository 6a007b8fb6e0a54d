// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password_test

import (
	"crypto"
	"encoding/binary"
	"errors"
	"testing"

	password "github.com/khonsulabs/custodian-password"
	"github.com/khonsulabs/custodian-password/internal"
	"github.com/khonsulabs/custodian-password/message"
)

const dbgErr = "%v"

var (
	credentialIdentifier = []byte("alice@example.com")
	secret               = []byte("correct horse battery staple")
)

type configuration struct {
	conf *password.Configuration
	name string
}

// The MHF parameters are kept low so the suite runs fast. They are valid, just not strong.
var configurationTable = []*configuration{
	{
		name: "Ristretto255-Argon2id",
		conf: &password.Configuration{
			Group: password.Ristretto255Sha512,
			Hash:  crypto.SHA512,
			MHF:   password.Argon2(password.Argon2id, 1024, 1, 1),
		},
	},
	{
		name: "Ristretto255-PBKDF2-SHA512",
		conf: &password.Configuration{
			Group: password.Ristretto255Sha512,
			Hash:  crypto.SHA512,
			MHF:   password.PBKDF2WithHash(crypto.SHA512, 100),
		},
	},
	{
		name: "P256-Argon2i",
		conf: &password.Configuration{
			Group: password.P256Sha256,
			Hash:  crypto.SHA256,
			MHF:   password.Argon2(password.Argon2i, 1024, 1, 2),
		},
	},
	{
		name: "P256-PBKDF2-SHA256",
		conf: &password.Configuration{
			Context: []byte("custodian-password-test"),
			Group:   password.P256Sha256,
			Hash:    crypto.SHA256,
			MHF:     password.PBKDF2WithHash(crypto.SHA256, 100),
		},
	},
}

func testAll(t *testing.T, f func(*testing.T, *configuration)) {
	for _, test := range configurationTable {
		t.Run(test.name, func(t *testing.T) {
			f(t, test)
		})
	}
}

// deterministicReader is a reproducible stand-in for the random source, for tests only.
type deterministicReader struct {
	kdf     *internal.KDF
	seed    []byte
	counter uint64
	buf     []byte
}

func newDeterministicReader(seed string) *deterministicReader {
	return &deterministicReader{kdf: internal.NewKDF(crypto.SHA512), seed: []byte(seed)}
}

func (r *deterministicReader) Read(p []byte) (int, error) {
	for len(r.buf) < len(p) {
		r.counter++
		r.buf = append(r.buf, r.kdf.Expand(r.seed, binary.BigEndian.AppendUint64(nil, r.counter), 64)...)
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]

	return n, nil
}

// failingReader returns an error after n bytes.
type failingReader struct {
	n int
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.n <= 0 {
		return 0, errFailingReader
	}

	read := min(len(p), r.n)
	for i := range p[:read] {
		p[i] = 1
	}

	r.n -= read

	return read, nil
}

var errFailingReader = errors.New("reader exhausted")

func getServer(t *testing.T, c *configuration, options ...*password.Options) *password.ServerConfig {
	t.Helper()

	server, err := password.NewServerConfig(c.conf, options...)
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	return server
}

func getClient(t *testing.T, c *configuration, pin *password.PublicKey, options ...*password.Options) *password.ClientConfig {
	t.Helper()

	client, err := password.NewClientConfig(c.conf, pin, options...)
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	return client
}

type registration struct {
	file      *password.ServerFile
	exportKey password.ExportKey
	client    *password.ClientFile
}

func register(
	t *testing.T,
	client *password.ClientConfig,
	server *password.ServerConfig,
	credentialID, pwd []byte,
) *registration {
	t.Helper()

	state, request, err := password.Register(client, credentialID, pwd)
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	serverState, response, err := server.Register(request, credentialID)
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	finalization, result, err := state.Finish(response)
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	file, err := serverState.Finish(finalization)
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	return &registration{file: file, exportKey: result.ExportKey, client: result.File}
}

type loginOutcome struct {
	clientResult *password.ClientLoginResult
	serverKey    password.SessionKey
	clientErr    error
	serverErr    error
	response     *message.LoginResponse
}

// login runs a full login. A nil file simulates an unregistered credential.
func login(
	t *testing.T,
	client *password.ClientConfig,
	server *password.ServerConfig,
	file *password.ServerFile,
	credentialID, pwd []byte,
) *loginOutcome {
	t.Helper()

	state, request, err := password.Login(client, nil, credentialID, pwd)
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	serverState, response, err := server.Login(request, file, credentialID)
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	out := &loginOutcome{response: response}

	finalization, result, err := state.Finish(response)
	out.clientResult, out.clientErr = result, err

	if err != nil {
		// A client that fails sends nothing; the server gives up on a bogus MAC.
		finalization = &message.LoginFinalization{ClientMac: make([]byte, client.Configuration().Hash.Size())}
	}

	out.serverKey, out.serverErr = serverState.Finish(finalization)

	return out
}
