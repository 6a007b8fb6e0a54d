// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password_test

import (
	"fmt"
	"log"

	password "github.com/khonsulabs/custodian-password"
)

// Example_registration shows a registration followed by a login, with every message going through its byte encoding
// as it would on a network.
func Example_registration() {
	conf := password.DefaultConfiguration()
	conf.MHF = password.Argon2(password.Argon2id, 8*1024, 1, 1)

	server, err := password.NewServerConfig(conf)
	if err != nil {
		log.Fatal(err)
	}

	// The client pins the server key it was given out of band.
	client, err := password.NewClientConfig(conf, server.PublicKey())
	if err != nil {
		log.Fatal(err)
	}

	d, err := conf.Deserializer()
	if err != nil {
		log.Fatal(err)
	}

	credentialID := []byte("alice")
	pwd := []byte("correct horse battery staple")

	// Registration.
	registration, request, err := password.Register(client, credentialID, pwd)
	if err != nil {
		log.Fatal(err)
	}

	receivedRequest, err := d.RegistrationRequest(request.Serialize())
	if err != nil {
		log.Fatal(err)
	}

	serverRegistration, response, err := server.Register(receivedRequest, credentialID)
	if err != nil {
		log.Fatal(err)
	}

	receivedResponse, err := d.RegistrationResponse(response.Serialize())
	if err != nil {
		log.Fatal(err)
	}

	finalization, registered, err := registration.Finish(receivedResponse)
	if err != nil {
		log.Fatal(err)
	}

	receivedFinalization, err := d.RegistrationFinalization(finalization.Serialize())
	if err != nil {
		log.Fatal(err)
	}

	file, err := serverRegistration.Finish(receivedFinalization)
	if err != nil {
		log.Fatal(err)
	}

	// The server stores file.Serialize() under the credential identifier. Login.
	stored, err := d.ServerFile(file.Serialize())
	if err != nil {
		log.Fatal(err)
	}

	login, loginRequest, err := password.Login(client, registered.File, credentialID, pwd)
	if err != nil {
		log.Fatal(err)
	}

	serverLogin, loginResponse, err := server.Login(loginRequest, stored, credentialID)
	if err != nil {
		log.Fatal(err)
	}

	receivedLoginResponse, err := d.LoginResponse(loginResponse.Serialize())
	if err != nil {
		log.Fatal(err)
	}

	loginFinalization, result, err := login.Finish(receivedLoginResponse)
	if err != nil {
		log.Fatal(err)
	}

	receivedLoginFinalization, err := d.LoginFinalization(loginFinalization.Serialize())
	if err != nil {
		log.Fatal(err)
	}

	sessionKey, err := serverLogin.Finish(receivedLoginFinalization)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("session keys match:", sessionKey.Equal(result.SessionKey))
	fmt.Println("export key is stable:", registered.ExportKey.Equal(result.ExportKey))
	// Output:
	// session keys match: true
	// export key is stable: true
}

// Example_serverSetup shows how to persist and restore the server's long-term secrets.
func Example_serverSetup() {
	server, err := password.NewServerConfig(password.DefaultConfiguration())
	if err != nil {
		log.Fatal(err)
	}

	// Keep this secret, e.g. in a secret manager.
	encoded := server.Hex()

	restored, err := password.DecodeServerConfigHex(encoded)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("same public key:", restored.PublicKey().Equal(server.PublicKey()))
	// Output: same public key: true
}
