// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package main

import (
	"context"

	password "github.com/khonsulabs/custodian-password"
	"github.com/khonsulabs/custodian-password/message"
)

// deserializers returns one decoder per party, each built from that party's own configuration.
func deserializers(
	client *password.ClientConfig,
	server *password.ServerConfig,
) (clientSide, serverSide *password.Deserializer, err error) {
	if clientSide, err = client.Configuration().Deserializer(); err != nil {
		return nil, nil, err
	}

	if serverSide, err = server.Configuration().Deserializer(); err != nil {
		return nil, nil, err
	}

	return clientSide, serverSide, nil
}

// registerSession runs a registration, each party deserializing what it receives from the other.
func registerSession(
	ctx context.Context,
	client *password.ClientConfig,
	server *password.ServerConfig,
	credentialID, pwd []byte,
) (*password.ClientRegistrationResult, *password.ServerFile, error) {
	clientSide, serverSide, err := deserializers(client, server)
	if err != nil {
		return nil, nil, err
	}

	var (
		result *password.ClientRegistrationResult
		file   *password.ServerFile
	)

	clientHalf := func(ctx context.Context, p *pipe) error {
		state, request, err := password.Register(client, credentialID, pwd)
		if err != nil {
			return err
		}
		defer state.Flush()

		if err = p.send(ctx, request.Serialize()); err != nil {
			return err
		}

		encoded, err := p.receive(ctx)
		if err != nil {
			return err
		}

		response, err := clientSide.RegistrationResponse(encoded)
		if err != nil {
			return err
		}

		var finalization *message.RegistrationFinalization
		if finalization, result, err = state.Finish(response); err != nil {
			return err
		}

		return p.send(ctx, finalization.Serialize())
	}

	serverHalf := func(ctx context.Context, p *pipe) error {
		encoded, err := p.receive(ctx)
		if err != nil {
			return err
		}

		request, err := serverSide.RegistrationRequest(encoded)
		if err != nil {
			return err
		}

		state, response, err := server.Register(request, credentialID)
		if err != nil {
			return err
		}
		defer state.Flush()

		if err = p.send(ctx, response.Serialize()); err != nil {
			return err
		}

		if encoded, err = p.receive(ctx); err != nil {
			return err
		}

		finalization, err := serverSide.RegistrationFinalization(encoded)
		if err != nil {
			return err
		}

		file, err = state.Finish(finalization)

		return err
	}

	if err = converse(ctx, clientHalf, serverHalf); err != nil {
		return nil, nil, err
	}

	return result, file, nil
}

// loginSession runs a login and returns the client's result and the server's session key. A nil file stands for an
// unregistered user.
func loginSession(
	ctx context.Context,
	client *password.ClientConfig,
	pin *password.ClientFile,
	server *password.ServerConfig,
	file *password.ServerFile,
	credentialID, pwd []byte,
) (*password.ClientLoginResult, password.SessionKey, error) {
	clientSide, serverSide, err := deserializers(client, server)
	if err != nil {
		return nil, nil, err
	}

	var (
		result    *password.ClientLoginResult
		serverKey password.SessionKey
	)

	clientHalf := func(ctx context.Context, p *pipe) error {
		state, request, err := password.Login(client, pin, credentialID, pwd)
		if err != nil {
			return err
		}
		defer state.Flush()

		if err = p.send(ctx, request.Serialize()); err != nil {
			return err
		}

		encoded, err := p.receive(ctx)
		if err != nil {
			return err
		}

		response, err := clientSide.LoginResponse(encoded)
		if err != nil {
			return err
		}

		var finalization *message.LoginFinalization
		if finalization, result, err = state.Finish(response); err != nil {
			return err
		}

		return p.send(ctx, finalization.Serialize())
	}

	serverHalf := func(ctx context.Context, p *pipe) error {
		encoded, err := p.receive(ctx)
		if err != nil {
			return err
		}

		request, err := serverSide.LoginRequest(encoded)
		if err != nil {
			return err
		}

		state, response, err := server.Login(request, file, credentialID)
		if err != nil {
			return err
		}
		defer state.Flush()

		if err = p.send(ctx, response.Serialize()); err != nil {
			return err
		}

		if encoded, err = p.receive(ctx); err != nil {
			return err
		}

		finalization, err := serverSide.LoginFinalization(encoded)
		if err != nil {
			return err
		}

		serverKey, err = state.Finish(finalization)

		return err
	}

	if err = converse(ctx, clientHalf, serverHalf); err != nil {
		return nil, nil, err
	}

	return result, serverKey, nil
}
