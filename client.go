// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password

import (
	"context"
	"io"
	"log/slog"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal"
	"github.com/khonsulabs/custodian-password/internal/ake"
	"github.com/khonsulabs/custodian-password/internal/envelope"
	"github.com/khonsulabs/custodian-password/internal/oprf"
	"github.com/khonsulabs/custodian-password/internal/tag"
	"github.com/khonsulabs/custodian-password/message"
)

// ClientConfig is the client's view of the configuration, with an optional pinned server public key.
type ClientConfig struct {
	random    io.Reader
	logger    *slog.Logger
	conf      *Configuration
	publicKey *PublicKey
}

// NewClientConfig returns a client configuration. If serverPublicKey is set, registration and login fail with
// ErrInvalidServer when talking to another server. The key must belong to the same configuration.
func NewClientConfig(conf *Configuration, serverPublicKey *PublicKey, options ...*Options) (*ClientConfig, error) {
	if err := conf.Verify(); err != nil {
		return nil, err
	}

	if serverPublicKey != nil && !serverPublicKey.conf.Equal(conf) {
		return nil, ErrConfigMismatch.Join(internal.ErrInvalidServerPublicKey)
	}

	random, logger := parseOptions(options)

	return &ClientConfig{
		random:    random,
		logger:    logger,
		conf:      conf.clone(),
		publicKey: serverPublicKey,
	}, nil
}

// Configuration returns a copy of the client's configuration.
func (c *ClientConfig) Configuration() *Configuration {
	return c.conf.clone()
}

// PublicKey returns the pinned server public key, if any.
func (c *ClientConfig) PublicKey() *PublicKey {
	return c.publicKey
}

// blindPassword draws a fresh blind and blinds the password.
func blindPassword(conf *internal.Configuration, password []byte) (*group.Scalar, *group.Element, error) {
	blind, err := internal.RandomScalar(conf.Group, conf.Random, tag.Blind)
	if err != nil {
		return nil, nil, ErrCrypto.Join(err)
	}

	blinded, err := oprf.Blind(conf.Group, password, blind)
	if err != nil {
		return nil, nil, ErrCrypto.Join(err)
	}

	return blind, blinded, nil
}

// ClientRegistration is the client's state between the two client registration steps. It lives only in memory, is
// used once, and is never serialized.
type ClientRegistration struct {
	config       *ClientConfig
	conf         *internal.Configuration
	blind        *group.Scalar
	credentialID []byte
	password     []byte
	done         bool
}

// ClientRegistrationResult holds the secrets and the server pin produced by a successful registration.
type ClientRegistrationResult struct {
	// ExportKey is the application secret bound to the password.
	ExportKey ExportKey

	// File pins the server's public key for later logins.
	File *ClientFile
}

// checkInputs rejects credential identifiers and passwords that cannot be length-prefixed in derivations.
func checkInputs(credentialID, password []byte) error {
	if len(credentialID) > internal.MaxInputLength {
		return ErrConfiguration.Join(internal.ErrCredentialIDLength)
	}

	if len(password) > internal.MaxInputLength {
		return ErrConfiguration.Join(internal.ErrPasswordLength)
	}

	return nil
}

// Register starts the registration of password under credentialID. The returned request goes to the server.
func Register(
	config *ClientConfig,
	credentialID, password []byte,
) (*ClientRegistration, *message.RegistrationRequest, error) {
	if err := checkInputs(credentialID, password); err != nil {
		return nil, nil, err
	}

	conf, err := config.conf.toInternal(config.random)
	if err != nil {
		return nil, nil, err
	}

	blind, blinded, err := blindPassword(conf, password)
	if err != nil {
		return nil, nil, err
	}

	return &ClientRegistration{
		config:       config,
		conf:         conf,
		blind:        blind,
		credentialID: slices.Clone(credentialID),
		password:     slices.Clone(password),
	}, &message.RegistrationRequest{BlindedElement: blinded}, nil
}

// Flush attempts to zero out the blind and password. The state is unusable afterwards.
func (c *ClientRegistration) Flush() {
	internal.ClearScalar(&c.blind)
	internal.ClearSlice(&c.password)
	c.done = true
}

// LogValue implements slog.LogValuer without exposing the state's secrets.
func (c *ClientRegistration) LogValue() slog.Value {
	return slog.GroupValue(slog.String("state", "client_registration"), slog.Bool("done", c.done))
}

// String implements fmt.Stringer without exposing the state's secrets.
func (c *ClientRegistration) String() string {
	return "ClientRegistration{redacted}"
}

func (c *ClientRegistration) clientKeyPair(options []*ClientOptions) (*group.Scalar, *group.Element, []byte, error) {
	var skBytes, nonce []byte

	for _, o := range options {
		if o == nil {
			continue
		}

		if o.PrivateKey != nil {
			skBytes = o.PrivateKey
		}

		if o.EnvelopeNonce != nil {
			nonce = slices.Clone(o.EnvelopeNonce)
		}
	}

	if nonce == nil {
		var err error
		if nonce, err = c.conf.RandomBytes(c.conf.NonceLen); err != nil {
			return nil, nil, nil, ErrCrypto.Join(err)
		}
	} else if len(nonce) != c.conf.NonceLen {
		return nil, nil, nil, ErrConfiguration.Join(internal.ErrInvalidEnvelope)
	}

	if skBytes != nil {
		sk, err := c.conf.DecodeScalar(skBytes)
		if err != nil {
			return nil, nil, nil, ErrConfiguration.Join(internal.ErrInvalidPrivateKey, err)
		}

		return sk, c.conf.Group.Base().Multiply(sk), nonce, nil
	}

	sk, pk, err := c.conf.RandomKeyPair(tag.DeriveDiffieHellmanKeyPair)
	if err != nil {
		return nil, nil, nil, ErrCrypto.Join(err)
	}

	return sk, pk, nonce, nil
}

// Finish completes the client side of the registration with the server's response. It seals the client's long-term
// private key together with the server's public key, and returns the finalization message for the server. The state
// is consumed whatever the outcome.
func (c *ClientRegistration) Finish(
	response *message.RegistrationResponse,
	options ...*ClientOptions,
) (*message.RegistrationFinalization, *ClientRegistrationResult, error) {
	if c.done {
		return nil, nil, ErrState.Join(internal.ErrStateConsumed)
	}

	defer c.Flush()

	if response == nil || response.EvaluatedElement == nil || response.ServerPublicKey == nil {
		return nil, nil, ErrDeserialization.Join(errRegistrationResponse, internal.ErrNilMessage)
	}

	if response.EvaluatedElement.IsIdentity() {
		return nil, nil, ErrInvalidElement.Join(internal.ErrInvalidEvaluatedElement, internal.ErrIdentityElement)
	}

	if response.ServerPublicKey.IsIdentity() {
		return nil, nil, ErrInvalidElement.Join(internal.ErrInvalidServerPublicKey, internal.ErrIdentityElement)
	}

	serverPublicKey := newPublicKey(c.config.conf, response.ServerPublicKey)
	if c.config.publicKey != nil && !c.config.publicKey.Equal(serverPublicKey) {
		return nil, nil, ErrInvalidServer
	}

	oprfOutput, err := oprf.Finalize(c.conf.Group, c.blind, c.password, response.EvaluatedElement)
	if err != nil {
		return nil, nil, ErrCrypto.Join(err)
	}

	sk, pk, nonce, err := c.clientKeyPair(options)
	if err != nil {
		return nil, nil, err
	}

	envelopeKey, exportKey := envelope.DeriveKeys(c.conf, oprfOutput, c.credentialID)
	env := envelope.Seal(c.conf, envelopeKey, nonce, sk, serverPublicKey.encoded)

	internal.ClearSlice(&envelopeKey)
	internal.ClearSlice(&oprfOutput)
	internal.ClearScalar(&sk)

	c.config.logger.LogAttrs(context.Background(), slog.LevelDebug, "registration finished",
		slog.String("side", "client"), slog.String("group", c.config.conf.Group.String()))

	return &message.RegistrationFinalization{
			ClientPublicKey: pk,
			Envelope:        env.Serialize(),
		}, &ClientRegistrationResult{
			ExportKey: exportKey,
			File:      &ClientFile{publicKey: serverPublicKey},
		}, nil
}

// ClientLogin is the client's state between the two client login steps. It lives only in memory, is used once, and
// is never serialized.
type ClientLogin struct {
	config             *ClientConfig
	conf               *internal.Configuration
	pinned             *PublicKey
	blind              *group.Scalar
	ephemeralSecretKey *group.Scalar
	credentialID       []byte
	password           []byte
	request            []byte
	done               bool
}

// ClientLoginResult holds the secrets and the server pin produced by a successful login.
type ClientLoginResult struct {
	// SessionKey is the secret shared with the server for this session.
	SessionKey SessionKey

	// ExportKey is the application secret bound to the password. It is the same as at registration.
	ExportKey ExportKey

	// File pins the server's public key for later logins.
	File *ClientFile
}

// Login starts a login with password under credentialID. If file is set, the server must prove possession of the
// key stored in it. The returned request goes to the server.
func Login(
	config *ClientConfig,
	file *ClientFile,
	credentialID, password []byte,
) (*ClientLogin, *message.LoginRequest, error) {
	if err := checkInputs(credentialID, password); err != nil {
		return nil, nil, err
	}

	pinned := config.publicKey

	if file != nil {
		if !file.publicKey.conf.Equal(config.conf) {
			return nil, nil, ErrConfigMismatch
		}

		if pinned != nil && !pinned.Equal(file.publicKey) {
			return nil, nil, ErrConfigPublicKey
		}

		pinned = file.publicKey
	}

	conf, err := config.conf.toInternal(config.random)
	if err != nil {
		return nil, nil, err
	}

	blind, blinded, err := blindPassword(conf, password)
	if err != nil {
		return nil, nil, err
	}

	esk, epk, err := conf.RandomKeyPair(tag.DeriveDiffieHellmanKeyPair)
	if err != nil {
		return nil, nil, ErrCrypto.Join(err)
	}

	request := &message.LoginRequest{BlindedElement: blinded, ClientKeyShare: epk}

	return &ClientLogin{
		config:             config,
		conf:               conf,
		pinned:             pinned,
		blind:              blind,
		ephemeralSecretKey: esk,
		credentialID:       slices.Clone(credentialID),
		password:           slices.Clone(password),
		request:            request.Serialize(),
	}, request, nil
}

// Flush attempts to zero out the blind, ephemeral key and password. The state is unusable afterwards.
func (c *ClientLogin) Flush() {
	internal.ClearScalar(&c.blind)
	internal.ClearScalar(&c.ephemeralSecretKey)
	internal.ClearSlice(&c.password)
	c.done = true
}

// LogValue implements slog.LogValuer without exposing the state's secrets.
func (c *ClientLogin) LogValue() slog.Value {
	return slog.GroupValue(slog.String("state", "client_login"), slog.Bool("done", c.done))
}

// String implements fmt.Stringer without exposing the state's secrets.
func (c *ClientLogin) String() string {
	return "ClientLogin{redacted}"
}

func (c *ClientLogin) checkResponse(response *message.LoginResponse) error {
	if response == nil || response.EvaluatedElement == nil || response.ServerKeyShare == nil {
		return ErrDeserialization.Join(errLoginResponse, internal.ErrNilMessage)
	}

	if len(response.Envelope) != c.conf.EnvelopeLength() {
		return ErrDeserialization.Join(errLoginResponse, internal.ErrInvalidEnvelope)
	}

	if len(response.ServerMac) != c.conf.MAC.Size() {
		return ErrDeserialization.Join(errLoginResponse, internal.ErrInvalidMAC)
	}

	if response.EvaluatedElement.IsIdentity() {
		return ErrInvalidElement.Join(internal.ErrInvalidEvaluatedElement, internal.ErrIdentityElement)
	}

	if response.ServerKeyShare.IsIdentity() {
		return ErrInvalidElement.Join(internal.ErrInvalidEphemeralKey, internal.ErrIdentityElement)
	}

	return nil
}

// openEnvelope never fails early: on failure it substitutes key material derived from the envelope key, so that the
// rest of the login runs the same computations whether or not the password was right.
func (c *ClientLogin) openEnvelope(envelopeKey, encoded []byte) (*group.Scalar, *group.Element, bool) {
	env, err := envelope.Deserialize(c.conf, encoded)
	if err == nil {
		sk, pks, err := envelope.Open(c.conf, envelopeKey, env)
		if err == nil {
			return sk, pks, true
		}
	}

	sk, err := oprf.DeriveKey(c.conf.Group, envelopeKey, []byte(tag.DeriveDiffieHellmanKeyPair))
	if err != nil {
		sk = c.ephemeralSecretKey.Copy()
	}

	return sk, c.conf.Group.Base(), false
}

// Finish completes the client side of the login with the server's response. Any cryptographic failure, whether a
// wrong password, a tampered envelope or an invalid server MAC, returns ErrLoginFailed without further detail. The
// state is consumed whatever the outcome.
func (c *ClientLogin) Finish(
	response *message.LoginResponse,
) (*message.LoginFinalization, *ClientLoginResult, error) {
	if c.done {
		return nil, nil, ErrState.Join(internal.ErrStateConsumed)
	}

	defer c.Flush()

	if err := c.checkResponse(response); err != nil {
		return nil, nil, err
	}

	oprfOutput, err := oprf.Finalize(c.conf.Group, c.blind, c.password, response.EvaluatedElement)
	if err != nil {
		return nil, nil, ErrCrypto.Join(err)
	}

	envelopeKey, exportKey := envelope.DeriveKeys(c.conf, oprfOutput, c.credentialID)
	internal.ClearSlice(&oprfOutput)

	sk, serverPublicKey, envelopeOK := c.openEnvelope(envelopeKey, response.Envelope)
	internal.ClearSlice(&envelopeKey)

	transcript := &ake.Transcript{
		CredentialID:    c.credentialID,
		LoginRequest:    c.request,
		ServerPublicKey: serverPublicKey.Encode(),
		ClientPublicKey: c.conf.Group.Base().Multiply(sk).Encode(),
		Evaluated:       response.EvaluatedElement.Encode(),
		Envelope:        response.Envelope,
		ServerKeyShare:  response.ServerKeyShare.Encode(),
	}

	sessionKey, clientMac, macOK := ake.Finalize(c.conf, c.ephemeralSecretKey, sk, serverPublicKey,
		response.ServerKeyShare, transcript, response.ServerMac)
	internal.ClearScalar(&sk)

	if !envelopeOK || !macOK {
		internal.ClearSlice(&sessionKey)
		internal.ClearSlice(&exportKey)
		c.config.logger.LogAttrs(context.Background(), slog.LevelDebug, "login failed",
			slog.String("side", "client"), slog.Any("error", ErrLoginFailed))

		return nil, nil, ErrLoginFailed
	}

	recovered := newPublicKey(c.config.conf, serverPublicKey)
	if c.pinned != nil && !c.pinned.Equal(recovered) {
		internal.ClearSlice(&sessionKey)
		internal.ClearSlice(&exportKey)

		return nil, nil, ErrInvalidServer
	}

	c.config.logger.LogAttrs(context.Background(), slog.LevelDebug, "login finished",
		slog.String("side", "client"), slog.String("group", c.config.conf.Group.String()))

	return &message.LoginFinalization{ClientMac: clientMac}, &ClientLoginResult{
		SessionKey: sessionKey,
		ExportKey:  exportKey,
		File:       &ClientFile{publicKey: recovered},
	}, nil
}
