// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password

import (
	"bytes"
	"context"
	"crypto/subtle"
	"log/slog"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal"
	"github.com/khonsulabs/custodian-password/internal/ake"
	"github.com/khonsulabs/custodian-password/internal/encoding"
	"github.com/khonsulabs/custodian-password/internal/oprf"
	"github.com/khonsulabs/custodian-password/internal/tag"
	"github.com/khonsulabs/custodian-password/message"
)

func (s *ServerConfig) log(msg string, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("side", "server"), slog.String("group", s.conf.Group.String()))
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

func checkBlinded(blinded *group.Element) error {
	if blinded == nil {
		return ErrDeserialization.Join(internal.ErrNilMessage)
	}

	if blinded.IsIdentity() {
		return ErrInvalidElement.Join(internal.ErrInvalidBlindedElement, internal.ErrIdentityElement)
	}

	return nil
}

// ServerRegistration is the server's state between the two server registration steps. It holds the OPRF key drawn
// for the new credential until the client's finalization arrives.
type ServerRegistration struct {
	server       *ServerConfig
	conf         *internal.Configuration
	oprfKey      *group.Scalar
	credentialID []byte
	done         bool
}

// checkCredentialID rejects identifiers that cannot be length-prefixed in records and transcripts.
func checkCredentialID(credentialID []byte) error {
	if len(credentialID) > internal.MaxInputLength {
		return ErrDeserialization.Join(internal.ErrCredentialIDLength)
	}

	return nil
}

// Register answers a client's registration request for credentialID with a freshly drawn OPRF key.
func (s *ServerConfig) Register(
	request *message.RegistrationRequest,
	credentialID []byte,
) (*ServerRegistration, *message.RegistrationResponse, error) {
	if request == nil {
		return nil, nil, ErrDeserialization.Join(errRegistrationRequest, internal.ErrNilMessage)
	}

	if err := checkCredentialID(credentialID); err != nil {
		return nil, nil, err
	}

	if err := checkBlinded(request.BlindedElement); err != nil {
		return nil, nil, err
	}

	conf, err := s.internal()
	if err != nil {
		return nil, nil, err
	}

	oprfKey, err := internal.RandomScalar(conf.Group, conf.Random, tag.OPRFKey)
	if err != nil {
		return nil, nil, ErrCrypto.Join(err)
	}

	evaluated, err := oprf.Evaluate(oprfKey, request.BlindedElement)
	if err != nil {
		return nil, nil, ErrInvalidElement.Join(internal.ErrInvalidBlindedElement, err)
	}

	s.log("registration request answered")

	return &ServerRegistration{
			server:       s,
			conf:         conf,
			oprfKey:      oprfKey,
			credentialID: slices.Clone(credentialID),
		}, &message.RegistrationResponse{
			EvaluatedElement: evaluated,
			ServerPublicKey:  s.publicKey.element.Copy(),
		}, nil
}

// Flush attempts to zero out the OPRF key held by the state. The state is unusable afterwards.
func (r *ServerRegistration) Flush() {
	internal.ClearScalar(&r.oprfKey)
	r.done = true
}

// LogValue implements slog.LogValuer without exposing the OPRF key.
func (r *ServerRegistration) LogValue() slog.Value {
	return slog.GroupValue(slog.String("state", "server_registration"), slog.Bool("done", r.done))
}

// Finish builds the persistent record from the client's finalization. The caller stores it keyed by credential
// identifier.
func (r *ServerRegistration) Finish(finalization *message.RegistrationFinalization) (*ServerFile, error) {
	if r.done {
		return nil, ErrState.Join(internal.ErrStateConsumed)
	}

	r.done = true

	if finalization == nil || finalization.ClientPublicKey == nil {
		r.Flush()
		return nil, ErrRegistrationFailed.Join(internal.ErrNilMessage)
	}

	if finalization.ClientPublicKey.IsIdentity() {
		r.Flush()
		return nil, ErrRegistrationFailed.Join(internal.ErrInvalidClientPublicKey, internal.ErrIdentityElement)
	}

	if len(finalization.Envelope) != r.conf.EnvelopeLength() {
		r.Flush()
		return nil, ErrRegistrationFailed.Join(internal.ErrInvalidEnvelope)
	}

	file := &ServerFile{
		conf:            r.server.conf.clone(),
		oprfKey:         r.oprfKey,
		clientPublicKey: finalization.ClientPublicKey.Copy(),
		serverPublicKey: r.server.publicKey.element.Copy(),
		credentialID:    r.credentialID,
		envelope:        slices.Clone(finalization.Envelope),
	}

	// The key now belongs to the file.
	r.oprfKey = nil

	r.server.log("registration finished")

	return file, nil
}

// ServerLogin is the server's state between the two server login steps.
type ServerLogin struct {
	server *ServerConfig
	conf   *internal.Configuration
	ake    *ake.Server
	done   bool
}

// simulatedFile derives, from the server seed, a stand-in record for a credential identifier that has no file. The
// same identifier always yields the same record, so repeated probes look like a stable registration.
func (s *ServerConfig) simulatedFile(conf *internal.Configuration, credentialID []byte) (*ServerFile, error) {
	derive := func(label string, length int) []byte {
		return conf.KDF.Expand(s.seed, encoding.Concat([]byte(label), credentialID), length)
	}

	oprfSeed := derive(tag.FakeOPRFKey, internal.SeedLength)
	oprfKey, err := oprf.DeriveKey(conf.Group, oprfSeed, []byte(tag.DeriveKeyPair))
	internal.ClearSlice(&oprfSeed)

	if err != nil {
		return nil, ErrCrypto.Join(err)
	}

	clientSeed := derive(tag.FakeClientKey, internal.SeedLength)
	clientKey, err := oprf.DeriveKey(conf.Group, clientSeed, []byte(tag.DeriveDiffieHellmanKeyPair))
	internal.ClearSlice(&clientSeed)

	if err != nil {
		return nil, ErrCrypto.Join(err)
	}

	clientPublicKey := conf.Group.Base().Multiply(clientKey)
	internal.ClearScalar(&clientKey)

	return &ServerFile{
		conf:            s.conf,
		oprfKey:         oprfKey,
		clientPublicKey: clientPublicKey,
		serverPublicKey: s.publicKey.element.Copy(),
		credentialID:    slices.Clone(credentialID),
		envelope:        derive(tag.FakeEnvelope, conf.EnvelopeLength()),
	}, nil
}

func (s *ServerConfig) checkFile(file *ServerFile, credentialID []byte) error {
	if !file.conf.Equal(s.conf) {
		return ErrConfigMismatch.Join(errServerFile)
	}

	if subtle.ConstantTimeCompare(file.serverPublicKey.Encode(), s.publicKey.encoded) != 1 {
		return ErrServerFile
	}

	if !bytes.Equal(file.credentialID, credentialID) {
		return ErrServerFile.Join(errCredentialID)
	}

	return nil
}

// Login answers a client's login request for credentialID, using the file stored at registration. A nil file means
// the credential is not registered: the server then answers with a simulated record, and the client fails exactly as
// with a wrong password.
func (s *ServerConfig) Login(
	request *message.LoginRequest,
	file *ServerFile,
	credentialID []byte,
) (*ServerLogin, *message.LoginResponse, error) {
	if request == nil || request.ClientKeyShare == nil {
		return nil, nil, ErrDeserialization.Join(errLoginRequest, internal.ErrNilMessage)
	}

	if err := checkCredentialID(credentialID); err != nil {
		return nil, nil, err
	}

	if err := checkBlinded(request.BlindedElement); err != nil {
		return nil, nil, err
	}

	if request.ClientKeyShare.IsIdentity() {
		return nil, nil, ErrInvalidElement.Join(internal.ErrInvalidEphemeralKey, internal.ErrIdentityElement)
	}

	conf, err := s.internal()
	if err != nil {
		return nil, nil, err
	}

	simulated := file == nil
	if simulated {
		if file, err = s.simulatedFile(conf, credentialID); err != nil {
			return nil, nil, err
		}

		defer file.Flush()
	} else if err = s.checkFile(file, credentialID); err != nil {
		return nil, nil, err
	}

	evaluated, err := oprf.Evaluate(file.oprfKey, request.BlindedElement)
	if err != nil {
		return nil, nil, ErrInvalidElement.Join(internal.ErrInvalidBlindedElement, err)
	}

	transcript := &ake.Transcript{
		CredentialID:    credentialID,
		LoginRequest:    request.Serialize(),
		ServerPublicKey: s.publicKey.encoded,
		ClientPublicKey: file.clientPublicKey.Encode(),
		Evaluated:       evaluated.Encode(),
		Envelope:        file.envelope,
	}

	state, keyShare, serverMac, err := ake.Respond(conf, s.privateKey, file.clientPublicKey,
		request.ClientKeyShare, transcript)
	if err != nil {
		return nil, nil, ErrCrypto.Join(err)
	}

	s.log("login request answered")

	return &ServerLogin{
			server: s,
			conf:   conf,
			ake:    state,
		}, &message.LoginResponse{
			EvaluatedElement: evaluated,
			ServerKeyShare:   keyShare,
			Envelope:         slices.Clone(file.envelope),
			ServerMac:        serverMac,
		}, nil
}

// Flush attempts to zero out the state's secrets. The state is unusable afterwards.
func (l *ServerLogin) Flush() {
	if l.ake != nil {
		l.ake.Flush()
	}

	l.done = true
}

// LogValue implements slog.LogValuer without exposing the state's secrets.
func (l *ServerLogin) LogValue() slog.Value {
	return slog.GroupValue(slog.String("state", "server_login"), slog.Bool("done", l.done))
}

// Finish verifies the client's MAC and returns the session key. An invalid MAC returns ErrLoginFailed.
func (l *ServerLogin) Finish(finalization *message.LoginFinalization) (SessionKey, error) {
	if l.done {
		return nil, ErrState.Join(internal.ErrStateConsumed)
	}

	defer l.Flush()

	if finalization == nil || len(finalization.ClientMac) != l.conf.MAC.Size() {
		l.server.log("login failed", slog.Any("error", ErrLoginFailed))
		return nil, ErrLoginFailed
	}

	sessionKey, ok := l.ake.Finish(l.conf, finalization.ClientMac)
	if !ok {
		l.server.log("login failed", slog.Any("error", ErrLoginFailed))
		return nil, ErrLoginFailed
	}

	l.server.log("login finished")

	return sessionKey, nil
}
