// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password

import (
	"errors"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/khonsulabs/custodian-password/internal"
	"github.com/khonsulabs/custodian-password/internal/encoding"
	"github.com/khonsulabs/custodian-password/message"
)

// Deserializer exposes the message deserialization functions for one configuration.
type Deserializer struct {
	conf   *internal.Configuration
	public *Configuration
}

func (d *Deserializer) element(input []byte, cause error) (*group.Element, error) {
	e, err := d.conf.DecodeElement(input)
	if err != nil {
		return nil, ErrInvalidElement.Join(cause, err)
	}

	return e, nil
}

func lengthError(cause error) error {
	return ErrDeserialization.Join(cause, internal.ErrInvalidEncodingLength)
}

// PublicKey decodes and validates a public key.
func (d *Deserializer) PublicKey(encoded []byte) (*PublicKey, error) {
	e, err := d.element(encoded, internal.ErrInvalidServerPublicKey)
	if err != nil {
		return nil, err
	}

	return newPublicKey(d.public, e), nil
}

// RegistrationRequest takes a serialized RegistrationRequest message and returns a deserialized
// RegistrationRequest structure.
func (d *Deserializer) RegistrationRequest(input []byte) (*message.RegistrationRequest, error) {
	if len(input) != d.conf.ElementLen {
		return nil, lengthError(errRegistrationRequest)
	}

	blinded, err := d.element(input, internal.ErrInvalidBlindedElement)
	if err != nil {
		return nil, err
	}

	return &message.RegistrationRequest{BlindedElement: blinded}, nil
}

// RegistrationResponse takes a serialized RegistrationResponse message and returns a deserialized
// RegistrationResponse structure.
func (d *Deserializer) RegistrationResponse(input []byte) (*message.RegistrationResponse, error) {
	if len(input) != 2*d.conf.ElementLen {
		return nil, lengthError(errRegistrationResponse)
	}

	evaluated, err := d.element(input[:d.conf.ElementLen], internal.ErrInvalidEvaluatedElement)
	if err != nil {
		return nil, err
	}

	pks, err := d.element(input[d.conf.ElementLen:], internal.ErrInvalidServerPublicKey)
	if err != nil {
		return nil, err
	}

	return &message.RegistrationResponse{EvaluatedElement: evaluated, ServerPublicKey: pks}, nil
}

// RegistrationFinalization takes a serialized RegistrationFinalization message and returns a deserialized
// RegistrationFinalization structure.
func (d *Deserializer) RegistrationFinalization(input []byte) (*message.RegistrationFinalization, error) {
	envLen := d.conf.EnvelopeLength()
	if len(input) != envLen+d.conf.ElementLen {
		return nil, lengthError(errRegistrationFinalization)
	}

	pku, err := d.element(input[envLen:], internal.ErrInvalidClientPublicKey)
	if err != nil {
		return nil, err
	}

	return &message.RegistrationFinalization{
		ClientPublicKey: pku,
		Envelope:        slices.Clone(input[:envLen]),
	}, nil
}

// LoginRequest takes a serialized LoginRequest message and returns a deserialized LoginRequest structure.
func (d *Deserializer) LoginRequest(input []byte) (*message.LoginRequest, error) {
	if len(input) != 2*d.conf.ElementLen {
		return nil, lengthError(errLoginRequest)
	}

	blinded, err := d.element(input[:d.conf.ElementLen], internal.ErrInvalidBlindedElement)
	if err != nil {
		return nil, err
	}

	epku, err := d.element(input[d.conf.ElementLen:], internal.ErrInvalidEphemeralKey)
	if err != nil {
		return nil, err
	}

	return &message.LoginRequest{BlindedElement: blinded, ClientKeyShare: epku}, nil
}

func (d *Deserializer) loginResponseLength() int {
	return 2*d.conf.ElementLen + d.conf.EnvelopeLength() + d.conf.MAC.Size()
}

// LoginResponse takes a serialized LoginResponse message and returns a deserialized LoginResponse structure.
func (d *Deserializer) LoginResponse(input []byte) (*message.LoginResponse, error) {
	if len(input) != d.loginResponseLength() {
		return nil, lengthError(errLoginResponse)
	}

	offset := d.conf.ElementLen

	evaluated, err := d.element(input[:offset], internal.ErrInvalidEvaluatedElement)
	if err != nil {
		return nil, err
	}

	env := input[offset : offset+d.conf.EnvelopeLength()]
	offset += d.conf.EnvelopeLength()

	epks, err := d.element(input[offset:offset+d.conf.ElementLen], internal.ErrInvalidEphemeralKey)
	if err != nil {
		return nil, err
	}

	offset += d.conf.ElementLen

	return &message.LoginResponse{
		EvaluatedElement: evaluated,
		ServerKeyShare:   epks,
		Envelope:         slices.Clone(env),
		ServerMac:        slices.Clone(input[offset:]),
	}, nil
}

// LoginFinalization takes a serialized LoginFinalization message and returns a deserialized LoginFinalization
// structure.
func (d *Deserializer) LoginFinalization(input []byte) (*message.LoginFinalization, error) {
	if len(input) != d.conf.MAC.Size() {
		return nil, lengthError(errLoginFinalization)
	}

	return &message.LoginFinalization{ClientMac: slices.Clone(input)}, nil
}

// ServerFile decodes a persisted server file. The file must have been created with this configuration.
func (d *Deserializer) ServerFile(input []byte) (*ServerFile, error) {
	var confBytes, credentialID, oprfKey, pku, env, pks []byte
	if err := encoding.DecodeVectors(input, &confBytes, &credentialID, &oprfKey, &pku, &env, &pks); err != nil {
		return nil, ErrDeserialization.Join(errServerFile, err)
	}

	conf, err := DeserializeConfiguration(confBytes)
	if err != nil {
		return nil, ErrDeserialization.Join(errServerFile, err)
	}

	if !conf.Equal(d.public) {
		return nil, ErrConfigMismatch.Join(errServerFile)
	}

	k, err := d.conf.DecodeScalar(oprfKey)
	if err != nil {
		return nil, ErrDeserialization.Join(errServerFile, internal.ErrInvalidPrivateKey, err)
	}

	clientPublicKey, err := d.element(pku, internal.ErrInvalidClientPublicKey)
	if err != nil {
		return nil, err
	}

	if len(env) != d.conf.EnvelopeLength() {
		return nil, ErrDeserialization.Join(errServerFile, internal.ErrInvalidEnvelope)
	}

	serverPublicKey, err := d.element(pks, internal.ErrInvalidServerPublicKey)
	if err != nil {
		return nil, err
	}

	return &ServerFile{
		conf:            conf,
		oprfKey:         k,
		clientPublicKey: clientPublicKey,
		serverPublicKey: serverPublicKey,
		credentialID:    slices.Clone(credentialID),
		envelope:        slices.Clone(env),
	}, nil
}

var (
	errRegistrationRequest      = errors.New("invalid registration request")
	errRegistrationResponse     = errors.New("invalid registration response")
	errRegistrationFinalization = errors.New("invalid registration finalization")
	errLoginRequest             = errors.New("invalid login request")
	errLoginResponse            = errors.New("invalid login response")
	errLoginFinalization        = errors.New("invalid login finalization")
	errServerFile               = errors.New("invalid server file")
	errCredentialID             = errors.New("credential identifier does not match the server file")
)
