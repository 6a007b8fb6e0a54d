// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package tag provides the static tags and labels used in domain separation.
package tag

// These strings are the static tags and labels used throughout the protocol.
const (
	// OPRF tags.

	// OPRF is the prefix of the OPRF context string.
	OPRF = "CustodianOPRF-"

	// OPRFPrefix is the DST prefix to use for HashToGroup operations.
	OPRFPrefix = "HashToGroup-"

	// OPRFFinalize is the DST suffix used in the client transcript.
	OPRFFinalize = "Finalize"

	// DeriveKeyPair is the DST prefix for the key derivation from a seed.
	DeriveKeyPair = "DeriveKeyPair"

	// Key derivation labels.

	// ConfigurationDigest salts the extraction of the randomized password.
	ConfigurationDigest = "CustodianPassword-Configuration"

	// EnvelopeKey is the envelope key's KDF dst.
	EnvelopeKey = "EnvelopeKey"

	// ExportKey is the export key's KDF dst.
	ExportKey = "ExportKey"

	// Envelope tags.

	// AuthKey is the envelope's MAC key's KDF dst.
	AuthKey = "AuthKey"

	// EncryptionPad is the envelope's encryption pad KDF dst.
	EncryptionPad = "Pad"

	// Keys drawn from randomness.

	// OPRFKey is the dst for per-user OPRF keys.
	OPRFKey = "OPAQUE-OPRFKey"

	// DeriveDiffieHellmanKeyPair is the dst for static and ephemeral AKE keys.
	DeriveDiffieHellmanKeyPair = "OPAQUE-DeriveDiffieHellmanKeyPair"

	// Blind is the dst for OPRF blinding scalars.
	Blind = "OPAQUE-Blind"

	// Unregistered-credential simulation.

	// FakeOPRFKey expands the server's simulation seed into a per-credential OPRF key seed.
	FakeOPRFKey = "FakeOprfKey"

	// FakeClientKey expands the server's simulation seed into a per-credential client key seed.
	FakeClientKey = "FakeClientKey"

	// FakeEnvelope expands the server's simulation seed into a per-credential envelope.
	FakeEnvelope = "FakeEnvelope"

	// 3DH tags.

	// VersionTag is the AKE transcript prefix.
	VersionTag = "CustodianPassword-v1"

	// LabelPrefix is the 3DH secret KDF dst prefix.
	LabelPrefix = "OPAQUE-"

	// Handshake is the 3DH HandshakeSecret dst.
	Handshake = "HandshakeSecret"

	// SessionKey is the 3DH session secret dst.
	SessionKey = "SessionKey"

	// MacServer is 3DH server's MAC key KDF dst.
	MacServer = "ServerMAC"

	// MacClient is 3DH client's MAC key KDF dst.
	MacClient = "ClientMAC"
)
