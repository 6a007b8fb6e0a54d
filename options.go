// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password

import (
	"crypto/rand"
	"io"
	"log/slog"
)

// Options injects the collaborators of a client or server configuration. Zero values select the defaults.
type Options struct {
	// Random is the source of every random value. Defaults to crypto/rand.Reader.
	Random io.Reader

	// Logger receives protocol step outcomes at debug level. Secrets are never logged. Defaults to discarding.
	Logger *slog.Logger
}

func parseOptions(options []*Options) (io.Reader, *slog.Logger) {
	var (
		random io.Reader    = rand.Reader
		logger *slog.Logger = slog.New(slog.DiscardHandler)
	)

	for _, o := range options {
		if o == nil {
			continue
		}

		if o.Random != nil {
			random = o.Random
		}

		if o.Logger != nil {
			logger = o.Logger
		}
	}

	return random, logger
}

// ClientOptions enable setting optional client values at registration, which default to secure random values if not
// set.
type ClientOptions struct {
	// PrivateKey is an encoded long-term private key to seal instead of generating a fresh one.
	PrivateKey []byte

	// EnvelopeNonce replaces the random envelope nonce. It must be 32 bytes long.
	EnvelopeNonce []byte
}
