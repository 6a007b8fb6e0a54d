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
)

// Finalize recomputes the client side of the exchange. It always computes both MACs and the session secret, and
// reports whether the server MAC verified in constant time.
func Finalize(
	conf *internal.Configuration,
	ephemeralSecretKey, clientSecretKey *group.Scalar,
	serverPublicKey, serverKeyShare *group.Element,
	t *Transcript,
	serverMac []byte,
) (sessionSecret, clientMac []byte, ok bool) {
	ikm := k3dh(serverKeyShare, ephemeralSecretKey, serverPublicKey, ephemeralSecretKey, serverKeyShare, clientSecretKey)
	sessionSecret, expectedServerMac, clientMac := core3DH(conf, ikm, t)
	internal.ClearSlice(&ikm)

	return sessionSecret, clientMac, conf.MAC.Equal(expectedServerMac, serverMac)
}
