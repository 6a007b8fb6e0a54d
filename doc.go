// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package password implements an asymmetric password-authenticated key exchange.
//
// A client registers a password with a server without ever sending it. The server keeps a ServerFile per credential
// identifier: a per-user OPRF key, the client's public key and an envelope sealed under a key only the password can
// recover. At login, the client recovers its private key from the envelope and both parties run a triple
// Diffie-Hellman exchange bound to the full message transcript. Both sides end with the same SessionKey, and the
// client also gets an ExportKey that is stable across logins.
//
// Both parties must use the same Configuration, which fixes the group, the hash function and the memory-hard
// function used to stretch the password.
//
// Registration:
//
//	client                                 server
//	Register            -- request  -->    ServerConfig.Register
//	ClientRegistration.Finish  <-- response --
//	                    -- finalization --> ServerRegistration.Finish -> ServerFile
//
// Login:
//
//	client                                 server
//	Login               -- request  -->    ServerConfig.Login(ServerFile)
//	ClientLogin.Finish  <-- response --
//	                    -- finalization --> ServerLogin.Finish
//
// Every login failure the client can observe, whether a wrong password, an unknown credential or a tampered message,
// is reported as ErrLoginFailed.
package password
