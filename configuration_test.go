// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password_test

import (
	"bytes"
	"crypto"
	"errors"
	"testing"

	password "github.com/khonsulabs/custodian-password"
	"github.com/khonsulabs/custodian-password/internal/encoding"
)

func TestConfiguration_Serialization(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		encoded := c.conf.Serialize()

		decoded, err := password.DeserializeConfiguration(encoded)
		if err != nil {
			t.Fatal(err)
		}

		if !decoded.Equal(c.conf) || !bytes.Equal(decoded.Serialize(), encoded) {
			t.Fatal("configuration did not survive serialization")
		}

		if _, err = password.DeserializeConfiguration(encoded[:len(encoded)-1]); !errors.Is(err, password.ErrConfiguration) {
			t.Fatalf("expected a configuration error, got %v", err)
		}
	})
}

func TestConfiguration_Default(t *testing.T) {
	conf := password.DefaultConfiguration()
	if err := conf.Verify(); err != nil {
		t.Fatal(err)
	}

	if conf.Group != password.Ristretto255Sha512 || conf.Hash != crypto.SHA512 || conf.MHF.Function != password.Argon2id {
		t.Fatalf("unexpected default configuration %s", conf)
	}

	empty := *conf
	empty.Context = nil

	if !empty.Equal(conf) {
		t.Fatal("an empty context must select the default one")
	}
}

func TestConfiguration_Invalid(t *testing.T) {
	base := *configurationTable[0].conf

	cases := map[string]func(c *password.Configuration){
		"group":               func(c *password.Configuration) { c.Group = 0 },
		"hash":                func(c *password.Configuration) { c.Hash = crypto.SHA1 },
		"mhf function":        func(c *password.Configuration) { c.MHF.Function = 42 },
		"argon2 no iteration": func(c *password.Configuration) { c.MHF.Iterations = 0 },
		"argon2 no lane":      func(c *password.Configuration) { c.MHF.Parallelism = 0 },
		"argon2 low memory":   func(c *password.Configuration) { c.MHF.Memory = 1 },
		"argon2 with hash":    func(c *password.Configuration) { c.MHF.Hash = crypto.SHA256 },
		"pbkdf2 bad hash": func(c *password.Configuration) {
			c.MHF = password.PBKDF2WithHash(crypto.SHA1, 10)
		},
		"pbkdf2 no iteration": func(c *password.Configuration) {
			c.MHF = password.PBKDF2WithHash(crypto.SHA256, 0)
		},
		"pbkdf2 with memory": func(c *password.Configuration) {
			c.MHF = password.PBKDF2WithHash(crypto.SHA256, 10)
			c.MHF.Memory = 8
		},
		"context too long": func(c *password.Configuration) { c.Context = make([]byte, 1<<16) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			conf := base
			mutate(&conf)

			if err := conf.Verify(); !errors.Is(err, password.ErrConfiguration) {
				t.Fatalf("expected a configuration error, got %v", err)
			}

			if _, err := password.NewServerConfig(&conf); !errors.Is(err, password.ErrConfiguration) {
				t.Fatalf("expected a configuration error, got %v", err)
			}

			if _, err := password.NewClientConfig(&conf, nil); !errors.Is(err, password.ErrConfiguration) {
				t.Fatalf("expected a configuration error, got %v", err)
			}
		})
	}
}

func TestConfiguration_Stringers(t *testing.T) {
	for _, g := range []password.Group{password.Ristretto255Sha512, password.P256Sha256} {
		if !g.Available() || g.String() == "" {
			t.Fatalf("group %d is unavailable or unnamed", g)
		}
	}

	for _, f := range []password.MHFFunction{password.Argon2id, password.Argon2i, password.PBKDF2} {
		if f.String() == "" {
			t.Fatalf("empty name for MHF %d", f)
		}
	}

	testAll(t, func(t *testing.T, c *configuration) {
		if c.conf.String() == "" {
			t.Fatal("empty configuration description")
		}
	})
}

func TestServerConfig_Encoding(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := getServer(t, c)
		client := getClient(t, c, nil)
		reg := register(t, client, server, credentialIdentifier, secret)

		decoded, err := password.DecodeServerConfigHex(server.Hex())
		if err != nil {
			t.Fatal(err)
		}

		if !decoded.PublicKey().Equal(server.PublicKey()) || !decoded.Configuration().Equal(c.conf) {
			t.Fatal("decoded server configuration differs")
		}

		// A restored server answers logins for files created before the restart.
		if out := login(t, client, decoded, reg.file, credentialIdentifier, secret); out.clientErr != nil {
			t.Fatalf("unexpected error after restore: %v", out.clientErr)
		}

		// Simulated records are derived from the persisted seed, so they survive a restart too.
		before := login(t, client, server, nil, []byte("ghost"), secret)
		after := login(t, client, decoded, nil, []byte("ghost"), secret)

		if !bytes.Equal(before.response.Envelope, after.response.Envelope) {
			t.Fatal("simulated records changed across a restart")
		}
	})
}

func TestServerConfig_DecodeErrors(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := getServer(t, c)
		other := getServer(t, c)

		if _, err := password.DecodeServerConfigHex(""); !errors.Is(err, password.ErrDeserialization) {
			t.Fatalf("expected a deserialization error, got %v", err)
		}

		if _, err := password.DecodeServerConfigHex("not hex"); !errors.Is(err, password.ErrDeserialization) {
			t.Fatalf("expected a deserialization error, got %v", err)
		}

		encoded := server.Encode()
		if _, err := password.DecodeServerConfig(encoded[:len(encoded)-1]); !errors.Is(err, password.ErrDeserialization) {
			t.Fatalf("expected a deserialization error, got %v", err)
		}

		// Swap in another server's public key: the key pair no longer matches.
		var confBytes, sk, pk, seed []byte
		if err := encoding.DecodeVectors(encoded, &confBytes, &sk, &pk, &seed); err != nil {
			t.Fatal(err)
		}

		mixed := encoding.Concatenate(
			encoding.EncodeVector(confBytes),
			encoding.EncodeVector(sk),
			encoding.EncodeVector(other.PublicKey().Encode()),
			encoding.EncodeVector(seed),
		)

		if _, err := password.DecodeServerConfig(mixed); !errors.Is(err, password.ErrDeserialization) {
			t.Fatalf("expected a deserialization error, got %v", err)
		}

		short := encoding.Concatenate(
			encoding.EncodeVector(confBytes),
			encoding.EncodeVector(sk),
			encoding.EncodeVector(pk),
			encoding.EncodeVector(seed[1:]),
		)

		if _, err := password.DecodeServerConfig(short); !errors.Is(err, password.ErrDeserialization) {
			t.Fatalf("expected a deserialization error, got %v", err)
		}
	})
}

func TestPublicKey(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := getServer(t, c)

		decoded, err := c.conf.DecodePublicKey(server.PublicKey().Encode())
		if err != nil {
			t.Fatal(err)
		}

		if !decoded.Equal(server.PublicKey()) || decoded.Hex() != server.PublicKey().Hex() {
			t.Fatal("decoded public key differs")
		}

		if decoded.Equal(getServer(t, c).PublicKey()) {
			t.Fatal("two server keys compare equal")
		}

		if _, err = c.conf.DecodePublicKey(server.PublicKey().Encode()[1:]); !errors.Is(err, password.ErrInvalidElement) {
			t.Fatalf("expected an invalid element error, got %v", err)
		}
	})
}

func TestFlush(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server := getServer(t, c)
		client := getClient(t, c, nil)

		state, request, err := password.Register(client, credentialIdentifier, secret)
		if err != nil {
			t.Fatal(err)
		}

		_, response, err := server.Register(request, credentialIdentifier)
		if err != nil {
			t.Fatal(err)
		}

		state.Flush()

		if _, _, err = state.Finish(response); !errors.Is(err, password.ErrState) {
			t.Fatalf("expected a state error after Flush, got %v", err)
		}

		if state.String() != "ClientRegistration{redacted}" {
			t.Fatalf("unexpected string %q", state.String())
		}
	})
}
