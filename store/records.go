// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package store

import (
	"context"
	"errors"

	password "github.com/khonsulabs/custodian-password"
)

// Records reads and writes ServerFiles of one configuration through a Store.
type Records struct {
	store        Store
	deserializer *password.Deserializer
	overwrite    bool
}

// NewRecords returns a typed view over store for conf. With overwrite set, registering an existing credential
// identifier replaces its file; otherwise it fails with ErrExists.
func NewRecords(store Store, conf *password.Configuration, overwrite bool) (*Records, error) {
	d, err := conf.Deserializer()
	if err != nil {
		return nil, err
	}

	return &Records{store: store, deserializer: d, overwrite: overwrite}, nil
}

// Save persists file under its credential identifier, following the overwrite policy.
func (r *Records) Save(ctx context.Context, file *password.ServerFile) error {
	if r.overwrite {
		return r.store.Put(ctx, file.CredentialID(), file.Serialize())
	}

	return r.store.Insert(ctx, file.CredentialID(), file.Serialize())
}

// Get returns the file for credentialID, or ErrNotFound.
func (r *Records) Get(ctx context.Context, credentialID []byte) (*password.ServerFile, error) {
	record, err := r.store.Get(ctx, credentialID)
	if err != nil {
		return nil, err
	}

	return r.deserializer.ServerFile(record)
}

// Lookup returns the file for credentialID, or nil if there is none. A nil file can be passed as is to
// ServerConfig.Login, which then answers for an unregistered credential.
func (r *Records) Lookup(ctx context.Context, credentialID []byte) (*password.ServerFile, error) {
	file, err := r.Get(ctx, credentialID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}

	return file, err
}
