// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package store persists server files keyed by credential identifier.
package store

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var (
	// ErrNotFound is returned when no record exists for a credential identifier.
	ErrNotFound = errors.New("store: record not found")

	// ErrExists is returned when inserting a record for a credential identifier that already has one.
	ErrExists = errors.New("store: record already exists")

	errEmptyID = errors.New("store: empty credential identifier")
)

// Store holds opaque records keyed by credential identifier. A record is always written as a whole.
type Store interface {
	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id []byte) ([]byte, error)

	// Put writes the record for id, replacing any previous one.
	Put(ctx context.Context, id, record []byte) error

	// Insert writes the record for id only if there is none yet, and returns ErrExists otherwise.
	Insert(ctx context.Context, id, record []byte) error
}

// Memory is an in-memory Store. It is safe for concurrent use.
type Memory struct {
	records map[string][]byte
	mu      sync.RWMutex
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, id []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[string(id)]
	if !ok {
		return nil, ErrNotFound
	}

	return slices.Clone(record), nil
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, id, record []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(id) == 0 {
		return errEmptyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[string(id)] = slices.Clone(record)

	return nil
}

// Insert implements Store.
func (m *Memory) Insert(ctx context.Context, id, record []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(id) == 0 {
		return errEmptyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[string(id)]; ok {
		return ErrExists
	}

	m.records[string(id)] = slices.Clone(record)

	return nil
}

// Len returns the number of records held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}
