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
	"database/sql"
	"errors"
	"fmt"
)

const (
	createTable = `CREATE TABLE IF NOT EXISTS server_files (
		credential_id BLOB PRIMARY KEY,
		record BLOB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	selectRecord = `SELECT record FROM server_files WHERE credential_id = ?`
	upsertRecord = `INSERT INTO server_files (credential_id, record) VALUES (?, ?)
		ON CONFLICT(credential_id) DO UPDATE SET record = excluded.record, updated_at = CURRENT_TIMESTAMP`
	insertRecord = `INSERT INTO server_files (credential_id, record) VALUES (?, ?)
		ON CONFLICT(credential_id) DO NOTHING`
)

// SQL is a Store backed by a database/sql handle, using the server_files table. The queries use '?' placeholders and
// upsert syntax understood by SQLite.
type SQL struct {
	db *sql.DB
}

// NewSQL returns a Store using db. Call Migrate once to create the table.
func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

// Migrate creates the server_files table if it does not exist.
func (s *SQL) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("store: creating server_files table: %w", err)
	}

	return nil
}

// Get implements Store.
func (s *SQL) Get(ctx context.Context, id []byte) ([]byte, error) {
	var record []byte

	err := s.db.QueryRowContext(ctx, selectRecord, id).Scan(&record)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("store: reading record: %w", err)
	}

	return record, nil
}

// Put implements Store.
func (s *SQL) Put(ctx context.Context, id, record []byte) error {
	if len(id) == 0 {
		return errEmptyID
	}

	if _, err := s.db.ExecContext(ctx, upsertRecord, id, record); err != nil {
		return fmt.Errorf("store: writing record: %w", err)
	}

	return nil
}

// Insert implements Store.
func (s *SQL) Insert(ctx context.Context, id, record []byte) error {
	if len(id) == 0 {
		return errEmptyID
	}

	res, err := s.db.ExecContext(ctx, insertRecord, id, record)
	if err != nil {
		return fmt.Errorf("store: inserting record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: inserting record: %w", err)
	}

	if n == 0 {
		return ErrExists
	}

	return nil
}
