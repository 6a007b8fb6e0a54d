// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envDatabase  = "CUSTODIAN_DB"
	envServerKey = "CUSTODIAN_SERVER_KEY"
	envLogLevel  = "CUSTODIAN_LOG_LEVEL"

	defaultDatabase  = "custodian.db"
	defaultServerKey = "custodian.key"
)

type settings struct {
	database  string
	serverKey string
	logLevel  slog.Level
}

// loadSettings reads path into the environment without overriding variables already set, then reads the settings
// from the environment.
func loadSettings(path string) (*settings, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	s := &settings{
		database:  getEnv(envDatabase, defaultDatabase),
		serverKey: getEnv(envServerKey, defaultServerKey),
	}

	if err := s.logLevel.UnmarshalText([]byte(getEnv(envLogLevel, "warn"))); err != nil {
		return nil, fmt.Errorf("%s: %w", envLogLevel, err)
	}

	return s, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	return fallback
}
