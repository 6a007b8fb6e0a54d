// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Command custodian runs password registrations and logins against a local record database. The client and server
// halves run concurrently and only exchange serialized messages, as they would over a network.
//
// Usage:
//
//	custodian [-env file] <command> [flags]
//
// Commands:
//
//	keygen    generate the server key file
//	register  register a password for a user
//	login     log a user in
//	suites    list the supported groups and memory-hard functions
//
// Settings are read from a .env file and the environment: CUSTODIAN_DB (record database path), CUSTODIAN_SERVER_KEY
// (server key file path) and CUSTODIAN_LOG_LEVEL (debug, info, warn or error).
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

var errUsage = errors.New("usage")

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, `usage: custodian [-env file] <command> [flags]

commands:
  keygen    generate the server key file
  register  register a password for a user
  login     log a user in
  suites    list the supported groups and memory-hard functions`)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			usage(os.Stderr)
			os.Exit(2)
		}

		color.Red("[!] %v", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("custodian", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env", ".env", "settings file, ignored if missing")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() == 0 {
		return errUsage
	}

	s, err := loadSettings(*envFile)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: s.logLevel})).
		With(slog.String("run", uuid.NewString()))

	app := &app{settings: s, logger: logger, stdout: stdout, stdin: os.Stdin}
	command, rest := fs.Arg(0), fs.Args()[1:]

	switch command {
	case "keygen":
		return app.keygen(rest)
	case "register":
		return app.register(rest)
	case "login":
		return app.login(rest)
	case "suites":
		return app.suites()
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}
