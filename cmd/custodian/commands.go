// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package main

import (
	"bufio"
	"bytes"
	"context"
	"crypto"
	"database/sql"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	_ "github.com/mattn/go-sqlite3" // record database driver
	"github.com/olekukonko/tablewriter"
	"github.com/trustelem/zxcvbn"
	"golang.org/x/term"

	password "github.com/khonsulabs/custodian-password"
	"github.com/khonsulabs/custodian-password/store"
)

var (
	errWeakPassword     = errors.New("password is too weak")
	errPasswordMismatch = errors.New("passwords don't match")
	errNoUser           = errors.New("missing -user")
)

type app struct {
	settings *settings
	logger   *slog.Logger
	stdout   io.Writer
	stdin    *os.File
	lines    *bufio.Reader
}

func (a *app) keygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	groupName := fs.String("group", "ristretto255", "group: ristretto255 or p256")
	mhfName := fs.String("mhf", "argon2id", "memory-hard function: argon2id, argon2i, pbkdf2-sha256 or pbkdf2-sha512")
	iterations := fs.Uint("iterations", 0, "MHF iterations, 0 for the function's default")
	memory := fs.Uint("memory", 64*1024, "Argon2 memory in KiB")
	parallelism := fs.Uint("parallelism", 4, "Argon2 lanes")
	force := fs.Bool("force", false, "overwrite an existing key file")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	conf, err := buildConfiguration(*groupName, *mhfName, uint32(*iterations), uint32(*memory), uint8(*parallelism))
	if err != nil {
		return err
	}

	server, err := password.NewServerConfig(conf, &password.Options{Logger: a.logger})
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if *force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(a.settings.serverKey, flags, 0o600)
	if err != nil {
		return fmt.Errorf("writing server key: %w", err)
	}

	if _, err = fmt.Fprintln(f, server.Hex()); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing server key: %w", err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("writing server key: %w", err)
	}

	a.logger.Info("server key generated", slog.String("path", a.settings.serverKey),
		slog.String("configuration", conf.String()))
	color.Green("[+] server key written to %s", a.settings.serverKey)
	_, _ = fmt.Fprintf(a.stdout, "configuration: %s\npublic key:    %s\n", conf, server.PublicKey().Hex())

	return nil
}

func buildConfiguration(groupName, mhfName string, iterations, memory uint32, parallelism uint8) (*password.Configuration, error) {
	conf := password.DefaultConfiguration()

	switch strings.ToLower(groupName) {
	case "ristretto255":
		conf.Group, conf.Hash = password.Ristretto255Sha512, crypto.SHA512
	case "p256":
		conf.Group, conf.Hash = password.P256Sha256, crypto.SHA256
	default:
		return nil, fmt.Errorf("unknown group %q", groupName)
	}

	switch strings.ToLower(mhfName) {
	case "argon2id", "argon2i":
		variant := password.Argon2id
		if strings.EqualFold(mhfName, "argon2i") {
			variant = password.Argon2i
		}

		if iterations == 0 {
			iterations = 3
		}

		conf.MHF = password.Argon2(variant, memory, iterations, parallelism)
	case "pbkdf2-sha256", "pbkdf2-sha512":
		h := crypto.SHA256
		if strings.EqualFold(mhfName, "pbkdf2-sha512") {
			h = crypto.SHA512
		}

		if iterations == 0 {
			iterations = 600_000
		}

		conf.MHF = password.PBKDF2WithHash(h, iterations)
	default:
		return nil, fmt.Errorf("unknown memory-hard function %q", mhfName)
	}

	return conf, conf.Verify()
}

func (a *app) loadServer() (*password.ServerConfig, error) {
	encoded, err := os.ReadFile(a.settings.serverKey)
	if err != nil {
		return nil, fmt.Errorf("reading server key (run keygen first): %w", err)
	}

	return password.DecodeServerConfigHex(strings.TrimSpace(string(encoded)), &password.Options{Logger: a.logger})
}

func (a *app) openRecords(ctx context.Context, conf *password.Configuration, overwrite bool) (*store.Records, func(), error) {
	db, err := sql.Open("sqlite3", a.settings.database)
	if err != nil {
		return nil, nil, fmt.Errorf("opening record database: %w", err)
	}

	s := store.NewSQL(db)
	if err = s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	records, err := store.NewRecords(s, conf, overwrite)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return records, func() { _ = db.Close() }, nil
}

func (a *app) readPassword(prompt string) ([]byte, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)

	if term.IsTerminal(int(a.stdin.Fd())) {
		pwd, err := term.ReadPassword(int(a.stdin.Fd()))
		_, _ = fmt.Fprintln(os.Stderr)

		return pwd, err
	}

	if a.lines == nil {
		a.lines = bufio.NewReader(a.stdin)
	}

	line, err := a.lines.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return bytes.TrimRight(line, "\r\n"), nil
}

// checkStrength refuses passwords zxcvbn scores below minScore, on its 0 to 4 scale.
func checkStrength(pwd []byte, user string, minScore int) error {
	result := zxcvbn.PasswordStrength(string(pwd), []string{user})
	if result.Score < minScore {
		return fmt.Errorf("%w: score %d/4, need %d", errWeakPassword, result.Score, minScore)
	}

	return nil
}

func userFlags(name string) (*flag.FlagSet, *string, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	user := fs.String("user", "", "credential identifier")
	clientFile := fs.String("client-file", "", "file pinning the server key on the client side")

	return fs, user, clientFile
}

func (a *app) register(args []string) error {
	fs, user, clientFile := userFlags("register")
	overwrite := fs.Bool("overwrite", false, "replace an existing registration")
	minScore := fs.Int("min-score", 3, "minimum zxcvbn score, 0 to 4")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *user == "" {
		return errNoUser
	}

	server, err := a.loadServer()
	if err != nil {
		return err
	}

	pwd, err := a.readPassword("password: ")
	if err != nil {
		return err
	}

	if err = checkStrength(pwd, *user, *minScore); err != nil {
		return err
	}

	confirm, err := a.readPassword("confirm password: ")
	if err != nil {
		return err
	}

	if !bytes.Equal(pwd, confirm) {
		return errPasswordMismatch
	}

	ctx := context.Background()

	records, closeDB, err := a.openRecords(ctx, server.Configuration(), *overwrite)
	if err != nil {
		return err
	}
	defer closeDB()

	client, err := password.NewClientConfig(server.Configuration(), server.PublicKey(), &password.Options{Logger: a.logger})
	if err != nil {
		return err
	}

	credentialID := []byte(*user)
	result, file, err := registerSession(ctx, client, server, credentialID, pwd)
	if err != nil {
		return err
	}

	if err = records.Save(ctx, file); err != nil {
		if errors.Is(err, store.ErrExists) {
			return fmt.Errorf("user %q is already registered, use -overwrite to replace it: %w", *user, err)
		}

		return err
	}

	if *clientFile != "" {
		if err = os.WriteFile(*clientFile, []byte(hex.EncodeToString(result.File.Serialize())+"\n"), 0o600); err != nil {
			return fmt.Errorf("writing client file: %w", err)
		}
	}

	a.logger.Info("user registered", slog.String("user", *user))
	color.Green("[+] registered %s", *user)
	_, _ = fmt.Fprintf(a.stdout, "export key fingerprint: %s\n", fingerprint(result.ExportKey))

	return nil
}

func (a *app) login(args []string) error {
	fs, user, clientFile := userFlags("login")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *user == "" {
		return errNoUser
	}

	server, err := a.loadServer()
	if err != nil {
		return err
	}

	var pin *password.ClientFile
	if *clientFile != "" {
		if pin, err = readClientFile(*clientFile); err != nil {
			return err
		}
	}

	pwd, err := a.readPassword("password: ")
	if err != nil {
		return err
	}

	ctx := context.Background()

	records, closeDB, err := a.openRecords(ctx, server.Configuration(), false)
	if err != nil {
		return err
	}
	defer closeDB()

	credentialID := []byte(*user)

	file, err := records.Lookup(ctx, credentialID)
	if err != nil {
		return err
	}

	client, err := password.NewClientConfig(server.Configuration(), nil, &password.Options{Logger: a.logger})
	if err != nil {
		return err
	}

	result, serverKey, err := loginSession(ctx, client, pin, server, file, credentialID, pwd)
	if err != nil {
		if errors.Is(err, password.ErrLoginFailed) {
			a.logger.Warn("login failed", slog.String("user", *user))
		}

		return err
	}

	a.logger.Info("user logged in", slog.String("user", *user))
	color.Green("[+] logged in as %s", *user)
	_, _ = fmt.Fprintf(a.stdout, "session keys agree: %t\nsession fingerprint: %s\nexport key fingerprint: %s\n",
		serverKey.Equal(result.SessionKey), fingerprint(result.SessionKey), fingerprint(result.ExportKey))

	return nil
}

func readClientFile(path string) (*password.ClientFile, error) {
	encoded, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading client file: %w", err)
	}

	decoded, err := hex.DecodeString(strings.TrimSpace(string(encoded)))
	if err != nil {
		return nil, fmt.Errorf("reading client file: %w", err)
	}

	return password.DeserializeClientFile(decoded)
}

// fingerprint shows a prefix of a key, enough to compare runs by eye.
func fingerprint(key []byte) string {
	return hex.EncodeToString(key[:8])
}

func (a *app) suites() error {
	table := tablewriter.NewWriter(a.stdout)
	table.SetHeader([]string{"Group", "Hash", "MHF", "Default parameters"})
	table.SetBorder(false)

	for _, g := range []struct {
		group password.Group
		hash  crypto.Hash
	}{
		{password.Ristretto255Sha512, crypto.SHA512},
		{password.P256Sha256, crypto.SHA256},
	} {
		table.Append([]string{g.group.String(), g.hash.String(), password.Argon2id.String(), "t=3, m=65536 KiB, p=4"})
		table.Append([]string{g.group.String(), g.hash.String(), password.Argon2i.String(), "t=3, m=65536 KiB, p=4"})
		table.Append([]string{g.group.String(), g.hash.String(), password.PBKDF2.String() + "-SHA256", "600000 iterations"})
		table.Append([]string{g.group.String(), g.hash.String(), password.PBKDF2.String() + "-SHA512", "600000 iterations"})
	}

	table.Render()

	return nil
}
