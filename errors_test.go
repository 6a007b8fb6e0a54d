// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password_test

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	password "github.com/khonsulabs/custodian-password"
	"github.com/khonsulabs/custodian-password/internal"
)

func TestErrorJoin_IsAndAs(t *testing.T) {
	err := password.ErrDeserialization.Join(internal.ErrInvalidEncodingLength, internal.ErrNilMessage)

	if !errors.Is(err, password.ErrDeserialization) {
		t.Fatal("expected errors.Is(err, ErrDeserialization) to be true")
	}

	if !errors.Is(err, password.ErrCodeDeserialization) {
		t.Fatal("expected errors.Is(err, ErrCodeDeserialization) to be true")
	}

	if !errors.Is(err, internal.ErrInvalidEncodingLength) || !errors.Is(err, internal.ErrNilMessage) {
		t.Fatal("expected the internal causes to be discoverable")
	}

	if errors.Is(err, password.ErrLoginFailed) {
		t.Fatal("unexpected match on another code")
	}

	var code password.ErrorCode
	if !errors.As(err, &code) || code != password.ErrCodeDeserialization {
		t.Fatalf("expected code %v, got %v", password.ErrCodeDeserialization, code)
	}

	var e *password.Error
	if !errors.As(err, &e) || e.Code != password.ErrCodeDeserialization {
		t.Fatal("expected errors.As(err, **Error) to succeed")
	}
}

func TestErrorCode_Strings(t *testing.T) {
	codes := map[password.ErrorCode]string{
		password.ErrCodeUnknown:            "unknown_error",
		password.ErrCodeConfiguration:      "configuration_error",
		password.ErrCodeInvalidElement:     "invalid_element",
		password.ErrCodeDeserialization:    "deserialization_error",
		password.ErrCodeConfigMismatch:     "configuration_mismatch",
		password.ErrCodeConfigPublicKey:    "configuration_public_key_mismatch",
		password.ErrCodeLoginFailed:        "login_failed",
		password.ErrCodeRegistrationFailed: "registration_failed",
		password.ErrCodeCrypto:             "crypto_error",
		password.ErrCodeInvalidServer:      "invalid_server",
		password.ErrCodeServerFile:         "server_file_error",
		password.ErrCodeState:              "state_error",
	}

	for code, want := range codes {
		if code.String() != want || code.Error() != want {
			t.Errorf("code %d: expected %q, got %q", code, want, code.String())
		}
	}

	if password.ErrLoginFailed.Error() != "login failed" {
		t.Fatalf("unexpected message %q", password.ErrLoginFailed.Error())
	}
}

func TestError_Format(t *testing.T) {
	e := password.ErrCodeCrypto.New("", internal.ErrRandomSource)
	verbose := fmt.Sprintf("%+v", e)

	if !strings.Contains(verbose, "crypto_error") || !strings.Contains(verbose, internal.ErrRandomSource.Error()) {
		t.Fatalf("verbose format misses the code or the cause: %q", verbose)
	}

	if fmt.Sprintf("%v", e) != "crypto error" {
		t.Fatalf("unexpected short format %q", fmt.Sprintf("%v", e))
	}
}

func TestError_LogValue(t *testing.T) {
	var b strings.Builder
	logger := slog.New(slog.NewTextHandler(&b, nil))
	logger.Info("failed", "error", password.ErrCodeServerFile.New("", internal.ErrPublicKeyMismatch))

	out := b.String()
	if !strings.Contains(out, "code_name=server_file_error") {
		t.Fatalf("log line misses the code: %q", out)
	}
}

// Example_errorHandling shows how to tell the error classes apart.
func Example_errorHandling() {
	err := password.ErrDeserialization.Join(internal.ErrInvalidEncodingLength)

	switch {
	case errors.Is(err, password.ErrLoginFailed):
		fmt.Println("login failed: ask the user to retry")
	case errors.Is(err, password.ErrDeserialization):
		fmt.Println("malformed message: drop the connection")

		if errors.Is(err, internal.ErrInvalidEncodingLength) {
			fmt.Println("cause: wrong length")
		}
	default:
		fmt.Println("unexpected error")
	}
	// Output:
	// malformed message: drop the connection
	// cause: wrong length
}
