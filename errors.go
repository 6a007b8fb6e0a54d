// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package password

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var (
	// ErrConfiguration indicates that the configuration is invalid.
	ErrConfiguration = ErrCodeConfiguration.New("")

	// ErrInvalidElement indicates a malformed group element, or one equal to the identity element.
	ErrInvalidElement = ErrCodeInvalidElement.New("")

	// ErrDeserialization indicates a wire message or record of wrong length or structure.
	ErrDeserialization = ErrCodeDeserialization.New("")

	// ErrConfigMismatch indicates that two parties or artifacts were not created with the same configuration.
	ErrConfigMismatch = ErrCodeConfigMismatch.New("")

	// ErrConfigPublicKey indicates that the client's pinned server public key and the client file's key differ.
	ErrConfigPublicKey = ErrCodeConfigPublicKey.New("public keys don't match")

	// ErrLoginFailed indicates that login failed. It is returned for a wrong password, a tampered envelope, an invalid
	// MAC, or an unregistered credential, and never carries a cause.
	ErrLoginFailed = ErrCodeLoginFailed.New("")

	// ErrRegistrationFailed indicates that a registration message could not be used to build a record.
	ErrRegistrationFailed = ErrCodeRegistrationFailed.New("")

	// ErrCrypto indicates a failure of an underlying primitive, like the random source.
	ErrCrypto = ErrCodeCrypto.New("")

	// ErrInvalidServer indicates that the server's public key is not the one the client expected.
	ErrInvalidServer = ErrCodeInvalidServer.New("unexpected server identity")

	// ErrServerFile indicates a server file that was not created with this server configuration.
	ErrServerFile = ErrCodeServerFile.New("server file was not created with this server configuration")

	// ErrState indicates that a protocol state was already consumed or is incomplete.
	ErrState = ErrCodeState.New("")
)

// ErrorCode represents the type of error. It is used to categorize errors and provide a consistent way to handle error
// conditions.
type ErrorCode byte //nolint:errname // This is an error code, not an error type.

const (
	// ErrCodeUnknown represents an unknown error.
	ErrCodeUnknown ErrorCode = iota

	// ErrCodeConfiguration represents an error related to the configuration.
	ErrCodeConfiguration

	// ErrCodeInvalidElement represents a malformed or identity group element.
	ErrCodeInvalidElement

	// ErrCodeDeserialization represents a malformed wire message or record.
	ErrCodeDeserialization

	// ErrCodeConfigMismatch represents a configuration disagreement.
	ErrCodeConfigMismatch

	// ErrCodeConfigPublicKey represents a pinned server key disagreement between client configuration and file.
	ErrCodeConfigPublicKey

	// ErrCodeLoginFailed represents a failed login.
	ErrCodeLoginFailed

	// ErrCodeRegistrationFailed represents a failed registration.
	ErrCodeRegistrationFailed

	// ErrCodeCrypto represents a primitive failure.
	ErrCodeCrypto

	// ErrCodeInvalidServer represents an unexpected server public key.
	ErrCodeInvalidServer

	// ErrCodeServerFile represents a server file bound to another server key.
	ErrCodeServerFile

	// ErrCodeState represents a misuse of a protocol state.
	ErrCodeState
)

// New creates a new Error with the given message and errors.
func (c ErrorCode) New(message string, errs ...error) *Error {
	if message == "" {
		message = strings.ReplaceAll(c.String(), "_", " ")
	}

	return &Error{
		Code:    c,
		Message: message,
		Err:     errors.Join(errs...),
	}
}

// String returns the string representation of the ErrorCode. If the code is not recognized, it returns "unknown_error".
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeConfiguration:
		return "configuration_error"
	case ErrCodeInvalidElement:
		return "invalid_element"
	case ErrCodeDeserialization:
		return "deserialization_error"
	case ErrCodeConfigMismatch:
		return "configuration_mismatch"
	case ErrCodeConfigPublicKey:
		return "configuration_public_key_mismatch"
	case ErrCodeLoginFailed:
		return "login_failed"
	case ErrCodeRegistrationFailed:
		return "registration_failed"
	case ErrCodeCrypto:
		return "crypto_error"
	case ErrCodeInvalidServer:
		return "invalid_server"
	case ErrCodeServerFile:
		return "server_file_error"
	case ErrCodeState:
		return "state_error"
	default:
		return "unknown_error"
	}
}

// Error implements the error interface for the ErrorCode type. It returns a string representation of the error code.
func (c ErrorCode) Error() string {
	return c.String()
}

// Is implements the errors.Is method for the ErrorCode type.
// It allows checking if the error is of a specific ErrorCode.
func (c ErrorCode) Is(target error) bool {
	switch t := target.(type) { //nolint:errorlint // direct comparison against codes
	case ErrorCode:
		return c == t
	case *Error:
		return c == t.Code
	default:
		return false
	}
}

// As implements the errors.As method for the ErrorCode type.
func (c ErrorCode) As(target any) bool {
	if t, ok := target.(*ErrorCode); ok {
		*t = c
		return true
	}

	return false
}

// Error carries an ErrorCode, a concise message, and the optional cause chain.
type Error struct {
	Err     error
	Message string
	Code    ErrorCode
}

// Error implements the error interface for the Error type. By convention, we return only the concise form of the
// current error, without the cause. The cause can be retrieved with the Unwrap() method.
func (e *Error) Error() string { return e.Message }

// Unwrap implements the errors.Unwrap method for the Error type. It allows retrieving the underlying error, if any.
func (e *Error) Unwrap() error { return e.Err }

// Join wraps the provided error to the current error.
func (e *Error) Join(errs ...error) error {
	return errors.Join(e, errors.Join(errs...))
}

// Is reports whether target is the same ErrorCode, or an Error carrying the same code and message.
func (e *Error) Is(target error) bool {
	switch t := target.(type) { //nolint:errorlint // direct comparison against sentinels and codes
	case ErrorCode:
		return e.Code == t
	case *Error:
		return e.Code == t.Code && strings.EqualFold(e.Message, t.Message)
	default:
		return false
	}
}

// As implements the errors.As method for the Error type. It allows type assertion to specific error types.
func (e *Error) As(target any) bool {
	switch t := target.(type) {
	case *ErrorCode:
		*t = e.Code
		return true
	case **Error:
		*t = e
		return true
	default:
		return false
	}
}

// LogValue implements the slog.LogValuer interface for the Error type.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("code", int(e.Code)),
		slog.String("code_name", e.Code.String()),
		slog.String("message", e.Message),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("error", e.Err))
	}

	return slog.GroupValue(attrs...)
}

// Format implements the fmt.Formatter interface for the Error type. %+v prints the code and the cause chain.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			e.formatV(f)
			return
		}

		_, _ = io.WriteString(f, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error())
	default:
		_, _ = io.WriteString(f, e.Error())
	}
}

func printV(f fmt.State, err error, depth int) {
	if err == nil {
		return
	}

	_, _ = fmt.Fprintf(f, "\n%s↳ %v", strings.Repeat("  ", depth), err)

	switch u := err.(type) { //nolint:errorlint // walking the chain one level at a time
	case interface{ Unwrap() []error }:
		for _, child := range u.Unwrap() {
			printV(f, child, depth+1)
		}
	case interface{ Unwrap() error }:
		printV(f, u.Unwrap(), depth+1)
	}
}

func (e *Error) formatV(f fmt.State) {
	_, _ = fmt.Fprintf(f, "code=%d(%s)", e.Code, e.Code.String())
	if e.Message != "" {
		_, _ = fmt.Fprintf(f, " message=%q", e.Message)
	}

	printV(f, e.Err, 0)
}
