// Package common defines shared constants and sentinel errors used across
// the auth subsystem. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// ErrAuthentication covers every token failure: bad signature, malformed
	// structure, expired, revoked. Deliberately coarse so callers cannot tell
	// which check failed.
	ErrAuthentication = errors.New("authentication failed")

	// Login errors.
	ErrUserNotFound  = errors.New("user not found")
	ErrUserNotActive = errors.New("user not active")
	ErrWrongPassword = errors.New("wrong password")

	// One-time code errors.
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPAlreadyUsed = errors.New("otp already used")
	ErrOTPExpired     = errors.New("otp expired")
	ErrOTPInvalid     = errors.New("otp invalid")
)
