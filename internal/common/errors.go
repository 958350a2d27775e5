// Package common defines shared constants and sentinel errors used across
// the issuer, the guardian and the CLI. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Credential store errors.
	ErrValidation     = errors.New("validation error")
	ErrDuplicateUser  = errors.New("user already exists")
	ErrAuthentication = errors.New("invalid username or password")

	// Token verification errors. Clients only ever see a generic 401 for these.
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")

	// ErrUnauthenticated is returned when no bearer token was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// Signing secret errors; both abort startup.
	ErrSecretTooShort = errors.New("signing secret too short")
	ErrSecretSource   = errors.New("signing secret source")
)
