// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (closed taxonomy; the REST layer maps these
	// to HTTP statuses).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorConflict     = errors.New("already exists")
	ErrorValidation   = errors.New("validation error")
	ErrorForbidden    = errors.New("forbidden")

	// Upload-specific errors.
	ErrorFileTooLarge = errors.New("file too large")

	// Auth errors. These stay internal: handlers collapse all of them to
	// a single unauthorized response so the cause is never disclosed.
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrWrongTokenUse = errors.New("wrong token type")
	ErrTokenRevoked  = errors.New("token revoked")
)
