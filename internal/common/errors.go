// Package common defines shared constants and sentinel errors used across
// the trove server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Input validation.
	ErrValidation     = errors.New("validation error")
	ErrDuplicateEmail = errors.New("email already in use")

	// Credential hashing. A stored hash that cannot be parsed is a server
	// problem, never a wrong password.
	ErrHashFormat = errors.New("malformed password hash record")

	// Token issuance gave up after repeated value collisions.
	ErrTokenGeneration = errors.New("could not generate unique token")

	// Token resolution causes. These stay internal: every one of them is
	// reported to clients as ErrUnauthorized.
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenUnknown   = errors.New("unknown token")
	ErrTokenRevoked   = errors.New("token revoked")
	ErrOrphanToken    = errors.New("no user for token")
)
