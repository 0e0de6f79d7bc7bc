// Package common defines shared constants, sentinel errors and small helpers
// used by both the server and the client. Callers should use errors.Is to
// match the sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Password digest could not be parsed.
	ErrorMalformedDigest = errors.New("malformed password digest")
)
