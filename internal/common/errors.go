// Package common contains shared sentinel errors and small helpers used
// across the service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// repository-level errors
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// domain errors, safe to expose to callers
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")

	// internal faults; detail must not reach callers
	ErrorInternal   = errors.New("internal error")
	ErrPasswordHash = errors.New("password hashing error")
)
