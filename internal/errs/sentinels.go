// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrUnauthorized indicates failed authentication/authorization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedPayload indicates an encoded payload that does not match
	// the data-URI structure (type header + base64 body).
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrFileTooLarge indicates an upload exceeding the embedded-file size ceiling.
	ErrFileTooLarge = errors.New("file too large")

	// ErrReadError indicates the upload source could not be read or encoded.
	ErrReadError = errors.New("read error")

	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("validation failed")

	// ErrUIDConflict indicates two concurrent registrations computed the same
	// uid; the caller retries the allocation.
	ErrUIDConflict = errors.New("uid allocation conflict")
)
