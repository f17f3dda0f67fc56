// Package errs contains sentinel errors shared by the storage, security and
// submission layers.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested storage item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable indicates a backend could not be read or written.
	// Callers on the logging and token paths swallow it.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrRateLimited indicates a submission was refused by the rate limiter.
	ErrRateLimited = errors.New("rate limited")

	// ErrValidationFailed indicates at least one form field was rejected.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidCSRFToken indicates the submitted token does not match the session.
	ErrInvalidCSRFToken = errors.New("invalid csrf token")

	// ErrSubmissionInProgress indicates the session already has a submission in flight.
	ErrSubmissionInProgress = errors.New("submission in progress")
)
