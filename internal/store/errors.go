// Package store implements the domain logic of the service: the
// identity store, the verification/reset code ledger, the short URL
// allocator, the file store with quota enforcement and the view
// counter. Handlers translate the sentinel errors below into HTTP
// statuses; storage failures are returned as-is and must never be
// shown to callers as domain errors.
package store

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("you don't own this file")
	ErrURLTaken        = errors.New("this URL is already taken")
	ErrEmailTaken      = errors.New("this email is already registered")
	ErrQuotaExceeded   = errors.New("file limit reached, delete a file before uploading a new one")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFileType = errors.New("only .html files are supported")
	ErrInvalidURL      = errors.New("custom URLs must be 6 lowercase alphanumeric characters")
	ErrCodeInvalid     = errors.New("code is invalid or expired")
	ErrAlreadyVerified = errors.New("account is already verified")
	ErrBadCredentials  = errors.New("invalid credentials")
)
