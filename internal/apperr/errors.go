// Package apperr defines sentinel errors shared across layers. Handlers map
// them to HTTP status codes with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrSaveFailed    = errors.New("failed to save list")
)
