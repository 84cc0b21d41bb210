package engine

import "errors"

var (
	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a category, accessory, or gallery item was not found.
	ErrNotFound = errors.New("not found")

	// ErrCanceled indicates the user declined a confirmation.
	ErrCanceled = errors.New("canceled")
)
