package core

import "errors"

var (
	// ErrInvalidKey indicates a menu key with missing components.
	ErrInvalidKey = errors.New("invalid menu key")

	// ErrInvalidDate indicates a date string that is not an ISO calendar date.
	ErrInvalidDate = errors.New("invalid date")
)
