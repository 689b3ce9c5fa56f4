package app

import "errors"

// ErrInvalidRequest and related errors describe validation and runtime failures.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
)
