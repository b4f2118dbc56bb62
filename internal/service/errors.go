package service

import "errors"

var (
	// ErrNotFound covers apps the catalog cannot resolve and history ids
	// that were never assigned or have been cleared.
	ErrNotFound = errors.New("not found")

	// ErrUpstream covers catalog failures other than not-found.
	ErrUpstream = errors.New("upstream failure")

	// ErrValidation covers missing or malformed request fields.
	ErrValidation = errors.New("validation failed")
)
