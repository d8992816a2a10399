package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("conflicting resource")
	ErrPreconditionFailed    = errors.New("precondition failed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
