package usecase

import "errors"

var (
	// ErrNotFound deliberately does not say whether the endpoint, user or
	// record was the missing piece.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousScope means a direct endpoint request in multi-user mode
	// cannot be attributed to an owner without guessing.
	ErrAmbiguousScope = errors.New("ambiguous scope")

	ErrForbidden     = errors.New("forbidden")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmailTaken    = errors.New("user with this email already exists")
	ErrUsernameTaken = errors.New("username already taken")
)
