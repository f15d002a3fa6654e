package services

import "errors"

// Errors handlers translate into HTTP status codes.
var (
	ErrNotFound           = errors.New("not found")
	ErrEmptyQuestion      = errors.New("question cannot be empty")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
)
