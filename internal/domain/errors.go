package domain

import "errors"

var (
	ErrNoSession          = errors.New("no active session")
	ErrEmptyCredentials   = errors.New("email and password must not be empty")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
