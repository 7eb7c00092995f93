package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotFound           = errors.New("not found")
	ErrInviteInvalid      = errors.New("invite token is invalid, expired or already used")
	ErrBadTransition      = errors.New("status transition not allowed")
)
