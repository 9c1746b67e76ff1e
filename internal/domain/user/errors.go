package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidCredential = errors.New("invalid credential")
)

var ErrEmailAlreadyUsed = errors.New("email already used")
