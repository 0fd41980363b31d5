package service

import "errors"

// Auth errors
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailExists         = errors.New("email is already registered")
	ErrUserNameExists      = errors.New("user name is already taken")
	ErrGuestExpired        = errors.New("guest session has expired")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters")
)
