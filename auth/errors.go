package auth

import "errors"

var (
	ErrWeakPassword          = errors.New("weak-password")
	ErrPasswordTooLong       = errors.New("password-too-long")
	ErrInvalidUsernameFormat = errors.New("invalid-username-format")
	ErrInvalidEmailFormat    = errors.New("invalid-email-format")
	ErrIncorrectPassword     = errors.New("incorrect-password")
)
