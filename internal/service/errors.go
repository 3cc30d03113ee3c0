package service

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("not enough permissions")
	ErrEmailExists   = errors.New("email already registered")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidCreds  = errors.New("incorrect email or password")
	ErrInactiveUser  = errors.New("inactive user")
	ErrPasswordShort = errors.New("password must be at least 8 characters")
)
