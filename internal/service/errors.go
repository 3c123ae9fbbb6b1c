package service

import (
	"errors" // Error values
)

var (
	// ErrMissingField is returned when a registration field is empty
	ErrMissingField = errors.New("all fields are required")
	// ErrEmailExists is returned when the email is already registered
	ErrEmailExists = errors.New("email already exists")
	// ErrValidation is returned when input or the store's constraints reject the user
	ErrValidation = errors.New("validation error")
	// ErrUnexpected wraps any other registration failure
	ErrUnexpected = errors.New("something went wrong")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password alike
	ErrInvalidCredentials = errors.New("invalid credentials")
)
