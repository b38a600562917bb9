package service

import "errors"

// User-facing errors. They are reported inline by the render hosts and never
// stop the application.
var (
	ErrEmptyField         = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUsername  = errors.New("username already exists")
)

// Errors returned to hosts that address state that does not exist.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrIndexOutOfRange  = errors.New("todo index out of range")
	ErrUnknownView      = errors.New("unknown view")
	ErrUnknownField     = errors.New("unknown input field")
)

// authMessage is the inline text shown for an auth failure.
func authMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyField):
		return "Please enter both username and password"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, ErrDuplicateUsername):
		return "Username already exists"
	default:
		return "Something went wrong, please try again"
	}
}
