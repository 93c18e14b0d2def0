package identitytoolkit

import (
	"errors"
	"strings"
)

var (
	ErrInvalidConfig = errors.New("identitytoolkit: api key is required")

	// ErrEmailExists is returned by SignUp for an address that already has an account
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials covers unknown email, wrong password and disabled accounts
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrWeakPassword = errors.New("password is too weak")

	// ErrNetworkError is returned when the service could not be reached
	ErrNetworkError = errors.New("network error")

	ErrRequestFailed = errors.New("identity toolkit request failed")
)

// errorFor maps the service's error message codes to package errors.
func errorFor(message string) error {
	switch message {
	case "EMAIL_EXISTS":
		return ErrEmailExists
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED", "INVALID_EMAIL":
		return ErrInvalidCredentials
	}
	if strings.HasPrefix(message, "WEAK_PASSWORD") {
		return ErrWeakPassword
	}
	return ErrRequestFailed
}
