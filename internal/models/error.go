package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrForbidden      = errors.New("forbidden")
	ErrValidation     = errors.New("validation failed")
	ErrInternalServer = errors.New("internal server error")

	// Authentication errors
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the caller-visible response never reveals whether an account exists.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAccountLocked      = errors.New("account locked due to too many failed login attempts")
	ErrAccountUnverified  = errors.New("email address not verified")
	ErrWeakPassword       = errors.New("password does not meet strength requirements")

	// Token errors
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)
