// Package common holds the sentinel errors shared by every layer of the
// planner. Callers wrap them with fmt.Errorf and match with errors.Is.
package common

import "errors"

var (
	// input errors
	ErrValidation = errors.New("validation error")

	// identity errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("forbidden")

	// repository errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrStorage  = errors.New("storage error")
)
