// Package directory implements the in-memory user directory: a mapping
// from username to UserRecord with validated mutations and an append-only
// activity log.
package directory

import "errors"

var (
	// ErrDuplicateUser is returned when creating a user whose username already exists.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrUserNotFound is returned when the requested username is not in the directory.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidEmail is returned when an email fails validation on create or update.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidUsername is returned when creating a user with an empty username.
	ErrInvalidUsername = errors.New("username must not be empty")
)
