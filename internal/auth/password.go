// Package auth provides password handling for callers that layer account
// credentials on top of the directory. The directory itself never sees a
// password; this is a separate collaborator by design of the API.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/userdir-dev/userdir/internal/validate"
)

// ErrWeakPassword is returned when a password fails the strength check.
var ErrWeakPassword = errors.New("password does not meet strength requirements")

// HashPassword checks the password strength and returns a bcrypt hash of
// the plaintext. The hash is safe to store and export.
func HashPassword(plaintext string) (string, error) {
	if !validate.Password(plaintext) {
		return "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
func VerifyPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
