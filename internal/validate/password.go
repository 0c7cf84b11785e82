package validate

import "unicode"

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// Password reports whether s meets the minimum strength requirements:
// at least MinPasswordLength characters with one uppercase letter, one
// lowercase letter and one digit.
func Password(s string) bool {
	if len(s) < MinPasswordLength {
		return false
	}

	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
