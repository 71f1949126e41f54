// Package validate holds the form-field checks shared by registration and
// login. Each check returns a human-readable message, or "" when the value is
// acceptable.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Lengths count characters, not bytes.
const (
	MinPasswordLen = 6
	MinNameLen     = 2
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func Email(email string) string {
	if email == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(email) {
		return "Please enter a valid email address"
	}
	return ""
}

func Password(password string) string {
	if password == "" {
		return "Password is required"
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return "Password must be at least 6 characters"
	}
	return ""
}

func ConfirmPassword(password, confirm string) string {
	if confirm == "" {
		return "Please confirm your password"
	}
	if password != confirm {
		return "Passwords do not match"
	}
	return ""
}

func Name(name string) string {
	if name == "" {
		return "Name is required"
	}
	if utf8.RuneCountInString(name) < MinNameLen {
		return "Name must be at least 2 characters"
	}
	return ""
}

func Required(value, field string) string {
	if strings.TrimSpace(value) == "" {
		return field + " is required"
	}
	return ""
}

// First returns the first non-empty message.
func First(msgs ...string) string {
	for _, m := range msgs {
		if m != "" {
			return m
		}
	}
	return ""
}
