package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-z0-9._]{3,30}$`)
)

// ValidateEmail validates an email address.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateUsername validates a normalized username: 3-30 characters,
// lowercase letters, digits, dots, and underscores.
func ValidateUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// ValidateID reports whether the value is a well-formed user or post
// identifier.
func ValidateID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername lowercases and trims a username, matching the
// case-normalization applied at registration.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
