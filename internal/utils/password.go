package utils

import (
	"fmt"

	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a bcrypt digest of the plaintext.
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash reports whether the plaintext matches the digest.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength rejects passwords below the configured
// entropy threshold. The returned error message is client-safe.
func ValidatePasswordStrength(password string, minEntropy float64) error {
	return passwordvalidator.Validate(password, minEntropy)
}
