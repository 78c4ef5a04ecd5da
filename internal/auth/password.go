package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrLegacyCredential marks a stored credential that predates hashing.
// Such rows require a password reset; plain-text equality is never used.
var ErrLegacyCredential = errors.New("legacy plain-text credential, reset required")

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a candidate password against a stored bcrypt
// hash. Stored values without a bcrypt prefix are treated as legacy
// plain-text rows and rejected outright.
func CheckPassword(stored, candidate string) error {
	if !isBcryptHash(stored) {
		return ErrLegacyCredential
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate))
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
