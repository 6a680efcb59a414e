package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts. Registration and
// password changes reject anything longer instead of letting it be truncated.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by HashPassword for passwords over MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// HashPassword derives the stored credential hash for a user account.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash account password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches a user's stored hash.
// A malformed hash is treated as a mismatch.
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
