package utils

import (
	"crypto/rand"
	"encoding/base64"
	"net/mail"

	"github.com/newsroom-dev/newsroom/internal/errors"
)

// GenerateTokenValue returns a URL-safe random string with nBytes of entropy.
// Used for email verification and password reset token values.
func GenerateTokenValue(nBytes int) (string, error) {
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ValidateEmail rejects addresses net/mail can't parse.
func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.FieldErrors{"email": "Enter a valid email address."}
	}
	return nil
}
