package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind selects which single-use token table a store operates on.
type TokenKind string

const (
	EmailVerification TokenKind = "email_verification"
	PasswordReset     TokenKind = "password_reset"
)

// VerificationToken is a single-use random token bound to one user.
// Both email verification and password reset tokens share this shape.
type VerificationToken struct {
	Id        uuid.UUID
	UserId    UserId
	Value     string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
}

// IsValid reports whether the token can still be redeemed.
func (t *VerificationToken) IsValid() bool {
	return !t.Used && time.Now().Before(t.ExpiresAt)
}

// LoginAttempt records one authentication attempt. Email is a plain string,
// not a foreign key: attempts may target addresses that have no account.
type LoginAttempt struct {
	Id          int64
	Email       string
	IpAddress   string
	UserAgent   string
	Successful  bool
	AttemptedAt time.Time
}
