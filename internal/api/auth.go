// Package api defines the JSON request and response shapes of the HTTP
// surface. Every response embeds Envelope: {success, message?, errors?}.
package api

import (
	"time"

	"github.com/newsroom-dev/newsroom/internal/domain"
)

type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type RegisterRequest struct {
	Email     string `validate:"required" json:"email"`
	Name      string `validate:"required" json:"name"`
	Password  string `validate:"required" json:"password"`
	Password2 string `validate:"required" json:"password2"`
}

type VerifyEmailRequest struct {
	Token string `validate:"required" json:"token"`
}

type EmailRequest struct {
	Email string `validate:"required" json:"email"`
}

type LoginRequest struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
}

type PasswordResetConfirmRequest struct {
	Token     string `validate:"required" json:"token"`
	Password  string `validate:"required" json:"password"`
	Password2 string `validate:"required" json:"password2"`
}

type ChangePasswordRequest struct {
	OldPassword string `validate:"required" json:"old_password"`
	Password    string `validate:"required" json:"password"`
	Password2   string `validate:"required" json:"password2"`
}

type UpdateProfileRequest struct {
	Name string `validate:"required" json:"name"`
}

// UserSummary is the short user payload returned by registration, login and
// the auth check.
type UserSummary struct {
	Id            string `json:"id,omitempty"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified *bool  `json:"email_verified,omitempty"`
}

// UserProfile is the full profile payload.
type UserProfile struct {
	Id            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
}

type UserResponse struct {
	Envelope
	User *UserSummary `json:"user,omitempty"`
}

type ProfileResponse struct {
	Envelope
	User *UserProfile `json:"user,omitempty"`
}

type CheckResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          UserSummary `json:"user"`
}

type LoginAttemptPayload struct {
	Email       string    `json:"email"`
	IpAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	Successful  bool      `json:"successful"`
	AttemptedAt time.Time `json:"attempted_at"`
}

type LoginHistoryResponse struct {
	Envelope
	Attempts []LoginAttemptPayload `json:"attempts"`
}

func NewUserProfile(user domain.User) *UserProfile {
	return &UserProfile{
		Id:            user.Id.String(),
		Email:         user.Email,
		Name:          user.Name,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		LastLogin:     user.LastLogin,
	}
}
