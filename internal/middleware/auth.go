package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/newsroom-dev/newsroom/internal/api"
	"github.com/newsroom-dev/newsroom/internal/domain"
	"github.com/newsroom-dev/newsroom/internal/jwt"
	"github.com/newsroom-dev/newsroom/internal/logger"
)

// Key to store the authenticated user in the request context
type key int

const userKey key = 0

// UserLoader resolves the user a validated access token points at, so the
// middleware can reject disabled or unverified accounts even while their
// tokens are cryptographically valid.
type UserLoader interface {
	UserById(id domain.UserId) (domain.User, error)
}

type Auth struct {
	jwt   jwt.Issuer
	users UserLoader
}

func NewAuth(jwtService jwt.Issuer, users UserLoader) *Auth {
	return &Auth{jwt: jwtService, users: users}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(api.Envelope{Success: false, Message: message})
}

// RequireAuth validates the access_token cookie and puts the user into the
// request context.
func (m *Auth) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessCookie, err := r.Cookie("access_token")
			if err != nil {
				writeUnauthorized(w, "Authentication required.")
				return
			}

			uid, err := m.jwt.Validate(accessCookie.Value, jwt.Access)
			if err != nil {
				writeUnauthorized(w, "Invalid or expired session.")
				return
			}

			user, err := m.users.UserById(uid)
			if err != nil {
				logger.Log.Debug("access token for unknown user", "user_id", uid)
				writeUnauthorized(w, "Invalid or expired session.")
				return
			}
			if !user.Active {
				writeUnauthorized(w, "User account is disabled.")
				return
			}
			if !user.EmailVerified && !user.Superuser {
				writeUnauthorized(w, "Email not verified.")
				return
			}

			next.ServeHTTP(w, WithUser(r, &user))
		})
	}
}

// WithUser returns a shallow copy of the request with the user attached.
func WithUser(r *http.Request, user *domain.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, user))
}

// GetUserFromContext retrieves the authenticated user set by RequireAuth.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
