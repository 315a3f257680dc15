package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/newsroom-dev/newsroom/internal/api"
	"github.com/newsroom-dev/newsroom/internal/middleware/ratelimiter"
	"github.com/newsroom-dev/newsroom/internal/utils"
)

// RateLimit rejects requests whose identity has exhausted its token bucket.
func RateLimit(rl *ratelimiter.Limiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(api.Envelope{Success: false, Message: err.Error()})
				return
			}
			if !rl.Allow(identity) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(api.Envelope{Success: false, Message: "Rate limit exceeded, try again later."})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GlobalRateLimit applies one shared bucket to every request.
func GlobalRateLimit(rl *ratelimiter.Limiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}

// GetIP identifies the request by client address.
func GetIP(r *http.Request) (string, error) {
	return utils.GetClientIP(r), nil
}

// GetEmailFromBody identifies the request by the email field of its JSON
// body, restoring the body so the handler can read it again. Used on
// email-sending endpoints so one address cannot be flooded from many IPs.
func GetEmailFromBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", errors.New("failed to read request body")
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	var data struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", errors.New("invalid request body")
	}
	if data.Email == "" {
		return "", errors.New("email field is required")
	}

	return data.Email, nil
}
