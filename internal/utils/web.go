package utils

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/newsroom-dev/newsroom/internal/errors"
	"github.com/newsroom-dev/newsroom/internal/logger"
)

// DecodeValidate decodes a JSON body into dst and runs struct-tag validation.
// Any failure is reported as a 400.
func DecodeValidate(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		logger.Log.Debug("failed to decode request body", "error", err)
		return errors.BadRequest("Body is invalid json")
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(dst); err != nil {
		logger.Log.Debug("request body validation failed", "error", err)
		fieldErrs := errors.FieldErrors{}
		if invalid, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range invalid {
				fieldErrs[strings.ToLower(fe.Field())] = "This field is " + fe.Tag() + "."
			}
			return fieldErrs
		}
		return errors.BadRequest("Required fields missing")
	}
	return nil
}

// GetClientIP extracts the client address, preferring proxy headers so the
// attempt log records the real origin behind a reverse proxy.
func GetClientIP(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if net.ParseIP(ip) != nil {
		return ip
	}

	for _, candidate := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		candidate = strings.TrimSpace(candidate)
		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GetUserAgent returns the User-Agent header, truncated to fit the attempt log column.
func GetUserAgent(r *http.Request) string {
	ua := r.Header.Get("User-Agent")
	if len(ua) > 255 {
		ua = ua[:255]
	}
	return ua
}
