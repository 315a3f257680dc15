package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/newsroom-dev/newsroom/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValidate(t *testing.T) {
	type body struct {
		Email    string `validate:"required" json:"email"`
		Password string `validate:"required" json:"password"`
	}

	t.Run("valid body", func(t *testing.T) {
		var b body
		err := DecodeValidate(strings.NewReader(`{"email":"a@x.com","password":"p"}`), &b)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", b.Email)
	})

	t.Run("invalid json", func(t *testing.T) {
		var b body
		err := DecodeValidate(strings.NewReader(`{broken`), &b)
		require.Error(t, err)
		e, ok := err.(*errors.ErrorWithStatusCode)
		require.True(t, ok)
		assert.Equal(t, 400, e.StatusCode)
	})

	t.Run("missing field", func(t *testing.T) {
		var b body
		err := DecodeValidate(strings.NewReader(`{"email":"a@x.com"}`), &b)
		require.Error(t, err)
		fieldErrs, ok := err.(errors.FieldErrors)
		require.True(t, ok)
		assert.Contains(t, fieldErrs, "password")
	})
}

func TestGetClientIP(t *testing.T) {
	t.Run("x-real-ip", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Real-Ip", "203.0.113.7")
		assert.Equal(t, "203.0.113.7", GetClientIP(r))
	})

	t.Run("x-forwarded-for first valid", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "garbage, 198.51.100.2")
		assert.Equal(t, "198.51.100.2", GetClientIP(r))
	})

	t.Run("remote addr fallback", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "192.0.2.1:1234"
		assert.Equal(t, "192.0.2.1", GetClientIP(r))
	})
}

func TestGenerateTokenValue(t *testing.T) {
	v1, err := GenerateTokenValue(32)
	require.NoError(t, err)
	v2, err := GenerateTokenValue(32)
	require.NoError(t, err)

	assert.NotEqual(t, v1, v2)
	// 32 bytes base64url without padding is 43 chars
	assert.Len(t, v1, 43)
	assert.NotContains(t, v1, "=")
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(""))
}
