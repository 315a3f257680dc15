package handler

import (
	"net/http"

	"github.com/newsroom-dev/newsroom/internal/jwt"
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"
)

func (h *Handler) newCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, pair jwt.Pair) {
	http.SetCookie(w, h.newCookie(accessCookieName, pair.Access, h.cfg.Public.AccessTokenTTLSec))
	http.SetCookie(w, h.newCookie(refreshCookieName, pair.Refresh, h.cfg.Public.RefreshTokenTTLSec))
}

func (h *Handler) setAccessCookie(w http.ResponseWriter, access string) {
	http.SetCookie(w, h.newCookie(accessCookieName, access, h.cfg.Public.AccessTokenTTLSec))
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, h.newCookie(accessCookieName, "", -1))
	http.SetCookie(w, h.newCookie(refreshCookieName, "", -1))
}
