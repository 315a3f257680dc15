package handler

import (
	"net/http"
	"strconv"

	"github.com/newsroom-dev/newsroom/internal/api"
	"github.com/newsroom-dev/newsroom/internal/errors"
	"github.com/newsroom-dev/newsroom/internal/middleware"
	"github.com/newsroom-dev/newsroom/internal/service"
	"github.com/newsroom-dev/newsroom/internal/utils"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Register(service.RegistrationInput{
		Email:     req.Email,
		Name:      req.Name,
		Password:  req.Password,
		Password2: req.Password2,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.UserResponse{
		Envelope: ok("Registration successful! Please check your email to verify your account."),
		User: &api.UserSummary{
			Id:    user.Id.String(),
			Email: user.Email,
			Name:  user.Name,
		},
	})
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req api.VerifyEmailRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.VerifyEmail(req.Token)
	if err != nil {
		writeError(w, err)
		return
	}

	verified := true
	writeJSON(w, http.StatusOK, api.UserResponse{
		Envelope: ok("Email verified successfully! You can now log in."),
		User: &api.UserSummary{
			Email:         user.Email,
			Name:          user.Name,
			EmailVerified: &verified,
		},
	})
}

func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req api.EmailRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.ResendVerification(req.Email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ok("Verification email sent! Please check your inbox."))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	user, pair, err := h.auth.Login(service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IpAddress: utils.GetClientIP(r),
		UserAgent: utils.GetUserAgent(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.setAuthCookies(w, pair)

	verified := user.EmailVerified
	writeJSON(w, http.StatusOK, api.UserResponse{
		Envelope: ok("Login successful!"),
		User: &api.UserSummary{
			Id:            user.Id.String(),
			Email:         user.Email,
			Name:          user.Name,
			EmailVerified: &verified,
		},
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, ok("Logged out successfully."))
}

// Refresh mints a new access credential from the refresh cookie. Any failure
// clears both cookies so the client falls back to a clean logged-out state.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	expire := func() {
		h.clearAuthCookies(w)
		writeJSON(w, http.StatusUnauthorized, api.Envelope{Success: false, Message: "Session expired. Please log in again."})
	}

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		expire()
		return
	}

	access, err := h.auth.RefreshAccess(cookie.Value)
	if err != nil {
		expire()
		return
	}

	h.setAccessCookie(w, access)
	writeJSON(w, http.StatusOK, ok("Token refreshed successfully."))
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, errors.Unauthorized("Authentication required."))
		return
	}

	verified := user.EmailVerified
	writeJSON(w, http.StatusOK, api.CheckResponse{
		Authenticated: true,
		User: api.UserSummary{
			Id:            user.Id.String(),
			Email:         user.Email,
			Name:          user.Name,
			EmailVerified: &verified,
		},
	})
}

func (h *Handler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req api.EmailRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.RequestPasswordReset(req.Email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ok("If an account exists with this email, you will receive a password reset link."))
}

func (h *Handler) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req api.PasswordResetConfirmRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.auth.ConfirmPasswordReset(req.Token, req.Password, req.Password2); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ok("Password reset successful! You can now log in with your new password."))
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, errors.Unauthorized("Authentication required."))
		return
	}

	var req api.ChangePasswordRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.ChangePassword(*user, req.OldPassword, req.Password, req.Password2); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ok("Password changed successfully."))
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, errors.Unauthorized("Authentication required."))
		return
	}

	writeJSON(w, http.StatusOK, api.ProfileResponse{
		Envelope: api.Envelope{Success: true},
		User:     api.NewUserProfile(*user),
	})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, errors.Unauthorized("Authentication required."))
		return
	}

	var req api.UpdateProfileRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.auth.UpdateName(*user, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.ProfileResponse{
		Envelope: ok("Profile updated successfully."),
		User:     api.NewUserProfile(updated),
	})
}

func (h *Handler) LoginHistory(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, errors.Unauthorized("Authentication required."))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	attempts, err := h.auth.LoginHistory(user.Email, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	payload := make([]api.LoginAttemptPayload, 0, len(attempts))
	for _, a := range attempts {
		payload = append(payload, api.LoginAttemptPayload{
			Email:       a.Email,
			IpAddress:   a.IpAddress,
			UserAgent:   a.UserAgent,
			Successful:  a.Successful,
			AttemptedAt: a.AttemptedAt,
		})
	}

	writeJSON(w, http.StatusOK, api.LoginHistoryResponse{
		Envelope: api.Envelope{Success: true},
		Attempts: payload,
	})
}
