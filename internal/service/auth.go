package service

import (
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/newsroom-dev/newsroom/internal/config"
	"github.com/newsroom-dev/newsroom/internal/domain"
	"github.com/newsroom-dev/newsroom/internal/errors"
	"github.com/newsroom-dev/newsroom/internal/jwt"
	"github.com/newsroom-dev/newsroom/internal/logger"
	"github.com/newsroom-dev/newsroom/internal/middleware/metrics"
	"github.com/newsroom-dev/newsroom/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const genericLoginError = "Invalid email or password."

type AuthService interface {
	Register(input RegistrationInput) (domain.User, error)
	VerifyEmail(tokenValue string) (domain.User, error)
	ResendVerification(email string) error
	Login(input LoginInput) (domain.User, jwt.Pair, error)
	RefreshAccess(refreshToken string) (string, error)
	RequestPasswordReset(email string) error
	ConfirmPasswordReset(tokenValue, password, password2 string) (domain.User, error)
	ChangePassword(user domain.User, oldPassword, password, password2 string) error
	UserById(id domain.UserId) (domain.User, error)
	UpdateName(user domain.User, name string) (domain.User, error)
	LoginHistory(email string, limit int) ([]domain.LoginAttempt, error)
}

type RegistrationInput struct {
	Email     string
	Name      string
	Password  string
	Password2 string
}

type LoginInput struct {
	Email     string
	Password  string
	IpAddress string
	UserAgent string
}

type AuthStorage interface {
	SaveUser(user domain.User) error
	UserByEmail(email string) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
	UpdatePassword(id domain.UserId, passHash string) error
	UpdateName(id domain.UserId, name string) error
	UpdateLastLogin(id domain.UserId, at time.Time) error

	SaveToken(kind domain.TokenKind, token domain.VerificationToken) error
	TokenByValue(kind domain.TokenKind, value string) (domain.VerificationToken, error)
	ConsumeVerificationToken(token domain.VerificationToken) error
	ConsumePasswordResetToken(token domain.VerificationToken, newPassHash string) error

	SaveLoginAttempt(attempt domain.LoginAttempt) error
	LoginAttemptsByEmail(email string, limit int) ([]domain.LoginAttempt, error)
}

type Mailer interface {
	SendVerificationEmail(user domain.User, token string) error
	SendPasswordResetEmail(user domain.User, token string) error
	SendWelcomeEmail(user domain.User) error
	SendPasswordChangedEmail(user domain.User) error
}

type Auth struct {
	storage AuthStorage
	mailer  Mailer
	jwt     jwt.Issuer
	cfg     *config.Config
}

func NewAuth(storage AuthStorage, mailer Mailer, jwtService jwt.Issuer, cfg *config.Config) *Auth {
	return &Auth{
		storage: storage,
		mailer:  mailer,
		jwt:     jwtService,
		cfg:     cfg,
	}
}

// notify dispatches a mail send off the request path. A flaky SMTP server
// must not slow down or fail the request; failures are logged only.
func notify(what, email string, fn func() error) {
	go func() {
		if err := fn(); err != nil {
			logger.Log.Error("failed to send notification email", "kind", what, "email", email, "error", err)
		}
	}()
}

func validatePassword(password, password2 string) error {
	if len(password) < 8 {
		return errors.FieldErrors{"password": "Password must be at least 8 characters long."}
	}
	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return errors.FieldErrors{"password": "Password cannot be entirely numeric."}
	}
	if password != password2 {
		return errors.FieldErrors{"password2": "Passwords do not match."}
	}
	return nil
}

func (a *Auth) issueToken(kind domain.TokenKind, userId domain.UserId, ttl time.Duration) (domain.VerificationToken, error) {
	value, err := utils.GenerateTokenValue(32)
	if err != nil {
		logger.Log.Error("failed to generate token value", "error", err)
		return domain.VerificationToken{}, err
	}
	token := domain.VerificationToken{
		Id:        uuid.New(),
		UserId:    userId,
		Value:     value,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	// SaveToken also invalidates the user's previous unused tokens of this
	// kind, so only the newest token is live.
	if err := a.storage.SaveToken(kind, token); err != nil {
		return domain.VerificationToken{}, err
	}
	metrics.RecordTokenIssued(string(kind))
	return token, nil
}

// Register creates an unverified user and emails them a verification link.
func (a *Auth) Register(input RegistrationInput) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)

	if err := utils.ValidateEmail(email); err != nil {
		return domain.User{}, err
	}
	if len(name) < 2 {
		return domain.User{}, errors.FieldErrors{"name": "Name must be at least 2 characters long."}
	}
	if err := validatePassword(input.Password, input.Password2); err != nil {
		return domain.User{}, err
	}

	if _, err := a.storage.UserByEmail(email); err == nil {
		return domain.User{}, errors.FieldErrors{"email": "A user with this email already exists."}
	} else if !errors.IsNotFound(err) {
		return domain.User{}, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	user := domain.User{
		Id:            uuid.New(),
		Email:         email,
		Name:          name,
		PassHash:      string(passHash),
		Active:        true,
		EmailVerified: false,
	}
	if err := a.storage.SaveUser(user); err != nil {
		// Concurrent registration can still lose on the unique email index.
		if e, ok := err.(*errors.ErrorWithStatusCode); ok && e.StatusCode == http.StatusConflict {
			return domain.User{}, errors.FieldErrors{"email": "A user with this email already exists."}
		}
		return domain.User{}, err
	}

	token, err := a.issueToken(domain.EmailVerification, user.Id, a.cfg.VerificationTTL())
	if err != nil {
		return domain.User{}, err
	}

	notify("verification", user.Email, func() error { return a.mailer.SendVerificationEmail(user, token.Value) })

	return user, nil
}

// VerifyEmail redeems a verification token. The verified flag and the used
// flag flip in one storage transaction; a second redemption of the same token
// reports it as already used.
func (a *Auth) VerifyEmail(tokenValue string) (domain.User, error) {
	token, err := a.storage.TokenByValue(domain.EmailVerification, tokenValue)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.User{}, errors.FieldErrors{"token": "Invalid verification token."}
		}
		return domain.User{}, err
	}
	if token.Used {
		return domain.User{}, errors.FieldErrors{"token": "This verification link has already been used."}
	}
	if time.Now().After(token.ExpiresAt) {
		return domain.User{}, errors.FieldErrors{"token": "This verification link has expired. Please request a new one."}
	}

	if err := a.storage.ConsumeVerificationToken(token); err != nil {
		if e, ok := err.(*errors.ErrorWithStatusCode); ok && e.StatusCode == http.StatusConflict {
			return domain.User{}, errors.FieldErrors{"token": "This verification link has already been used."}
		}
		return domain.User{}, err
	}

	user, err := a.storage.UserById(token.UserId)
	if err != nil {
		return domain.User{}, err
	}

	notify("welcome", user.Email, func() error { return a.mailer.SendWelcomeEmail(user) })

	return user, nil
}

// ResendVerification reissues a verification token, invalidating prior ones.
func (a *Auth) ResendVerification(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := utils.ValidateEmail(email); err != nil {
		return err
	}

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.FieldErrors{"email": "No account found with this email address."}
		}
		return err
	}
	if user.EmailVerified {
		return errors.FieldErrors{"email": "This email is already verified."}
	}

	token, err := a.issueToken(domain.EmailVerification, user.Id, a.cfg.VerificationTTL())
	if err != nil {
		return err
	}

	notify("verification", user.Email, func() error { return a.mailer.SendVerificationEmail(user, token.Value) })

	return nil
}

// Login authenticates a user and issues a credential pair. Every attempt is
// appended to the attempt log with its outcome, including attempts on
// addresses that have no account.
//
// Lookup failure and password mismatch intentionally share one generic
// message so probing cannot distinguish them. The unverified-email check runs
// before the password check and returns a distinct message; that verification
// status side channel is a deliberate carry-over, not an oversight.
func (a *Auth) Login(input LoginInput) (domain.User, jwt.Pair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	successful := false
	defer func() {
		attempt := domain.LoginAttempt{
			Email:      email,
			IpAddress:  input.IpAddress,
			UserAgent:  input.UserAgent,
			Successful: successful,
		}
		if err := a.storage.SaveLoginAttempt(attempt); err != nil {
			logger.Log.Error("failed to record login attempt", "email", email, "error", err)
		}
		metrics.RecordLoginAttempt(successful)
	}()

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.User{}, jwt.Pair{}, errors.Unauthorized(genericLoginError)
		}
		return domain.User{}, jwt.Pair{}, err
	}

	if !user.EmailVerified && !user.Superuser {
		return domain.User{}, jwt.Pair{}, errors.Unauthorized("Please verify your email before logging in. Check your inbox for the verification link.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(input.Password)); err != nil {
		return domain.User{}, jwt.Pair{}, errors.Unauthorized(genericLoginError)
	}

	if !user.Active {
		return domain.User{}, jwt.Pair{}, errors.Unauthorized("This account has been deactivated.")
	}

	pair, err := a.jwt.IssuePair(user)
	if err != nil {
		logger.Log.Error("failed to issue credential pair", "user_id", user.Id, "error", err)
		return domain.User{}, jwt.Pair{}, err
	}

	if err := a.storage.UpdateLastLogin(user.Id, time.Now().UTC()); err != nil {
		logger.Log.Warn("failed to update last login", "user_id", user.Id, "error", err)
	}

	successful = true
	return user, pair, nil
}

// RefreshAccess validates the refresh credential and mints a new access
// credential. The refresh credential is not rotated.
func (a *Auth) RefreshAccess(refreshToken string) (string, error) {
	return a.jwt.RefreshAccess(refreshToken)
}

// RequestPasswordReset issues a reset token if the account exists and is
// verified, and silently no-ops otherwise. Callers always report success so
// the endpoint cannot be used to enumerate accounts.
func (a *Auth) RequestPasswordReset(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := utils.ValidateEmail(email); err != nil {
		return err
	}

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			logger.Log.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}
	if !user.EmailVerified {
		logger.Log.Info("password reset requested for unverified account", "user_id", user.Id)
		return nil
	}

	token, err := a.issueToken(domain.PasswordReset, user.Id, a.cfg.PasswordResetTTL())
	if err != nil {
		return err
	}

	notify("password_reset", user.Email, func() error { return a.mailer.SendPasswordResetEmail(user, token.Value) })

	return nil
}

// ConfirmPasswordReset redeems a reset token and sets the new password. The
// password update, the token spend and the invalidation of sibling unused
// reset tokens happen in one storage transaction.
func (a *Auth) ConfirmPasswordReset(tokenValue, password, password2 string) (domain.User, error) {
	if err := validatePassword(password, password2); err != nil {
		return domain.User{}, err
	}

	token, err := a.storage.TokenByValue(domain.PasswordReset, tokenValue)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.User{}, errors.FieldErrors{"token": "Invalid reset token."}
		}
		return domain.User{}, err
	}
	if token.Used {
		return domain.User{}, errors.FieldErrors{"token": "This reset link has already been used."}
	}
	if time.Now().After(token.ExpiresAt) {
		return domain.User{}, errors.FieldErrors{"token": "This reset link has expired. Please request a new one."}
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	if err := a.storage.ConsumePasswordResetToken(token, string(passHash)); err != nil {
		if e, ok := err.(*errors.ErrorWithStatusCode); ok && e.StatusCode == http.StatusConflict {
			return domain.User{}, errors.FieldErrors{"token": "This reset link has already been used."}
		}
		return domain.User{}, err
	}

	user, err := a.storage.UserById(token.UserId)
	if err != nil {
		return domain.User{}, err
	}

	notify("password_changed", user.Email, func() error { return a.mailer.SendPasswordChangedEmail(user) })

	return user, nil
}

// ChangePassword updates the password of an authenticated user. Previously
// issued access and refresh credentials stay valid until their own expiry;
// there is no server-side revocation.
func (a *Auth) ChangePassword(user domain.User, oldPassword, password, password2 string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(oldPassword)); err != nil {
		return errors.FieldErrors{"old_password": "Current password is incorrect."}
	}
	if err := validatePassword(password, password2); err != nil {
		return err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}
	if err := a.storage.UpdatePassword(user.Id, string(passHash)); err != nil {
		return err
	}

	notify("password_changed", user.Email, func() error { return a.mailer.SendPasswordChangedEmail(user) })

	return nil
}

func (a *Auth) UserById(id domain.UserId) (domain.User, error) {
	return a.storage.UserById(id)
}

// UpdateName changes the display name, the only mutable profile field.
func (a *Auth) UpdateName(user domain.User, name string) (domain.User, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return domain.User{}, errors.FieldErrors{"name": "Name must be at least 2 characters long."}
	}
	if err := a.storage.UpdateName(user.Id, name); err != nil {
		return domain.User{}, err
	}
	user.Name = name
	return user, nil
}

// LoginHistory returns the most recent attempts recorded for an email.
func (a *Auth) LoginHistory(email string, limit int) ([]domain.LoginAttempt, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return a.storage.LoginAttemptsByEmail(email, limit)
}
