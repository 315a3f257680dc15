package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/newsroom-dev/newsroom/internal/config"
	"github.com/newsroom-dev/newsroom/internal/domain"
	"github.com/newsroom-dev/newsroom/internal/jwt"
	"github.com/newsroom-dev/newsroom/internal/service"
)

func createRequest(t *testing.T, method, url string, body []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func testConfig() *config.Config {
	return &config.Config{
		Public: config.Public{
			AccessTokenTTLSec:  300,
			RefreshTokenTTLSec: 86400,
		},
	}
}

type MockAuthService struct {
	MockRegister             func(input service.RegistrationInput) (domain.User, error)
	MockVerifyEmail          func(tokenValue string) (domain.User, error)
	MockResendVerification   func(email string) error
	MockLogin                func(input service.LoginInput) (domain.User, jwt.Pair, error)
	MockRefreshAccess        func(refreshToken string) (string, error)
	MockRequestPasswordReset func(email string) error
	MockConfirmPasswordReset func(tokenValue, password, password2 string) (domain.User, error)
	MockChangePassword       func(user domain.User, oldPassword, password, password2 string) error
	MockUserById             func(id domain.UserId) (domain.User, error)
	MockUpdateName           func(user domain.User, name string) (domain.User, error)
	MockLoginHistory         func(email string, limit int) ([]domain.LoginAttempt, error)
}

func (m *MockAuthService) Register(input service.RegistrationInput) (domain.User, error) {
	if m.MockRegister != nil {
		return m.MockRegister(input)
	}
	return domain.User{}, nil
}

func (m *MockAuthService) VerifyEmail(tokenValue string) (domain.User, error) {
	if m.MockVerifyEmail != nil {
		return m.MockVerifyEmail(tokenValue)
	}
	return domain.User{}, nil
}

func (m *MockAuthService) ResendVerification(email string) error {
	if m.MockResendVerification != nil {
		return m.MockResendVerification(email)
	}
	return nil
}

func (m *MockAuthService) Login(input service.LoginInput) (domain.User, jwt.Pair, error) {
	if m.MockLogin != nil {
		return m.MockLogin(input)
	}
	return domain.User{}, jwt.Pair{}, nil
}

func (m *MockAuthService) RefreshAccess(refreshToken string) (string, error) {
	if m.MockRefreshAccess != nil {
		return m.MockRefreshAccess(refreshToken)
	}
	return "", nil
}

func (m *MockAuthService) RequestPasswordReset(email string) error {
	if m.MockRequestPasswordReset != nil {
		return m.MockRequestPasswordReset(email)
	}
	return nil
}

func (m *MockAuthService) ConfirmPasswordReset(tokenValue, password, password2 string) (domain.User, error) {
	if m.MockConfirmPasswordReset != nil {
		return m.MockConfirmPasswordReset(tokenValue, password, password2)
	}
	return domain.User{}, nil
}

func (m *MockAuthService) ChangePassword(user domain.User, oldPassword, password, password2 string) error {
	if m.MockChangePassword != nil {
		return m.MockChangePassword(user, oldPassword, password, password2)
	}
	return nil
}

func (m *MockAuthService) UserById(id domain.UserId) (domain.User, error) {
	if m.MockUserById != nil {
		return m.MockUserById(id)
	}
	return domain.User{}, nil
}

func (m *MockAuthService) UpdateName(user domain.User, name string) (domain.User, error) {
	if m.MockUpdateName != nil {
		return m.MockUpdateName(user, name)
	}
	return user, nil
}

func (m *MockAuthService) LoginHistory(email string, limit int) ([]domain.LoginAttempt, error) {
	if m.MockLoginHistory != nil {
		return m.MockLoginHistory(email, limit)
	}
	return nil, nil
}

type MockNoteService struct {
	MockCreate func(owner domain.User, title, description string) (domain.Note, error)
	MockGet    func(user domain.User, id uuid.UUID) (domain.Note, error)
	MockList   func(owner domain.User) ([]domain.Note, error)
	MockUpdate func(user domain.User, id uuid.UUID, title, description string) (domain.Note, error)
	MockDelete func(user domain.User, id uuid.UUID) error
}

func (m *MockNoteService) Create(owner domain.User, title, description string) (domain.Note, error) {
	if m.MockCreate != nil {
		return m.MockCreate(owner, title, description)
	}
	return domain.Note{}, nil
}

func (m *MockNoteService) Get(user domain.User, id uuid.UUID) (domain.Note, error) {
	if m.MockGet != nil {
		return m.MockGet(user, id)
	}
	return domain.Note{}, nil
}

func (m *MockNoteService) List(owner domain.User) ([]domain.Note, error) {
	if m.MockList != nil {
		return m.MockList(owner)
	}
	return nil, nil
}

func (m *MockNoteService) Update(user domain.User, id uuid.UUID, title, description string) (domain.Note, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(user, id, title, description)
	}
	return domain.Note{}, nil
}

func (m *MockNoteService) Delete(user domain.User, id uuid.UUID) error {
	if m.MockDelete != nil {
		return m.MockDelete(user, id)
	}
	return nil
}
