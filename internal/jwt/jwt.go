package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	internal_errors "github.com/newsroom-dev/newsroom/internal/errors"
	"github.com/newsroom-dev/newsroom/internal/domain"
	"github.com/newsroom-dev/newsroom/internal/logger"
)

// Kind distinguishes the two credentials of a pair. A refresh token must
// never be accepted where an access token is expected and vice versa.
type Kind string

const (
	Access  Kind = "access"
	Refresh Kind = "refresh"
)

// Pair is one login's worth of credentials. Neither token is stored server
// side; validity is purely signature plus expiry.
type Pair struct {
	Access  string
	Refresh string
}

type Issuer interface {
	IssuePair(user domain.User) (Pair, error)
	Validate(tokenStr string, kind Kind) (domain.UserId, error)
	RefreshAccess(refreshStr string) (string, error)
}

type Service struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(secretKey string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{secretKey: secretKey, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (s *Service) newToken(userId domain.UserId, kind Kind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid":  userId.String(),
		"kind": string(kind),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "kind", kind, "error", err)
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return tokenString, nil
}

// IssuePair mints an access and a refresh token for the user, each with its
// own expiry.
func (s *Service) IssuePair(user domain.User) (Pair, error) {
	access, err := s.newToken(user.Id, Access, s.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.newToken(user.Id, Refresh, s.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// Validate checks signature, expiry and kind, and returns the user id the
// token was issued for. All failures map to 401.
func (s *Service) Validate(tokenStr string, kind Kind) (domain.UserId, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		logger.Log.Debug("token validation failed", "error", err)
		return uuid.Nil, internal_errors.Unauthorized("Invalid or expired token")
	}
	if !token.Valid {
		return uuid.Nil, internal_errors.Unauthorized("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, internal_errors.Unauthorized("Invalid or expired token")
	}
	if claimedKind, _ := claims["kind"].(string); claimedKind != string(kind) {
		return uuid.Nil, internal_errors.Unauthorized("Invalid token type")
	}

	uidStr, _ := claims["uid"].(string)
	uid, err := uuid.Parse(uidStr)
	if err != nil {
		return uuid.Nil, internal_errors.Unauthorized("Invalid or expired token")
	}
	return uid, nil
}

// RefreshAccess re-validates a refresh token and mints a fresh access token.
// The refresh token itself is not rotated: a stolen one stays valid until its
// own expiry.
func (s *Service) RefreshAccess(refreshStr string) (string, error) {
	uid, err := s.Validate(refreshStr, Refresh)
	if err != nil {
		return "", err
	}
	return s.newToken(uid, Access, s.accessTTL)
}
