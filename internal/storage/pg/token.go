package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/newsroom-dev/newsroom/internal/domain"
	internal_errors "github.com/newsroom-dev/newsroom/internal/errors"
)

func tokenTable(kind domain.TokenKind) string {
	if kind == domain.PasswordReset {
		return "password_reset_tokens"
	}
	return "email_verification_tokens"
}

// =========================================================================
// Public Methods (satisfy the service.TokenStorage interface)
// =========================================================================

// SaveToken stores a freshly issued token and, in the same transaction,
// invalidates every prior unused token of that kind for the user. At most one
// live token per (user, kind) exists at any time.
func (s *Storage) SaveToken(kind domain.TokenKind, token domain.VerificationToken) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := invalidateUnusedTokens(tx, kind, token.UserId); err != nil {
			return err
		}
		return saveToken(tx, kind, token)
	})
}

// TokenByValue fetches a token by its random value. It does not check
// validity; the caller inspects used/expiry and reports the precise failure.
func (s *Storage) TokenByValue(kind domain.TokenKind, value string) (domain.VerificationToken, error) {
	return tokenByValue(s.db, kind, value)
}

// ConsumeVerificationToken marks the user's email verified and spends the
// token in a single transaction. Spending is a compare-and-swap on the used
// flag: if another request got there first, the whole transaction fails with
// a conflict and the user update is rolled back.
func (s *Storage) ConsumeVerificationToken(token domain.VerificationToken) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := markEmailVerified(tx, token.UserId); err != nil {
			return err
		}
		return markTokenUsed(tx, domain.EmailVerification, token.Id)
	})
}

// ConsumePasswordResetToken updates the password, spends the token and
// invalidates all sibling unused reset tokens for the user, atomically. A
// stale second token cannot be replayed after a successful reset.
func (s *Storage) ConsumePasswordResetToken(token domain.VerificationToken, newPassHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.updatePassword(tx, token.UserId, newPassHash); err != nil {
			return err
		}
		if err := markTokenUsed(tx, domain.PasswordReset, token.Id); err != nil {
			return err
		}
		return invalidateUnusedTokens(tx, domain.PasswordReset, token.UserId)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func saveToken(q Querier, kind domain.TokenKind, token domain.VerificationToken) error {
	_, err := q.Exec(fmt.Sprintf(`
        INSERT INTO %s(id, user_id, token, expires_at, is_used)
        VALUES($1, $2, $3, $4, FALSE)`, tokenTable(kind)),
		token.Id, token.UserId, token.Value, token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s token: %w", kind, err)
	}
	return nil
}

func tokenByValue(q Querier, kind domain.TokenKind, value string) (domain.VerificationToken, error) {
	var token domain.VerificationToken
	err := q.QueryRow(fmt.Sprintf(`
        SELECT id, user_id, token, created_at, expires_at, is_used
        FROM %s WHERE token = $1`, tokenTable(kind)),
		value,
	).Scan(&token.Id, &token.UserId, &token.Value, &token.CreatedAt, &token.ExpiresAt, &token.Used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.VerificationToken{}, internal_errors.NotFound("Token not found")
		}
		return domain.VerificationToken{}, fmt.Errorf("failed to query %s token: %w", kind, err)
	}
	return token, nil
}

// markTokenUsed spends a token. The WHERE NOT is_used guard makes first
// redemption win; a second concurrent redeemer affects zero rows.
func markTokenUsed(q Querier, kind domain.TokenKind, id interface{}) error {
	result, err := q.Exec(fmt.Sprintf(
		"UPDATE %s SET is_used = TRUE WHERE id = $1 AND NOT is_used", tokenTable(kind)), id)
	if err != nil {
		return fmt.Errorf("failed to mark %s token used: %w", kind, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for token update: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Token already used", StatusCode: http.StatusConflict}
	}
	return nil
}

func invalidateUnusedTokens(q Querier, kind domain.TokenKind, userId domain.UserId) error {
	_, err := q.Exec(fmt.Sprintf(
		"UPDATE %s SET is_used = TRUE WHERE user_id = $1 AND NOT is_used", tokenTable(kind)), userId)
	if err != nil {
		return fmt.Errorf("failed to invalidate %s tokens: %w", kind, err)
	}
	return nil
}
