package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"
	"github.com/newsroom-dev/newsroom/internal/domain"
	internal_errors "github.com/newsroom-dev/newsroom/internal/errors"
)

// uniqueViolation is the Postgres error code raised when the case-insensitive
// email index rejects a duplicate.
const uniqueViolation = "23505"

// =========================================================================
// Public Methods (satisfy the service.AuthStorage interface)
// =========================================================================

// SaveUser inserts a new user record. A concurrent registration racing on the
// same email loses on the unique index and surfaces as a 409.
func (s *Storage) SaveUser(user domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveUser(tx, user)
	})
}

// UserByEmail fetches a user by email, case-insensitively.
func (s *Storage) UserByEmail(email string) (domain.User, error) {
	return s.user(s.db, "lower(email) = lower($1)", email)
}

// UserById fetches a user by primary key.
func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.user(s.db, "id = $1", id)
}

// UpdatePassword replaces the stored password hash.
func (s *Storage) UpdatePassword(id domain.UserId, passHash string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updatePassword(tx, id, passHash)
	})
}

// UpdateName updates the display name.
func (s *Storage) UpdateName(id domain.UserId, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return userUpdate(tx, id, "name = $2, updated_at = now()", name)
	})
}

// UpdateLastLogin records a successful login time.
func (s *Storage) UpdateLastLogin(id domain.UserId, at time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return userUpdate(tx, id, "last_login = $2", at)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) error {
	_, err := q.Exec(`
        INSERT INTO users(id, email, name, password_hash, is_active, is_staff, is_superuser, email_verified)
        VALUES($1, lower($2), $3, $4, $5, $6, $7, $8)`,
		user.Id, user.Email, user.Name, user.PassHash, user.Active, user.Staff, user.Superuser, user.EmailVerified,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return &internal_errors.ErrorWithStatusCode{Message: "A user with this email already exists.", StatusCode: http.StatusConflict}
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Storage) user(q Querier, where string, arg interface{}) (domain.User, error) {
	var user domain.User
	err := q.QueryRow(`
        SELECT id, email, name, password_hash, is_active, is_staff, is_superuser, email_verified,
               created_at, updated_at, last_login
        FROM users WHERE `+where, arg,
	).Scan(&user.Id, &user.Email, &user.Name, &user.PassHash, &user.Active, &user.Staff,
		&user.Superuser, &user.EmailVerified, &user.CreatedAt, &user.UpdatedAt, &user.LastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) updatePassword(q Querier, id domain.UserId, passHash string) error {
	return userUpdate(q, id, "password_hash = $2, updated_at = now()", passHash)
}

func markEmailVerified(q Querier, id domain.UserId) error {
	return userUpdate(q, id, "email_verified = TRUE, updated_at = now()")
}

// userUpdate applies a SET clause to one user row and turns "no such row"
// into a 404.
func userUpdate(q Querier, id domain.UserId, set string, args ...interface{}) error {
	result, err := q.Exec("UPDATE users SET "+set+" WHERE id = $1", append([]interface{}{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for user update: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}
