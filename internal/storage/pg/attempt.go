package pg

import (
	"fmt"

	"github.com/newsroom-dev/newsroom/internal/domain"
)

// SaveLoginAttempt appends one row to the attempt log. The log is
// append-only; nothing in this subsystem mutates or deletes it.
func (s *Storage) SaveLoginAttempt(attempt domain.LoginAttempt) error {
	_, err := s.db.Exec(`
        INSERT INTO login_attempts(email, ip_address, user_agent, successful)
        VALUES(lower($1), $2, $3, $4)`,
		attempt.Email, attempt.IpAddress, attempt.UserAgent, attempt.Successful,
	)
	if err != nil {
		return fmt.Errorf("failed to insert login attempt: %w", err)
	}
	return nil
}

// LoginAttemptsByEmail returns the most recent attempts for an address,
// newest first. Used for audit display.
func (s *Storage) LoginAttemptsByEmail(email string, limit int) ([]domain.LoginAttempt, error) {
	rows, err := s.db.Query(`
        SELECT id, email, ip_address, user_agent, successful, attempted_at
        FROM login_attempts WHERE email = lower($1)
        ORDER BY attempted_at DESC, id DESC LIMIT $2`,
		email, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query login attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.LoginAttempt
	for rows.Next() {
		var a domain.LoginAttempt
		if err := rows.Scan(&a.Id, &a.Email, &a.IpAddress, &a.UserAgent, &a.Successful, &a.AttemptedAt); err != nil {
			return nil, fmt.Errorf("failed to scan login attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
