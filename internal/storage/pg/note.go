package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/newsroom-dev/newsroom/internal/domain"
	internal_errors "github.com/newsroom-dev/newsroom/internal/errors"
)

// SaveNote inserts a note.
func (s *Storage) SaveNote(note domain.Note) error {
	_, err := s.db.Exec(`
        INSERT INTO notes(id, owner_id, title, description)
        VALUES($1, $2, $3, $4)`,
		note.Id, note.OwnerId, note.Title, note.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// Note fetches a single note with its owner's email joined in.
func (s *Storage) Note(id uuid.UUID) (domain.Note, error) {
	var note domain.Note
	err := s.db.QueryRow(`
        SELECT n.id, n.owner_id, u.email, n.title, n.description, n.created_at, n.updated_at
        FROM notes n JOIN users u ON u.id = n.owner_id
        WHERE n.id = $1`, id,
	).Scan(&note.Id, &note.OwnerId, &note.OwnerEmail, &note.Title, &note.Description, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Note{}, internal_errors.NotFound("Note not found")
		}
		return domain.Note{}, fmt.Errorf("failed to query note: %w", err)
	}
	return note, nil
}

// NotesByOwner lists a user's notes, newest first.
func (s *Storage) NotesByOwner(ownerId domain.UserId) ([]domain.Note, error) {
	rows, err := s.db.Query(`
        SELECT n.id, n.owner_id, u.email, n.title, n.description, n.created_at, n.updated_at
        FROM notes n JOIN users u ON u.id = n.owner_id
        WHERE n.owner_id = $1 ORDER BY n.created_at DESC`, ownerId,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.Id, &n.OwnerId, &n.OwnerEmail, &n.Title, &n.Description, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// UpdateNote rewrites title and description. Scoped to the owner so one user
// cannot touch another's note even with a known id.
func (s *Storage) UpdateNote(note domain.Note) error {
	result, err := s.db.Exec(`
        UPDATE notes SET title = $3, description = $4, updated_at = now()
        WHERE id = $1 AND owner_id = $2`,
		note.Id, note.OwnerId, note.Title, note.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return noteRowsAffected(result)
}

// DeleteNote removes a note, scoped to the owner.
func (s *Storage) DeleteNote(id uuid.UUID, ownerId domain.UserId) error {
	result, err := s.db.Exec("DELETE FROM notes WHERE id = $1 AND owner_id = $2", id, ownerId)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return noteRowsAffected(result)
}

func noteRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("Note not found")
	}
	return nil
}
