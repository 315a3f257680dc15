package api

import (
	"time"

	"github.com/newsroom-dev/newsroom/internal/domain"
)

type NoteRequest struct {
	Title       string `validate:"required" json:"title"`
	Description string `validate:"required" json:"description"`
}

type NotePayload struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerEmail  string    `json:"owner_email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NoteResponse struct {
	Envelope
	Note *NotePayload `json:"note,omitempty"`
}

type NoteListResponse struct {
	Envelope
	Notes []NotePayload `json:"notes"`
}

func NewNotePayload(note domain.Note) *NotePayload {
	return &NotePayload{
		Id:          note.Id.String(),
		Title:       note.Title,
		Description: note.Description,
		OwnerEmail:  note.OwnerEmail,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
	}
}
