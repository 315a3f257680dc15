package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/newsroom-dev/newsroom/internal/domain"
	"github.com/newsroom-dev/newsroom/internal/errors"
)

type NoteService interface {
	Create(owner domain.User, title, description string) (domain.Note, error)
	Get(user domain.User, id uuid.UUID) (domain.Note, error)
	List(owner domain.User) ([]domain.Note, error)
	Update(user domain.User, id uuid.UUID, title, description string) (domain.Note, error)
	Delete(user domain.User, id uuid.UUID) error
}

type NoteStorage interface {
	SaveNote(note domain.Note) error
	Note(id uuid.UUID) (domain.Note, error)
	NotesByOwner(ownerId domain.UserId) ([]domain.Note, error)
	UpdateNote(note domain.Note) error
	DeleteNote(id uuid.UUID, ownerId domain.UserId) error
}

type Note struct {
	storage NoteStorage
	// note text is stored as plain text; any markup is stripped on write
	sanitizer *bluemonday.Policy
}

func NewNote(storage NoteStorage) *Note {
	return &Note{storage: storage, sanitizer: bluemonday.StrictPolicy()}
}

func (n *Note) clean(title, description string) (string, string, error) {
	title = strings.TrimSpace(n.sanitizer.Sanitize(title))
	description = strings.TrimSpace(n.sanitizer.Sanitize(description))
	if title == "" {
		return "", "", errors.FieldErrors{"title": "This field is required."}
	}
	if len(title) > 255 {
		return "", "", errors.FieldErrors{"title": "Title cannot exceed 255 characters."}
	}
	if description == "" {
		return "", "", errors.FieldErrors{"description": "This field is required."}
	}
	return title, description, nil
}

func (n *Note) Create(owner domain.User, title, description string) (domain.Note, error) {
	title, description, err := n.clean(title, description)
	if err != nil {
		return domain.Note{}, err
	}

	note := domain.Note{
		Id:          uuid.New(),
		OwnerId:     owner.Id,
		OwnerEmail:  owner.Email,
		Title:       title,
		Description: description,
	}
	if err := n.storage.SaveNote(note); err != nil {
		return domain.Note{}, err
	}
	return n.storage.Note(note.Id)
}

// Get returns a note if it belongs to the user. A foreign note reads as 404
// so ids cannot be probed.
func (n *Note) Get(user domain.User, id uuid.UUID) (domain.Note, error) {
	note, err := n.storage.Note(id)
	if err != nil {
		return domain.Note{}, err
	}
	if note.OwnerId != user.Id {
		return domain.Note{}, errors.NotFound("Note not found")
	}
	return note, nil
}

func (n *Note) List(owner domain.User) ([]domain.Note, error) {
	return n.storage.NotesByOwner(owner.Id)
}

func (n *Note) Update(user domain.User, id uuid.UUID, title, description string) (domain.Note, error) {
	title, description, err := n.clean(title, description)
	if err != nil {
		return domain.Note{}, err
	}

	note := domain.Note{Id: id, OwnerId: user.Id, Title: title, Description: description}
	if err := n.storage.UpdateNote(note); err != nil {
		return domain.Note{}, err
	}
	return n.storage.Note(id)
}

func (n *Note) Delete(user domain.User, id uuid.UUID) error {
	return n.storage.DeleteNote(id, user.Id)
}
