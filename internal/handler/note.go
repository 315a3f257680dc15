package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/newsroom-dev/newsroom/internal/api"
	"github.com/newsroom-dev/newsroom/internal/errors"
	"github.com/newsroom-dev/newsroom/internal/middleware"
	"github.com/newsroom-dev/newsroom/internal/utils"
)

func noteId(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "note"))
	if err != nil {
		return uuid.Nil, errors.NotFound("Note not found")
	}
	return id, nil
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, errors.Unauthorized("Authentication required."))
		return
	}

	var req api.NoteRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	note, err := h.note.Create(*user, req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.NoteResponse{
		Envelope: ok("Note created successfully."),
		Note:     api.NewNotePayload(note),
	})
}

func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, errors.Unauthorized("Authentication required."))
		return
	}

	notes, err := h.note.List(*user)
	if err != nil {
		writeError(w, err)
		return
	}

	payload := make([]api.NotePayload, 0, len(notes))
	for _, n := range notes {
		payload = append(payload, *api.NewNotePayload(n))
	}

	writeJSON(w, http.StatusOK, api.NoteListResponse{
		Envelope: api.Envelope{Success: true},
		Notes:    payload,
	})
}

func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, errors.Unauthorized("Authentication required."))
		return
	}

	id, err := noteId(r)
	if err != nil {
		writeError(w, err)
		return
	}

	note, err := h.note.Get(*user, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.NoteResponse{
		Envelope: api.Envelope{Success: true},
		Note:     api.NewNotePayload(note),
	})
}

func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, errors.Unauthorized("Authentication required."))
		return
	}

	id, err := noteId(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req api.NoteRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	note, err := h.note.Update(*user, id, req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.NoteResponse{
		Envelope: ok("Note updated successfully."),
		Note:     api.NewNotePayload(note),
	})
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeError(w, errors.Unauthorized("Authentication required."))
		return
	}

	id, err := noteId(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.note.Delete(*user, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ok("Note deleted successfully."))
}
