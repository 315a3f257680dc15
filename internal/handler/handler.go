package handler

import (
	"encoding/json"
	"net/http"

	"github.com/newsroom-dev/newsroom/internal/api"
	"github.com/newsroom-dev/newsroom/internal/config"
	"github.com/newsroom-dev/newsroom/internal/errors"
	"github.com/newsroom-dev/newsroom/internal/logger"
	"github.com/newsroom-dev/newsroom/internal/service"
)

type Handler struct {
	auth service.AuthService
	note service.NoteService
	cfg  *config.Config
}

func New(auth service.AuthService, note service.NoteService, cfg *config.Config) *Handler {
	return &Handler{auth: auth, note: note, cfg: cfg}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// writeError renders any error into the response envelope. Field-level
// validation failures become a 400 with an errors object, status-bearing
// errors keep their status, and everything else is logged and reported as a
// generic 500 so no internal detail leaks.
func writeError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case errors.FieldErrors:
		writeJSON(w, http.StatusBadRequest, api.Envelope{Success: false, Errors: e})
	case *errors.ErrorWithStatusCode:
		writeJSON(w, e.StatusCode, api.Envelope{Success: false, Message: e.Message})
	default:
		logger.Log.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, api.Envelope{Success: false, Message: "An error occurred. Please try again."})
	}
}

func ok(message string) api.Envelope {
	return api.Envelope{Success: true, Message: message}
}
