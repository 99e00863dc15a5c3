package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"gitlab.com/puzzle3d.net/internal/static/errs"
)

type ErrorMessage struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteDomainError maps the solver error taxonomy onto HTTP status codes
func WriteDomainError(w http.ResponseWriter, err error) {
	WriteError(w, ErrorMessage{
		Message:    err.Error(),
		StatusCode: StatusForError(err),
	})
}

// StatusForError translates sentinel errors into status codes; anything
// unrecognized is an internal error.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyRunning):
		return http.StatusConflict
	case errors.Is(err, errs.ErrNotRunning):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidPiece):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
