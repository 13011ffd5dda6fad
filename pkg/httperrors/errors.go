package httperrors

import (
	"errors"
	"net/http"

	"github.com/sir_venger/upload_lite/internal/models"
)

// Write транслирует доменные ошибки в HTTP-статусы. Попытка писать в
// финализированную запись и расхождение offset — это Conflict: состояние
// записи не то, на которое рассчитывал клиент.
func Write(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrFinalized), errors.Is(err, models.ErrOffsetMismatch):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrEmptyBody), errors.Is(err, models.ErrMissingName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
