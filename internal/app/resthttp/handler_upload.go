package resthttp

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/sir_venger/upload_lite/pkg/fileproto"
	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

// uploadChunk дописывает один кусок тела в запись. Offset обязателен и
// должен совпадать с текущим размером; финализация — по присутствию
// query-параметра finalize.
func (s *Server) uploadChunk(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	offsetStr := q.Get(fileproto.QueryOffset)
	if offsetStr == "" {
		http.Error(w, "offset query parameter is required", http.StatusBadRequest)
		return
	}
	offset, err := strconv.ParseInt(offsetStr, 10, 64)
	if err != nil || offset < 0 {
		http.Error(w, "invalid offset: must be a non-negative integer", http.StatusBadRequest)
		return
	}

	_, finalize := q[fileproto.QueryFinalize]

	// Пустое тело без финализации — бессмысленный no-op, отклоняем сразу.
	if r.ContentLength == 0 && !finalize {
		httperrors.Write(w, models.ErrEmptyBody)
		return
	}

	entry, err := s.FilesService.Append(r.Context(), id, offset, r.Body, finalize)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.projection(entry))
}
