package resthttp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

// getMeta возвращает проекцию метаданных записи.
func (s *Server) getMeta(w http.ResponseWriter, r *http.Request) {
	entry, err := s.FilesService.Meta(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.projection(entry))
}
