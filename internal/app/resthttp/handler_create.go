package resthttp

import (
	"encoding/json"
	"net/http"

	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

// createFileRequest — строго типизированное тело POST /files.
type createFileRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
}

// createFile заводит новую запись с нулевым размером.
func (s *Server) createFile(w http.ResponseWriter, r *http.Request) {
	var payload createFileRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := s.FilesService.Create(r.Context(), payload.Name, payload.ContentType)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(s.projection(entry))
}
