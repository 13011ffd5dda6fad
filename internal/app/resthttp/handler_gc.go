package resthttp

import (
	"net/http"
	"time"

	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

const manualGCTTL = 24 * time.Hour

// gcOnce вручную запускает очистку брошенных незавершённых загрузок.
func (s *Server) gcOnce(w http.ResponseWriter, _ *http.Request) {
	ttl := manualGCTTL
	if s.Cfg.GCTTLHours > 0 {
		ttl = time.Duration(s.Cfg.GCTTLHours) * time.Hour
	}
	if err := s.FilesService.SweepStale(ttl); err != nil {
		httperrors.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
