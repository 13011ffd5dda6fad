package resthttp

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

// listFiles возвращает проекции всех записей. Листинг best-effort:
// нечитаемые метаданные пропущены ещё на уровне стора.
func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	entries, err := s.FilesService.List(r.Context())
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	out := make([]fileProjection, 0, len(entries))
	for _, entry := range entries {
		out = append(out, s.projection(entry))
	}
	// Сканирование шардов не даёт стабильного порядка — сортируем сами.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
