package resthttp

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
)

// healthStats — payload ответа /health.
type healthStats struct {
	OK         bool  `json:"ok"`
	Entries    int   `json:"entries"`
	TotalBytes int64 `json:"total_bytes"`
}

// health возвращает агрегированную статистику по каталогу данных.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	var stats healthStats
	stats.OK = true

	// Проходим по шард-каталогам: суммируем размеры блобов и считаем записи.
	err := filepath.WalkDir(s.Cfg.DataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch {
		case strings.HasSuffix(path, ".json"):
			stats.Entries++
		case strings.HasSuffix(path, ".bin"):
			info, err := d.Info()
			if err != nil {
				return err
			}
			stats.TotalBytes += info.Size()
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
