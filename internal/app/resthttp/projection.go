package resthttp

import (
	"strings"
	"time"

	"github.com/sir_venger/upload_lite/internal/models"
)

// fileProjection — тело ответа с метаданными записи. Сохранённое состояние
// дайджеста наружу не отдаётся никогда.
type fileProjection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	LastUpdate  time.Time `json:"last_update"`
	Digest      string    `json:"digest"`
	Finalized   bool      `json:"finalized"`
	URI         string    `json:"uri"`
}

// projection собирает проекцию записи с абсолютным (или относительным,
// если base_url не задан) адресом содержимого.
func (s *Server) projection(entry models.FileEntry) fileProjection {
	base := strings.TrimRight(s.Cfg.PublicBaseURL, "/")
	return fileProjection{
		ID:          entry.ID,
		Name:        entry.Name,
		ContentType: entry.ContentType,
		Size:        entry.Size,
		LastUpdate:  entry.LastUpdate,
		Digest:      entry.Digest,
		Finalized:   entry.Finalized,
		URI:         base + "/files/" + entry.ID,
	}
}
