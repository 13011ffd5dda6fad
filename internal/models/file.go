package models

import "time"

// FileEntry содержит метаданные одной записи: имя, размер, дайджест и
// состояние незавершённой загрузки.
type FileEntry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	LastUpdate  time.Time `json:"last_update"`
	Digest      string    `json:"digest"`
	Finalized   bool      `json:"finalized"`
	// DigestState — сериализованное состояние недосчитанного хеша;
	// присутствует, только пока запись не финализирована.
	DigestState []byte `json:"digest_state,omitempty"`
}

// Clone возвращает копию структуры, чтобы не делиться внутренним срезом состояния.
func (e FileEntry) Clone() FileEntry {
	out := e
	if e.DigestState != nil {
		out.DigestState = append([]byte{}, e.DigestState...)
	}
	return out
}
