package meta

import (
	"path/filepath"
	"sync"

	"github.com/sir_venger/upload_lite/internal/models"
)

// MemoryStore хранит метаданные только в оперативной памяти; удобно для
// тестов. Блобы всё равно лежат на диске — в плоском каталоге без шардов.
type MemoryStore struct {
	mu      sync.RWMutex
	blobDir string
	files   map[string]models.FileEntry
}

// NewMemoryStore создаёт пустое in-memory хранилище c каталогом для блобов.
func NewMemoryStore(blobDir string) *MemoryStore {
	return &MemoryStore{
		blobDir: blobDir,
		files:   map[string]models.FileEntry{},
	}
}

// Create сохраняет новую запись.
func (s *MemoryStore) Create(entry models.FileEntry) error {
	return s.Save(entry)
}

// Get возвращает метаданные файла по id или ошибку, если файл не найден.
func (s *MemoryStore) Get(id string) (models.FileEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.files[id]
	if !ok {
		return models.FileEntry{}, models.ErrNotFound
	}
	return entry.Clone(), nil
}

// Save записывает (или обновляет) метаданные файла целиком.
func (s *MemoryStore) Save(entry models.FileEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[entry.ID] = entry.Clone()
	return nil
}

// Delete убирает запись из памяти; блоб остаётся на совести вызывающего.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, id)
	return nil
}

// List возвращает все записи без какого-либо порядка.
func (s *MemoryStore) List() ([]models.FileEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.FileEntry, 0, len(s.files))
	for _, entry := range s.files {
		out = append(out, entry.Clone())
	}
	return out, nil
}

// BlobPath возвращает путь до блоба в плоском каталоге.
func (s *MemoryStore) BlobPath(id string) string {
	return filepath.Join(s.blobDir, id+blobSuffix)
}
