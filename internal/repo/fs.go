package meta

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sir_venger/upload_lite/internal/models"
)

const (
	metaSuffix = ".json"
	blobSuffix = ".bin"
	// shardLen — длина префикса id, по которому запись попадает в
	// подкаталог; ограничивает число файлов в одном каталоге.
	shardLen = 2
)

// FSStore хранит метаданные и блобы на локальном диске. Запись и её блоб
// лежат рядом в одном шард-каталоге: <root>/<префикс>/<id>.json и .bin.
type FSStore struct {
	root string
}

// NewFSStore создаёт хранилище поверх каталога root.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FSStore{root: root}, nil
}

// shardDir возвращает подкаталог для id.
func (s *FSStore) shardDir(id string) string {
	prefix := id
	if len(prefix) > shardLen {
		prefix = prefix[:shardLen]
	}
	return filepath.Join(s.root, prefix)
}

func (s *FSStore) metaPath(id string) string {
	return filepath.Join(s.shardDir(id), id+metaSuffix)
}

// BlobPath детерминированно отображает id в путь до блоба с содержимым.
func (s *FSStore) BlobPath(id string) string {
	return filepath.Join(s.shardDir(id), id+blobSuffix)
}

// Create сохраняет свежесозданную запись. Уникальность id гарантирует
// вызывающая сторона (id генерируется, а не приходит от клиента).
func (s *FSStore) Create(entry models.FileEntry) error {
	if err := validateID(entry.ID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.shardDir(entry.ID), 0o755); err != nil {
		return fmt.Errorf("create shard dir: %w", err)
	}
	return s.writeMeta(entry)
}

// Get возвращает метаданные записи по id или models.ErrNotFound.
func (s *FSStore) Get(id string) (models.FileEntry, error) {
	if err := validateID(id); err != nil {
		return models.FileEntry{}, models.ErrNotFound
	}

	b, err := os.ReadFile(s.metaPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.FileEntry{}, models.ErrNotFound
		}
		return models.FileEntry{}, fmt.Errorf("read meta %s: %w", id, err)
	}

	var entry models.FileEntry
	if err := json.Unmarshal(b, &entry); err != nil {
		return models.FileEntry{}, fmt.Errorf("unmarshal meta %s: %w", id, err)
	}
	return entry, nil
}

// Save перезаписывает метаданные целиком (идемпотентно).
func (s *FSStore) Save(entry models.FileEntry) error {
	if err := validateID(entry.ID); err != nil {
		return err
	}
	return s.writeMeta(entry)
}

// writeMeta пишет JSON во временный файл и атомарно переименовывает:
// читатели и сканер листинга никогда не видят полузаписанный документ.
func (s *FSStore) writeMeta(entry models.FileEntry) error {
	b, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	path := s.metaPath(entry.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit meta: %w", err)
	}
	return nil
}

// Delete убирает метаданные и блоб записи (используется GC-свипером).
func (s *FSStore) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := os.Remove(s.metaPath(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove meta %s: %w", id, err)
	}
	if err := os.Remove(s.BlobPath(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob %s: %w", id, err)
	}
	return nil
}

// List обходит все шард-каталоги и собирает записи. Скан — best-effort:
// нечитаемые или битые метаданные пропускаются с записью в лог, но не
// валят листинг целиком.
func (s *FSStore) List() ([]models.FileEntry, error) {
	shards, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var out []models.FileEntry
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(s.root, shard.Name()))
		if err != nil {
			log.Printf("list: skip shard %s: %v", shard.Name(), err)
			continue
		}
		for _, f := range files {
			name := f.Name()
			if f.IsDir() || !strings.HasSuffix(name, metaSuffix) {
				continue
			}
			id := strings.TrimSuffix(name, metaSuffix)
			entry, err := s.Get(id)
			if err != nil {
				log.Printf("list: skip entry %s: %v", id, err)
				continue
			}
			out = append(out, entry)
		}
	}
	return out, nil
}

// validateID отсекает значения, способные выбраться из каталога данных.
func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("file id is empty")
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return fmt.Errorf("invalid file id %q", id)
		}
	}
	return nil
}
