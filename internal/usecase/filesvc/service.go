package filesvc

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sir_venger/upload_lite/internal/digest"
	"github.com/sir_venger/upload_lite/internal/models"
)

const defaultContentType = "application/octet-stream"

type (
	// MetaStorage — хранилище метаданных записей плюс резолвер путей до блобов.
	MetaStorage interface {
		Create(entry models.FileEntry) error
		Get(id string) (models.FileEntry, error)
		Save(entry models.FileEntry) error
		Delete(id string) error
		List() ([]models.FileEntry, error)
		BlobPath(id string) string
	}

	// Classifier определяет content-type по содержимому готового блоба.
	// Вызывается только при финализации; ошибка классификатора не фатальна.
	Classifier interface {
		Classify(ctx context.Context, path string) (string, error)
	}

	// Service объединяет операции над файловыми записями: создание,
	// дозапись кусками, чтение и листинг.
	Service interface {
		Create(ctx context.Context, name, contentType string) (models.FileEntry, error)
		Append(ctx context.Context, id string, offset int64, body io.Reader, finalize bool) (models.FileEntry, error)
		Open(ctx context.Context, id string) (models.FileEntry, io.ReadSeekCloser, error)
		Meta(ctx context.Context, id string) (models.FileEntry, error)
		List(ctx context.Context) ([]models.FileEntry, error)
	}
)

type Deps struct {
	MetaStorage MetaStorage
	Classifier  Classifier
}

type Files struct {
	Deps
	locks *entryLocks
}

// New конструирует сервис файлов с заданными зависимостями.
func New(deps Deps) *Files {
	return &Files{
		Deps:  deps,
		locks: newEntryLocks(),
	}
}

var _ Service = (*Files)(nil)

// Create заводит новую запись: размер 0, дайджест пустого входа и
// сохранённое состояние движка, чтобы первый аппенд продолжил с нуля.
func (s *Files) Create(ctx context.Context, name, contentType string) (models.FileEntry, error) {
	if err := ctx.Err(); err != nil {
		return models.FileEntry{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return models.FileEntry{}, models.ErrMissingName
	}
	if strings.TrimSpace(contentType) == "" {
		contentType = defaultContentType
	}

	eng := digest.New()
	sum, err := eng.Preview()
	if err != nil {
		return models.FileEntry{}, fmt.Errorf("initial digest: %w", err)
	}
	state, err := eng.Export()
	if err != nil {
		return models.FileEntry{}, fmt.Errorf("export digest state: %w", err)
	}

	entry := models.FileEntry{
		ID:          uuid.NewString(),
		Name:        name,
		ContentType: contentType,
		Size:        0,
		LastUpdate:  time.Now().UTC(),
		Digest:      sum,
		DigestState: state,
	}
	if err := s.MetaStorage.Create(entry); err != nil {
		return models.FileEntry{}, fmt.Errorf("create meta: %w", err)
	}

	// Пустой блоб создаём сразу: читателю нулевой записи есть что открыть.
	f, err := os.OpenFile(s.MetaStorage.BlobPath(entry.ID), os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return models.FileEntry{}, fmt.Errorf("create blob: %w", err)
	}
	_ = f.Close()

	return entry.Clone(), nil
}

// Meta возвращает проекцию метаданных записи.
func (s *Files) Meta(ctx context.Context, id string) (models.FileEntry, error) {
	return s.MetaStorage.Get(id)
}

// List возвращает все записи; скан best-effort, битые пропущены на уровне стора.
func (s *Files) List(ctx context.Context) ([]models.FileEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.MetaStorage.List()
}

// Open отдаёт метаданные и поток содержимого. Границу по зафиксированному
// size выставляет вызывающий: в блобе могут лежать лишние байты прерванной
// незакоммиченной записи.
func (s *Files) Open(ctx context.Context, id string) (models.FileEntry, io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return models.FileEntry{}, nil, err
	}

	entry, err := s.MetaStorage.Get(id)
	if err != nil {
		return models.FileEntry{}, nil, err
	}

	f, err := os.Open(s.MetaStorage.BlobPath(id))
	if err != nil {
		return models.FileEntry{}, nil, fmt.Errorf("open blob %s: %w", id, err)
	}
	return entry, f, nil
}
