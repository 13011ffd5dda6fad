package filesvc

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/sir_venger/upload_lite/internal/digest"
	"github.com/sir_venger/upload_lite/internal/models"
)

// Append дописывает один непрерывный кусок в конец записи. Вызовы по одному
// id сериализуются локом: проверка offset, запись в блоб и коммит метаданных
// не атомарны относительно параллельных писателей.
//
// Метаданные фиксируются одним Save только после полного вычитывания тела:
// обрыв посреди куска оставляет size/digest нетронутыми, а лишние байты в
// блобе срезаются truncate'ом при следующей попытке с тем же offset.
func (s *Files) Append(ctx context.Context, id string, offset int64, body io.Reader, finalize bool) (models.FileEntry, error) {
	if err := ctx.Err(); err != nil {
		return models.FileEntry{}, err
	}

	unlock := s.locks.lock(id)
	defer unlock()

	entry, err := s.MetaStorage.Get(id)
	if err != nil {
		return models.FileEntry{}, err
	}
	// Тело при отказах не вычитываем — клиент узнаёт об ошибке сразу.
	if entry.Finalized {
		return models.FileEntry{}, models.ErrFinalized
	}
	if offset != entry.Size {
		return models.FileEntry{}, fmt.Errorf("%w: current size %d, got offset %d", models.ErrOffsetMismatch, entry.Size, offset)
	}

	eng, err := resumeEngine(entry)
	if err != nil {
		return models.FileEntry{}, err
	}

	f, err := os.OpenFile(s.MetaStorage.BlobPath(id), os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return models.FileEntry{}, fmt.Errorf("open blob %s: %w", id, err)
	}
	defer f.Close()

	// Срезаем хвост от прерванной незакоммиченной записи и встаём на конец.
	if err := f.Truncate(entry.Size); err != nil {
		return models.FileEntry{}, fmt.Errorf("truncate blob %s: %w", id, err)
	}
	if _, err := f.Seek(entry.Size, io.SeekStart); err != nil {
		return models.FileEntry{}, fmt.Errorf("seek blob %s: %w", id, err)
	}

	var written int64
	if body != nil {
		written, err = io.Copy(io.MultiWriter(f, eng), body)
		if err != nil {
			return models.FileEntry{}, fmt.Errorf("copy chunk: %w", err)
		}
	}
	if err := f.Sync(); err != nil {
		return models.FileEntry{}, fmt.Errorf("sync blob %s: %w", id, err)
	}

	entry.Size += written
	entry.LastUpdate = time.Now().UTC()

	if finalize {
		sum, err := eng.Finalize()
		if err != nil {
			return models.FileEntry{}, fmt.Errorf("finalize digest: %w", err)
		}
		entry.Digest = sum
		entry.DigestState = nil
		entry.Finalized = true

		// Классификатор — внешняя способность; его отказ не блокирует
		// финализацию, content-type остаётся прежним.
		if s.Classifier != nil {
			if ct, cerr := s.Classifier.Classify(ctx, s.MetaStorage.BlobPath(id)); cerr != nil {
				log.Printf("classify %s: %v", id, cerr)
			} else if ct != "" {
				entry.ContentType = ct
			}
		}
	} else {
		sum, err := eng.Preview()
		if err != nil {
			return models.FileEntry{}, fmt.Errorf("preview digest: %w", err)
		}
		state, err := eng.Export()
		if err != nil {
			return models.FileEntry{}, fmt.Errorf("export digest state: %w", err)
		}
		entry.Digest = sum
		entry.DigestState = state
	}

	if err := s.MetaStorage.Save(entry); err != nil {
		return models.FileEntry{}, fmt.Errorf("save meta %s: %w", id, err)
	}
	return entry.Clone(), nil
}

// resumeEngine восстанавливает движок дайджеста из сохранённого состояния
// записи и сверяет счётчик байт с зафиксированным размером.
func resumeEngine(entry models.FileEntry) (*digest.Engine, error) {
	if entry.DigestState == nil {
		if entry.Size == 0 {
			return digest.New(), nil
		}
		return nil, fmt.Errorf("entry %s: digest state missing at size %d", entry.ID, entry.Size)
	}

	eng, err := digest.Import(entry.DigestState)
	if err != nil {
		return nil, fmt.Errorf("entry %s: import digest state: %w", entry.ID, err)
	}
	if eng.Total() != entry.Size {
		return nil, fmt.Errorf("entry %s: digest state counts %d bytes, meta says %d", entry.ID, eng.Total(), entry.Size)
	}
	return eng, nil
}
