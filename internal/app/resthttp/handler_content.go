package resthttp

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sir_venger/upload_lite/pkg/fileproto"
	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

// getContent отдаёт содержимое записи: целиком либо одним диапазоном.
// Поток режется по зафиксированному size — хвост от параллельного
// незакоммиченного аппенда читателю не виден.
func (s *Server) getContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, rc, err := s.FilesService.Open(r.Context(), id)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", entry.ContentType)
	w.Header().Set("ETag", `"`+entry.Digest+`"`)
	w.Header().Set("Accept-Ranges", "bytes")

	rangeHeader := r.Header.Get(fileproto.HeaderRange)
	if rangeHeader == "" {
		w.Header().Set("Content-Length", strconv.FormatInt(entry.Size, 10))
		w.WriteHeader(http.StatusOK)
		// Обрыв клиента просто останавливает копирование.
		_, _ = io.CopyN(w, rc, entry.Size)
		return
	}

	span, err := resolveRange(rangeHeader, entry.Size, s.Cfg.MaxRangeBytes)
	switch {
	case errors.Is(err, errMalformedRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, errRangeUnsatisfiable):
		w.Header().Set(fileproto.HeaderContentRange, fmt.Sprintf("bytes */%d", entry.Size))
		http.Error(w, err.Error(), http.StatusRequestedRangeNotSatisfiable)
		return
	case err != nil:
		httperrors.Write(w, err)
		return
	}

	if _, err := rc.Seek(span.start, io.SeekStart); err != nil {
		httperrors.Write(w, err)
		return
	}

	w.Header().Set(fileproto.HeaderContentRange, fmt.Sprintf("bytes %d-%d/%d", span.start, span.end, entry.Size))
	w.Header().Set("Content-Length", strconv.FormatInt(span.length(), 10))
	w.WriteHeader(http.StatusPartialContent)
	_, _ = io.CopyN(w, rc, span.length())
}
