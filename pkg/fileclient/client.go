package fileclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sir_venger/upload_lite/pkg/fileproto"
)

// Entry — проекция записи, возвращаемая сервисом файлов.
type Entry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	LastUpdate  time.Time `json:"last_update"`
	Digest      string    `json:"digest"`
	Finalized   bool      `json:"finalized"`
	URI         string    `json:"uri"`
}

// AppendRequest описывает один кусок дозаливки.
type AppendRequest struct {
	ID       string
	Offset   int64
	Reader   io.Reader
	Size     int64
	Finalize bool
	// TotalSize нужен только прогресс-бару; 0 — размер неизвестен.
	TotalSize int64
}

type Client interface {
	// Create заводит новую запись на сервере.
	Create(ctx context.Context, baseURL, name, contentType string) (Entry, error)
	// AppendChunk дописывает кусок по смещению, опционально финализируя запись.
	AppendChunk(ctx context.Context, baseURL string, req AppendRequest) (Entry, error)
	// Meta возвращает текущие метаданные записи.
	Meta(ctx context.Context, baseURL, id string) (Entry, error)
	// Download скачивает содержимое записи целиком в w.
	Download(ctx context.Context, baseURL, id string, w io.Writer) error
}

type httpClient struct {
	c *http.Client
	// rangeBytes — желаемый размер одного range-запроса при скачивании.
	rangeBytes int64
	// parallel — число одновременных загрузчиков диапазонов.
	parallel int
	// progress включает ASCII-индикатор на потоках данных.
	progress bool
}

const (
	defaultRangeBytes = 4 << 20
	defaultParallel   = 4
)

// New создаёт HTTP-клиент по умолчанию.
func New() Client {
	return &httpClient{
		c:          &http.Client{},
		rangeBytes: defaultRangeBytes,
		parallel:   defaultParallel,
	}
}

// NewWithProgress — как New, но с прогресс-баром (для CLI).
func NewWithProgress() Client {
	cli := New().(*httpClient)
	cli.progress = true
	return cli
}

// Create заводит запись через POST /files.
func (h *httpClient) Create(ctx context.Context, baseURL, name, contentType string) (Entry, error) {
	payload, err := json.Marshal(map[string]string{
		"name":         name,
		"content_type": contentType,
	})
	if err != nil {
		return Entry{}, err
	}

	u := fmt.Sprintf(fileproto.FilesPathFormat, baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return Entry{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(httpReq)
	if err != nil {
		return Entry{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return Entry{}, fmt.Errorf("create failed: %s", resp.Status)
	}
	return decodeEntry(resp.Body)
}

// AppendChunk загружает кусок через POST /files/{id}/upload.
func (h *httpClient) AppendChunk(ctx context.Context, baseURL string, req AppendRequest) (Entry, error) {
	u := fmt.Sprintf(fileproto.UploadPathFormat, baseURL, req.ID)
	u += fmt.Sprintf("?%s=%d", fileproto.QueryOffset, req.Offset)
	if req.Finalize {
		u += "&" + fileproto.QueryFinalize
	}

	body := req.Reader
	var bar *progressBar
	if h.progress && body != nil {
		total := req.TotalSize
		if total <= 0 {
			total = req.Offset + req.Size
		}
		bar = newProgressBar(fmt.Sprintf("Uploading %s", req.ID), total)
		bar.AddBytes(req.Offset)
		body = io.TeeReader(req.Reader, progressWriter{bar: bar})
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		bar.Fail(err)
		return Entry{}, err
	}
	httpReq.ContentLength = req.Size

	resp, err := h.c.Do(httpReq)
	if err != nil {
		bar.Fail(err)
		return Entry{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err = fmt.Errorf("upload failed: %s: %s", resp.Status, bytes.TrimSpace(msg))
		bar.Fail(err)
		return Entry{}, err
	}

	if req.Finalize {
		bar.Finish()
	} else {
		bar.Pause()
	}
	return decodeEntry(resp.Body)
}

// Meta запрашивает GET /files/{id}/meta.
func (h *httpClient) Meta(ctx context.Context, baseURL, id string) (Entry, error) {
	u := fmt.Sprintf(fileproto.MetaPathFormat, baseURL, id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Entry{}, err
	}

	resp, err := h.c.Do(httpReq)
	if err != nil {
		return Entry{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Entry{}, fmt.Errorf("meta failed: %s", resp.Status)
	}
	return decodeEntry(resp.Body)
}

// fetchRange выполняет один range-запрос и возвращает поток куска.
// Сервер вправе урезать диапазон до своего максимума — вызывающий смотрит
// на фактическую длину и докачивает остаток.
func (h *httpClient) fetchRange(ctx context.Context, baseURL, id string, start, end int64) (io.ReadCloser, error) {
	u := fmt.Sprintf(fileproto.ContentPathFormat, baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(fileproto.HeaderRange, "bytes="+strconv.FormatInt(start, 10)+"-"+strconv.FormatInt(end, 10))

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("range GET failed: %s", resp.Status)
	}
	return resp.Body, nil
}

func decodeEntry(r io.Reader) (Entry, error) {
	var e Entry
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	return e, nil
}
