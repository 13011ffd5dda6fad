package fileclient

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// Download скачивает содержимое записи параллельными range-запросами и
// транслирует их клиенту строго по порядку через pipe'ы.
func (h *httpClient) Download(ctx context.Context, baseURL, id string, w io.Writer) error {
	meta, err := h.Meta(ctx, baseURL, id)
	if err != nil {
		return err
	}
	if meta.Size == 0 {
		return nil
	}

	chunk := h.rangeBytes
	if chunk <= 0 {
		chunk = defaultRangeBytes
	}
	total := int((meta.Size + chunk - 1) / chunk)

	var bar *progressBar
	if h.progress {
		bar = newProgressBar(fmt.Sprintf("Downloading %s", id), meta.Size)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, egCtx := errgroup.WithContext(streamCtx)
	sem := make(chan struct{}, h.parallel)

	pipes := make([]*io.PipeReader, total)

	// Поднимаем загрузчики: каждый докачивает свой диапазон в pipeWriter,
	// повторяя запрос, пока сервер режет диапазон своим максимумом.
	for idx := 0; idx < total; idx++ {
		idx := idx
		start := int64(idx) * chunk
		end := start + chunk - 1
		if end > meta.Size-1 {
			end = meta.Size - 1
		}

		pr, pw := io.Pipe()
		pipes[idx] = pr

		eg.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-egCtx.Done():
				_ = pw.CloseWithError(egCtx.Err())
				return egCtx.Err()
			}
			defer func() { <-sem }()

			err := h.fetchSpan(egCtx, baseURL, id, start, end, pw)
			_ = pw.CloseWithError(err)
			return err
		})
	}

	// Писатель: читает pipe'ы по порядку и пишет в w.
	var out io.Writer = w
	if bar != nil {
		out = io.MultiWriter(w, progressWriter{bar: bar})
	}
	for idx := 0; idx < total; idx++ {
		if _, err := io.Copy(out, pipes[idx]); err != nil {
			cancel()
			for j := idx; j < total; j++ {
				_ = pipes[j].CloseWithError(err)
			}
			waitErr := eg.Wait()
			bar.Fail(err)
			if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
				return waitErr
			}
			return err
		}
		_ = pipes[idx].Close()
	}

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		bar.Fail(err)
		return err
	}
	bar.Finish()
	return nil
}

// fetchSpan вычитывает диапазон [start; end] в pw, выполняя столько
// range-запросов, сколько потребует серверное ограничение на длину ответа.
func (h *httpClient) fetchSpan(ctx context.Context, baseURL, id string, start, end int64, pw *io.PipeWriter) error {
	pos := start
	for pos <= end {
		rc, err := h.fetchRange(ctx, baseURL, id, pos, end)
		if err != nil {
			return err
		}
		n, err := io.Copy(pw, rc)
		_ = rc.Close()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("empty range response at offset %d", pos)
		}
		pos += n
	}
	if pos != end+1 {
		return fmt.Errorf("range overrun: want up to %d, got %d", end, pos-1)
	}
	return nil
}
