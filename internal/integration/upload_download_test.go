package integration

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"testing"

	"github.com/sir_venger/upload_lite/internal/app/resthttp"
	"github.com/sir_venger/upload_lite/internal/config"
	"github.com/sir_venger/upload_lite/pkg/fileclient"
)

func Test_ChunkedUploadDownload_Integrity(t *testing.T) {
	cfg := &config.Config{
		ListenAddr: ":0",
		DataDir:    t.TempDir(),
		// Малый максимум диапазона заставляет клиент докачивать каждый
		// срез несколькими range-запросами.
		MaxRangeBytes: 100_000,
	}
	h, _, err := resthttp.NewServer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	payload := bytes.Repeat([]byte{0xA1, 0xB2, 0xC3, 0xD4}, 1<<18) // ~1MB
	wantSum := sha256.Sum256(payload)
	want := hex.EncodeToString(wantSum[:])

	ctx := context.Background()
	cli := fileclient.New()

	entry, err := cli.Create(ctx, srv.URL, "payload.bin", "")
	if err != nil {
		t.Fatal(err)
	}

	const chunkSize = 64 << 10
	var offset int64
	for int(offset) < len(payload) {
		end := int(offset) + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[offset:end]
		entry, err = cli.AppendChunk(ctx, srv.URL, fileclient.AppendRequest{
			ID:       entry.ID,
			Offset:   offset,
			Reader:   bytes.NewReader(chunk),
			Size:     int64(len(chunk)),
			Finalize: end == len(payload),
		})
		if err != nil {
			t.Fatal(err)
		}
		offset = entry.Size
	}

	if !entry.Finalized || entry.Size != int64(len(payload)) {
		t.Fatalf("after upload: %+v", entry)
	}
	if entry.Digest != want {
		t.Fatalf("server digest %s, want %s", entry.Digest, want)
	}

	var buf bytes.Buffer
	if err := cli.Download(ctx, srv.URL, entry.ID, &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), payload) {
		t.Fatalf("downloaded data mismatch: got %d bytes want %d", buf.Len(), len(payload))
	}
}

func Test_ChunkRetryAfterWrongOffset(t *testing.T) {
	cfg := &config.Config{ListenAddr: ":0", DataDir: t.TempDir(), MaxRangeBytes: 1 << 20}
	h, _, err := resthttp.NewServer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	cli := fileclient.New()

	entry, err := cli.Create(ctx, srv.URL, "retry.bin", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cli.AppendChunk(ctx, srv.URL, fileclient.AppendRequest{
		ID: entry.ID, Offset: 0, Reader: bytes.NewReader([]byte("first")), Size: 5,
	}); err != nil {
		t.Fatal(err)
	}

	// Кусок с неверным offset отклоняется без частичного применения.
	if _, err := cli.AppendChunk(ctx, srv.URL, fileclient.AppendRequest{
		ID: entry.ID, Offset: 3, Reader: bytes.NewReader([]byte("second")), Size: 6,
	}); err == nil {
		t.Fatal("append at wrong offset succeeded")
	}

	// Клиент перечитывает размер и повторяет тот же кусок по правильному offset.
	cur, err := cli.Meta(ctx, srv.URL, entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	entry, err = cli.AppendChunk(ctx, srv.URL, fileclient.AppendRequest{
		ID: entry.ID, Offset: cur.Size, Reader: bytes.NewReader([]byte("second")), Size: 6, Finalize: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := cli.Download(ctx, srv.URL, entry.ID, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "firstsecond" {
		t.Fatalf("content %q", buf.String())
	}

	wantSum := sha256.Sum256([]byte("firstsecond"))
	if entry.Digest != hex.EncodeToString(wantSum[:]) {
		t.Fatalf("digest mismatch: %s", entry.Digest)
	}
}
