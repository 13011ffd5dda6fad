package resthttp

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sir_venger/upload_lite/internal/config"
)

func newTestServer(t *testing.T, maxRange int64) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		ListenAddr:    ":0",
		DataDir:       t.TempDir(),
		MaxRangeBytes: maxRange,
	}
	h, _, err := NewServer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func createEntry(t *testing.T, baseURL, name, contentType string) fileProjection {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"name": name, "content_type": contentType})
	resp, err := http.Post(baseURL+"/files", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("create status %s: %s", resp.Status, b)
	}
	var out fileProjection
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func uploadChunk(t *testing.T, baseURL, id string, offset int64, chunk string, finalize bool) (*http.Response, fileProjection) {
	t.Helper()
	url := fmt.Sprintf("%s/files/%s/upload?offset=%d", baseURL, id, offset)
	if finalize {
		url += "&finalize"
	}
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(chunk))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out fileProjection
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
	}
	return resp, out
}

func TestCreateUploadFinalizeRead(t *testing.T) {
	srv := newTestServer(t, 0)

	entry := createEntry(t, srv.URL, "hello.txt", "text/plain")
	if entry.Size != 0 || entry.Finalized || entry.ID == "" {
		t.Fatalf("fresh projection: %+v", entry)
	}
	if entry.URI != "/files/"+entry.ID {
		t.Fatalf("uri mismatch: %s", entry.URI)
	}

	resp, proj := uploadChunk(t, srv.URL, entry.ID, 0, "Hello", false)
	if resp.StatusCode != http.StatusOK || proj.Size != 5 {
		t.Fatalf("first chunk: %s, %+v", resp.Status, proj)
	}
	resp, proj = uploadChunk(t, srv.URL, entry.ID, 5, ", world", false)
	if resp.StatusCode != http.StatusOK || proj.Size != 12 {
		t.Fatalf("second chunk: %s, %+v", resp.Status, proj)
	}
	resp, proj = uploadChunk(t, srv.URL, entry.ID, 12, "!", true)
	if resp.StatusCode != http.StatusOK || proj.Size != 13 || !proj.Finalized {
		t.Fatalf("finalize: %s, %+v", resp.Status, proj)
	}

	want := sha256.Sum256([]byte("Hello, world!"))
	if proj.Digest != hex.EncodeToString(want[:]) {
		t.Fatalf("digest mismatch: %s", proj.Digest)
	}

	// Полное чтение.
	getResp, err := http.Get(srv.URL + "/files/" + entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := io.ReadAll(getResp.Body)
	_ = getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK || string(got) != "Hello, world!" {
		t.Fatalf("full read: %s %q", getResp.Status, got)
	}
	if etag := getResp.Header.Get("ETag"); etag != `"`+proj.Digest+`"` {
		t.Fatalf("etag: %s", etag)
	}
	if cl := getResp.Header.Get("Content-Length"); cl != "13" {
		t.Fatalf("content-length: %s", cl)
	}

	// Чтение по имени в хвосте пути.
	getResp, err = http.Get(srv.URL + "/files/" + entry.ID + "/hello.txt")
	if err != nil {
		t.Fatal(err)
	}
	got, _ = io.ReadAll(getResp.Body)
	_ = getResp.Body.Close()
	if string(got) != "Hello, world!" {
		t.Fatalf("read by name: %q", got)
	}
}

func TestRangeRead(t *testing.T) {
	srv := newTestServer(t, 0)
	entry := createEntry(t, srv.URL, "hello.txt", "text/plain")
	uploadChunk(t, srv.URL, entry.ID, 0, "Hello, world!", true)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/files/"+entry.ID, nil)
	req.Header.Set("Range", "bytes=0-4")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent {
		t.Fatalf("status %s", resp.Status)
	}
	if string(got) != "Hello" {
		t.Fatalf("body %q", got)
	}
	if cr := resp.Header.Get("Content-Range"); cr != "bytes 0-4/13" {
		t.Fatalf("content-range %q", cr)
	}
	if cl := resp.Header.Get("Content-Length"); cl != "5" {
		t.Fatalf("content-length %q", cl)
	}
}

func TestRangeClampedToMaxSpan(t *testing.T) {
	srv := newTestServer(t, 4)
	entry := createEntry(t, srv.URL, "big.bin", "")
	uploadChunk(t, srv.URL, entry.ID, 0, "0123456789", true)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/files/"+entry.ID, nil)
	req.Header.Set("Range", "bytes=2-9")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent || string(got) != "2345" {
		t.Fatalf("clamped range: %s %q", resp.Status, got)
	}
	if cr := resp.Header.Get("Content-Range"); cr != "bytes 2-5/10" {
		t.Fatalf("content-range %q", cr)
	}
}

func TestRangeErrors(t *testing.T) {
	srv := newTestServer(t, 0)
	entry := createEntry(t, srv.URL, "f.bin", "")
	uploadChunk(t, srv.URL, entry.ID, 0, "0123456789", true)

	get := func(rangeHeader string) *http.Response {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/files/"+entry.ID, nil)
		req.Header.Set("Range", rangeHeader)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return resp
	}

	if resp := get("bytes=0-2,4-6"); resp.StatusCode != http.StatusRequestedRangeNotSatisfiable {
		t.Fatalf("multi-range: %s", resp.Status)
	}
	if resp := get("items=0-4"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("wrong unit: %s", resp.Status)
	}
	if resp := get("bytes=100-"); resp.StatusCode != http.StatusRequestedRangeNotSatisfiable {
		t.Fatalf("past end: %s", resp.Status)
	}
}

func TestUploadErrors(t *testing.T) {
	srv := newTestServer(t, 0)
	entry := createEntry(t, srv.URL, "f.bin", "")

	// Неверный offset.
	resp, _ := uploadChunk(t, srv.URL, entry.ID, 5, "data", false)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("offset mismatch: %s", resp.Status)
	}

	// Пустое тело без финализации.
	resp, _ = uploadChunk(t, srv.URL, entry.ID, 0, "", false)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty body: %s", resp.Status)
	}

	// Неизвестный id.
	resp, _ = uploadChunk(t, srv.URL, "aaaa", 0, "data", false)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id: %s", resp.Status)
	}

	// Запись в финализированную запись.
	uploadChunk(t, srv.URL, entry.ID, 0, "data", true)
	resp, _ = uploadChunk(t, srv.URL, entry.ID, 4, "more", false)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("finalized: %s", resp.Status)
	}

	// offset обязателен.
	postResp, err := http.Post(srv.URL+"/files/"+entry.ID+"/upload", "application/octet-stream", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	_ = postResp.Body.Close()
	if postResp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing offset: %s", postResp.Status)
	}
}

func TestCreateValidation(t *testing.T) {
	srv := newTestServer(t, 0)

	resp, err := http.Post(srv.URL+"/files", "application/json", strings.NewReader(`{"content_type":"text/plain"}`))
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing name: %s", resp.Status)
	}

	resp, err = http.Post(srv.URL+"/files", "application/json", strings.NewReader(`{"name":"a","bogus":1}`))
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field: %s", resp.Status)
	}
}

func TestMetaAndListing(t *testing.T) {
	srv := newTestServer(t, 0)
	a := createEntry(t, srv.URL, "a.txt", "text/plain")
	b := createEntry(t, srv.URL, "b.txt", "text/plain")
	uploadChunk(t, srv.URL, a.ID, 0, "aaa", true)

	resp, err := http.Get(srv.URL + "/files/" + a.ID + "/meta")
	if err != nil {
		t.Fatal(err)
	}
	var meta fileProjection
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if meta.ID != a.ID || meta.Size != 3 || !meta.Finalized {
		t.Fatalf("meta: %+v", meta)
	}

	resp, err = http.Get(srv.URL + "/files")
	if err != nil {
		t.Fatal(err)
	}
	var listing []fileProjection
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if len(listing) != 2 {
		t.Fatalf("listing size %d", len(listing))
	}
	ids := map[string]bool{listing[0].ID: true, listing[1].ID: true}
	if !ids[a.ID] || !ids[b.ID] {
		t.Fatalf("listing ids: %v", ids)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 0)
	entry := createEntry(t, srv.URL, "f.bin", "")
	uploadChunk(t, srv.URL, entry.ID, 0, "0123456789", true)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	var stats healthStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if !stats.OK || stats.Entries != 1 || stats.TotalBytes != 10 {
		t.Fatalf("health: %+v", stats)
	}
}
