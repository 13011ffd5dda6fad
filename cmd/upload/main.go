package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/sir_venger/upload_lite/pkg/fileclient"
)

const defaultChunkBytes = 4 << 20

// main заливает локальный файл на сервер кусками фиксированного размера,
// финализирует запись и (опционально) сверяет дайджест скачиванием.
func main() {
	server := flag.String("server", "http://localhost:8080", "base URL of the file service")
	path := flag.String("file", "", "path to the local file to upload")
	name := flag.String("name", "", "display name (defaults to the file basename)")
	contentType := flag.String("content-type", "", "content type hint")
	chunkBytes := flag.Int64("chunk", defaultChunkBytes, "chunk size in bytes")
	verify := flag.Bool("verify", false, "download after upload and compare digests")
	flag.Parse()

	if *path == "" {
		log.Fatal("-file is required")
	}
	if *chunkBytes <= 0 {
		log.Fatal("-chunk must be positive")
	}
	if *name == "" {
		*name = filepath.Base(*path)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Fatal(err)
	}
	totalSize := info.Size()

	ctx := context.Background()
	cli := fileclient.NewWithProgress()

	entry, err := cli.Create(ctx, *server, *name, *contentType)
	if err != nil {
		log.Fatal(err)
	}

	// Куски идут строго последовательно: offset каждого равен текущему размеру.
	var offset int64
	for {
		remaining := totalSize - offset
		size := *chunkBytes
		if size > remaining {
			size = remaining
		}
		finalize := offset+size == totalSize

		entry, err = cli.AppendChunk(ctx, *server, fileclient.AppendRequest{
			ID:        entry.ID,
			Offset:    offset,
			Reader:    io.LimitReader(f, size),
			Size:      size,
			Finalize:  finalize,
			TotalSize: totalSize,
		})
		if err != nil {
			log.Fatal(err)
		}
		offset = entry.Size
		if finalize {
			break
		}
	}

	fmt.Printf("uploaded %s: id=%s size=%d digest=%s content_type=%s\n",
		*name, entry.ID, entry.Size, entry.Digest, entry.ContentType)

	if *verify {
		h := sha256.New()
		if err := cli.Download(ctx, *server, entry.ID, h); err != nil {
			log.Fatal(err)
		}
		got := hex.EncodeToString(h.Sum(nil))
		if got != entry.Digest {
			log.Fatalf("digest mismatch: server=%s local=%s", entry.Digest, got)
		}
		fmt.Println("verify ok")
	}
}
