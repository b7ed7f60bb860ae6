package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type memoryBlob struct {
	data        []byte
	contentType string
}

// MemoryBlobStore keeps assets in process and serves them under BaseURL.
type MemoryBlobStore struct {
	BaseURL string

	mu    sync.RWMutex
	blobs map[string]memoryBlob
	puts  int
}

func NewMemoryBlobStore(baseURL string) *MemoryBlobStore {
	return &MemoryBlobStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		blobs:   make(map[string]memoryBlob),
	}
}

func (s *MemoryBlobStore) Put(ctx context.Context, path string, r io.Reader, size int64, contentType string, progress ProgressFunc) (string, error) {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()

	data, err := io.ReadAll(withProgress(r, size, progress))
	if err != nil {
		return "", fmt.Errorf("read asset: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.blobs[path] = memoryBlob{data: data, contentType: contentType}
	s.mu.Unlock()

	return s.BaseURL + "/uploads/" + path, nil
}

// Open returns a stored asset for serving.
func (s *MemoryBlobStore) Open(path string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[strings.TrimPrefix(path, "/")]
	return b.data, b.contentType, ok
}

// Puts counts upload attempts, including failed ones.
func (s *MemoryBlobStore) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}
