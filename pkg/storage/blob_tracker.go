package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// BlobTracker materializes downloaded objects as transient local blobs and
// owns their cleanup. Every Acquire must eventually be paired with Release or
// a ReleaseAll so that no temp file outlives the view that requested it.
type BlobTracker struct {
	dir    string
	logger *zap.Logger

	mu      sync.Mutex
	handles map[string]blobEntry
}

type blobEntry struct {
	file        string
	contentType string
}

// NewBlobTracker creates the tracker working directory.
func NewBlobTracker(dir string, logger *zap.Logger) (*BlobTracker, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "portal-blobs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlobTracker{dir: dir, logger: logger, handles: make(map[string]blobEntry)}, nil
}

// Acquire writes the blob to a tracked temp file and returns its transient URL.
func (t *BlobTracker) Acquire(data []byte, contentType string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate blob id: %w", err)
	}
	id := hex.EncodeToString(buf)
	file := filepath.Join(t.dir, id)
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}

	t.mu.Lock()
	t.handles[id] = blobEntry{file: file, contentType: contentType}
	t.mu.Unlock()

	return "/blobs/" + id, nil
}

// Open returns the blob bytes and content type for a tracked id.
func (t *BlobTracker) Open(id string) ([]byte, string, error) {
	t.mu.Lock()
	entry, ok := t.handles[id]
	t.mu.Unlock()
	if !ok {
		return nil, "", fmt.Errorf("unknown blob: %s", id)
	}
	data, err := os.ReadFile(entry.file)
	if err != nil {
		return nil, "", fmt.Errorf("read blob: %w", err)
	}
	return data, entry.contentType, nil
}

// Release revokes a single transient URL.
func (t *BlobTracker) Release(url string) {
	id := filepath.Base(url)

	t.mu.Lock()
	entry, ok := t.handles[id]
	delete(t.handles, id)
	t.mu.Unlock()

	if !ok {
		return
	}
	if err := os.Remove(entry.file); err != nil && !os.IsNotExist(err) {
		t.logger.Warn("failed to remove blob file", zap.String("blob", id), zap.Error(err))
	}
}

// ReleaseAll revokes every tracked blob. Called on list refresh and shutdown.
func (t *BlobTracker) ReleaseAll() {
	t.mu.Lock()
	handles := t.handles
	t.handles = make(map[string]blobEntry)
	t.mu.Unlock()

	for id, entry := range handles {
		if err := os.Remove(entry.file); err != nil && !os.IsNotExist(err) {
			t.logger.Warn("failed to remove blob file", zap.String("blob", id), zap.Error(err))
		}
	}
}

// Len reports how many blobs are currently tracked.
func (t *BlobTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handles)
}
