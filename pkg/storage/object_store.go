package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// UploadOptions mirrors the object store client's upload knobs.
type UploadOptions struct {
	ContentType  string
	CacheControl string
	Upsert       bool
}

// ObjectStore is the path-keyed blob interface the entity managers depend on.
type ObjectStore interface {
	Upload(ctx context.Context, path string, data []byte, opts UploadOptions) error
	Download(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, paths []string) error
	SignedURL(path string, ttl time.Duration) (string, error)
}

// LocalObjectStore persists objects on disk under a base directory and issues
// HMAC-signed download URLs through the provided signer.
type LocalObjectStore struct {
	baseDir string
	signer  *SignedURLSigner
}

// NewLocalObjectStore ensures the base directory exists and returns a handle.
func NewLocalObjectStore(baseDir string, signer *SignedURLSigner) (*LocalObjectStore, error) {
	if baseDir == "" {
		baseDir = "./storage"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalObjectStore{baseDir: baseDir, signer: signer}, nil
}

// Upload writes the object bytes under the given path. Without Upsert an
// existing object is left untouched and the call fails.
func (s *LocalObjectStore) Upload(ctx context.Context, path string, data []byte, opts UploadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := s.resolve(path)
	if !opts.Upsert {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("object already exists: %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("prepare object directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write object %s: %w", path, err)
	}
	return nil
}

// Download reads the raw object bytes.
func (s *LocalObjectStore) Download(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("download object %s: %w", path, err)
	}
	return data, nil
}

// Remove deletes the given objects, ignoring ones that are already gone.
func (s *LocalObjectStore) Remove(ctx context.Context, paths []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, path := range paths {
		if err := os.Remove(s.resolve(path)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove object %s: %w", path, err)
		}
	}
	return nil
}

// SignedURL returns a time-limited download URL for the object.
func (s *LocalObjectStore) SignedURL(path string, ttl time.Duration) (string, error) {
	if s.signer == nil {
		return "", fmt.Errorf("signer not configured")
	}
	token, _, err := s.signer.Sign(path, ttl)
	if err != nil {
		return "", err
	}
	return "/files/" + token, nil
}

// Open returns a read-only handle for a stored object.
func (s *LocalObjectStore) Open(path string) (*os.File, error) {
	file, err := os.Open(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", path, err)
	}
	return file, nil
}

func (s *LocalObjectStore) resolve(path string) string {
	return filepath.Join(s.baseDir, filepath.Clean("/"+path))
}
