package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrBlobNotFound is returned when a storage id has no stored bytes.
var ErrBlobNotFound = errors.New("storage: blob not found")

// FileStore persists uploaded blobs onto the local filesystem. It backs the
// API's storage endpoints; production deployments point StoragePath at a
// mounted volume.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Write persists the provided bytes under the given storage id and returns
// the canonicalized id. Ids are cleaned to prevent directory traversal.
func (s *FileStore) Write(ctx context.Context, id string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanID, err := sanitizeID(id)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanID))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return cleanID, nil
}

// Read returns the bytes stored under the given id.
func (s *FileStore) Read(ctx context.Context, id string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleanID, err := sanitizeID(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.basePath, filepath.FromSlash(cleanID)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("storage: read file: %w", err)
	}
	return data, nil
}

// Exists reports whether a blob is stored under the given id.
func (s *FileStore) Exists(ctx context.Context, id string) bool {
	if s == nil {
		return false
	}
	cleanID, err := sanitizeID(id)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(filepath.Join(s.basePath, filepath.FromSlash(cleanID)))
	return statErr == nil
}

// sanitizeID normalizes a storage id and prevents escaping the storage root.
func sanitizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("storage: id is required")
	}
	id = strings.ReplaceAll(id, "\\", "/")
	id = strings.TrimPrefix(id, "./")
	id = strings.TrimLeft(id, "/")
	cleaned := filepath.Clean(id)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid id")
	}
	return cleaned, nil
}
