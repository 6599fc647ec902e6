// Package blobstore is the BlobStore collaborator: an external service
// holding raw bytes for uploaded contracts and generated documents
// (spec.md §1 lists it among the system's external collaborators, left
// abstract). A minimal local-filesystem-backed implementation is provided
// so the rest of the orchestrator has something concrete to call.
package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// BlobStore persists and retrieves raw file bytes, addressed by URI.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) (uri string, err error)
	Get(ctx context.Context, uri string) ([]byte, error)
}

// LocalFS is a BlobStore backed by a directory on disk.
type LocalFS struct {
	root string
}

// NewLocalFS builds a LocalFS rooted at dir, creating it if missing.
func NewLocalFS(dir string) (*LocalFS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob store directory: %w", err)
	}
	return &LocalFS{root: dir}, nil
}

func (l *LocalFS) Put(ctx context.Context, key string, data []byte) (string, error) {
	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:8]) + "_" + filepath.Base(key)
	path := filepath.Join(l.root, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return "file://" + path, nil
}

func (l *LocalFS) Get(ctx context.Context, uri string) ([]byte, error) {
	path := uri
	const prefix = "file://"
	if len(uri) > len(prefix) && uri[:len(prefix)] == prefix {
		path = uri[len(prefix):]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

var _ BlobStore = (*LocalFS)(nil)
