// Package docstore is the storage collaborator for generated planning
// documents. The pipeline only needs Put; storage failures are reported as
// plan warnings by the caller, never as run failures.
package docstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

// Store persists generated documents
type Store interface {
	// Put writes content at path. contentType is advisory; filesystem
	// implementations ignore it.
	Put(ctx context.Context, path string, content []byte, contentType string) error
}

// FS stores documents as files under a root directory
type FS struct {
	root string
}

// NewFS creates a filesystem store rooted at root. The directory is
// created on first write.
func NewFS(root string) *FS {
	return &FS{root: root}
}

// Root returns the store's root directory
func (f *FS) Root() string {
	return f.root
}

// Put writes content to root/path, creating parent directories as needed.
// Paths that escape the root are rejected.
func (f *FS) Put(ctx context.Context, path string, content []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cleaned := filepath.Clean(path)
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return errors.New(errors.ErrCodeFileWriteFailed, "document path escapes store root: "+path)
	}

	full := filepath.Join(f.root, cleaned)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "create document directory", err)
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "write document "+cleaned, err)
	}
	return nil
}
