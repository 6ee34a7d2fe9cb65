package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo describes one spooled object.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Storage keeps short-lived objects under slash-separated relative paths.
type Storage interface {
	// Upload stores r under path, replacing any previous object, and
	// reports the bytes written. A failed write leaves nothing behind.
	Upload(ctx context.Context, path string, r io.Reader) (int64, error)
	// Delete is idempotent.
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	// List returns the objects under prefix ordered by path.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}

// Locator resolves an object to a file on the local disk, for consumers
// that need to reopen it by name.
type Locator interface {
	Path(path string) (string, error)
}
