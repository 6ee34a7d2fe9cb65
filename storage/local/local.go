// Package local spools objects as plain files under one directory.
package local

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kbukum/compapol/logger"
	"github.com/kbukum/compapol/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(cfg storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return NewStorage(cfg.BasePath)
	})
}

// partSuffix marks a file still being written. List skips it.
const partSuffix = ".part"

// Storage roots every object path at base.
type Storage struct {
	base string
}

var (
	_ storage.Storage = (*Storage)(nil)
	_ storage.Locator = (*Storage)(nil)
)

// NewStorage creates base (mode 0750) when missing.
func NewStorage(base string) (*Storage, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve %q: %w", base, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create %q: %w", abs, err)
	}
	return &Storage{base: abs}, nil
}

func (s *Storage) BasePath() string { return s.base }

// Path maps name into the base directory. ".." segments cannot climb above
// the base, and a name that resolves to the base itself is rejected.
func (s *Storage) Path(name string) (string, error) {
	full := filepath.Join(s.base, filepath.Clean(string(filepath.Separator)+name))
	if full == s.base {
		return "", fmt.Errorf("storage: invalid path %q", name)
	}
	return full, nil
}

// Upload writes to a sibling ".part" file and renames it into place, so a
// concurrent List never sees a half-written object.
func (s *Storage) Upload(_ context.Context, name string, r io.Reader) (int64, error) {
	full, err := s.Path(name)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return 0, fmt.Errorf("storage: create directory: %w", err)
	}

	tmp := full + partSuffix
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, fmt.Errorf("storage: create file: %w", err)
	}
	n, err := io.Copy(f, r)
	err = errors.Join(err, f.Close())
	if err == nil {
		err = os.Rename(tmp, full)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return n, fmt.Errorf("storage: write %s: %w", name, err)
	}
	return n, nil
}

func (s *Storage) Delete(_ context.Context, name string) error {
	full, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}

func (s *Storage) Exists(_ context.Context, name string) (bool, error) {
	full, err := s.Path(name)
	if err != nil {
		return false, err
	}
	switch _, err := os.Stat(full); {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("storage: stat %s: %w", name, err)
	}
}

// List walks the whole tree; spools hold a handful of files at most.
func (s *Storage) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	var files []storage.FileInfo
	err := filepath.WalkDir(s.base, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || strings.HasSuffix(p, partSuffix) {
			return err
		}
		rel, err := filepath.Rel(s.base, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, storage.FileInfo{
			Path:         rel,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			ContentType:  cmp.Or(mime.TypeByExtension(filepath.Ext(p)), "application/octet-stream"),
		})
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	slices.SortFunc(files, func(a, b storage.FileInfo) int { return strings.Compare(a.Path, b.Path) })
	return files, nil
}
