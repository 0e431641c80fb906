// Package blobstore provides durable storage for uploaded medical-report
// files. Blobs are keyed by their original filename in a single flat
// namespace shared across all patients; a second save under the same name
// overwrites the first (last write wins). The DirStore backend keeps blobs
// as plain files in one directory; S3Store keeps them in a MinIO/S3 bucket.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
)

// Store is the contract for report blob storage backends. Save returns the
// backend-specific location of the stored blob and the number of bytes
// written.
type Store interface {
	Save(ctx context.Context, name string, content io.Reader) (path string, size int64, err error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	ContentType(ctx context.Context, name string) (string, error)
	Exists(ctx context.Context, name string) (bool, error)
	Remove(ctx context.Context, name string) error
}

// DirStore stores blobs as flat files in a single directory, one file per
// blob, named exactly by the blob name.
type DirStore struct {
	dir string
}

// NewDirStore creates the upload directory if needed and returns a DirStore
// over it.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the directory blobs are stored under.
func (s *DirStore) Dir() string { return s.dir }

// path resolves a blob name inside the store directory. Only the base name
// is used, so "../x" cannot escape the directory.
func (s *DirStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Save writes the blob to disk under its name, truncating any existing file
// with the same name.
func (s *DirStore) Save(_ context.Context, name string, content io.Reader) (string, int64, error) {
	dst := s.path(name)

	f, err := os.Create(dst)
	if err != nil {
		return "", 0, fmt.Errorf("create blob file %s: %w", dst, err)
	}

	n, err := io.Copy(f, content)
	if err != nil {
		f.Close()
		return "", 0, fmt.Errorf("write blob %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("close blob %s: %w", dst, err)
	}

	return dst, n, nil
}

// Open returns a reader over the named blob.
func (s *DirStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("open blob %s: %w", name, err)
	}
	return f, nil
}

// ContentType sniffs the MIME type of the named blob from its content.
func (s *DirStore) ContentType(_ context.Context, name string) (string, error) {
	mtype, err := mimetype.DetectFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrBlobNotFound
		}
		return "", fmt.Errorf("detect content type of %s: %w", name, err)
	}
	return mtype.String(), nil
}

// Exists reports whether a blob with the given name is present.
func (s *DirStore) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat blob %s: %w", name, err)
	}
	return true, nil
}

// Remove deletes the named blob. Removing a missing blob returns
// ErrBlobNotFound.
func (s *DirStore) Remove(_ context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("remove blob %s: %w", name, err)
	}
	return nil
}
