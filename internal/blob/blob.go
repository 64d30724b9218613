// Package blob implements content-addressed storage: each unique content
// digest is stored exactly once, shared across all manifests.
package blob

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/keshon/dirsnap/internal/hashing"
)

// Store is a write-once-if-absent blob store rooted at a single directory.
// Content under a given hash is immutable for the store's lifetime, so
// concurrent duplicate writes are safe no-ops after the first.
type Store struct {
	Dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) blobPath(hash hashing.Digest) string {
	return filepath.Join(s.Dir, string(hash))
}

// Exists reports whether content for hash is present.
func (s *Store) Exists(hash hashing.Digest) bool {
	fi, err := os.Stat(s.blobPath(hash))
	return err == nil && fi.Mode().IsRegular()
}

// Get returns the content stored under hash, or an empty slice when the
// hash is unknown. Absence is not an error: callers treat it as
// "content unavailable".
func (s *Store) Get(hash hashing.Digest) ([]byte, error) {
	data, err := os.ReadFile(s.blobPath(hash))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []byte{}, nil
		}
		return nil, fmt.Errorf("read blob %q: %w", hash, err)
	}
	return data, nil
}

// Put stores content under hash if absent. The write is atomic: content
// lands in a temp file first and is renamed into place.
func (s *Store) Put(hash hashing.Digest, content []byte) error {
	if s.Exists(hash) {
		return nil
	}
	return s.writeAtomic(hash, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
}

// PutFile stores the content of srcPath under hash if absent, streaming
// instead of loading the whole file.
func (s *Store) PutFile(hash hashing.Digest, srcPath string) error {
	if s.Exists(hash) {
		return nil
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source file %q: %w", srcPath, err)
	}
	defer src.Close()

	return s.writeAtomic(hash, func(w io.Writer) error {
		_, err := io.Copy(w, src)
		return err
	})
}

func (s *Store) writeAtomic(hash hashing.Digest, fill func(io.Writer) error) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create blobs dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %q: %w", s.Dir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := fill(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp blob %q: %w", hash, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp blob %q: %w", hash, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp blob %q: %w", hash, err)
	}

	if err := os.Rename(tmpPath, s.blobPath(hash)); err != nil {
		return fmt.Errorf("rename temp blob %q: %w", hash, err)
	}
	return nil
}
