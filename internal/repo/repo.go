// Package repo orchestrates snapshots over a directory tree: it walks
// and hashes the tree, commits manifests and blobs, and maintains the
// HEAD pointer.
package repo

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/keshon/dirsnap/internal/blob"
	"github.com/keshon/dirsnap/internal/config"
	"github.com/keshon/dirsnap/internal/hashing"
	"github.com/keshon/dirsnap/internal/manifest"
)

// ErrNotRepository marks a root without an initialized storage layout.
var ErrNotRepository = errors.New("not a dirsnap repository")

// Repository represents an initialized snapshot repository.
type Repository struct {
	Root      string
	Blobs     *blob.Store
	Manifests *manifest.Store

	cfg config.Config
	log *slog.Logger

	// mu serializes snapshot operations: the HEAD compare-then-update
	// sequence must never interleave across two invocations.
	mu sync.Mutex
}

// New constructs a Repository for the given root without touching disk.
func New(root string, cfg config.Config, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	storage := filepath.Join(root, cfg.StorageDir)
	return &Repository{
		Root:      root,
		Blobs:     blob.NewStore(filepath.Join(storage, config.BlobsDir)),
		Manifests: manifest.NewStore(filepath.Join(storage, config.ManifestsDir), logger),
		cfg:       cfg,
		log:       logger,
	}
}

// StoragePath returns the internal storage directory under the root.
func (r *Repository) StoragePath() string {
	return filepath.Join(r.Root, r.cfg.StorageDir)
}

func (r *Repository) headPath() string {
	return filepath.Join(r.StoragePath(), config.HeadFile)
}

// Exists reports whether a repository is initialized at root.
func Exists(root string, cfg config.Config) bool {
	fi, err := os.Stat(filepath.Join(root, cfg.StorageDir, config.HeadFile))
	return err == nil && fi.Mode().IsRegular()
}

// InitAt initializes a repository at root and commits an initial
// snapshot. Opening an already-initialized root is a no-op.
// Returns (*Repository, created, error).
func InitAt(root string, cfg config.Config, logger *slog.Logger) (*Repository, bool, error) {
	if Exists(root, cfg) {
		r, err := OpenAt(root, cfg, logger)
		return r, false, err
	}

	r := New(root, cfg, logger)

	dirs := []string{
		r.StoragePath(),
		r.Blobs.Dir,
		r.Manifests.Dir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, false, fmt.Errorf("failed to create dir %q: %w", d, err)
		}
	}

	if err := os.WriteFile(r.headPath(), []byte(""), 0o644); err != nil {
		return nil, false, fmt.Errorf("failed to write HEAD: %w", err)
	}

	if _, err := r.Snapshot("Initial snapshot"); err != nil {
		return nil, false, fmt.Errorf("initial snapshot: %w", err)
	}

	return r, true, nil
}

// OpenAt opens an existing repository.
func OpenAt(root string, cfg config.Config, logger *slog.Logger) (*Repository, error) {
	r := New(root, cfg, logger)
	if !Exists(root, cfg) {
		return nil, fmt.Errorf("%w: %q", ErrNotRepository, root)
	}
	return r, nil
}

// Head returns the fingerprint of the most recently committed manifest,
// or empty when the repository holds no snapshots.
func (r *Repository) Head() (hashing.Digest, error) {
	data, err := os.ReadFile(r.headPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	return hashing.Digest(strings.TrimSpace(string(data))), nil
}

func (r *Repository) setHead(fp hashing.Digest) error {
	if err := os.WriteFile(r.headPath(), []byte(fp), 0o644); err != nil {
		return fmt.Errorf("write HEAD: %w", err)
	}
	return nil
}

// ListSnapshots returns all manifests ascending by capture time.
func (r *Repository) ListSnapshots() ([]manifest.Entry, error) {
	return r.Manifests.List()
}

// LoadManifest loads one manifest by name.
func (r *Repository) LoadManifest(name string) (*manifest.Manifest, error) {
	return r.Manifests.Load(name)
}

// ReadBlob returns blob content by digest; empty when absent.
func (r *Repository) ReadBlob(hash hashing.Digest) ([]byte, error) {
	return r.Blobs.Get(hash)
}

// AmendMessage rewrites the message of a persisted manifest.
func (r *Repository) AmendMessage(name, message string) error {
	return r.Manifests.AmendMessage(name, message)
}
