package repo

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/keshon/dirsnap/internal/hashing"
	"github.com/keshon/dirsnap/internal/manifest"
	"github.com/keshon/dirsnap/internal/util"
)

// collectFiles walks the tree rooted at the repository root and returns
// the (path, hash, size) table. The storage directory is pruned from the
// walk entirely; unreadable files are skipped without aborting.
func (r *Repository) collectFiles() (map[string]manifest.FileRecord, error) {
	paths, err := r.scanWorkingTree()
	if err != nil {
		return nil, err
	}

	files := make(map[string]manifest.FileRecord, len(paths))
	var mu sync.Mutex

	// Hash failures are skips, not errors, so Parallel never sees one.
	_ = util.Parallel(paths, r.cfg.Workers, func(rel string) error {
		abs := filepath.Join(r.Root, filepath.FromSlash(rel))

		fi, err := os.Stat(abs)
		if err != nil {
			r.log.Warn("skipping unreadable file", "path", rel, "error", err)
			return nil
		}
		hash, err := hashing.File(abs)
		if err != nil {
			r.log.Warn("skipping unreadable file", "path", rel, "error", err)
			return nil
		}

		mu.Lock()
		files[rel] = manifest.FileRecord{Hash: hash, Size: fi.Size()}
		mu.Unlock()
		return nil
	})

	return files, nil
}

// scanWorkingTree lists all regular files under the root as sorted
// slash-separated paths relative to the root, with the storage
// directory pruned.
func (r *Repository) scanWorkingTree() ([]string, error) {
	storage := r.StoragePath()

	var paths []string
	err := filepath.WalkDir(r.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				r.log.Warn("skipping unreadable directory", "path", path, "error", err)
				return fs.SkipDir
			}
			r.log.Warn("skipping unreadable entry", "path", path, "error", err)
			return nil
		}

		if d.IsDir() {
			if path == storage {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(r.Root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
