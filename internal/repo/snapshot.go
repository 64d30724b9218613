package repo

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/keshon/dirsnap/internal/hashing"
	"github.com/keshon/dirsnap/internal/manifest"
	"github.com/keshon/dirsnap/internal/util"
)

// Result reports the outcome of a snapshot attempt.
type Result struct {
	Fingerprint hashing.Digest

	// ManifestName is set only when Created is true.
	ManifestName string
	Created      bool
}

// Snapshot captures the current tree state. When the computed
// fingerprint equals HEAD the call is a true no-op: no manifest or blob
// I/O happens and Created is false. Otherwise missing blobs are written,
// a manifest is appended, and HEAD advances.
//
// At most one snapshot runs at a time per Repository; concurrent calls
// queue behind the in-flight one.
func (r *Repository) Snapshot(message string) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	files, err := r.collectFiles()
	if err != nil {
		return Result{}, fmt.Errorf("collect files: %w", err)
	}

	fp := manifest.Fingerprint(files)
	head, err := r.Head()
	if err != nil {
		return Result{}, err
	}
	if head == fp {
		return Result{Fingerprint: fp}, nil
	}

	m := manifest.New(files, message, time.Now())

	if err := r.writeMissingBlobs(files); err != nil {
		return Result{}, err
	}

	name, err := r.Manifests.Append(m)
	if err != nil {
		return Result{}, err
	}
	if err := r.setHead(fp); err != nil {
		return Result{}, err
	}

	r.log.Debug("snapshot created", "fingerprint", fp, "manifest", name, "files", len(files))
	return Result{Fingerprint: fp, ManifestName: name, Created: true}, nil
}

// writeMissingBlobs stores content for every referenced hash not yet in
// the blob store. A file that turned unreadable between hashing and
// storing is logged and skipped; the manifest then carries a dangling
// reference that readers resolve to empty content.
func (r *Repository) writeMissingBlobs(files map[string]manifest.FileRecord) error {
	missing := make(map[hashing.Digest]string)
	for path, rec := range files {
		if _, ok := missing[rec.Hash]; ok {
			continue
		}
		if !r.Blobs.Exists(rec.Hash) {
			missing[rec.Hash] = path
		}
	}

	hashes := make([]hashing.Digest, 0, len(missing))
	for h := range missing {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	return util.Parallel(hashes, r.cfg.Workers, func(hash hashing.Digest) error {
		src := filepath.Join(r.Root, filepath.FromSlash(missing[hash]))
		if err := r.Blobs.PutFile(hash, src); err != nil {
			r.log.Warn("skipping blob write", "hash", hash, "error", err)
		}
		return nil
	})
}
