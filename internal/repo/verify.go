package repo

import (
	"path/filepath"

	"github.com/keshon/dirsnap/internal/hashing"
	"github.com/keshon/dirsnap/internal/util"
)

// BlobStatus indicates the state of a stored blob.
type BlobStatus int

const (
	BlobOK BlobStatus = iota
	BlobMissing
	BlobDamaged
)

func (s BlobStatus) String() string {
	switch s {
	case BlobOK:
		return "ok"
	case BlobMissing:
		return "missing"
	case BlobDamaged:
		return "damaged"
	}
	return "unknown"
}

// BlobCheck is the verification outcome for a single blob, with the
// manifest paths that reference it.
type BlobCheck struct {
	Hash   hashing.Digest
	Status BlobStatus
	Paths  []string
}

// Verify re-hashes every blob referenced by any manifest and streams
// one check per unique hash. Dangling references (manifest hash with no
// blob) surface as BlobMissing; they are reported, never repaired.
func (r *Repository) Verify(workers int) (<-chan BlobCheck, error) {
	entries, err := r.Manifests.List()
	if err != nil {
		return nil, err
	}

	referenced := make(map[hashing.Digest][]string)
	for _, e := range entries {
		for path, rec := range e.Manifest.Files {
			referenced[rec.Hash] = append(referenced[rec.Hash], path)
		}
	}

	hashes := make([]hashing.Digest, 0, len(referenced))
	for h := range referenced {
		hashes = append(hashes, h)
	}

	out := make(chan BlobCheck, 128)
	go func() {
		defer close(out)
		// Workers map failures to a status, so Parallel never sees an error.
		_ = util.Parallel(hashes, workers, func(h hashing.Digest) error {
			out <- BlobCheck{Hash: h, Status: r.checkBlob(h), Paths: dedupe(referenced[h])}
			return nil
		})
	}()
	return out, nil
}

func (r *Repository) checkBlob(hash hashing.Digest) BlobStatus {
	if !r.Blobs.Exists(hash) {
		return BlobMissing
	}
	actual, err := hashing.File(filepath.Join(r.Blobs.Dir, string(hash)))
	if err != nil {
		return BlobDamaged
	}
	if actual != hash {
		return BlobDamaged
	}
	return BlobOK
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
