// Package diff compares two manifests and produces a structured result:
// path sets plus a line diff for each modified text file. Rendering the
// result (HTML, CSV, terminal) is a presentation concern outside this
// package.
package diff

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/keshon/dirsnap/internal/hashing"
	"github.com/keshon/dirsnap/internal/manifest"
)

// BlobReader supplies blob content by digest. Unknown digests yield
// empty content, not an error.
type BlobReader interface {
	Get(hash hashing.Digest) ([]byte, error)
}

// FileDiff is the per-file outcome for a modified path.
type FileDiff struct {
	// Binary is set when either side fails to decode as UTF-8 text;
	// no line diff is produced in that case.
	Binary  bool
	Unified string
}

// Result is the structured comparison of two manifests.
type Result struct {
	Added     []string
	Removed   []string
	Modified  []string
	Unchanged []string

	// Files maps each modified path to its diff or binary marker.
	Files map[string]FileDiff
}

// Compare computes added/removed/modified/unchanged sets between a and b
// and a unified line diff for every modified text file. Order of a and b
// matters only for labeling.
func Compare(a, b *manifest.Manifest, blobs BlobReader) (*Result, error) {
	res := &Result{Files: make(map[string]FileDiff)}

	for path := range b.Files {
		if _, ok := a.Files[path]; !ok {
			res.Added = append(res.Added, path)
		}
	}
	for path, recA := range a.Files {
		recB, ok := b.Files[path]
		if !ok {
			res.Removed = append(res.Removed, path)
			continue
		}
		if recA.Hash != recB.Hash {
			res.Modified = append(res.Modified, path)
		} else {
			res.Unchanged = append(res.Unchanged, path)
		}
	}

	sort.Strings(res.Added)
	sort.Strings(res.Removed)
	sort.Strings(res.Modified)
	sort.Strings(res.Unchanged)

	for _, path := range res.Modified {
		fd, err := fileDiff(path, a.Files[path].Hash, b.Files[path].Hash, blobs)
		if err != nil {
			return nil, err
		}
		res.Files[path] = fd
	}

	return res, nil
}

func fileDiff(path string, hashA, hashB hashing.Digest, blobs BlobReader) (FileDiff, error) {
	dataA, err := blobs.Get(hashA)
	if err != nil {
		return FileDiff{}, fmt.Errorf("read blob for %q: %w", path, err)
	}
	dataB, err := blobs.Get(hashB)
	if err != nil {
		return FileDiff{}, fmt.Errorf("read blob for %q: %w", path, err)
	}

	if !utf8.Valid(dataA) || !utf8.Valid(dataB) {
		return FileDiff{Binary: true}, nil
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(dataA)),
		B:        difflib.SplitLines(string(dataB)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return FileDiff{}, fmt.Errorf("diff %q: %w", path, err)
	}
	return FileDiff{Unified: unified}, nil
}
