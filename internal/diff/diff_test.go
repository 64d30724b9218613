package diff_test

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/keshon/dirsnap/internal/diff"
	"github.com/keshon/dirsnap/internal/hashing"
	"github.com/keshon/dirsnap/internal/manifest"
)

// memBlobs is an in-memory BlobReader for tests.
type memBlobs map[hashing.Digest][]byte

func (m memBlobs) Get(hash hashing.Digest) ([]byte, error) {
	return m[hash], nil
}

func (m memBlobs) add(content []byte) hashing.Digest {
	h := hashing.Bytes(content)
	m[h] = content
	return h
}

func record(hash hashing.Digest, size int) manifest.FileRecord {
	return manifest.FileRecord{Hash: hash, Size: int64(size)}
}

func mf(files map[string]manifest.FileRecord) *manifest.Manifest {
	return manifest.New(files, "", time.Now())
}

func TestAddedFile(t *testing.T) {
	blobs := memBlobs{}
	h1 := blobs.add([]byte("one"))
	h2 := blobs.add([]byte("two"))

	a := mf(map[string]manifest.FileRecord{"f1": record(h1, 3)})
	b := mf(map[string]manifest.FileRecord{"f1": record(h1, 3), "f2": record(h2, 3)})

	res, err := diff.Compare(a, b, blobs)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(res.Added, []string{"f2"}) {
		t.Errorf("added = %v, want [f2]", res.Added)
	}
	if len(res.Removed) != 0 || len(res.Modified) != 0 {
		t.Errorf("unexpected removed=%v modified=%v", res.Removed, res.Modified)
	}
	if !reflect.DeepEqual(res.Unchanged, []string{"f1"}) {
		t.Errorf("unchanged = %v, want [f1]", res.Unchanged)
	}
}

func TestRemovedFile(t *testing.T) {
	blobs := memBlobs{}
	h1 := blobs.add([]byte("one"))

	a := mf(map[string]manifest.FileRecord{"f1": record(h1, 3)})
	b := mf(map[string]manifest.FileRecord{})

	res, err := diff.Compare(a, b, blobs)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Removed, []string{"f1"}) {
		t.Errorf("removed = %v, want [f1]", res.Removed)
	}
}

func TestModifiedTextFile(t *testing.T) {
	blobs := memBlobs{}
	h1 := blobs.add([]byte("line one\nline two\n"))
	h2 := blobs.add([]byte("line one\nline 2\n"))

	a := mf(map[string]manifest.FileRecord{"f1": record(h1, 18)})
	b := mf(map[string]manifest.FileRecord{"f1": record(h2, 16)})

	res, err := diff.Compare(a, b, blobs)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Modified, []string{"f1"}) {
		t.Fatalf("modified = %v, want [f1]", res.Modified)
	}

	fd, ok := res.Files["f1"]
	if !ok {
		t.Fatal("missing file diff for f1")
	}
	if fd.Binary {
		t.Fatal("text file flagged as binary")
	}
	if !strings.Contains(fd.Unified, "-line two") || !strings.Contains(fd.Unified, "+line 2") {
		t.Errorf("unified diff missing change markers:\n%s", fd.Unified)
	}
	if !strings.Contains(fd.Unified, "@@") {
		t.Errorf("unified diff missing hunk markers:\n%s", fd.Unified)
	}
}

func TestModifiedBinaryFile(t *testing.T) {
	blobs := memBlobs{}
	h1 := blobs.add([]byte{0xff, 0xfe, 0x00, 0x01})
	h2 := blobs.add([]byte("plain text"))

	a := mf(map[string]manifest.FileRecord{"blob.bin": record(h1, 4)})
	b := mf(map[string]manifest.FileRecord{"blob.bin": record(h2, 10)})

	res, err := diff.Compare(a, b, blobs)
	if err != nil {
		t.Fatal(err)
	}

	fd := res.Files["blob.bin"]
	if !fd.Binary {
		t.Error("undecodable content must be flagged binary")
	}
	if fd.Unified != "" {
		t.Errorf("binary file must carry no line diff, got %q", fd.Unified)
	}
}

func TestMissingBlobDiffsAsEmpty(t *testing.T) {
	blobs := memBlobs{}
	h1 := blobs.add([]byte("content\n"))
	missing := hashing.Bytes([]byte("never stored"))

	a := mf(map[string]manifest.FileRecord{"f1": record(h1, 8)})
	b := mf(map[string]manifest.FileRecord{"f1": record(missing, 12)})

	res, err := diff.Compare(a, b, blobs)
	if err != nil {
		t.Fatalf("missing blob must not fail the diff: %v", err)
	}

	fd := res.Files["f1"]
	if fd.Binary {
		t.Error("missing blob should diff as empty text, not binary")
	}
	if !strings.Contains(fd.Unified, "-content") {
		t.Errorf("expected removal against empty content:\n%s", fd.Unified)
	}
}

func TestIdenticalManifests(t *testing.T) {
	blobs := memBlobs{}
	h1 := blobs.add([]byte("same"))

	files := map[string]manifest.FileRecord{"f1": record(h1, 4)}
	res, err := diff.Compare(mf(files), mf(files), blobs)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Added)+len(res.Removed)+len(res.Modified) != 0 {
		t.Errorf("identical manifests must only report unchanged: %+v", res)
	}
	if !reflect.DeepEqual(res.Unchanged, []string{"f1"}) {
		t.Errorf("unchanged = %v", res.Unchanged)
	}
}
