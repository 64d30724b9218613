package hashing_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/keshon/dirsnap/internal/hashing"
)

func TestBytesDeterministic(t *testing.T) {
	data := []byte("hello-world-1234567890")

	a := hashing.Bytes(data)
	b := hashing.Bytes(data)
	if a != b {
		t.Errorf("same input produced different digests: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("expected 32 hex chars, got %d (%s)", len(a), a)
	}

	c := hashing.Bytes([]byte("hello-world-1234567891"))
	if a == c {
		t.Error("different inputs produced the same digest")
	}
}

func TestReaderMatchesBytes(t *testing.T) {
	// Larger than one read chunk so streaming actually iterates.
	data := bytes.Repeat([]byte("abcdefgh"), 20_000)

	want := hashing.Bytes(data)
	got, err := hashing.Reader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("streaming digest %s != one-shot digest %s", got, want)
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	data := []byte("file content for hashing")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := hashing.File(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != hashing.Bytes(data) {
		t.Errorf("file digest %s != bytes digest %s", got, hashing.Bytes(data))
	}
}

func TestFileLarge(t *testing.T) {
	// Big enough to take the memory-mapped path.
	dir := t.TempDir()
	path := filepath.Join(dir, "large.bin")
	data := bytes.Repeat([]byte{0xAB, 0x12, 0x34, 0xCD}, 3*1024*1024)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := hashing.File(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != hashing.Bytes(data) {
		t.Errorf("mmap digest %s != bytes digest %s", got, hashing.Bytes(data))
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := hashing.File(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing file")
	}
}
