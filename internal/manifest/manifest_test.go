package manifest_test

import (
	"testing"
	"time"

	"github.com/keshon/dirsnap/internal/hashing"
	"github.com/keshon/dirsnap/internal/manifest"
)

func TestFingerprintDeterministic(t *testing.T) {
	files := map[string]manifest.FileRecord{
		"a.txt":     {Hash: hashing.Bytes([]byte("a")), Size: 1},
		"sub/b.txt": {Hash: hashing.Bytes([]byte("b")), Size: 1},
	}

	if manifest.Fingerprint(files) != manifest.Fingerprint(files) {
		t.Error("same file table produced different fingerprints")
	}
}

func TestFingerprintIgnoresSize(t *testing.T) {
	a := map[string]manifest.FileRecord{
		"f.txt": {Hash: hashing.Bytes([]byte("x")), Size: 1},
	}
	b := map[string]manifest.FileRecord{
		"f.txt": {Hash: hashing.Bytes([]byte("x")), Size: 999},
	}

	if manifest.Fingerprint(a) != manifest.Fingerprint(b) {
		t.Error("fingerprint must depend only on (path, hash) pairs")
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := map[string]manifest.FileRecord{
		"f.txt": {Hash: hashing.Bytes([]byte("x"))},
	}
	renamed := map[string]manifest.FileRecord{
		"g.txt": {Hash: hashing.Bytes([]byte("x"))},
	}
	edited := map[string]manifest.FileRecord{
		"f.txt": {Hash: hashing.Bytes([]byte("y"))},
	}

	fp := manifest.Fingerprint(base)
	if fp == manifest.Fingerprint(renamed) {
		t.Error("renaming a path must change the fingerprint")
	}
	if fp == manifest.Fingerprint(edited) {
		t.Error("changing content must change the fingerprint")
	}
}

func TestNewManifest(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	files := map[string]manifest.FileRecord{
		"f.txt": {Hash: hashing.Bytes([]byte("x")), Size: 3},
	}

	m := manifest.New(files, "first", ts)

	if m.Fingerprint != manifest.Fingerprint(files) {
		t.Error("manifest fingerprint mismatch")
	}
	if m.Message != "first" {
		t.Errorf("expected message %q, got %q", "first", m.Message)
	}
	if !m.CapturedAt().Equal(ts) {
		t.Errorf("expected capture time %s, got %s", ts, m.CapturedAt())
	}
	if m.ISO != "2024-06-01T12:30:00.000000Z" {
		t.Errorf("unexpected iso timestamp %q", m.ISO)
	}
	if m.TotalSize() != 3 {
		t.Errorf("expected total size 3, got %d", m.TotalSize())
	}
}
