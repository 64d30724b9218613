// Package manifest defines the persisted record of one snapshot and the
// append-only store that holds them.
package manifest

import (
	"bytes"
	"time"

	"github.com/keshon/dirsnap/internal/hashing"
	"github.com/keshon/dirsnap/internal/util"
)

// FileRecord describes one tracked file inside a manifest.
type FileRecord struct {
	Hash hashing.Digest `json:"hash"`
	Size int64          `json:"size"`
}

// Manifest is the persisted record of one snapshot. It is immutable once
// written, except for the message, which may be amended out-of-band.
type Manifest struct {
	Fingerprint hashing.Digest        `json:"fingerprint"`
	Time        float64               `json:"time"`
	ISO         string                `json:"iso"`
	Message     string                `json:"message"`
	Files       map[string]FileRecord `json:"files"`
}

// New builds a manifest for the given file table, captured at ts.
func New(files map[string]FileRecord, message string, ts time.Time) *Manifest {
	ts = ts.UTC()
	return &Manifest{
		Fingerprint: Fingerprint(files),
		Time:        float64(ts.UnixNano()) / 1e9,
		ISO:         ts.Format("2006-01-02T15:04:05.000000") + "Z",
		Message:     message,
		Files:       files,
	}
}

// CapturedAt returns the capture timestamp recorded in the manifest,
// rounded to microseconds: the float seconds field cannot carry full
// nanosecond precision for current epochs.
func (m *Manifest) CapturedAt() time.Time {
	return time.Unix(0, int64(m.Time*1e9)).Round(time.Microsecond).UTC()
}

// TotalSize returns the sum of all recorded file sizes.
func (m *Manifest) TotalSize() int64 {
	var total int64
	for _, rec := range m.Files {
		total += rec.Size
	}
	return total
}

// Fingerprint computes the digest of the canonical path-to-hash mapping,
// sorted by path. It depends only on content identity and paths, never on
// traversal order, sizes, or timestamps.
func Fingerprint(files map[string]FileRecord) hashing.Digest {
	var buf bytes.Buffer
	for _, path := range util.SortedKeys(files) {
		buf.WriteString(path)
		buf.WriteByte(0)
		buf.WriteString(string(files[path].Hash))
		buf.WriteByte('\n')
	}
	return hashing.Bytes(buf.Bytes())
}
