// Package hashing provides content digests for files and byte payloads.
// Digests are xxh3-128 sums rendered as lowercase hex.
package hashing

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
	"golang.org/x/exp/mmap"
)

const (
	// chunkSize is the fixed read size for streaming digests.
	chunkSize = 64 * 1024

	// mmapThreshold is the file size above which files are hashed
	// through a memory-mapped reader instead of buffered reads.
	mmapThreshold = 8 * 1024 * 1024
)

// Digest is a lowercase hex xxh3-128 content digest.
type Digest string

func (d Digest) String() string { return string(d) }

// Bytes returns the digest of a byte slice.
func Bytes(b []byte) Digest {
	h := xxh3.Hash128(b).Bytes()
	return Digest(hex.EncodeToString(h[:]))
}

// Reader returns the digest of everything read from r, streaming in
// fixed-size chunks.
func Reader(r io.Reader) (Digest, error) {
	h := xxh3.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	sum := h.Sum128().Bytes()
	return Digest(hex.EncodeToString(sum[:])), nil
}

// File returns the digest of a file's content. Large files are read
// through a memory-mapped reader in fixed chunks; smaller files stream
// through a plain buffered read.
func File(path string) (Digest, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat file %q: %w", path, err)
	}

	if fi.Size() >= mmapThreshold {
		return mmapFile(path, fi.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file %q: %w", path, err)
	}
	defer f.Close()

	d, err := Reader(f)
	if err != nil {
		return "", fmt.Errorf("hash file %q: %w", path, err)
	}
	return d, nil
}

func mmapFile(path string, size int64) (Digest, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return "", fmt.Errorf("mmap file %q: %w", path, err)
	}
	defer reader.Close()

	h := xxh3.New()
	buf := make([]byte, chunkSize)
	for off := int64(0); off < size; off += chunkSize {
		end := off + chunkSize
		if end > size {
			end = size
		}
		n, err := reader.ReadAt(buf[:end-off], off)
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("read mmap chunk %d-%d of %q: %w", off, end, path, err)
		}
		_, _ = h.Write(buf[:n])
	}

	sum := h.Sum128().Bytes()
	return Digest(hex.EncodeToString(sum[:])), nil
}
