package manifest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/keshon/dirsnap/internal/util"
)

// ErrUnreadable marks a manifest that is absent or malformed.
var ErrUnreadable = errors.New("manifest unreadable")

// nameTimeLayout carries sub-second precision so a fingerprint that
// recurs after content reverts still yields a unique manifest name.
const nameTimeLayout = "20060102T150405.000000"

// Entry pairs a manifest with its on-disk name.
type Entry struct {
	Name     string
	Manifest *Manifest
}

// Store is an append-only, enumerable manifest store. Manifests live as
// individual JSON files named <fingerprint>-<capture timestamp>.json.
type Store struct {
	Dir string
	log *slog.Logger
}

// NewStore creates a Store rooted at dir. A nil logger falls back to the
// default logger.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{Dir: dir, log: logger}
}

// Append persists a manifest and returns its name.
func (s *Store) Append(m *Manifest) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create manifests dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", m.Fingerprint, m.CapturedAt().Format(nameTimeLayout))
	if err := util.WriteJSON(filepath.Join(s.Dir, name), m); err != nil {
		return "", fmt.Errorf("write manifest %q: %w", name, err)
	}
	return name, nil
}

// List returns all manifests ascending by capture time. Corrupt or
// unparseable entries are skipped and logged, never abort the listing.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifests dir: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		var m Manifest
		if err := util.ReadJSON(filepath.Join(s.Dir, de.Name()), &m); err != nil {
			s.log.Warn("skipping corrupt manifest", "name", de.Name(), "error", err)
			continue
		}
		entries = append(entries, Entry{Name: de.Name(), Manifest: &m})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Manifest.Time < entries[j].Manifest.Time
	})
	return entries, nil
}

// Load reads one manifest by name.
func (s *Store) Load(name string) (*Manifest, error) {
	var m Manifest
	if err := util.ReadJSON(filepath.Join(s.Dir, name), &m); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnreadable, name, err)
	}
	return &m, nil
}

// AmendMessage rewrites the message of a persisted manifest in place.
// This is the only sanctioned mutation of a manifest: the fingerprint
// and file table are left untouched.
func (s *Store) AmendMessage(name, message string) error {
	m, err := s.Load(name)
	if err != nil {
		return err
	}
	m.Message = message
	if err := util.WriteJSON(filepath.Join(s.Dir, name), m); err != nil {
		return fmt.Errorf("amend manifest %q: %w", name, err)
	}
	return nil
}
