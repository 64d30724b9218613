// Package watch turns filesystem change notifications into automatic
// snapshots: events under the repository root are debounced into a
// single snapshot attempt, and each created snapshot is emitted as an
// event for external consumers.
package watch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/keshon/dirsnap/internal/config"
	"github.com/keshon/dirsnap/internal/hashing"
	"github.com/keshon/dirsnap/internal/repo"
)

// Event reports one created auto-snapshot.
type Event struct {
	Fingerprint  hashing.Digest
	ManifestName string
}

// Watcher watches a repository root and snapshots it after each burst
// of changes settles.
type Watcher struct {
	repo   *repo.Repository
	fsw    *fsnotify.Watcher
	deb    *Debouncer
	settle time.Duration
	log    *slog.Logger

	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a Watcher for an opened repository. A nil logger falls
// back to the default logger.
func New(r *repo.Repository, cfg config.Config, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{
		repo:   r,
		settle: cfg.Settle.Std(),
		log:    logger,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	w.deb = NewDebouncer(cfg.Debounce.Std(), w.autoSnapshot)
	return w
}

// Events yields one Event per created auto-snapshot. Events are dropped
// (and logged) if the consumer falls behind the buffer.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching the repository root recursively.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}
	w.fsw = fsw

	if err := w.addRecursive(w.repo.Root); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %q: %w", w.repo.Root, err)
	}

	w.wg.Add(1)
	go w.loop()

	w.log.Info("watcher started", "root", w.repo.Root)
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit. An
// auto-snapshot already in flight finishes on its own goroutine.
func (w *Watcher) Stop() {
	close(w.done)
	w.deb.Stop()
	if w.fsw != nil {
		w.fsw.Close()
	}
	w.wg.Wait()
}

// addRecursive adds dir and all its subdirectories to the watch list,
// pruning the internal storage directory.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are not watchable, skip
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return fs.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.log.Warn("cannot watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// ignored reports whether path lies inside the internal storage
// directory.
func (w *Watcher) ignored(path string) bool {
	storage := w.repo.StoragePath()
	return path == storage || strings.HasPrefix(path, storage+string(filepath.Separator))
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.ignored(ev.Name) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						w.log.Warn("cannot watch new directory", "path", ev.Name, "error", err)
					}
				}
			}
			w.deb.Trigger()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("fs watcher error", "error", err)
		}
	}
}

// autoSnapshot runs on the debounce timer's goroutine, off the event
// loop and off any caller thread. Snapshot failures are logged and
// never terminate the watcher.
func (w *Watcher) autoSnapshot() {
	res, err := w.repo.Snapshot("auto")
	if err != nil {
		w.log.Error("auto snapshot failed", "error", err)
		return
	}
	if !res.Created {
		return
	}

	// Let the filesystem quiesce before consumers re-read state.
	time.Sleep(w.settle)

	select {
	case w.events <- Event{Fingerprint: res.Fingerprint, ManifestName: res.ManifestName}:
	default:
		w.log.Warn("dropping snapshot event, consumer too slow", "manifest", res.ManifestName)
	}
}
