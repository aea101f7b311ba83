// Package watcher ingests documents as they appear or change in a directory.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/nickcecere/barnsbot/internal/fs"
	"github.com/nickcecere/barnsbot/internal/ingest"
)

// Ingester uploads a batch of files and removes superseded uploads.
// *ingest.Pipeline satisfies it.
type Ingester interface {
	Ingest(ctx context.Context, sources []ingest.Source) (*ingest.Report, error)
	Remove(ctx context.Context, fileID string) error
}

// upload is the last successful upload of a path. fileID is empty when the
// file was already in the store before the watcher started.
type upload struct {
	hash   string
	fileID string
}

// Watcher watches a directory tree and uploads new or modified documents.
type Watcher struct {
	root        string
	ingester    Ingester
	extensions  []string
	maxFileSize int64

	// debounce holds pending file events to batch process
	debounce     map[string]fsnotify.Op
	debounceMu   sync.Mutex
	debounceTime time.Duration

	// seen maps a path to its last successful upload
	seen   map[string]upload
	seenMu sync.Mutex

	// callback for status updates
	onEvent func(event string, path string)
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounceTime sets the debounce duration for batching events.
func WithDebounceTime(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceTime = d
	}
}

// WithEventCallback sets a callback for upload outcomes. event is "added",
// "failed", "replaced" (the previous upload was deleted) or "removed".
func WithEventCallback(fn func(event string, path string)) Option {
	return func(w *Watcher) {
		w.onEvent = fn
	}
}

// WithMaxFileSize skips files larger than n bytes. Zero means no limit.
func WithMaxFileSize(n int64) Option {
	return func(w *Watcher) {
		w.maxFileSize = n
	}
}

// New creates a watcher for root. Only files with one of extensions are uploaded.
func New(root string, ingester Ingester, extensions []string, opts ...Option) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:         absRoot,
		ingester:     ingester,
		extensions:   extensions,
		debounce:     make(map[string]fsnotify.Op),
		debounceTime: 500 * time.Millisecond,
		seen:         make(map[string]upload),
		onEvent:      func(string, string) {}, // noop default
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Remember records files that are already in the store so unchanged copies
// are not uploaded again. Their file ids are unknown, so the first revision
// uploaded by the watcher does not replace them.
func (w *Watcher) Remember(files []fs.FileInfo) {
	w.seenMu.Lock()
	defer w.seenMu.Unlock()
	for _, f := range files {
		w.seen[f.Path] = upload{hash: f.Hash}
	}
}

// RememberUpload records that path was uploaded as fileID. A later revision
// of path replaces fileID in the store.
func (w *Watcher) RememberUpload(path, hash, fileID string) {
	w.remember(path, upload{hash: hash, fileID: fileID})
}

// Start begins watching for file changes. Blocks until context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Add all directories recursively
	if err := w.addDirectories(watcher); err != nil {
		return err
	}

	log.Info("Watching for new documents", "root", w.root)

	// Start debounce processor
	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, watcher)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", "error", err)
		}
	}
}

// addDirectories recursively adds all directories to the watcher.
func (w *Watcher) addDirectories(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		if !d.IsDir() {
			return nil
		}

		if path != w.root && w.shouldSkipDir(d.Name()) {
			return filepath.SkipDir
		}

		if err := watcher.Add(path); err != nil {
			log.Debug("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

var skipDirs = []string{
	"node_modules", "vendor", ".git", ".idea", ".vscode", "__pycache__",
}

// shouldSkipDir returns true if directory should not be watched.
func (w *Watcher) shouldSkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(skipDirs, name)
}

// handleEvent processes a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event, watcher *fsnotify.Watcher) {
	path := event.Name

	// Skip hidden files
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}

	info, statErr := os.Stat(path)

	// For new directories, add to watcher
	if statErr == nil && info.IsDir() {
		if event.Has(fsnotify.Create) && !w.shouldSkipDir(filepath.Base(path)) {
			if err := watcher.Add(path); err == nil {
				log.Debug("Added directory to watch", "path", path)
			}
		}
		return
	}

	if !fs.HasExtension(path, w.extensions) {
		return
	}

	w.enqueue(path, event.Op)
}

func (w *Watcher) enqueue(path string, op fsnotify.Op) {
	w.debounceMu.Lock()
	w.debounce[path] |= op
	w.debounceMu.Unlock()
}

// processDebounced processes debounced file events periodically.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(w.debounceTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.flushDebounced(ctx)
		}
	}
}

// flushDebounced uploads every pending file whose content changed since its
// last successful upload.
func (w *Watcher) flushDebounced(ctx context.Context) {
	w.debounceMu.Lock()
	if len(w.debounce) == 0 {
		w.debounceMu.Unlock()
		return
	}
	events := w.debounce
	w.debounce = make(map[string]fsnotify.Op)
	w.debounceMu.Unlock()

	paths := make([]string, 0, len(events))
	for path := range events {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	var sources []ingest.Source
	for _, path := range paths {
		relPath := w.rel(path)

		info, err := os.Stat(path)
		if err != nil {
			// Removed or renamed away. The uploaded copy stays in the store.
			w.forget(path)
			w.onEvent("removed", relPath)
			continue
		}
		if w.maxFileSize > 0 && info.Size() > w.maxFileSize {
			log.Warn("Skipping large file", "file", relPath, "size", info.Size())
			continue
		}

		hash, err := fs.HashFile(path)
		if err != nil {
			log.Debug("Failed to hash file", "file", relPath, "error", err)
			continue
		}
		if w.unchanged(path, hash) {
			log.Debug("Unchanged, skipping", "file", relPath)
			continue
		}

		sources = append(sources, ingest.Source{
			OriginalName: filepath.Base(path),
			Path:         path,
			Hash:         hash,
		})
	}

	if len(sources) == 0 {
		return
	}

	report, err := w.ingester.Ingest(ctx, sources)
	if err != nil {
		log.Error("Failed to ingest changes", "error", err)
		return
	}

	for i, rec := range report.Results {
		src := sources[i]
		if !rec.OK {
			w.onEvent("failed", w.rel(src.Path))
			continue
		}

		prev := w.lookup(src.Path)
		w.remember(src.Path, upload{hash: src.Hash, fileID: rec.FileID})
		w.onEvent("added", w.rel(src.Path))

		if prev.fileID == "" || prev.fileID == rec.FileID {
			continue
		}
		if err := w.ingester.Remove(ctx, prev.fileID); err != nil {
			log.Warn("Failed to remove previous version", "file", w.rel(src.Path), "file_id", prev.fileID, "error", err)
			continue
		}
		w.onEvent("replaced", w.rel(src.Path))
	}
}

func (w *Watcher) rel(path string) string {
	relPath, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}
	return relPath
}

func (w *Watcher) unchanged(path, hash string) bool {
	return w.lookup(path).hash == hash
}

func (w *Watcher) lookup(path string) upload {
	w.seenMu.Lock()
	defer w.seenMu.Unlock()
	return w.seen[path]
}

func (w *Watcher) remember(path string, u upload) {
	w.seenMu.Lock()
	w.seen[path] = u
	w.seenMu.Unlock()
}

func (w *Watcher) forget(path string) {
	w.seenMu.Lock()
	delete(w.seen, path)
	w.seenMu.Unlock()
}
