package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceWindow batches rapid successive writes to the same file (an
// editor doing an atomic save often unlinks/recreates, firing several
// events in quick succession) into one re-extraction, the pattern
// grounded on the teacher pack's MangleWatcher
// (theRebelliousNerd-codenerd/internal/core/mangle_watcher.go).
const debounceWindow = 300 * time.Millisecond

// Watcher is the workspace/didChangeWatchedFiles fallback: an
// fsnotify-based recursive watch over a Session's vault root for clients
// that don't register their own watchers.
type Watcher struct {
	session *Session
	fsw     *fsnotify.Watcher
	log     *zap.Logger

	mu      sync.Mutex
	pending map[string]time.Time
	deletes map[string]bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func newWatcher(s *Session) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		session: s,
		fsw:     fsw,
		log:     s.log.Named("watcher"),
		pending: map[string]time.Time{},
		deletes: map[string]bool{},
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start registers watches on every directory under the session's root
// (fsnotify watches directories, not trees) and begins the debounced
// event loop in a goroutine. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	err := filepath.WalkDir(w.session.Root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if addErr := w.fsw.Add(p); addErr != nil {
				w.log.Warn("failed to watch directory", zap.String("path", p), zap.Error(addErr))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	go w.run(ctx)
	return nil
}

// Stop halts the event loop and releases the underlying fsnotify handle.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	_ = w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(debounceWindow / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".md") {
		return
	}
	rel, err := filepath.Rel(w.session.Root, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.deletes[rel] = true
	default:
		delete(w.deletes, rel)
	}
	w.pending[rel] = time.Now()
}

// flush re-extracts every path whose most recent event is older than
// debounceWindow.
func (w *Watcher) flush() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, t := range w.pending {
		if now.Sub(t) >= debounceWindow {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.mu.Lock()
		deleted := w.deletes[path]
		delete(w.deletes, path)
		w.mu.Unlock()

		if err := w.session.DidChangeWatchedFile(path, deleted); err != nil {
			w.log.Warn("failed to apply watched-file change",
				zap.String("path", path), zap.Bool("deleted", deleted), zap.Error(err))
		}
	}
}
