// Package session implements spec.md §4.6's Session: the current
// snapshot handle, the opened-document set, a version counter, and the
// Uninitialized→Indexing→Ready→Reindexing state machine of §4.5/§4.6
// that ties the Rope Store, Extractor, and Vault Graph together into one
// serving surface for lspserver.
//
// Grounded on the teacher's Engine interface (goreason.go): Ingest maps
// to InitialIndex, Update/UpdateAll map to DidChange/Reindex, and the
// engine's single mutable-store-behind-a-lock shape becomes, here, a
// single atomic.Pointer[vault.Snapshot] — generalized from the teacher's
// one-writer-at-a-time SQLite store to the spec's copy-on-write snapshot
// model (spec.md §4.4/§5: "all other state is produced by publishing new
// snapshot handles").
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/errs"
	"github.com/moxide-ls/moxide/logging"
	"github.com/moxide-ls/moxide/vault"
)

// State is one of spec.md §4.5's four Session states.
type State int32

const (
	Uninitialized State = iota
	Indexing
	Ready
	Reindexing
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Indexing:
		return "indexing"
	case Ready:
		return "ready"
	case Reindexing:
		return "reindexing"
	default:
		return "unknown"
	}
}

// Session is the top-level object lspserver drives: one per LSP
// connection, scoped to a single vault root.
type Session struct {
	Root string
	Cfg  config.Resolved

	concurrency int
	log         *zap.Logger

	state atomic.Int32
	snap  atomic.Pointer[vault.Snapshot]
	rev   atomic.Uint64

	// mu serializes mutating operations (InitialIndex, DidChange,
	// DidClose-triggered-delete, Reindex): vault.UpdateDocument/
	// DeleteDocument/Build each clone from a "prev" snapshot, so two
	// concurrent mutations racing on the same prev would silently drop
	// one's edit. spec.md §5's "Rope Store ... guarded so that an
	// editor-opened document's rope is updated serially per path" is
	// generalized here to serializing the whole publish step, since a
	// vault-wide clone+edit is cheap relative to the parse it follows.
	mu sync.Mutex

	// opened tracks which documents currently have a live editor buffer
	// (spec.md §4.6 (c)): their ropes are authoritative over disk.
	opened map[string]bool

	watcher *Watcher
}

// New constructs a Session in the Uninitialized state. concurrency <= 0
// uses vault.Build's default worker-pool width.
func New(root string, cfg config.Resolved, concurrency int) *Session {
	s := &Session{
		Root:        root,
		Cfg:         cfg,
		concurrency: concurrency,
		log:         logging.Named("session"),
		opened:      map[string]bool{},
	}
	s.state.Store(int32(Uninitialized))
	return s
}

// State returns the Session's current state machine position.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Snapshot returns the most recently published Snapshot. Returns
// errs.ErrNotIndexed if InitialIndex hasn't completed at least once.
func (s *Session) Snapshot() (*vault.Snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, errs.ErrNotIndexed
	}
	return snap, nil
}

// Revision returns the current global version counter, spec.md §4.6's
// "version counter used to tag edges and detect stale reads".
func (s *Session) Revision() uint64 {
	return s.rev.Load()
}

// InitialIndex implements the Uninitialized→Indexing→Ready transition
// (spec.md §4.5): walk Root for markdown files, parse and extract all of
// them concurrently through vault.Build, and publish the resulting
// Snapshot.
func (s *Session) InitialIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A pass started by Reindex keeps reporting Reindexing until it ends.
	if s.State() != Reindexing {
		s.state.Store(int32(Indexing))
	}
	s.log.Info("initial index starting", zap.String("root", s.Root))

	paths, err := discoverMarkdown(s.Root)
	if err != nil {
		s.state.Store(int32(Uninitialized))
		return fmt.Errorf("session: discovering markdown files: %w", err)
	}

	files := make([]vault.SourceFile, 0, len(paths))
	for _, p := range paths {
		content, err := readFile(s.Root, p)
		if err != nil {
			s.state.Store(int32(Uninitialized))
			return fmt.Errorf("session: reading %q: %w", p, err)
		}
		files = append(files, vault.SourceFile{Path: p, Content: content})
	}

	snap, err := vault.Build(ctx, files, s.Cfg, s.concurrency)
	if err != nil {
		s.state.Store(int32(Uninitialized))
		return fmt.Errorf("session: initial build: %w", err)
	}

	s.snap.Store(snap)
	s.rev.Add(1)
	s.state.Store(int32(Ready))
	s.log.Info("initial index complete", zap.Int("documents", len(files)))
	return nil
}

// Reindex implements the Ready→Reindexing→Ready transition (spec.md
// §4.5's "bulk external changes"): re-walk and re-parse the whole vault,
// discarding any in-progress per-document updates the way a bulk
// reindex is defined to ("abandon the current pass", spec.md §5).
func (s *Session) Reindex(ctx context.Context) error {
	s.mu.Lock()
	prevState := s.State()
	s.state.Store(int32(Reindexing))
	s.mu.Unlock()

	if err := s.InitialIndex(ctx); err != nil {
		s.state.Store(int32(prevState))
		return err
	}
	return nil
}

// DidOpen marks path as editor-opened and (re)publishes its extraction
// from the editor-provided content, which becomes authoritative over
// disk for as long as the document stays open (spec.md §4.6 (c)).
func (s *Session) DidOpen(path string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened[path] = true
	return s.publishUpdate(path, content, true)
}

// DidChange re-extracts path from its full current content (the
// lspserver layer is responsible for applying incremental text-document
// edits to produce this; see spec.md §6's "didChange (incremental)").
func (s *Session) DidChange(path string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publishUpdate(path, content, s.opened[path])
}

// DidSave re-extracts path from disk content, matching didChange's
// publish behavior; kept distinct so lspserver can choose whether to
// re-read disk or reuse the last known buffer.
func (s *Session) DidSave(path string, content []byte) error {
	return s.DidChange(path, content)
}

// DidClose marks path as no longer editor-opened. Its last-known content
// stays indexed (spec.md doesn't require dropping a closed document's
// extraction, only that disk again becomes authoritative for it); a
// subsequent watcher event or Reindex will pick up any divergence from
// disk.
func (s *Session) DidClose(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.opened, path)
}

// DidChangeWatchedFile handles an external file-system event for a path
// not open in the editor (spec.md §6's workspace/didChangeWatchedFiles):
// created/changed files are re-extracted from disk, deleted files are
// removed from the vault.
func (s *Session) DidChangeWatchedFile(path string, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opened[path] {
		// The in-memory rope is authoritative; ignore external echoes of
		// our own writes.
		return nil
	}

	if deleted {
		return s.publishDelete(path)
	}

	content, err := readFile(s.Root, path)
	if err != nil {
		return fmt.Errorf("session: reading %q: %w", path, err)
	}
	return s.publishUpdate(path, content, false)
}

// publishUpdate runs vault.UpdateDocument against the current snapshot
// and atomically swaps in the result. Caller holds s.mu.
func (s *Session) publishUpdate(path string, content []byte, open bool) error {
	prev := s.snap.Load()
	if prev == nil {
		return errs.ErrNotIndexed
	}
	rev := s.rev.Add(1)
	next := vault.UpdateDocument(prev, path, content, rev, open, s.Cfg)
	s.snap.Store(next)
	return nil
}

// publishDelete runs vault.DeleteDocument against the current snapshot
// and atomically swaps in the result. Caller holds s.mu.
func (s *Session) publishDelete(path string) error {
	prev := s.snap.Load()
	if prev == nil {
		return errs.ErrNotIndexed
	}
	s.rev.Add(1)
	next := vault.DeleteDocument(prev, path)
	s.snap.Store(next)
	return nil
}

// CreateFile writes content to a new file at path (vault-relative) and
// publishes it into the current Snapshot, backing lspserver's
// create-missing-file code action (SPEC_FULL.md §4.9): the action names a
// path that doesn't exist yet, so there is no prior watcher event to rely
// on the way DidChangeWatchedFile does.
func (s *Session) CreateFile(path string, content []byte) error {
	full := filepath.Join(s.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("session: creating parent directory for %q: %w", path, err)
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("session: creating %q: %w", path, err)
	}
	_, writeErr := f.Write(content)
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("session: writing %q: %w", path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("session: closing %q: %w", path, closeErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publishUpdate(path, content, false)
}

// StartWatcher begins fsnotify-based fallback watching of Root, for
// clients that don't register their own file watchers (spec.md §6:
// "workspace/didChangeWatchedFiles"). Stop the watcher with StopWatcher.
func (s *Session) StartWatcher(ctx context.Context) error {
	w, err := newWatcher(s)
	if err != nil {
		return err
	}
	s.watcher = w
	return w.Start(ctx)
}

// StopWatcher stops a watcher started by StartWatcher, if any.
func (s *Session) StopWatcher() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
}
