package lspserver

import (
	"context"
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/moxide-ls/moxide/rope"
)

// handleDidOpen stores the editor-provided full text as the buffer of
// record for path and publishes it into the Snapshot (spec.md §4.6 (c):
// an open document's rope is authoritative over disk).
func (s *Server) handleDidOpen(ctx context.Context, raw json.RawMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return err
	}
	path, err := s.docPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	r := rope.New(params.TextDocument.Text)

	s.buffersMu.Lock()
	s.buffers[path] = r
	s.buffersMu.Unlock()

	if err := s.sess.DidOpen(path, []byte(r.Text())); err != nil {
		return err
	}
	s.publishDiagnostics(ctx, path)
	return nil
}

// handleDidChange replays each contentChanges entry against the buffered
// Rope in order (a nil Range means "replace the whole document", the
// full-sync form of the standard LSP union), then republishes the result.
func (s *Server) handleDidChange(ctx context.Context, raw json.RawMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return err
	}
	path, err := s.docPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	s.buffersMu.Lock()
	r, ok := s.buffers[path]
	if !ok {
		r = rope.New("")
	}
	for _, change := range params.ContentChanges {
		if change.Range == nil {
			r = rope.New(change.Text)
			continue
		}
		r = r.PatchRange(toRopePosition(change.Range.Start), toRopePosition(change.Range.End), change.Text)
	}
	s.buffers[path] = r
	s.buffersMu.Unlock()

	if err := s.sess.DidChange(path, []byte(r.Text())); err != nil {
		return err
	}
	s.publishDiagnostics(ctx, path)
	return nil
}

// handleDidSave re-extracts path from the save notification's text when
// the client included it (includeText), otherwise from the still-open
// buffer, and finally from disk as a last resort.
func (s *Server) handleDidSave(ctx context.Context, raw json.RawMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return err
	}
	path, err := s.docPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	var content []byte
	switch {
	case params.Text != nil:
		content = []byte(*params.Text)
	default:
		s.buffersMu.Lock()
		r, ok := s.buffers[path]
		s.buffersMu.Unlock()
		if ok {
			content = []byte(r.Text())
		} else {
			content, err = os.ReadFile(s.absPath(path))
			if err != nil {
				return err
			}
		}
	}

	if err := s.sess.DidSave(path, content); err != nil {
		return err
	}
	s.publishDiagnostics(ctx, path)
	return nil
}

// handleDidClose drops the buffer and hands the document's authority back
// to disk (spec.md §4.6 (c)).
func (s *Server) handleDidClose(raw json.RawMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return err
	}
	path, err := s.docPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	s.buffersMu.Lock()
	delete(s.buffers, path)
	s.buffersMu.Unlock()

	s.sess.DidClose(path)
	return nil
}

// handleDidChangeWatchedFiles feeds external file-system events (from the
// client's own watcher, a fallback to Session's internal fsnotify watcher
// per spec.md §6) into the Session, skipping documents with a live editor
// buffer (DidChangeWatchedFile already guards against that internally).
func (s *Server) handleDidChangeWatchedFiles(ctx context.Context, raw json.RawMessage) error {
	var params didChangeWatchedFilesParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return err
	}
	for _, change := range params.Changes {
		path, err := s.docPath(change.URI)
		if err != nil {
			s.log.Warn("skipping watched-file event with unresolvable uri", zap.Error(err))
			continue
		}
		if err := s.sess.DidChangeWatchedFile(path, change.Type == fileDeleted); err != nil {
			s.log.Warn("watched-file update failed", zap.Error(err))
			continue
		}
		s.publishDiagnostics(ctx, path)
	}
	return nil
}

func (s *Server) absPath(relPath string) string {
	return s.docURI(relPath).Filename()
}
