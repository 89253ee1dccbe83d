package lspserver

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// initializeParams is initialize's params: only the fields lspserver
// actually reads off the client's request, since rootUri/rootPath are the
// only ones the teacher's own hand-rolled shape ever consults
// (internal/mangle/lsp.go never reads client capabilities either).
type initializeParams struct {
	RootURI string `json:"rootUri"`
}

// handleInitialize drives the Uninitialized->Indexing->Ready transition
// (spec.md §4.5) from the initialize request, mirroring the teacher's
// "initialize" case in internal/mangle/lsp.go: a hand-built capabilities
// map rather than protocol.InitializeResult/ServerCapabilities, which
// aren't present in the pack's one vendored protocol fragment.
func (s *Server) handleInitialize(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var params initializeParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}

	if err := s.sess.InitialIndex(ctx); err != nil {
		return nil, err
	}
	if err := s.sess.StartWatcher(ctx); err != nil {
		s.log.Warn("starting fallback file watcher failed", zap.Error(err))
	}

	capabilities := map[string]interface{}{
		"textDocumentSync":   2, // Incremental; handleDidChange applies Range-bearing edits via rope.PatchRange
		"definitionProvider": true,
		"referencesProvider": true,
		"hoverProvider":      s.cfg.Hover,
		"completionProvider": map[string]interface{}{
			"triggerCharacters": []string{"`", "{", "(", "[", "#", ">", ":"},
			"resolveProvider":   true,
		},
		"documentSymbolProvider":  true,
		"workspaceSymbolProvider": true,
		"renameProvider":          true,
		"codeActionProvider": map[string]interface{}{
			"codeActionKinds": []string{"create-missing-file", "append-missing-heading"},
		},
		"executeCommandProvider": map[string]interface{}{
			"commands": []string{createMissingFileCommand},
		},
	}

	return map[string]interface{}{
		"capabilities": capabilities,
		"serverInfo": map[string]interface{}{
			"name": "moxide-ls",
		},
	}, nil
}
