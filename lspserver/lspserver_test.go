package lspserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.uber.org/goleak"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/query"
	"github.com/moxide-ls/moxide/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"a.md": "# Hello\n\nSee {ref}`b-doc`.\n",
		"b.md": "(b-doc)=\n# World\n",
	}
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	sess := session.New(root, config.Defaults(), 2)
	require.NoError(t, sess.InitialIndex(context.Background()))

	return New(sess, config.Defaults()), root
}

func mustMarshal(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestHandleDefinitionResolvesAcrossDocuments(t *testing.T) {
	srv, root := newTestServer(t)

	params := protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: srv.docURI("a.md")},
		Position:     protocol.Position{Line: 2, Character: 12},
	}
	result, err := srv.handleDefinition(mustMarshal(t, params))
	require.NoError(t, err)

	locs, ok := result.([]protocol.Location)
	require.True(t, ok)
	require.Len(t, locs, 1)
	require.Equal(t, srv.docURI("b.md"), locs[0].URI)
	_ = root
}

func TestHandleDocumentSymbolListsHeadings(t *testing.T) {
	srv, _ := newTestServer(t)

	params := documentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: srv.docURI("a.md")},
	}
	result, err := srv.handleDocumentSymbol(mustMarshal(t, params))
	require.NoError(t, err)

	syms, ok := result.([]documentSymbol)
	require.True(t, ok)
	require.NotEmpty(t, syms)
	require.Equal(t, "Hello", syms[0].Name)
}

func TestHandleWorkspaceSymbolFuzzyMatches(t *testing.T) {
	srv, _ := newTestServer(t)

	params := workspaceSymbolParams{Query: "wrld"}
	result, err := srv.handleWorkspaceSymbol(mustMarshal(t, params))
	require.NoError(t, err)

	syms, ok := result.([]symbolInformation)
	require.True(t, ok)
	require.NotEmpty(t, syms)
	require.Equal(t, "World", syms[0].Name)
}

func TestHandleCodeActionOffersCreateMissingFile(t *testing.T) {
	srv, _ := newTestServer(t)
	root := srv.sess.Root
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.md"), []byte("[broken](missing.md)\n"), 0o644))
	require.NoError(t, srv.sess.DidChangeWatchedFile("c.md", false))

	params := codeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: srv.docURI("c.md")},
	}
	result, err := srv.handleCodeAction(mustMarshal(t, params))
	require.NoError(t, err)

	actions, ok := result.([]codeAction)
	require.True(t, ok)
	require.Len(t, actions, 1)
	require.NotNil(t, actions[0].Command)
	require.Equal(t, createMissingFileCommand, actions[0].Command.Command)
}

func TestHandleExecuteCommandCreatesFile(t *testing.T) {
	srv, root := newTestServer(t)

	params := executeCommandParams{
		Command: createMissingFileCommand,
		Arguments: []interface{}{
			string(srv.docURI("new.md")),
			"# New\n",
		},
	}
	_, err := srv.handleExecuteCommand(context.Background(), mustMarshal(t, params))
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(root, "new.md"))
	require.NoError(t, err)
	require.Equal(t, "# New\n", string(content))
}

func TestHandleDidOpenAndDidChangeUpdateBuffer(t *testing.T) {
	srv, _ := newTestServer(t)

	openParams := didOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  srv.docURI("a.md"),
			Text: "# Hello\n",
		},
	}
	require.NoError(t, srv.handleDidOpen(context.Background(), mustMarshal(t, openParams)))

	changeParams := didChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: srv.docURI("a.md")},
		},
		ContentChanges: []textDocumentContentChangeEvent{
			{Text: "# Hello Again\n"},
		},
	}
	require.NoError(t, srv.handleDidChange(context.Background(), mustMarshal(t, changeParams)))

	srv.buffersMu.Lock()
	buf := srv.buffers["a.md"]
	srv.buffersMu.Unlock()
	require.Equal(t, "# Hello Again\n", buf.Text())

	require.NoError(t, srv.handleDidClose(mustMarshal(t, didCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: srv.docURI("a.md")},
	})))

	srv.buffersMu.Lock()
	_, stillOpen := srv.buffers["a.md"]
	srv.buffersMu.Unlock()
	require.False(t, stillOpen)
}

// TestHandleDidChangeAppliesIncrementalRangeEdit exercises spec.md §8's
// Incremental e2e scenario: open p.md with an unresolved `{ref}`t``,
// apply a Range-bearing edit inserting "(t)=" at the document start, and
// confirm the next snapshot has zero diagnostics for p.md and that
// GoToDefinition on the role now resolves to the anchor the edit added.
func TestHandleDidChangeAppliesIncrementalRangeEdit(t *testing.T) {
	srv, _ := newTestServer(t)

	openParams := didOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  srv.docURI("p.md"),
			Text: "See {ref}`t`.\n",
		},
	}
	require.NoError(t, srv.handleDidOpen(context.Background(), mustMarshal(t, openParams)))

	snap, err := srv.sess.Snapshot()
	require.NoError(t, err)
	require.NotEmpty(t, query.Diagnostics(snap, "p.md", srv.cfg), "unresolved {ref}`t` should start out diagnosed")

	changeParams := didChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: srv.docURI("p.md")},
		},
		ContentChanges: []textDocumentContentChangeEvent{
			{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 0},
					End:   protocol.Position{Line: 0, Character: 0},
				},
				Text: "(t)=\n",
			},
		},
	}
	require.NoError(t, srv.handleDidChange(context.Background(), mustMarshal(t, changeParams)))

	srv.buffersMu.Lock()
	buf := srv.buffers["p.md"]
	srv.buffersMu.Unlock()
	require.Equal(t, "(t)=\nSee {ref}`t`.\n", buf.Text())

	snap, err = srv.sess.Snapshot()
	require.NoError(t, err)
	require.Empty(t, query.Diagnostics(snap, "p.md", srv.cfg))

	defParams := protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: srv.docURI("p.md")},
		Position:     protocol.Position{Line: 1, Character: 10},
	}
	result, err := srv.handleDefinition(mustMarshal(t, defParams))
	require.NoError(t, err)
	locs, ok := result.([]protocol.Location)
	require.True(t, ok)
	require.Len(t, locs, 1)
	assert.Equal(t, srv.docURI("p.md"), locs[0].URI)
}

func TestHandleInitializeIndexesVaultAndReportsCapabilities(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("# Hello\n"), 0o644))

	sess := session.New(root, config.Defaults(), 2)
	srv := New(sess, config.Defaults())

	result, err := srv.handleInitialize(context.Background(), mustMarshal(t, initializeParams{RootURI: root}))
	require.NoError(t, err)
	require.Equal(t, session.Ready, sess.State())
	sess.StopWatcher()

	body, ok := result.(map[string]interface{})
	require.True(t, ok)
	caps, ok := body["capabilities"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, true, caps["definitionProvider"])
}
