package lspserver

import (
	"encoding/json"

	"go.lsp.dev/protocol"
)

// The request/response shapes below cover everything the pack's one
// vendored go.lsp.dev/protocol fragment doesn't confirm (InitializeParams
// and friends aren't present in basic.go). Rather than guess at
// go.lsp.dev/protocol's higher-level struct layout, these are hand-written
// to the standard LSP wire JSON shape directly — the same choice the
// pack's only LSP server (codenerd's internal/mangle/lsp.go) makes for
// every method past the handful of types it could lean on a library for.

// referenceParams is textDocument/references' params: a position plus
// whether the declaration site itself should be included.
type referenceParams struct {
	protocol.TextDocumentPositionParams
	Context struct {
		IncludeDeclaration bool `json:"includeDeclaration"`
	} `json:"context"`
}

// completionParams is textDocument/completion's params.
type completionParams struct {
	protocol.TextDocumentPositionParams
}

// documentSymbolParams is textDocument/documentSymbol's params.
type documentSymbolParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

// renameParams is textDocument/rename's params.
type renameParams struct {
	protocol.TextDocumentPositionParams
	NewName string `json:"newName"`
}

// codeActionParams is textDocument/codeAction's params; the Context's
// client-supplied diagnostics are ignored since CodeActions recomputes
// them itself from the current Snapshot.
type codeActionParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Range        protocol.Range                  `json:"range"`
}

// workspaceSymbolParams is workspace/symbol's params.
type workspaceSymbolParams struct {
	Query string `json:"query"`
}

// documentSymbol is one entry of a textDocument/documentSymbol response.
type documentSymbol struct {
	Name           string         `json:"name"`
	Kind           float64        `json:"kind"`
	Range          protocol.Range `json:"range"`
	SelectionRange protocol.Range `json:"selectionRange"`
}

// symbolInformation is one entry of a workspace/symbol response (the
// flat, location-based sibling of documentSymbol).
type symbolInformation struct {
	Name     string            `json:"name"`
	Kind     float64           `json:"kind"`
	Location protocol.Location `json:"location"`
}

// completionItem is one entry of a textDocument/completion response.
// Documentation is left unset until completionItem/resolve fills it in
// (spec.md §6's "single resolve step"); Data round-trips the vault
// location resolve needs to compute it, since the client sends back
// only the item it was given.
type completionItem struct {
	Label         string                  `json:"label"`
	Detail        string                  `json:"detail,omitempty"`
	Documentation *protocol.MarkupContent `json:"documentation,omitempty"`
	Data          json.RawMessage         `json:"data,omitempty"`
}

// completionItemData is the shape completionItem.Data carries: the
// vault-relative document and span a completion candidate names, absent
// for purely lexical candidates (directive/role names, tags).
type completionItemData struct {
	Doc  string   `json:"doc"`
	Span spanJSON `json:"span"`
}

// spanJSON is model.Span's wire encoding for round-tripping through
// completionItem.Data (model.Span's own fields aren't JSON-tagged, since
// nothing else on the wire serializes one directly).
type spanJSON struct {
	ByteStart int `json:"byteStart"`
	ByteEnd   int `json:"byteEnd"`
}

// markupHover is textDocument/hover's response shape.
type markupHover struct {
	Contents protocol.MarkupContent `json:"contents"`
}

// diagnostic is one entry of a textDocument/publishDiagnostics
// notification.
type diagnostic struct {
	Range    protocol.Range `json:"range"`
	Severity int            `json:"severity"`
	Source   string         `json:"source"`
	Message  string         `json:"message"`
}

// publishDiagnosticsParams is textDocument/publishDiagnostics'
// notification params.
type publishDiagnosticsParams struct {
	URI         protocol.DocumentURI `json:"uri"`
	Diagnostics []diagnostic         `json:"diagnostics"`
}

// codeAction is one entry of a textDocument/codeAction response: either a
// direct WorkspaceEdit (appendMissingHeading) or a server-executed
// Command (createMissingFile, since creating a file is a side effect, not
// a text edit on an existing document).
type codeAction struct {
	Title   string                  `json:"title"`
	Kind    string                  `json:"kind"`
	Edit    *protocol.WorkspaceEdit `json:"edit,omitempty"`
	Command *command                `json:"command,omitempty"`
}

type command struct {
	Title     string        `json:"title"`
	Command   string        `json:"command"`
	Arguments []interface{} `json:"arguments,omitempty"`
}

// executeCommandParams is workspace/executeCommand's params.
type executeCommandParams struct {
	Command   string        `json:"command"`
	Arguments []interface{} `json:"arguments,omitempty"`
}

const createMissingFileCommand = "moxide.createMissingFile"

// didOpenTextDocumentParams is textDocument/didOpen's params.
type didOpenTextDocumentParams struct {
	TextDocument protocol.TextDocumentItem `json:"textDocument"`
}

// textDocumentContentChangeEvent is one entry of didChange's
// contentChanges: Range nil means "replace the whole document with Text"
// (full sync), matching the standard LSP union.
type textDocumentContentChangeEvent struct {
	Range *protocol.Range `json:"range,omitempty"`
	Text  string          `json:"text"`
}

// didChangeTextDocumentParams is textDocument/didChange's params.
type didChangeTextDocumentParams struct {
	TextDocument   protocol.VersionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []textDocumentContentChangeEvent         `json:"contentChanges"`
}

// didSaveTextDocumentParams is textDocument/didSave's params. Text is
// only present when the client negotiated includeText.
type didSaveTextDocumentParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Text         *string                         `json:"text,omitempty"`
}

// didCloseTextDocumentParams is textDocument/didClose's params.
type didCloseTextDocumentParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

// fileChangeType mirrors the standard LSP FileChangeType enum used in
// workspace/didChangeWatchedFiles.
type fileChangeType int

const (
	fileCreated fileChangeType = 1
	fileChanged fileChangeType = 2
	fileDeleted fileChangeType = 3
)

type fileEvent struct {
	URI  protocol.DocumentURI `json:"uri"`
	Type fileChangeType       `json:"type"`
}

// didChangeWatchedFilesParams is workspace/didChangeWatchedFiles' params.
type didChangeWatchedFilesParams struct {
	Changes []fileEvent `json:"changes"`
}
