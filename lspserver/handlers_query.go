package lspserver

import (
	"context"
	"encoding/json"
	"fmt"

	"go.lsp.dev/protocol"

	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/query"
	"github.com/moxide-ls/moxide/vault"
)

func (s *Server) handleDefinition(raw json.RawMessage) (interface{}, error) {
	var params protocol.TextDocumentPositionParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	snap, doc, err := s.snapshotAndDoc(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	locs := query.GoToDefinition(snap, doc, toRopePosition(params.Position), s.cfg)
	return s.toProtocolLocations(locs), nil
}

func (s *Server) handleReferences(raw json.RawMessage) (interface{}, error) {
	var params referenceParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	snap, doc, err := s.snapshotAndDoc(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	locs := query.FindReferences(snap, doc, toRopePosition(params.Position), s.cfg)
	return s.toProtocolLocations(locs), nil
}

func (s *Server) handleHover(raw json.RawMessage) (interface{}, error) {
	if !s.cfg.Hover {
		return nil, nil
	}
	var params protocol.TextDocumentPositionParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	snap, doc, err := s.snapshotAndDoc(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	h := query.HoverAt(snap, doc, toRopePosition(params.Position), s.cfg)
	if h == nil || (h.Excerpt == "" && len(h.Backlinks) == 0) {
		return nil, nil
	}
	value := h.Excerpt
	if len(h.Backlinks) > 0 {
		if value != "" {
			value += "\n\n"
		}
		value += fmt.Sprintf("%d backlink(s)", len(h.Backlinks))
	}
	return markupHover{Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: value}}, nil
}

func (s *Server) handleCompletion(raw json.RawMessage) (interface{}, error) {
	var params completionParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	snap, doc, err := s.snapshotAndDoc(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	items := query.Completions(snap, doc, toRopePosition(params.Position), s.cfg)
	out := make([]completionItem, 0, len(items))
	for _, it := range items {
		ci := completionItem{Label: it.Label, Detail: it.Detail}
		if it.Doc != "" {
			data, err := json.Marshal(completionItemData{
				Doc: it.Doc,
				Span: spanJSON{
					ByteStart: it.Span.ByteStart,
					ByteEnd:   it.Span.ByteEnd,
				},
			})
			if err == nil {
				ci.Data = data
			}
		}
		out = append(out, ci)
	}
	return out, nil
}

// handleCompletionResolve implements completionItem/resolve (spec.md §6's
// "single resolve step"): given back the exact completionItem the client
// was offered, fill in Documentation from the current Snapshot using the
// Doc/Span round-tripped through Data. Items with no Data (lexical
// candidates: directive names, role names, tags) resolve to themselves
// unchanged.
func (s *Server) handleCompletionResolve(raw json.RawMessage) (interface{}, error) {
	var item completionItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	if len(item.Data) == 0 {
		return item, nil
	}
	var data completionItemData
	if err := json.Unmarshal(item.Data, &data); err != nil {
		return item, nil
	}
	snap, err := s.sess.Snapshot()
	if err != nil {
		return item, nil
	}
	d, ok := snap.Document(data.Doc)
	if !ok {
		return item, nil
	}
	span := model.SpanFromOffsets(d.Rope, data.Span.ByteStart, data.Span.ByteEnd)
	if excerpt := query.ExcerptAt(snap, data.Doc, span); excerpt != "" {
		item.Documentation = &protocol.MarkupContent{Kind: protocol.Markdown, Value: excerpt}
	}
	return item, nil
}

func (s *Server) handleDocumentSymbol(raw json.RawMessage) (interface{}, error) {
	var params documentSymbolParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	snap, doc, err := s.snapshotAndDoc(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	syms := query.DocumentSymbols(snap, doc)
	out := make([]documentSymbol, 0, len(syms))
	for _, sym := range syms {
		r := toProtocolRange(sym.Span)
		out = append(out, documentSymbol{Name: sym.Name, Kind: symbolKind(sym.Kind), Range: r, SelectionRange: r})
	}
	return out, nil
}

func (s *Server) handleWorkspaceSymbol(raw json.RawMessage) (interface{}, error) {
	var params workspaceSymbolParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	snap, err := s.sess.Snapshot()
	if err != nil {
		return nil, err
	}
	syms := query.WorkspaceSymbols(snap, params.Query)
	out := make([]symbolInformation, 0, len(syms))
	for _, sym := range syms {
		out = append(out, symbolInformation{
			Name:     sym.Name,
			Kind:     symbolKind(sym.Kind),
			Location: s.toProtocolLocation(query.Location{Doc: sym.Doc, Span: sym.Span}),
		})
	}
	return out, nil
}

func (s *Server) handleRename(raw json.RawMessage) (interface{}, error) {
	var params renameParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	snap, doc, err := s.snapshotAndDoc(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	plan, err := query.Rename(snap, doc, toRopePosition(params.Position), params.NewName, s.cfg)
	if err != nil {
		return nil, err
	}
	return s.toWorkspaceEdit(plan), nil
}

func (s *Server) toWorkspaceEdit(plan query.RenamePlan) protocol.WorkspaceEdit {
	changes := map[protocol.DocumentURI][]protocol.TextEdit{}
	for doc, edits := range plan {
		u := s.docURI(doc)
		out := make([]protocol.TextEdit, 0, len(edits))
		for _, e := range edits {
			out = append(out, protocol.TextEdit{Range: toProtocolRange(e.Span), NewText: e.NewText})
		}
		changes[u] = out
	}
	return protocol.WorkspaceEdit{Changes: changes}
}

func (s *Server) handleCodeAction(raw json.RawMessage) (interface{}, error) {
	var params codeActionParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	snap, doc, err := s.snapshotAndDoc(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	diags := query.Diagnostics(snap, doc, s.cfg)
	actions := query.CodeActions(snap, doc, diags, s.cfg)
	out := make([]codeAction, 0, len(actions))
	for _, a := range actions {
		out = append(out, s.toProtocolCodeAction(doc, a))
	}
	return out, nil
}

func (s *Server) toProtocolCodeAction(sourceDoc string, a query.CodeAction) codeAction {
	switch a.Kind {
	case query.CreateMissingFile:
		return codeAction{
			Title: a.Title,
			Kind:  "create-missing-file",
			Command: &command{
				Title:   a.Title,
				Command: createMissingFileCommand,
				Arguments: []interface{}{
					string(s.docURI(a.NewFilePath)),
					a.NewFileContent,
				},
			},
		}
	default: // AppendMissingHeading
		edit := s.toWorkspaceEdit(query.RenamePlan{a.TargetDoc: {a.Edit}})
		return codeAction{Title: a.Title, Kind: "append-missing-heading", Edit: &edit}
	}
}

func (s *Server) handleExecuteCommand(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var params executeCommandParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	if params.Command != createMissingFileCommand {
		return nil, fmt.Errorf("lspserver: unknown command %q", params.Command)
	}
	if len(params.Arguments) != 2 {
		return nil, fmt.Errorf("lspserver: %s expects [uri, content] arguments", createMissingFileCommand)
	}
	rawURI, _ := params.Arguments[0].(string)
	content, _ := params.Arguments[1].(string)
	path, err := s.docPath(protocol.DocumentURI(rawURI))
	if err != nil {
		return nil, err
	}
	if err := s.sess.CreateFile(path, []byte(content)); err != nil {
		return nil, err
	}
	return nil, nil
}

// snapshotAndDoc resolves a request's URI to the current Snapshot and the
// vault-relative doc path used throughout query/session.
func (s *Server) snapshotAndDoc(u protocol.DocumentURI) (*vault.Snapshot, string, error) {
	snap, err := s.sess.Snapshot()
	if err != nil {
		return nil, "", err
	}
	doc, err := s.docPath(u)
	if err != nil {
		return nil, "", err
	}
	return snap, doc, nil
}
