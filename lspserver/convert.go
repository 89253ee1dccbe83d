package lspserver

import (
	"path/filepath"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/query"
	"github.com/moxide-ls/moxide/rope"
)

// docURI maps a vault-relative canonical path (model.Document.CanonicalPath)
// to the file:// URI the client expects.
func (s *Server) docURI(relPath string) protocol.DocumentURI {
	return uri.File(filepath.Join(s.sess.Root, filepath.FromSlash(relPath)))
}

// docPath maps a client-provided file:// URI back to the vault-relative,
// forward-slash canonical path the session/query packages key documents
// by.
func (s *Server) docPath(u protocol.DocumentURI) (string, error) {
	abs := u.Filename()
	rel, err := filepath.Rel(s.sess.Root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func toProtocolPosition(p rope.Position) protocol.Position {
	return protocol.Position{Line: uint32(p.Line), Character: uint32(p.Character)}
}

func toRopePosition(p protocol.Position) rope.Position {
	return rope.Position{Line: int(p.Line), Character: int(p.Character)}
}

func toProtocolRange(span model.Span) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(span.Start), End: toProtocolPosition(span.End)}
}

func (s *Server) toProtocolLocation(loc query.Location) protocol.Location {
	return protocol.Location{URI: s.docURI(loc.Doc), Range: toProtocolRange(loc.Span)}
}

func (s *Server) toProtocolLocations(locs []query.Location) []protocol.Location {
	out := make([]protocol.Location, 0, len(locs))
	for _, l := range locs {
		out = append(out, s.toProtocolLocation(l))
	}
	return out
}

// symbolKind maps a model.ReferenceableKind onto the closest standard LSP
// SymbolKind (the numeric values the protocol assigns each kind).
func symbolKind(k model.ReferenceableKind) float64 {
	switch k {
	case model.File:
		return 1 // File
	case model.Heading:
		return 15 // String (used here as "section title")
	case model.IndexedBlock:
		return 13 // Constant
	case model.MystAnchor:
		return 8 // Field
	case model.GlossaryTerm:
		return 12 // Key
	case model.LabeledMath:
		return 11 // Interface (closest analogue to a formula label)
	case model.LabeledFigure:
		return 10 // Enum (closest analogue to a captioned figure)
	case model.FootnoteDef, model.LinkReferenceDef:
		return 18 // Null (miscellaneous reference-only symbol)
	default:
		return 13 // Constant
	}
}
