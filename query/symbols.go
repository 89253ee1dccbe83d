package query

import (
	"sort"

	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/vault"
)

// Symbol is one named, locatable vault entity, used by both
// DocumentSymbols (scoped to one file) and WorkspaceSymbols (scanned
// across the vault) — SPEC_FULL.md §4.9's supplemented workspace/symbol
// feature.
type Symbol struct {
	Name string
	Kind model.ReferenceableKind
	Doc  string
	Span model.Span
}

// DocumentSymbols lists every Referenceable defined in doc, in source
// order, backing textDocument/documentSymbol.
func DocumentSymbols(snap *vault.Snapshot, doc string) []Symbol {
	d, ok := snap.Document(doc)
	if !ok {
		return nil
	}
	out := make([]Symbol, 0, len(d.Extraction.Referenceables))
	for _, r := range d.Extraction.Referenceables {
		out = append(out, Symbol{Name: symbolName(r), Kind: r.Kind, Doc: r.Doc, Span: r.Span})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Span.ByteStart < out[j].Span.ByteStart })
	return out
}

// WorkspaceSymbols implements SPEC_FULL.md §4.9: a fuzzy scan over the
// vault's heading/anchor/glossary-term/label indexes, reusing the
// Completions fuzzy matcher and tie-break rule.
func WorkspaceSymbols(snap *vault.Snapshot, query string) []Symbol {
	idx := snap.Index
	var candidates []Symbol
	add := func(byName map[string][]model.Referenceable) {
		for _, refs := range byName {
			for _, r := range refs {
				candidates = append(candidates, Symbol{Name: symbolName(r), Kind: r.Kind, Doc: r.Doc, Span: r.Span})
			}
		}
	}
	add(idx.Anchors)
	add(idx.Slugs)
	add(idx.Glossary)
	add(idx.LabelsMath)
	add(idx.LabelsFigure)
	for _, refs := range idx.ByDoc {
		for _, r := range refs {
			if r.Kind == model.File {
				candidates = append(candidates, Symbol{Name: r.Doc, Kind: model.File, Doc: r.Doc})
			}
		}
	}

	type scoredSymbol struct {
		sym   Symbol
		score int
	}
	scored := make([]scoredSymbol, 0, len(candidates))
	for _, c := range candidates {
		if score, ok := fuzzyScore(query, c.Name); ok {
			scored = append(scored, scoredSymbol{c, score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if scored[i].sym.Doc != scored[j].sym.Doc {
			return scored[i].sym.Doc < scored[j].sym.Doc
		}
		return scored[i].sym.Span.ByteStart < scored[j].sym.Span.ByteStart
	})
	out := make([]Symbol, len(scored))
	for i, s := range scored {
		out[i] = s.sym
	}
	return out
}

func symbolName(r model.Referenceable) string {
	switch r.Kind {
	case model.Heading:
		return r.Text
	case model.IndexedBlock:
		return r.BlockID
	}
	if n := r.CanonicalForm(); n != "" {
		return n
	}
	return r.Doc
}
