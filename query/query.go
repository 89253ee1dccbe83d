// Package query implements the Query API of spec.md §4.5: cursor
// resolution, go-to-definition, find-references, hover, diagnostics,
// rename planning, completion, and the supplemental workspace-symbol and
// code-action surfaces (SPEC_FULL.md §4.9). Every function takes an
// explicit *vault.Snapshot, per spec.md §4.5's "Each query takes an
// explicit Vault Snapshot" contract, and never mutates it.
//
// Grounded on the teacher's snippet.go (sentence-scored excerpt
// extraction, re-expressed here as the spec's deterministic first-N-lines
// excerpt) and retrieval/retrieval.go's ranking/tie-break shape.
package query

import (
	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/rope"
	"github.com/moxide-ls/moxide/vault"
)

// TargetKind distinguishes what CursorAt found at a position.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetReference
	TargetReferenceable
)

// Target is the result of CursorAt: either the innermost Reference
// covering a position, the Referenceable whose defining range covers it,
// or neither (spec.md §4.5).
type Target struct {
	Kind          TargetKind
	Doc           string
	Reference     *model.Reference
	Referenceable *model.Referenceable
}

// Location is a span within a specific document, the common result shape
// for GoToDefinition/FindReferences/symbol search.
type Location struct {
	Doc  string
	Span model.Span
}

// CursorAt implements spec.md §4.5's CursorAt: binary-search (in
// practice, a linear scan over the handful of extracted spans per
// document — these lists are O(headings+refs) per file, not O(vault))
// ranges in D's cached extraction to find either the innermost Reference
// covering position, the Referenceable whose defining range covers it, or
// None. The AST itself is never retained on a Snapshot (see
// model.Document's Extraction-only caching), so resolution works directly
// off the Reference/Referenceable spans the Extractor already computed.
func CursorAt(snap *vault.Snapshot, doc string, pos rope.Position) Target {
	d, ok := snap.Document(doc)
	if !ok {
		return Target{}
	}
	if ref := smallestReference(d.Extraction.References, pos); ref != nil {
		return Target{Kind: TargetReference, Doc: doc, Reference: ref}
	}
	if rfb := smallestReferenceable(d.Extraction.Referenceables, pos); rfb != nil {
		return Target{Kind: TargetReferenceable, Doc: doc, Referenceable: rfb}
	}
	return Target{}
}

func smallestReference(refs []model.Reference, pos rope.Position) *model.Reference {
	var best *model.Reference
	bestLen := -1
	for i := range refs {
		r := &refs[i]
		if !r.Span.ContainsPosition(pos) {
			continue
		}
		if l := r.Span.ByteEnd - r.Span.ByteStart; best == nil || l < bestLen {
			best, bestLen = r, l
		}
	}
	return best
}

func smallestReferenceable(targets []model.Referenceable, pos rope.Position) *model.Referenceable {
	var best *model.Referenceable
	bestLen := -1
	for i := range targets {
		t := &targets[i]
		if !t.Span.ContainsPosition(pos) {
			continue
		}
		if l := t.Span.ByteEnd - t.Span.ByteStart; best == nil || l < bestLen {
			best, bestLen = t, l
		}
	}
	return best
}
