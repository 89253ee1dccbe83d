// Package extract implements the Extractor component of spec.md §4.2: it
// traverses a parsed myst.Node tree and a document's rope to emit outgoing
// References, Referenceables, and Frontmatter for that document. Grounded
// on the teacher's section-producing AST walk in parser/*.go and the
// typed-entity-from-text shape of graph/entity.go, retargeted from
// LLM-driven entity extraction to deterministic AST-driven extraction.
package extract

import (
	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/myst"
	"github.com/moxide-ls/moxide/rope"
)

// Document runs the full extraction pipeline for one document and returns
// its model.Extraction (spec.md §3 Document: "Cached extraction").
func Document(doc string, r *rope.Rope, source []byte, root *myst.Node, opts Options) model.Extraction {
	w := &walker{doc: doc, r: r, opts: opts}
	w.walkChildren(root.Children)

	refs := collectReferences(doc, r, root)
	refs = append(refs, collectTags(doc, r, root, opts)...)

	w.referenceables.list = append(w.referenceables.list, collectLinkReferenceDefs(doc, r, root)...)
	refs = append(refs, collectLinkRefShortcuts(doc, r, root, refs, opts)...)

	refs = suppressCommentLines(refs, commentRanges(r))

	return model.Extraction{
		References:     refs,
		Referenceables: w.referenceables.list,
		Frontmatter:    ParseFrontmatter(r, source),
	}
}

// suppressCommentLines drops every Reference whose span starts inside a
// MyST comment line (spec.md §4.2), applied once across all Reference
// kinds (Link/Role/FootnoteRef, Tag, LinkRefShortcut alike) rather than
// threading an exclusion list through each collector individually.
func suppressCommentLines(refs []model.Reference, comments []myst.Range) []model.Reference {
	if len(comments) == 0 {
		return refs
	}
	out := refs[:0]
	for _, ref := range refs {
		if withinAny(comments, ref.Span.ByteStart) {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// referenceableSet accumulates Referenceables in document order.
type referenceableSet struct {
	list []model.Referenceable
}

type walker struct {
	doc            string
	r              *rope.Rope
	opts           Options
	referenceables referenceableSet
}

// walkChildren processes a block-level child list in document order,
// pairing each Anchor node with the sibling block that immediately
// follows it (spec.md §4.1 step 5, §4.2 Anchors).
func (w *walker) walkChildren(children []*myst.Node) {
	for i, n := range children {
		if n.Kind == myst.KindAnchor {
			idx := w.emitAnchor(n)
			if idx >= 0 && i+1 < len(children) && children[i+1].Kind == myst.KindHeading {
				slug := Slugify(plainText(children[i+1]))
				w.referenceables.list[idx].AttachedHeading = slug
			}
			continue
		}
		w.walkNode(n)
	}
}

func (w *walker) emitAnchor(n *myst.Node) int {
	w.referenceables.list = append(w.referenceables.list, model.Referenceable{
		Kind: model.MystAnchor,
		Doc:  w.doc,
		Name: n.AnchorName,
		Span: model.SpanFromOffsets(w.r, n.Range.Start, n.Range.End),
	})
	return len(w.referenceables.list) - 1
}

func (w *walker) walkNode(n *myst.Node) {
	switch n.Kind {
	case myst.KindHeading:
		text := plainText(n)
		w.referenceables.list = append(w.referenceables.list, model.Referenceable{
			Kind:  model.Heading,
			Doc:   w.doc,
			Slug:  Slugify(text),
			Text:  text,
			Level: n.Level,
			Span:  model.SpanFromOffsets(w.r, n.Range.Start, n.Range.End),
		})
		w.walkChildren(n.Children)

	case myst.KindParagraph:
		if ref, ok := indexedBlock(w.doc, w.r, n); ok {
			w.referenceables.list = append(w.referenceables.list, ref)
		}
		w.walkChildren(n.Children)

	case myst.KindDirective:
		if ref, ok := directiveReferenceable(w.doc, w.r, n); ok {
			w.referenceables.list = append(w.referenceables.list, ref)
		}
		w.referenceables.list = append(w.referenceables.list, glossaryTerms(w.doc, w.r, n)...)
		w.walkChildren(n.Children)

	case myst.KindFootnoteDef:
		w.referenceables.list = append(w.referenceables.list, model.Referenceable{
			Kind:       model.FootnoteDef,
			Doc:        w.doc,
			FootnoteID: n.FootnoteLabel,
			Span:       model.SpanFromOffsets(w.r, n.Range.Start, n.Range.End),
		})
		w.walkChildren(n.Children)

	default:
		w.walkChildren(n.Children)
	}
}
