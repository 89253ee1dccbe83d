// Package resolve implements the Resolver component of spec.md §4.3: it
// maps a Reference's raw target string to zero or more candidate
// Referenceables using the per-variant algorithms spec.md specifies.
// Grounded on the teacher's retrieval/retrieval.go identifier-pattern
// routing idea (dispatch by shape of the query string), reused here as
// dispatch by Reference variant instead of query-string shape.
package resolve

import (
	"path"

	"github.com/moxide-ls/moxide/model"
)

// Index is the read-only set of global lookup tables the Resolver
// consults (spec.md §4.4's auxiliary indexes). The Vault Graph owns
// building and incrementally maintaining one; Resolve never mutates it.
//
// All paths are vault-relative, forward-slash-separated strings (not OS
// paths), matching how MystRoleDoc/MarkdownFileLink targets are already
// written in source documents.
type Index struct {
	Anchors      map[string][]model.Referenceable
	Slugs        map[string][]model.Referenceable
	Glossary     map[string][]model.Referenceable
	LabelsMath   map[string][]model.Referenceable
	LabelsFigure map[string][]model.Referenceable
	FilesByStem  map[string][]string

	// ByDoc holds every Referenceable extracted from each document,
	// keyed by vault-relative path, for per-document lookups (headings
	// within a resolved file, indexed blocks, footnote defs, link
	// reference defs scoped to a single source document).
	ByDoc map[string][]model.Referenceable

	// AllTagRefs is every Tag-kind Reference extracted across the vault,
	// used by ResolveTag (Tag has no dedicated Referenceable variant).
	AllTagRefs []model.Reference
}

// NewIndex builds an empty Index with initialized maps.
func NewIndex() Index {
	return Index{
		Anchors:      map[string][]model.Referenceable{},
		Slugs:        map[string][]model.Referenceable{},
		Glossary:     map[string][]model.Referenceable{},
		LabelsMath:   map[string][]model.Referenceable{},
		LabelsFigure: map[string][]model.Referenceable{},
		FilesByStem:  map[string][]string{},
		ByDoc:        map[string][]model.Referenceable{},
	}
}

// FileExists reports whether path (vault-relative, as stored in ByDoc) is
// a known document.
func (idx Index) FileExists(path string) bool {
	_, ok := idx.ByDoc[path]
	return ok
}

func (idx Index) headingsIn(path string) []model.Referenceable {
	return filterKind(idx.ByDoc[path], model.Heading)
}

func (idx Index) blocksIn(path string) []model.Referenceable {
	return filterKind(idx.ByDoc[path], model.IndexedBlock)
}

func (idx Index) footnoteDefsIn(path string) []model.Referenceable {
	return filterKind(idx.ByDoc[path], model.FootnoteDef)
}

func (idx Index) linkRefDefsIn(path string) []model.Referenceable {
	return filterKind(idx.ByDoc[path], model.LinkReferenceDef)
}

// Clone returns a shallow copy of idx: every top-level map is copied so a
// caller can add/remove keys without mutating idx, but the
// []model.Referenceable / []model.Reference slice values under unchanged
// keys are shared by reference. Used by the Vault Graph to build a new
// Snapshot's Index from the previous one without disturbing it
// (spec.md §4.4's per-document-confined rebuild).
func (idx Index) Clone() Index {
	c := NewIndex()
	for k, v := range idx.Anchors {
		c.Anchors[k] = v
	}
	for k, v := range idx.Slugs {
		c.Slugs[k] = v
	}
	for k, v := range idx.Glossary {
		c.Glossary[k] = v
	}
	for k, v := range idx.LabelsMath {
		c.LabelsMath[k] = v
	}
	for k, v := range idx.LabelsFigure {
		c.LabelsFigure[k] = v
	}
	for k, v := range idx.FilesByStem {
		c.FilesByStem[k] = v
	}
	for k, v := range idx.ByDoc {
		c.ByDoc[k] = v
	}
	c.AllTagRefs = append(c.AllTagRefs, idx.AllTagRefs...)
	return c
}

// RemoveDoc strips every index entry whose defining position lies in doc
// (spec.md §4.4: "remove ... all index entries whose defining position
// lies in D"), in place. Called on idx before AddDoc re-populates it with
// freshly extracted data, or on its own when doc is deleted outright.
func (idx Index) RemoveDoc(doc string) {
	delete(idx.ByDoc, doc)
	stem := path.Base(stripMdExt(doc))
	var remaining []string
	for _, p := range idx.FilesByStem[stem] {
		if p != doc {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == 0 {
		delete(idx.FilesByStem, stem)
	} else {
		idx.FilesByStem[stem] = remaining
	}

	for m := range idx.Anchors {
		idx.Anchors[m] = dropDoc(idx.Anchors[m], doc)
	}
	for m := range idx.Slugs {
		idx.Slugs[m] = dropDoc(idx.Slugs[m], doc)
	}
	for m := range idx.Glossary {
		idx.Glossary[m] = dropDoc(idx.Glossary[m], doc)
	}
	for m := range idx.LabelsMath {
		idx.LabelsMath[m] = dropDoc(idx.LabelsMath[m], doc)
	}
	for m := range idx.LabelsFigure {
		idx.LabelsFigure[m] = dropDoc(idx.LabelsFigure[m], doc)
	}

	kept := idx.AllTagRefs[:0:0]
	for _, ref := range idx.AllTagRefs {
		if ref.SourceDoc != doc {
			kept = append(kept, ref)
		}
	}
	idx.AllTagRefs = kept
}

// AddDoc populates idx with doc's extracted Referenceables and Tag
// references, fanning each Referenceable out into the global index (or
// indexes) matching its Kind. Call RemoveDoc(doc) first when
// re-indexing an already-known document.
func (idx Index) AddDoc(doc string, ext model.Extraction) {
	idx.ByDoc[doc] = ext.Referenceables
	stem := path.Base(stripMdExt(doc))
	idx.FilesByStem[stem] = appendUnique(idx.FilesByStem[stem], doc)

	for _, r := range ext.Referenceables {
		switch r.Kind {
		case model.MystAnchor:
			idx.Anchors[r.Name] = append(idx.Anchors[r.Name], r)
		case model.Heading:
			idx.Slugs[r.Slug] = append(idx.Slugs[r.Slug], r)
		case model.GlossaryTerm:
			idx.Glossary[r.Term] = append(idx.Glossary[r.Term], r)
		case model.LabeledMath:
			idx.LabelsMath[r.Label] = append(idx.LabelsMath[r.Label], r)
		case model.LabeledFigure:
			idx.LabelsFigure[r.Name] = append(idx.LabelsFigure[r.Name], r)
		}
	}

	for _, ref := range ext.References {
		if ref.Kind == model.Tag {
			idx.AllTagRefs = append(idx.AllTagRefs, ref)
		}
	}
}

func appendUnique(paths []string, p string) []string {
	for _, existing := range paths {
		if existing == p {
			return paths
		}
	}
	return append(paths, p)
}

func dropDoc(refs []model.Referenceable, doc string) []model.Referenceable {
	if len(refs) == 0 {
		return refs
	}
	kept := refs[:0:0]
	for _, r := range refs {
		if r.Doc != doc {
			kept = append(kept, r)
		}
	}
	return kept
}

func filterKind(refs []model.Referenceable, kind model.ReferenceableKind) []model.Referenceable {
	var out []model.Referenceable
	for _, r := range refs {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
