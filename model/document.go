package model

import "github.com/moxide-ls/moxide/rope"

// Extraction is everything the Extractor produces for one document
// (spec.md §3 Document: "Cached extraction (outgoing refs, referenceables,
// frontmatter, MyST symbols)"). It is recomputed wholesale per revision,
// never mutated in place, matching the "Referenceables are recomputed
// wholesale per revision" lifecycle rule.
type Extraction struct {
	References     []Reference
	Referenceables []Referenceable
	Frontmatter    Frontmatter
}

// Document is a single vault member: its identity, its mutable text, and
// the most recent extraction computed from that text (spec.md §3
// "Document").
type Document struct {
	// CanonicalPath is the vault-relative, forward-slash-separated path;
	// it is the primary key for document identity. It is not an absolute
	// OS path, and it holds the same value as RelativePath.
	CanonicalPath string

	// RelativePath is the path relative to the vault root, used for
	// MystRoleDoc / MarkdownFileLink resolution (spec.md §4.3).
	RelativePath string

	Rope *rope.Rope

	// Revision increases monotonically on every open/change/save/
	// external-change; extractions and graph edges are tagged with the
	// revision that produced them.
	Revision uint64

	// Open is true while the document has a live editor buffer (vs. being
	// known only from disk).
	Open bool

	Extraction Extraction
}

// WithExtraction returns a shallow copy of d carrying a new extraction and
// revision, leaving d itself untouched (documents are replaced, not
// mutated, on each reindex per spec.md §3's lifecycle rule).
func (d *Document) WithExtraction(rev uint64, ext Extraction) *Document {
	out := *d
	out.Revision = rev
	out.Extraction = ext
	return &out
}
