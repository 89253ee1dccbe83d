package extract

import (
	"regexp"

	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/myst"
	"github.com/moxide-ls/moxide/rope"
)

// blockIDPattern matches a trailing block-id marker on a paragraph, e.g.
// "Some important claim. ^claim-1", which MarkdownBlockLink targets via
// "file.md#^claim-1" (spec.md §3 "IndexedBlock").
var blockIDPattern = regexp.MustCompile(`\^([A-Za-z0-9][A-Za-z0-9_-]*)\s*$`)

// indexedBlock returns the IndexedBlock Referenceable for a paragraph
// ending in a block-id marker, if present.
func indexedBlock(doc string, r *rope.Rope, n *myst.Node) (model.Referenceable, bool) {
	text := plainText(n)
	m := blockIDPattern.FindStringSubmatch(text)
	if m == nil {
		return model.Referenceable{}, false
	}
	return model.Referenceable{
		Kind:    model.IndexedBlock,
		Doc:     doc,
		BlockID: m[1],
		Span:    model.SpanFromOffsets(r, n.Range.Start, n.Range.End),
	}, true
}
