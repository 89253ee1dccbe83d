package myst

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// gm is the shared goldmark instance: GFM (tables, strikethrough,
// autolink, task lists) plus footnotes, with automatic heading IDs
// disabled since slugs are computed by extract.Slugify per spec.md §4.2
// (grounded on brandonbloom-catmd/parser.go's NewMarkdownParser, minus
// WithAutoHeadingID which would conflict with our own slug rules).
var gm = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
	),
)

// Parse produces a myst.Node document tree from raw source text. Parsing
// never fails (spec.md §7): malformed constructs degrade to generic
// nodes rather than propagating an error.
func Parse(source []byte) *Node {
	rewritten := rewriteColonFences(source)
	doc := gm.Parser().Parse(text.NewReader(rewritten))
	return convertDocument(source, doc)
}
