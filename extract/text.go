package extract

import (
	"strings"

	"github.com/moxide-ls/moxide/myst"
	"github.com/moxide-ls/moxide/rope"
)

// plainText flattens a node's descendant inline content to a single
// string, used for heading text, anchor-attachment lookups, link display
// text, and indexed-block lines. Role nodes contribute their display text if present,
// otherwise their raw target.
func plainText(n *myst.Node) string {
	var b strings.Builder
	var walk func(n *myst.Node)
	walk = func(n *myst.Node) {
		switch n.Kind {
		case myst.KindText, myst.KindCodeSpan, myst.KindInlineHTML:
			b.WriteString(n.Literal)
		case myst.KindRole:
			if n.RoleDisplay != "" {
				b.WriteString(n.RoleDisplay)
			} else {
				b.WriteString(n.RoleTarget)
			}
		default:
			for _, c := range n.Children {
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// codeRanges collects every byte range in the document whose content is
// literal (not subject to reference/tag extraction): plain fenced/
// indented code blocks, inline code spans, and the bodies of
// literal-content directives (spec.md §3 "Code-block isolation").
func codeRanges(root *myst.Node) []myst.Range {
	var ranges []myst.Range
	myst.Walk(root, func(n *myst.Node) bool {
		switch n.Kind {
		case myst.KindFencedCode, myst.KindIndentedCode, myst.KindCodeSpan:
			ranges = append(ranges, n.Range)
			return false
		case myst.KindDirective:
			if myst.LiteralContentDirectives[n.DirectiveName] {
				ranges = append(ranges, n.BodyRange)
				return false
			}
		}
		return true
	})
	return ranges
}

// commentRanges returns the byte range of every line whose first
// character (column 0) is "%" — a MyST comment line (spec.md §4.2:
// "comment lines (`% …` at column 0...)"). Goldmark
// has no MyST-comment extension, so these lines parse as ordinary
// inline content; this is a raw-text scan over the rope rather than an
// AST-driven check like codeRanges, run independently of it and applied
// on its own by extract.Document.
func commentRanges(r *rope.Rope) []myst.Range {
	var ranges []myst.Range
	for i := 0; i < r.LineCount(); i++ {
		line, ok := r.Line(i)
		if !ok {
			continue
		}
		if !strings.HasPrefix(line, "%") {
			continue
		}
		start, ok := r.PositionToOffset(rope.Position{Line: i, Character: 0})
		if !ok {
			continue
		}
		ranges = append(ranges, myst.Range{Start: start, End: start + len(line)})
	}
	return ranges
}

func withinAny(ranges []myst.Range, offset int) bool {
	for _, r := range ranges {
		if offset >= r.Start && offset < r.End {
			return true
		}
	}
	return false
}
