package myst

import (
	gmast "github.com/yuin/goldmark/ast"
	gmext "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// converter walks a goldmark AST and rebuilds it as a myst.Node tree,
// lifting directive/role/anchor syntax along the way. source is always
// the ORIGINAL document bytes (never the colon-fence-rewritten buffer
// goldmark actually parsed), since the rewrite is byte-offset-preserving.
type converter struct {
	source []byte
	// footnoteLabels maps goldmark's 1-based FootnoteLink.Index back to
	// the original "[^label]" text, since FootnoteLink itself only
	// retains the index. goldmark assigns that index by each
	// definition's position in document order, so a pre-pass over every
	// gmext.Footnote node (in the same order convertChildren will later
	// visit them) reconstructs the mapping.
	footnoteLabels map[int]string
}

func convertDocument(source []byte, doc gmast.Node) *Node {
	c := &converter{source: source, footnoteLabels: map[int]string{}}
	c.indexFootnoteLabels(doc)
	root := &Node{Kind: KindDocument, Range: fullRange(source)}
	root.Children = c.convertChildren(doc)
	c.attachAnchors(root)
	return root
}

func (c *converter) indexFootnoteLabels(n gmast.Node) {
	if fn, ok := n.(*gmext.Footnote); ok {
		c.footnoteLabels[len(c.footnoteLabels)+1] = string(fn.Ref)
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.indexFootnoteLabels(child)
	}
}

func fullRange(source []byte) Range {
	return Range{Start: 0, End: len(source)}
}

func nodeRange(n gmast.Node, source []byte) Range {
	if t, ok := n.(*gmast.Text); ok {
		return Range{Start: t.Segment.Start, End: t.Segment.Stop}
	}
	if n.Type() != gmast.TypeBlock {
		return Range{Start: 0, End: 0}
	}
	lines := n.Lines()
	if lines != nil && lines.Len() > 0 {
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		return Range{Start: first.Start, End: last.Stop}
	}
	return Range{Start: 0, End: 0}
}

func (c *converter) convertChildren(parent gmast.Node) []*Node {
	var out []*Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		// goldmark parses a role's `payload` as a code span; rejoin it with
		// the "{name}" text just before it so convertText sees the role.
		if t, ok := child.(*gmast.Text); ok && !t.SoftLineBreak() && !t.HardLineBreak() {
			if cs, ok := child.NextSibling().(*gmast.CodeSpan); ok {
				end := inlineRange(cs, c.source).End
				if end > 0 && end < len(c.source) && c.source[end] == '`' {
					seg := c.source[t.Segment.Start : end+1]
					if m := rolePattern.FindIndex(seg); m != nil && m[1] == len(seg) {
						out = append(out, c.convertText(gmast.NewTextSegment(text.NewSegment(t.Segment.Start, end+1))))
						child = cs
						continue
					}
				}
			}
		}
		if n := c.convertNode(child); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (c *converter) convertNode(n gmast.Node) *Node {
	switch t := n.(type) {
	case *gmast.Paragraph:
		return c.convertParagraph(t)
	case *gmast.TextBlock:
		out := &Node{Kind: KindParagraph, Range: nodeRange(t, c.source)}
		out.Children = c.convertChildren(t)
		return out
	case *gmast.Heading:
		out := &Node{Kind: KindHeading, Level: t.Level, Range: nodeRange(t, c.source)}
		out.Children = c.convertChildren(t)
		return out
	case *gmast.ThematicBreak:
		return &Node{Kind: KindThematicBreak, Range: nodeRange(t, c.source)}
	case *gmast.Blockquote:
		out := &Node{Kind: KindBlockQuote, Range: blockRange(t, c.source)}
		out.Children = c.convertChildren(t)
		return out
	case *gmast.List:
		out := &Node{
			Kind:      KindList,
			Ordered:   t.Marker == '.' || t.Marker == ')',
			ListStart: t.Start,
			Range:     blockRange(t, c.source),
		}
		out.Children = c.convertChildren(t)
		return out
	case *gmast.ListItem:
		out := &Node{Kind: KindListItem, Range: blockRange(t, c.source)}
		out.Children = c.convertChildren(t)
		return out
	case *gmast.FencedCodeBlock:
		return c.convertFencedCode(t)
	case *gmast.CodeBlock:
		r := nodeRange(t, c.source)
		return &Node{Kind: KindIndentedCode, Range: r, Literal: string(c.source[r.Start:r.End])}
	case *gmast.HTMLBlock:
		r := htmlBlockRange(t, c.source)
		return &Node{Kind: KindHTMLBlock, Range: r, Literal: string(c.source[r.Start:r.End])}

	case *gmast.Text:
		return c.convertText(t)
	case *gmast.String:
		return &Node{Kind: KindText, Literal: string(t.Value)}
	case *gmast.Emphasis:
		kind := KindEmphasis
		if t.Level >= 2 {
			kind = KindStrong
		}
		out := &Node{Kind: kind, Range: inlineRange(t, c.source)}
		out.Children = c.convertChildren(t)
		return out
	case *gmast.Link:
		out := &Node{
			Kind:        KindLink,
			Destination: string(t.Destination),
			Title:       string(t.Title),
			Range:       inlineRange(t, c.source),
		}
		out.Children = c.convertChildren(t)
		return out
	case *gmast.Image:
		out := &Node{
			Kind:        KindImage,
			Destination: string(t.Destination),
			Title:       string(t.Title),
			Range:       inlineRange(t, c.source),
		}
		out.Children = c.convertChildren(t)
		return out
	case *gmast.AutoLink:
		dest := string(t.URL(c.source))
		return &Node{Kind: KindLink, Destination: dest, Literal: dest}
	case *gmast.CodeSpan:
		r := inlineRange(t, c.source)
		return &Node{Kind: KindCodeSpan, Range: r, Literal: inlineText(t, c.source)}
	case *gmast.RawHTML:
		return &Node{Kind: KindInlineHTML, Literal: rawHTMLText(t, c.source)}

	case *gmext.Footnote:
		r := blockRange(t, c.source)
		out := &Node{Kind: KindFootnoteDef, FootnoteLabel: string(t.Ref), Range: r}
		out.Children = c.convertChildren(t)
		return out
	case *gmext.FootnoteLink:
		label, ok := c.footnoteLabels[t.Index]
		if !ok {
			label = itoa(t.Index)
		}
		return &Node{Kind: KindFootnoteRef, FootnoteLabel: label}
	case *gmext.FootnoteBacklink:
		return nil
	case *gmext.FootnoteList:
		return &Node{Kind: KindDocument, Children: c.convertChildren(t)} // transparent container

	case *gmext.Strikethrough:
		out := &Node{Kind: KindStrikethrough}
		out.Children = c.convertChildren(t)
		return out
	case *gmext.Table:
		out := &Node{Kind: KindTable, Range: blockRange(t, c.source)}
		out.Children = c.convertChildren(t)
		return out
	case *gmext.TableRow:
		out := &Node{Kind: KindTableRow}
		out.Children = c.convertChildren(t)
		return out
	case *gmext.TableHeader:
		out := &Node{Kind: KindTableRow}
		out.Children = c.convertChildren(t)
		return out
	case *gmext.TableCell:
		out := &Node{Kind: KindTableCell}
		out.Children = c.convertChildren(t)
		return out
	case *gmext.TaskCheckBox:
		return nil

	default:
		// Unknown node kind: descend transparently so any inline content
		// (roles, links) nested inside it is still found, per spec.md
		// §7's "never fail" parsing policy.
		out := &Node{Kind: KindParagraph}
		out.Children = c.convertChildren(n)
		return out
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func blockRange(n gmast.Node, source []byte) Range {
	// Containers (list, blockquote, table) don't carry their own Lines();
	// derive a range spanning first-to-last child instead.
	if n.FirstChild() == nil {
		return Range{}
	}
	first := n.FirstChild()
	last := n.LastChild()
	return Range{Start: firstOffset(first, source), End: lastOffset(last, source)}
}

func firstOffset(n gmast.Node, source []byte) int {
	if r := nodeRange(n, source); r.End != 0 || r.Start != 0 {
		return r.Start
	}
	if n.FirstChild() != nil {
		return firstOffset(n.FirstChild(), source)
	}
	return 0
}

func lastOffset(n gmast.Node, source []byte) int {
	if r := nodeRange(n, source); r.End != 0 || r.Start != 0 {
		return r.End
	}
	if n.LastChild() != nil {
		return lastOffset(n.LastChild(), source)
	}
	return 0
}

func htmlBlockRange(n *gmast.HTMLBlock, source []byte) Range {
	lines := n.Lines()
	if lines.Len() == 0 {
		return Range{}
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	end := last.Stop
	if !n.ClosureLine.IsEmpty() {
		end = n.ClosureLine.Stop
	}
	return Range{Start: first.Start, End: end}
}

func inlineRange(n gmast.Node, source []byte) Range {
	// Inline container ranges span their first-to-last Text descendant.
	return blockRange(n, source)
}

func inlineText(n gmast.Node, source []byte) string {
	var out []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			out = append(out, t.Segment.Value(source)...)
		}
	}
	return string(out)
}

func rawHTMLText(n *gmast.RawHTML, source []byte) string {
	var out []byte
	segs := n.Segments
	for i := 0; i < segs.Len(); i++ {
		out = append(out, segs.At(i).Value(source)...)
	}
	return string(out)
}
