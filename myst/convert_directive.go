package myst

import (
	gmast "github.com/yuin/goldmark/ast"
)

// convertParagraph handles the single case that isn't a plain
// CommonMark paragraph: a standalone "(name)=" anchor marker line
// (spec.md §4.1 step 5), either alone or as the first line of a paragraph.
func (c *converter) convertParagraph(t *gmast.Paragraph) *Node {
	children := c.convertChildren(t)
	if len(children) >= 1 && children[0].Kind == KindText {
		if name, ok := anchorName(children[0].Literal); ok {
			anchor := &Node{Kind: KindAnchor, AnchorName: name, Range: children[0].Range}
			if len(children) == 1 {
				return anchor
			}
			if end := children[0].Range.End; end < len(c.source) && (c.source[end] == '\n' || c.source[end] == '\r') {
				// The marker line is followed by more lines of the same
				// paragraph: split it off into a transparent container.
				r := nodeRange(t, c.source)
				rest := &Node{Kind: KindParagraph, Range: Range{Start: lineEndAfter(c.source, end), End: r.End}, Children: children[1:]}
				return &Node{Kind: KindDocument, Range: r, Children: []*Node{anchor, rest}}
			}
		}
	}
	out := &Node{Kind: KindParagraph, Range: nodeRange(t, c.source)}
	out.Children = children
	return out
}

// convertText splits role patterns out of a Text node's literal content,
// producing a mix of Text and Role children in place of the one Text
// node (spec.md §4.1 step 4).
func (c *converter) convertText(t *gmast.Text) *Node {
	start := t.Segment.Start
	literal := string(t.Segment.Value(c.source))

	matches := rolePattern.FindAllStringSubmatchIndex(literal, -1)
	if len(matches) == 0 {
		return &Node{
			Kind:      KindText,
			Literal:   literal,
			HardBreak: t.HardLineBreak(),
			Range:     Range{Start: start, End: start + len(literal)},
		}
	}

	// A text node containing roles is returned as a synthetic inline
	// container (a Paragraph with no Range); the extractor walks into it
	// like any other container.
	container := &Node{Kind: KindParagraph}
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			seg := literal[pos:m[0]]
			container.Children = append(container.Children, &Node{
				Kind:    KindText,
				Literal: seg,
				Range:   Range{Start: start + pos, End: start + m[0]},
			})
		}
		name := literal[m[2]:m[3]]
		payload := literal[m[4]:m[5]]
		target, display := splitRolePayload(payload)
		container.Children = append(container.Children, &Node{
			Kind:        KindRole,
			RoleName:    name,
			RoleTarget:  target,
			RoleDisplay: display,
			Range:       Range{Start: start + m[0], End: start + m[1]},
		})
		pos = m[1]
	}
	if pos < len(literal) {
		container.Children = append(container.Children, &Node{
			Kind:    KindText,
			Literal: literal[pos:],
			Range:   Range{Start: start + pos, End: start + len(literal)},
		})
	}
	return container
}

// convertFencedCode lifts a fenced (or rewritten colon-fenced) code block
// into a Directive node when its info string names one, per spec.md
// §4.1 steps 2-3.
func (c *converter) convertFencedCode(t *gmast.FencedCodeBlock) *Node {
	bodyRange := nodeRange(t, c.source)
	info := ""
	if t.Info != nil {
		info = string(t.Info.Segment.Value(c.source))
	}

	name, args, ok := parseDirectiveInfo(info)
	if !ok {
		return &Node{
			Kind:    KindFencedCode,
			Lang:    fencedLanguage(info),
			Literal: string(c.source[bodyRange.Start:bodyRange.End]),
			Range:   bodyRange,
		}
	}

	lineStart := lineStartBefore(c.source, t.Info.Segment.Start)
	fenceChar := firstNonSpace(c.source[lineStart:])
	fenceKind := FenceBacktick
	if fenceChar == ':' {
		fenceKind = FenceColon
	}
	fenceLen := countLeading(skipSpaces(c.source[lineStart:]), fenceChar)

	rangeEnd := lineEndAfter(c.source, bodyRange.End)

	body := string(c.source[bodyRange.Start:bodyRange.End])
	options, rest := splitDirectiveBody(body)

	d := &Node{
		Kind:             KindDirective,
		DirectiveName:    name,
		DirectiveArgs:    args,
		DirectiveOptions: options,
		FenceKind:        fenceKind,
		FenceLength:      fenceLen,
		Range:            Range{Start: lineStart, End: rangeEnd},
		BodyRange:        bodyRange,
		Literal:          rest,
	}

	if !LiteralContentDirectives[name] && rest != "" {
		restOffset := bodyRange.Start + (len(body) - len(rest))
		sub := Parse(c.source[restOffset : restOffset+len(rest)])
		d.Children = offsetChildren(sub.Children, restOffset)
	}

	return d
}

func offsetChildren(children []*Node, offset int) []*Node {
	for _, ch := range children {
		ch.Range.Start += offset
		ch.Range.End += offset
		ch.BodyRange.Start += offset
		ch.BodyRange.End += offset
		ch.Children = offsetChildren(ch.Children, offset)
	}
	return children
}

func fencedLanguage(info string) string {
	for i := 0; i < len(info); i++ {
		if info[i] == ' ' || info[i] == '\t' {
			return info[:i]
		}
	}
	return info
}

func lineStartBefore(source []byte, offset int) int {
	i := offset
	for i > 0 && source[i-1] != '\n' {
		i--
	}
	return i
}

func lineEndAfter(source []byte, offset int) int {
	i := offset
	for i < len(source) && source[i] != '\n' {
		i++
	}
	if i < len(source) {
		i++
	}
	return i
}

func firstNonSpace(b []byte) byte {
	for _, c := range b {
		if c != ' ' && c != '\t' {
			return c
		}
	}
	return 0
}

func skipSpaces(b []byte) []byte {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
		i++
	}
	return b[i:]
}

// attachAnchors flags nothing structurally (anchors remain siblings);
// the extractor is responsible for pairing an Anchor with the block that
// immediately follows it in document order, per spec.md §3's "attached
// to the following block".
func (c *converter) attachAnchors(root *Node) {}
