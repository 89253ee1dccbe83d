package extract

import (
	"strings"

	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/myst"
	"github.com/moxide-ls/moxide/rope"
)

// directiveReferenceable builds the Referenceable a directive's `:name:`
// or `:label:` option emits, per spec.md §4.2: "if options contain name
// or label, emit MystAnchor (generic) or variant-specific (LabeledMath,
// LabeledFigure) keyed on that value". name takes precedence over label
// when both are present.
func directiveReferenceable(doc string, r *rope.Rope, n *myst.Node) (model.Referenceable, bool) {
	key, value, ok := directiveKeyOption(n)
	if !ok {
		return model.Referenceable{}, false
	}

	span := model.SpanFromOffsets(r, n.Range.Start, n.Range.End)

	switch n.DirectiveName {
	case "math":
		return model.Referenceable{Kind: model.LabeledMath, Doc: doc, Label: value, Span: span}, true
	case "figure":
		return model.Referenceable{Kind: model.LabeledFigure, Doc: doc, Name: value, Span: span}, true
	default:
		_ = key
		return model.Referenceable{Kind: model.MystAnchor, Doc: doc, Name: value, Span: span}, true
	}
}

func directiveKeyOption(n *myst.Node) (key, value string, ok bool) {
	if v, found := n.OptionValue("name"); found {
		return "name", v, true
	}
	if v, found := n.OptionValue("label"); found {
		return "label", v, true
	}
	return "", "", false
}

// glossaryTerms segments a `{glossary}` directive's body into term blocks:
// a term is a line flush-left (no leading whitespace) followed by an
// indented definition (spec.md §4.2).
func glossaryTerms(doc string, r *rope.Rope, n *myst.Node) []model.Referenceable {
	if n.DirectiveName != "glossary" || n.Literal == "" {
		return nil
	}

	bodyText := r.Slice(n.BodyRange.Start, n.BodyRange.End)
	restOffset := n.BodyRange.Start
	if idx := strings.Index(bodyText, n.Literal); idx >= 0 {
		restOffset = n.BodyRange.Start + idx
	}

	var terms []model.Referenceable
	offset := restOffset
	lines := splitKeepEnds(n.Literal)
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimRight(line, "\r\n")
		start := offset
		offset += len(line)

		if trimmed == "" || strings.HasPrefix(trimmed, " ") || strings.HasPrefix(trimmed, "\t") {
			continue
		}
		// trimmed is a flush-left non-blank line: a term, provided at
		// least one following line is indented (a definition).
		if i+1 >= len(lines) {
			continue
		}
		next := lines[i+1]
		if !strings.HasPrefix(next, " ") && !strings.HasPrefix(next, "\t") {
			continue
		}
		end := start + len(strings.TrimRight(line, "\r\n"))
		terms = append(terms, model.Referenceable{
			Kind: model.GlossaryTerm,
			Doc:  doc,
			Term: trimmed,
			Span: model.SpanFromOffsets(r, start, end),
		})
	}
	return terms
}

func splitKeepEnds(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
