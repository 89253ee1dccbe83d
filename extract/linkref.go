package extract

import (
	"regexp"
	"strings"

	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/myst"
	"github.com/moxide-ls/moxide/rope"
)

// linkRefDefPattern matches a CommonMark link reference definition line,
// e.g. "[install]: setup.md" (spec.md §3 "LinkReferenceDef").
var linkRefDefPattern = regexp.MustCompile(`(?m)^ {0,3}\[([^\]\r\n]+)\]:\s*(\S.*)?$`)

// bracketPattern matches a bracketed label "[label]" as a candidate
// shortcut reference usage.
var bracketPattern = regexp.MustCompile(`\[([^\]\^][^\]\r\n]*)\]`)

// collectLinkReferenceDefs scans raw text for reference-definition lines
// and emits one LinkReferenceDef Referenceable per definition.
func collectLinkReferenceDefs(doc string, r *rope.Rope, root *myst.Node) []model.Referenceable {
	text := r.Text()
	excluded := codeRanges(root)

	var out []model.Referenceable
	for _, m := range linkRefDefPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		labelStart, labelEnd := m[2], m[3]
		if withinAny(excluded, start) {
			continue
		}
		out = append(out, model.Referenceable{
			Kind:     model.LinkReferenceDef,
			Doc:      doc,
			RefLabel: text[labelStart:labelEnd],
			Span:     model.SpanFromOffsets(r, start, end),
		})
	}
	return out
}

// collectLinkRefShortcuts finds "[label]" occurrences used as shortcut
// reference links: a bare bracketed label, scoped to source document P
// only (spec.md §4.3). Occurrences goldmark already resolved into Link
// AST nodes (existingRefs) are skipped to avoid double extraction;
// unresolved shortcuts (no matching definition, so goldmark leaves the
// brackets as literal text) are only discoverable this way, since the
// resolved-vs-shortcut distinction does not survive goldmark's AST.
func collectLinkRefShortcuts(doc string, r *rope.Rope, root *myst.Node, existingRefs []model.Reference, opts Options) []model.Reference {
	text := r.Text()
	var excluded []myst.Range
	if !opts.ReferencesInCodeblocks {
		excluded = codeRanges(root)
	}

	var refs []model.Reference
	for _, m := range bracketPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		labelStart, labelEnd := m[2], m[3]
		if withinAny(excluded, start) {
			continue
		}
		if overlapsAny(existingRefs, start, end) {
			continue
		}
		if end < len(text) {
			next := text[end]
			if next == '(' || next == '[' || next == ':' {
				continue
			}
		}
		label := strings.TrimSpace(text[labelStart:labelEnd])
		if label == "" {
			continue
		}
		refs = append(refs, model.Reference{
			Kind:      model.LinkRefShortcut,
			SourceDoc: doc,
			RawTarget: label,
			Span:      model.SpanFromOffsets(r, start, end),
		})
	}
	return refs
}

func overlapsAny(refs []model.Reference, start, end int) bool {
	for _, ref := range refs {
		if start < ref.Span.ByteEnd && end > ref.Span.ByteStart {
			return true
		}
	}
	return false
}
