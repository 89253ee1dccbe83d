package extract

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/myst"
	"github.com/moxide-ls/moxide/rope"
)

// tagPattern matches a "#tag" token. Go's RE2 engine does not support the
// lookbehind `(?<!\S)` spec.md §4.2 specifies, so the "not preceded by a
// non-space character" requirement is checked manually in collectTags by
// inspecting the rune immediately before each match.
var tagPattern = regexp.MustCompile(`#([\p{L}_][\p{L}\p{N}_/'-]*)`)

// collectTags scans raw document text for "#tag" tokens, suppressing
// matches inside code spans, literal fenced/indented code, and
// literal-content directive bodies (spec.md §4.2). Tags are Reference
// sites, not Referenceable targets; candidate target tags are synthesized
// by the Resolver from every extracted Tag reference across the vault.
func collectTags(doc string, r *rope.Rope, root *myst.Node, opts Options) []model.Reference {
	if !opts.TagsEnabled {
		return nil
	}
	text := r.Text()
	var excluded []myst.Range
	if !opts.TagsInCodeblocks {
		excluded = codeRanges(root)
	}

	var refs []model.Reference
	for _, m := range tagPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		nameStart, nameEnd := m[2], m[3]
		if withinAny(excluded, start) {
			continue
		}
		if start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:start])
			if !unicode.IsSpace(prev) {
				continue
			}
		}
		refs = append(refs, model.Reference{
			Kind:      model.Tag,
			SourceDoc: doc,
			RawTarget: text[nameStart:nameEnd],
			Span:      model.SpanFromOffsets(r, start, end),
		})
	}
	return refs
}
