package query

import (
	"fmt"
	"strings"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/resolve"
	"github.com/moxide-ls/moxide/rope"
	"github.com/moxide-ls/moxide/vault"
)

// defaultExcerptLines is spec.md §4.5's hover excerpt line count N
// ("N is configurable; default 10"). spec.md §6's recognized config keys
// only expose a bool gate (`hover`), not N itself, so N stays a constant
// here rather than threading a new config.Resolved field.
const defaultExcerptLines = 10

// excerptMaxChars is the ≤512-character trim spec.md §4.5 specifies.
const excerptMaxChars = 512

// maxBacklinks is the "up to 20 backlinks" cap spec.md §4.5 specifies.
const maxBacklinks = 20

// Hover is the rendered result of spec.md §4.5's Hover query: an excerpt
// (empty for a Referenceable-only hover) plus a capped backlink list.
type Hover struct {
	Excerpt   string
	Backlinks []Location
}

// HoverAt implements spec.md §4.5: for a Reference, render a short
// excerpt from its resolved target plus backlinks; for a Referenceable,
// backlinks only.
func HoverAt(snap *vault.Snapshot, doc string, pos rope.Position, cfg config.Resolved) *Hover {
	t := CursorAt(snap, doc, pos)
	switch t.Kind {
	case TargetReferenceable:
		return &Hover{Backlinks: backlinksFor(snap, *t.Referenceable)}
	case TargetReference:
		candidates := resolve.Resolve(*t.Reference, snap.Index, cfg)
		if len(candidates) == 0 {
			return nil
		}
		target := candidates[0]
		return &Hover{
			Excerpt:   excerptFor(snap, target),
			Backlinks: backlinksFor(snap, target),
		}
	default:
		return nil
	}
}

// ExcerptAt renders the same first-N-lines excerpt excerptFor uses for
// Hover, but from a bare (doc, span) pair rather than a full
// Referenceable — completionItem/resolve (spec.md §6's "single resolve
// step") only has the Doc/Span a CompletionItem carried across the
// wire, not the originating Referenceable's Kind.
func ExcerptAt(snap *vault.Snapshot, doc string, span model.Span) string {
	d, ok := snap.Document(doc)
	if !ok {
		return ""
	}
	return excerptFromLine(d, span.Start.Line)
}

func backlinksFor(snap *vault.Snapshot, target model.Referenceable) []Location {
	edges := snap.IncomingEdges(target.Doc, target)
	out := make([]Location, 0, len(edges))
	for _, e := range edges {
		out = append(out, Location{Doc: e.SourceDoc, Span: e.SourceSpan})
	}
	sortLocations(out)
	if len(out) > maxBacklinks {
		out = out[:maxBacklinks]
	}
	return out
}

// excerptFor renders the first N lines up to the first blank line,
// trimmed to excerptMaxChars (spec.md §4.5). A GlossaryTerm's own Span
// covers only the flush-left term line (extract.glossaryTerms), so its
// excerpt instead starts on the line immediately below — the indented
// definition — matching end-to-end scenario 4's "renders the definition
// line".
func excerptFor(snap *vault.Snapshot, target model.Referenceable) string {
	d, ok := snap.Document(target.Doc)
	if !ok {
		return ""
	}
	startLine := target.Span.Start.Line
	if target.Kind == model.GlossaryTerm {
		startLine++
	}
	return excerptFromLine(d, startLine)
}

// excerptFromLine renders the first N non-blank lines starting at
// startLine, trimmed to excerptMaxChars (spec.md §4.5).
func excerptFromLine(d *model.Document, startLine int) string {
	var lines []string
	for i := 0; i < defaultExcerptLines; i++ {
		line, ok := d.Rope.Line(startLine + i)
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			if i > 0 {
				break
			}
			continue
		}
		lines = append(lines, line)
	}

	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if len(text) > excerptMaxChars {
		text = strings.TrimSpace(text[:excerptMaxChars])
	}
	return text
}

func unresolvedMessage(ref model.Reference) string {
	switch ref.Kind {
	case model.MarkdownFileLink, model.MystRoleDoc:
		return fmt.Sprintf("cannot find document %q", ref.RawTarget)
	case model.MarkdownHeadingLink:
		return fmt.Sprintf("cannot find heading %q in %q", ref.Heading, ref.RawTarget)
	case model.MarkdownBlockLink:
		return fmt.Sprintf("cannot find block %q in %q", ref.BlockID, ref.RawTarget)
	case model.Footnote:
		return fmt.Sprintf("no footnote definition for %q", ref.RawTarget)
	case model.LinkRefShortcut:
		return fmt.Sprintf("no link reference definition for %q", ref.RawTarget)
	case model.Tag:
		return fmt.Sprintf("no other use of tag %q", ref.RawTarget)
	case model.MystRoleRef:
		return fmt.Sprintf("cannot find anchor or heading %q", ref.RawTarget)
	case model.MystRoleTerm:
		return fmt.Sprintf("cannot find glossary term %q", ref.RawTarget)
	case model.MystRoleNumref:
		return fmt.Sprintf("cannot find labeled figure or equation %q", ref.RawTarget)
	case model.MystRoleEq:
		return fmt.Sprintf("cannot find labeled equation %q", ref.RawTarget)
	case model.MystRoleDownload:
		return fmt.Sprintf("cannot find download target %q", ref.RawTarget)
	default:
		return fmt.Sprintf("unresolved reference %q", ref.RawTarget)
	}
}
