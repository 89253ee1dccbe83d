package query

import (
	"bytes"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/teekennedy/goldmark-markdown"
	"github.com/yuin/goldmark"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/errs"
	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/resolve"
	"github.com/moxide-ls/moxide/rope"
	"github.com/moxide-ls/moxide/vault"
)

// Edit is a single text replacement within one document.
type Edit struct {
	Span    model.Span
	NewText string
}

// RenamePlan is the set of edits a rename produces, grouped by document
// (spec.md §4.5: "Returns a set of text edits grouped by document").
type RenamePlan map[string][]Edit

// anchorNamePattern is spec.md §4.5's syntax rule for anchor-like
// identifiers: "anchor names must match [A-Za-z][A-Za-z0-9_-]*".
var anchorNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Rename implements spec.md §4.5's RenamePlan: locate the Referenceable
// at position, validate newName for that variant, compute the
// definitional-text edit plus one surface-text edit per incoming
// reference (preserving link style), and return them grouped by
// document. Returns (nil, errs.ErrInvalidRename) when newName is
// syntactically invalid for the target's variant — spec.md describes
// this as "Rename is rejected (empty plan)"; the sentinel error lets the
// lspserver layer distinguish that case from "nothing to rename" (nil,
// nil), which occurs when the cursor isn't on a renameable construct.
func Rename(snap *vault.Snapshot, doc string, pos rope.Position, newName string, cfg config.Resolved) (RenamePlan, error) {
	t := CursorAt(snap, doc, pos)

	var target model.Referenceable
	switch t.Kind {
	case TargetReferenceable:
		target = *t.Referenceable
	case TargetReference:
		candidates := resolve.Resolve(*t.Reference, snap.Index, cfg)
		if len(candidates) == 0 {
			return nil, nil
		}
		target = candidates[0]
	default:
		return nil, nil
	}

	if !validRenameTarget(target, newName) {
		return nil, errs.ErrInvalidRename
	}

	plan := RenamePlan{}

	if defDoc, ok := snap.Document(target.Doc); ok {
		span := definitionEditSpan(defDoc, target)
		plan[target.Doc] = append(plan[target.Doc], Edit{Span: span, NewText: definitionReplacement(target, newName)})
	}

	for _, e := range snap.IncomingEdges(target.Doc, target) {
		srcDoc, ok := snap.Document(e.SourceDoc)
		if !ok {
			continue
		}
		ref, ok := findSourceReference(srcDoc, e.SourceSpan)
		if !ok {
			continue
		}
		plan[e.SourceDoc] = append(plan[e.SourceDoc], Edit{Span: ref.Span, NewText: surfaceReplacement(*ref, newName, cfg)})
	}

	for doc, edits := range plan {
		sort.SliceStable(edits, func(i, j int) bool { return edits[i].Span.ByteStart < edits[j].Span.ByteStart })
		plan[doc] = edits
	}
	return plan, nil
}

func validRenameTarget(target model.Referenceable, newName string) bool {
	if newName == "" {
		return false
	}
	switch target.Kind {
	case model.Heading, model.GlossaryTerm:
		return true // free text; only emptiness is disallowed
	case model.MystAnchor, model.LabeledMath, model.LabeledFigure, model.FootnoteDef, model.LinkReferenceDef, model.IndexedBlock:
		return anchorNamePattern.MatchString(newName)
	default:
		return false // File, TagUsage, Unresolved* are not rename targets
	}
}

// findSourceReference locates the Reference in d's cached extraction
// whose span exactly matches span, recovering the Reference.Kind/Display
// a committed model.Edge (which only carries a byte span) does not keep.
func findSourceReference(d *model.Document, span model.Span) (*model.Reference, bool) {
	for i := range d.Extraction.References {
		r := &d.Extraction.References[i]
		if r.Span.ByteStart == span.ByteStart && r.Span.ByteEnd == span.ByteEnd {
			return r, true
		}
	}
	return nil, false
}

// definitionReplacement computes the new definitional text for target's
// own document.
func definitionReplacement(target model.Referenceable, newName string) string {
	switch target.Kind {
	case model.Heading:
		return strings.Repeat("#", target.Level) + " " + newName
	case model.MystAnchor:
		return "(" + newName + ")="
	case model.FootnoteDef:
		return "[^" + newName + "]"
	case model.LinkReferenceDef:
		return "[" + newName + "]"
	default: // LabeledMath, LabeledFigure, GlossaryTerm, IndexedBlock
		return newName
	}
}

// definitionEditSpan narrows target.Span (which, for directive-derived
// Referenceables, covers the entire directive block) down to just the
// identifier text being renamed, so the edit doesn't clobber surrounding
// content.
func definitionEditSpan(d *model.Document, target model.Referenceable) model.Span {
	switch target.Kind {
	case model.Heading, model.GlossaryTerm, model.MystAnchor:
		// A MystAnchor's span is the whole "(name)=" marker, which
		// definitionReplacement rewrites in full.
		return target.Span
	case model.IndexedBlock:
		return narrowSpan(d, target.Span, blockIDValuePattern, target.BlockID)
	case model.FootnoteDef:
		return narrowSpan(d, target.Span, footnoteLabelPattern, target.FootnoteID)
	case model.LinkReferenceDef:
		return narrowSpan(d, target.Span, linkRefLabelPattern, target.RefLabel)
	default: // LabeledMath, LabeledFigure
		return canonicalFormSpan(d, target)
	}
}

var (
	blockIDValuePattern  = regexp.MustCompile(`\^([A-Za-z0-9][A-Za-z0-9_-]*)\s*$`)
	footnoteLabelPattern = regexp.MustCompile(`^\[\^([^\]]+)\]`)
	linkRefLabelPattern  = regexp.MustCompile(`^\s*\[([^\]]+)\]`)
	anchorMarkerPattern  = regexp.MustCompile(`^\(([A-Za-z][A-Za-z0-9_-]*)\)=`)
	directiveOptionValue = regexp.MustCompile(`(?m)^\s*:(?:name|label):\s*(\S.*)$`)
)

// narrowSpan finds pattern's first capture group within target.Span's
// text and, if it equals want, returns the precise sub-span; otherwise
// falls back to the full span.
func narrowSpan(d *model.Document, span model.Span, pattern *regexp.Regexp, want string) model.Span {
	text := d.Rope.Slice(span.ByteStart, span.ByteEnd)
	m := pattern.FindStringSubmatchIndex(text)
	if m == nil || text[m[2]:m[3]] != want {
		return span
	}
	return model.SpanFromOffsets(d.Rope, span.ByteStart+m[2], span.ByteStart+m[3])
}

// canonicalFormSpan narrows a MystAnchor/LabeledMath/LabeledFigure span
// (target.Span is the whole `(name)=` marker or the whole directive
// block) down to the identifier text itself.
func canonicalFormSpan(d *model.Document, target model.Referenceable) model.Span {
	text := d.Rope.Slice(target.Span.ByteStart, target.Span.ByteEnd)
	value := target.CanonicalForm()

	if m := anchorMarkerPattern.FindStringSubmatchIndex(text); m != nil && text[m[2]:m[3]] == value {
		return model.SpanFromOffsets(d.Rope, target.Span.ByteStart+m[2], target.Span.ByteStart+m[3])
	}
	if m := directiveOptionValue.FindStringSubmatchIndex(text); m != nil {
		valueText := strings.TrimRight(text[m[2]:m[3]], " \t")
		if valueText == value {
			return model.SpanFromOffsets(d.Rope, target.Span.ByteStart+m[2], target.Span.ByteStart+m[2]+len(valueText))
		}
	}
	return target.Span
}

// surfaceReplacement computes the new surface text for a Reference site,
// preserving its link style (spec.md §4.5: "preserving link style —
// markdown vs role vs wikilink-legacy"). Markdown file/heading/block
// links additionally honor cfg.LinkFilenamesOnly (display text is the
// bare filename, not the full relative path) and
// cfg.IncludeMdExtensionLink (destination keeps its ".md" suffix) per
// spec.md §6's "link_filenames_only"/"include_md_extension_md_link".
func surfaceReplacement(ref model.Reference, newName string, cfg config.Resolved) string {
	switch ref.Kind {
	case model.MystRoleRef:
		return roleSurface("ref", ref.Display, newName)
	case model.MystRoleTerm:
		return roleSurface("term", ref.Display, newName)
	case model.MystRoleEq:
		return roleSurface("eq", ref.Display, newName)
	case model.MystRoleNumref:
		return roleSurface("numref", ref.Display, newName)
	case model.MystRoleDoc:
		return roleSurface("doc", ref.Display, newName)
	case model.MarkdownHeadingLink:
		return renderMarkdownLink(linkDisplay(ref.Display, ref.RawTarget, cfg), linkDest(ref.RawTarget, cfg)+"#"+newName)
	case model.MarkdownBlockLink:
		return renderMarkdownLink(linkDisplay(ref.Display, ref.RawTarget, cfg), linkDest(ref.RawTarget, cfg)+"#^"+newName)
	case model.MarkdownFileLink:
		return renderMarkdownLink(linkDisplay(ref.Display, newName, cfg), linkDest(newName, cfg))
	case model.Footnote:
		return "[^" + newName + "]"
	case model.LinkRefShortcut:
		return "[" + newName + "]"
	case model.Tag:
		return "#" + newName
	default:
		return ref.RawTarget
	}
}

// linkDisplay returns ref's display text, falling back to target's bare
// filename (cfg.LinkFilenamesOnly) or full target (otherwise) when no
// explicit display text was written.
func linkDisplay(display, target string, cfg config.Resolved) string {
	if display != "" {
		return display
	}
	if cfg.LinkFilenamesOnly {
		return strings.TrimSuffix(path.Base(target), ".md")
	}
	return target
}

// linkDest appends the ".md" extension markdown-oxide-style config
// expects when cfg.IncludeMdExtensionLink is set; dest otherwise stays
// extensionless per spec.md's default link style.
func linkDest(dest string, cfg config.Resolved) string {
	if cfg.IncludeMdExtensionLink && !strings.HasSuffix(dest, ".md") {
		return dest + ".md"
	}
	return dest
}

func roleSurface(roleName, display, target string) string {
	if display != "" {
		return fmt.Sprintf("{%s}`%s <%s>`", roleName, display, target)
	}
	return fmt.Sprintf("{%s}`%s`", roleName, target)
}

// renderMarkdownLink renders a `[display](dest)` markdown link through
// goldmark + teekennedy/goldmark-markdown's surface-preserving renderer,
// so any characters in dest/display that need markdown escaping come out
// correctly rather than via ad hoc string concatenation.
func renderMarkdownLink(display, dest string) string {
	source := fmt.Sprintf("[%s](%s)", display, dest)
	md := goldmark.New(goldmark.WithRenderer(markdown.NewRenderer()))
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return source
	}
	return strings.TrimSpace(buf.String())
}
