package extract

import (
	"strings"

	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/myst"
	"github.com/moxide-ls/moxide/rope"
)

// roleReferenceKinds maps the cross-reference role names spec.md §3 lists
// as Reference variants to their kind. Roles outside this set (kbd, abbr,
// sub, sup, guilabel, samp, math, footcite, cite) are inline formatting or
// citation constructs, not vault cross-references, and emit nothing.
var roleReferenceKinds = map[string]model.ReferenceKind{
	"ref":      model.MystRoleRef,
	"doc":      model.MystRoleDoc,
	"term":     model.MystRoleTerm,
	"numref":   model.MystRoleNumref,
	"eq":       model.MystRoleEq,
	"download": model.MystRoleDownload,
}

// collectReferences walks the parsed tree for Link, Role, and
// FootnoteRef nodes and converts each into a Reference. Tag and
// link-reference-shortcut references are extracted separately from raw
// text (tags.go, linkref.go), since goldmark's resolved AST does not
// preserve either construct distinctly.
func collectReferences(doc string, r *rope.Rope, root *myst.Node) []model.Reference {
	var refs []model.Reference
	myst.Walk(root, func(n *myst.Node) bool {
		switch n.Kind {
		case myst.KindLink:
			if ref, ok := linkReference(doc, r, n); ok {
				refs = append(refs, ref)
			}
		case myst.KindRole:
			if ref, ok := roleReference(doc, r, n); ok {
				refs = append(refs, ref)
			}
		case myst.KindFootnoteRef:
			refs = append(refs, model.Reference{
				Kind:      model.Footnote,
				SourceDoc: doc,
				RawTarget: n.FootnoteLabel,
				Span:      model.SpanFromOffsets(r, n.Range.Start, n.Range.End),
			})
		}
		return true
	})
	return refs
}

func linkReference(doc string, r *rope.Rope, n *myst.Node) (model.Reference, bool) {
	dest := n.Destination
	if dest == "" {
		return model.Reference{}, false
	}
	if isExternalURL(dest) {
		return model.Reference{}, false
	}

	path, fragment, _ := strings.Cut(dest, "#")
	display := plainText(n)
	span := model.SpanFromOffsets(r, n.Range.Start, n.Range.End)

	switch {
	case fragment == "":
		return model.Reference{
			Kind: model.MarkdownFileLink, SourceDoc: doc, RawTarget: path,
			Display: display, Span: span,
		}, true
	case strings.HasPrefix(fragment, "^"):
		return model.Reference{
			Kind: model.MarkdownBlockLink, SourceDoc: doc, RawTarget: path,
			BlockID: strings.TrimPrefix(fragment, "^"), Display: display, Span: span,
		}, true
	default:
		return model.Reference{
			Kind: model.MarkdownHeadingLink, SourceDoc: doc, RawTarget: path,
			Heading: fragment, Display: display, Span: span,
		}, true
	}
}

// isExternalURL reports whether dest is an absolute URL (http(s), mailto,
// etc.) rather than a vault-relative path; such links are out of scope
// per spec.md §2's "validating external URLs" Non-goal.
func isExternalURL(dest string) bool {
	if i := strings.Index(dest, "://"); i > 0 && i < 12 {
		return true
	}
	return strings.HasPrefix(dest, "mailto:")
}

func roleReference(doc string, r *rope.Rope, n *myst.Node) (model.Reference, bool) {
	kind, ok := roleReferenceKinds[n.RoleName]
	if !ok {
		return model.Reference{}, false
	}
	target := n.RoleTarget
	var heading string
	if kind == model.MystRoleDoc {
		path, fragment, _ := strings.Cut(target, "#")
		target = path
		heading = fragment
	}
	return model.Reference{
		Kind: kind, SourceDoc: doc, RawTarget: target, Heading: heading,
		Display: n.RoleDisplay,
		Span:    model.SpanFromOffsets(r, n.Range.Start, n.Range.End),
	}, true
}
