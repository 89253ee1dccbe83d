package resolve

import (
	"sort"
	"strings"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/extract"
	"github.com/moxide-ls/moxide/model"
)

// Resolve maps Reference ref to its ordered list of candidate
// Referenceables per the per-variant algorithm of spec.md §4.3. An empty
// result means the reference is unresolved: the Vault Graph commits no
// edge for it, and query.Diagnostics reports it as a warning.
func Resolve(ref model.Reference, idx Index, cfg config.Resolved) []model.Referenceable {
	switch ref.Kind {
	case model.MarkdownFileLink, model.MystRoleDoc:
		return filesToReferenceables(resolveFilePaths(idx, ref.SourceDoc, ref.RawTarget, cfg.CaseMatching))

	case model.MarkdownHeadingLink:
		paths := resolveFilePaths(idx, ref.SourceDoc, ref.RawTarget, cfg.CaseMatching)
		return resolveHeading(idx, paths, ref.Heading)

	case model.MarkdownBlockLink:
		paths := resolveFilePaths(idx, ref.SourceDoc, ref.RawTarget, cfg.CaseMatching)
		return resolveBlock(idx, paths, ref.BlockID)

	case model.MystRoleRef:
		return resolveRoleRef(idx, ref.RawTarget)

	case model.MystRoleTerm:
		return idx.Glossary[ref.RawTarget]

	case model.MystRoleEq:
		return idx.LabelsMath[ref.RawTarget]

	case model.MystRoleNumref:
		if figs := idx.LabelsFigure[ref.RawTarget]; len(figs) > 0 {
			return figs
		}
		return idx.LabelsMath[ref.RawTarget]

	case model.MystRoleDownload:
		return filesToReferenceables(resolveFilePaths(idx, ref.SourceDoc, ref.RawTarget, cfg.CaseMatching))

	case model.Tag:
		return ResolveTag(ref.RawTarget, idx.AllTagRefs)

	case model.Footnote:
		return matchByCanonicalForm(idx.footnoteDefsIn(ref.SourceDoc), ref.RawTarget)

	case model.LinkRefShortcut:
		return matchByCanonicalForm(idx.linkRefDefsIn(ref.SourceDoc), ref.RawTarget)

	default:
		return nil
	}
}

func filesToReferenceables(paths []string) []model.Referenceable {
	out := make([]model.Referenceable, 0, len(paths))
	for _, p := range paths {
		out = append(out, model.Referenceable{Kind: model.File, Doc: p})
	}
	return out
}

func resolveHeading(idx Index, paths []string, fragment string) []model.Referenceable {
	slug := extract.Slugify(fragment)
	var out []model.Referenceable
	for _, p := range paths {
		for _, h := range idx.headingsIn(p) {
			if h.Slug == slug {
				out = append(out, h)
			}
		}
	}
	if len(out) == 0 {
		// spec.md §4.3: ties broken by first-occurrence in document
		// order; when the exact file wasn't determined (fragment-only
		// lookup against the file failed) fall back to nothing — the
		// global slug index is MystRoleRef's job, not a markdown heading
		// link's.
		return nil
	}
	sortByDocOrder(out)
	return out
}

func resolveBlock(idx Index, paths []string, blockID string) []model.Referenceable {
	var out []model.Referenceable
	for _, p := range paths {
		for _, b := range idx.blocksIn(p) {
			if b.BlockID == blockID {
				out = append(out, b)
			}
		}
	}
	return out
}

// resolveRoleRef looks up the global anchor index first, falling back to
// the global heading-slug index (spec.md §4.3 MystRoleRef).
func resolveRoleRef(idx Index, target string) []model.Referenceable {
	if anchors := idx.Anchors[target]; len(anchors) > 0 {
		return anchors
	}
	slug := extract.Slugify(target)
	return idx.Slugs[slug]
}

func matchByCanonicalForm(candidates []model.Referenceable, target string) []model.Referenceable {
	var out []model.Referenceable
	for _, c := range candidates {
		if c.CanonicalForm() == target {
			out = append(out, c)
		}
	}
	return out
}

func sortByDocOrder(refs []model.Referenceable) {
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Span.ByteStart < refs[j].Span.ByteStart
	})
}

// ResolveTag returns a TagUsage Referenceable for every Tag reference in
// the vault whose name matches target under MyST's nesting rule: tag
// "a/b/c" is referenced by "a", "a/b", or "a/b/c" (spec.md §4.3).
// allTagRefs is every Tag-kind Reference extracted across the vault (Tag
// has no dedicated Referenceable variant in spec.md §3, so matching is
// reference-to-reference; see model.TagUsage).
func ResolveTag(target string, allTagRefs []model.Reference) []model.Referenceable {
	var out []model.Referenceable
	for _, ref := range allTagRefs {
		if ref.Kind != model.Tag {
			continue
		}
		if tagMatches(ref.RawTarget, target) {
			out = append(out, model.Referenceable{
				Kind: model.TagUsage,
				Doc:  ref.SourceDoc,
				Name: ref.RawTarget,
				Span: ref.Span,
			})
		}
	}
	return out
}

func tagMatches(tag, query string) bool {
	if tag == query {
		return true
	}
	return strings.HasPrefix(tag, query+"/")
}
