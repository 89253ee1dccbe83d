package query

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/myst"
	"github.com/moxide-ls/moxide/rope"
	"github.com/moxide-ls/moxide/vault"
)

// CompletionItem is one ranked candidate (spec.md §4.5 Completions).
// Doc/Span are populated for candidates that name a specific vault
// location (headings, anchors, files); they are zero for purely lexical
// candidates (directive names, role names).
type CompletionItem struct {
	Label  string
	Detail string
	Doc    string
	Span   model.Span
}

var (
	fenceDirectivePattern = regexp.MustCompile("(?:`{3,}|:{3,})\\{([A-Za-z0-9_-]*)$")
	roleNamePattern       = regexp.MustCompile(`\{([A-Za-z0-9_-]*)$`)
	roleBodyPattern       = regexp.MustCompile("\\{([A-Za-z][A-Za-z0-9_-]*)\\}`([^`]*)$")
	linkPathPattern       = regexp.MustCompile(`\]\(([^)]*)$`)
	tagPrefixPattern      = regexp.MustCompile(`(?:^|\s)#([\p{L}0-9_/'-]*)$`)
	substitutionPattern2  = regexp.MustCompile(`\{\{([A-Za-z0-9_-]*)$`)
)

// Completions implements spec.md §4.5: dispatch on the text preceding the
// cursor to decide which candidate universe applies, then rank with the
// shared fuzzy matcher.
func Completions(snap *vault.Snapshot, doc string, pos rope.Position, cfg config.Resolved) []CompletionItem {
	d, ok := snap.Document(doc)
	if !ok {
		return nil
	}
	before := linePrefix(d, pos)

	if m := fenceDirectivePattern.FindStringSubmatch(before); m != nil {
		return rankItems(directiveNameItems(), m[1])
	}
	if m := roleBodyPattern.FindStringSubmatch(before); m != nil {
		roleName, partial := m[1], m[2]
		if idx := strings.LastIndexByte(partial, '<'); idx >= 0 {
			partial = partial[idx+1:]
		}
		return rankItems(roleTargetItems(snap, roleName, cfg), partial)
	}
	if m := linkPathPattern.FindStringSubmatch(before); m != nil {
		target := m[1]
		if hashIdx := strings.IndexByte(target, '#'); hashIdx >= 0 {
			return rankItems(headingItems(snap, doc, target[:hashIdx], cfg), target[hashIdx+1:])
		}
		return rankItems(pathItems(snap, doc), target)
	}
	if m := tagPrefixPattern.FindStringSubmatch(before); m != nil {
		return rankItems(tagItems(snap), m[1])
	}
	if m := substitutionPattern2.FindStringSubmatch(before); m != nil {
		return rankItems(substitutionItems(d), m[1])
	}
	if m := roleNamePattern.FindStringSubmatch(before); m != nil {
		return rankItems(roleNameItems(), m[1])
	}
	return nil
}

// linePrefix returns the text of pos's line up to (not including) the
// cursor column.
func linePrefix(d *model.Document, pos rope.Position) string {
	lineStart, ok1 := d.Rope.PositionToOffset(rope.Position{Line: pos.Line, Character: 0})
	off, ok2 := d.Rope.PositionToOffset(pos)
	if !ok1 || !ok2 {
		return ""
	}
	return d.Rope.Slice(lineStart, off)
}

func directiveNameItems() []CompletionItem {
	out := make([]CompletionItem, 0, len(myst.BuiltinDirectives))
	for _, name := range myst.BuiltinDirectives {
		out = append(out, CompletionItem{Label: name, Detail: "directive"})
	}
	return out
}

func roleNameItems() []CompletionItem {
	out := make([]CompletionItem, 0, len(myst.BuiltinRoles))
	for _, name := range myst.BuiltinRoles {
		out = append(out, CompletionItem{Label: name, Detail: "role"})
	}
	return out
}

func roleTargetItems(snap *vault.Snapshot, roleName string, cfg config.Resolved) []CompletionItem {
	idx := snap.Index
	var out []CompletionItem
	switch roleName {
	case "ref":
		out = append(out, referenceablesToItems(idx.Anchors, "anchor")...)
		if cfg.HeadingCompletions {
			out = append(out, referenceablesToItems(idx.Slugs, "heading")...)
		}
	case "doc", "download":
		for stem, paths := range idx.FilesByStem {
			for _, p := range paths {
				out = append(out, CompletionItem{Label: stem, Detail: "file", Doc: p})
			}
		}
	case "term":
		out = append(out, referenceablesToItems(idx.Glossary, "glossary term")...)
	case "numref":
		out = append(out, referenceablesToItems(idx.LabelsFigure, "figure")...)
		out = append(out, referenceablesToItems(idx.LabelsMath, "equation")...)
	case "eq":
		out = append(out, referenceablesToItems(idx.LabelsMath, "equation")...)
	}
	return out
}

func referenceablesToItems(byName map[string][]model.Referenceable, detail string) []CompletionItem {
	var out []CompletionItem
	for name, candidates := range byName {
		for _, c := range candidates {
			out = append(out, CompletionItem{Label: name, Detail: detail, Doc: c.Doc, Span: c.Span})
		}
	}
	return out
}

// pathItems offers every known document as a candidate, labeled by its
// path relative to the vault root with the .md extension stripped.
// (Resolving exactly which relative form — source-relative vs.
// root-relative — the editor should insert is left to the client; the
// Resolver in resolve/paths.go accepts both.)
func pathItems(snap *vault.Snapshot, sourceDoc string) []CompletionItem {
	out := make([]CompletionItem, 0, len(snap.Index.ByDoc))
	for p := range snap.Index.ByDoc {
		if p == sourceDoc {
			continue
		}
		out = append(out, CompletionItem{Label: strings.TrimSuffix(p, ".md"), Detail: "file", Doc: p})
	}
	return out
}

func headingItems(snap *vault.Snapshot, sourceDoc, targetPath string, cfg config.Resolved) []CompletionItem {
	resolved := targetPath
	if resolved == "" {
		resolved = sourceDoc
	} else if !strings.HasSuffix(resolved, ".md") {
		resolved += ".md"
	}
	if !strings.HasPrefix(resolved, "/") {
		resolved = path.Join(path.Dir(sourceDoc), resolved)
	} else {
		resolved = strings.TrimPrefix(resolved, "/")
	}

	d, ok := snap.Document(resolved)
	if !ok {
		return nil
	}
	var out []CompletionItem
	for _, r := range d.Extraction.Referenceables {
		switch r.Kind {
		case model.Heading:
			if !cfg.HeadingCompletions {
				continue
			}
			label := r.Slug
			if cfg.TitleHeadings {
				label = r.Text
			}
			out = append(out, CompletionItem{Label: label, Detail: "heading: " + r.Text, Doc: r.Doc, Span: r.Span})
		case model.MystAnchor:
			out = append(out, CompletionItem{Label: r.Name, Detail: "anchor", Doc: r.Doc, Span: r.Span})
		}
	}
	return out
}

func tagItems(snap *vault.Snapshot) []CompletionItem {
	seen := map[string]bool{}
	var out []CompletionItem
	for _, ref := range snap.Index.AllTagRefs {
		if seen[ref.RawTarget] {
			continue
		}
		seen[ref.RawTarget] = true
		out = append(out, CompletionItem{Label: ref.RawTarget, Detail: "tag"})
	}
	return out
}

func substitutionItems(d *model.Document) []CompletionItem {
	out := make([]CompletionItem, 0, len(d.Extraction.Frontmatter.Substitutions))
	for name, value := range d.Extraction.Frontmatter.Substitutions {
		out = append(out, CompletionItem{Label: name, Detail: value})
	}
	return out
}

// rankItems filters items to those query fuzzy-matches and sorts by
// (score descending, path ascending, range ascending), spec.md §4.5's
// Completions tie-break rule.
func rankItems(items []CompletionItem, query string) []CompletionItem {
	type scoredItem struct {
		item  CompletionItem
		score int
	}
	scored := make([]scoredItem, 0, len(items))
	for _, it := range items {
		if score, ok := fuzzyScore(query, it.Label); ok {
			scored = append(scored, scoredItem{it, score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if scored[i].item.Doc != scored[j].item.Doc {
			return scored[i].item.Doc < scored[j].item.Doc
		}
		if scored[i].item.Span.ByteStart != scored[j].item.Span.ByteStart {
			return scored[i].item.Span.ByteStart < scored[j].item.Span.ByteStart
		}
		return scored[i].item.Label < scored[j].item.Label
	})
	out := make([]CompletionItem, len(scored))
	for i, s := range scored {
		out[i] = s.item
	}
	return out
}
