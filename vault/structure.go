package vault

import (
	"strconv"
	"strings"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/myst"
	"github.com/moxide-ls/moxide/resolve"
	"github.com/moxide-ls/moxide/rope"
)

// structuralEdges walks doc's AST for `{toctree}` and `{include}`
// directives and resolves them directly to file paths, bypassing
// model.Reference/Referenceable entirely: neither directive produces a
// Reference in the Extractor's output (spec.md §3's Reference variant
// list has no toctree/include kind), yet both contribute edges to the
// Vault Graph (spec.md §4.4: "edges ... Structure (toctree) /
// Transclusion (include)").
func structuralEdges(doc string, r *rope.Rope, root *myst.Node, idx resolve.Index, mode config.CaseMatching) []model.Edge {
	var edges []model.Edge
	myst.Walk(root, func(n *myst.Node) bool {
		if n.Kind != myst.KindDirective {
			return true
		}
		switch n.DirectiveName {
		case "include":
			edges = append(edges, includeEdges(doc, r, n, idx, mode)...)
		case "toctree":
			edges = append(edges, toctreeEdges(doc, r, n, idx, mode)...)
		}
		return true
	})
	return edges
}

func includeEdges(doc string, r *rope.Rope, n *myst.Node, idx resolve.Index, mode config.CaseMatching) []model.Edge {
	target := strings.TrimSpace(n.DirectiveArgs)
	if target == "" {
		return nil
	}
	span := model.SpanFromOffsets(r, n.Range.Start, n.Range.End)
	edges := pathsToEdges(doc, span, model.EdgeTransclusion, idx, mode, target)
	if lr, ok := parseLineRange(n); ok {
		for i := range edges {
			edges[i].LineRange = &lr
		}
	}
	return edges
}

// parseLineRange reads a `{include}` directive's `:lines: N-M` option
// (Sphinx/MyST convention for a partial-file transclusion).
func parseLineRange(n *myst.Node) ([2]int, bool) {
	v, ok := n.OptionValue("lines")
	if !ok {
		return [2]int{}, false
	}
	start, end, found := strings.Cut(strings.TrimSpace(v), "-")
	if !found {
		return [2]int{}, false
	}
	lo, err1 := strconv.Atoi(strings.TrimSpace(start))
	hi, err2 := strconv.Atoi(strings.TrimSpace(end))
	if err1 != nil || err2 != nil {
		return [2]int{}, false
	}
	return [2]int{lo, hi}, true
}

func toctreeEdges(doc string, r *rope.Rope, n *myst.Node, idx resolve.Index, mode config.CaseMatching) []model.Edge {
	if n.Literal == "" {
		return nil
	}
	caption, _ := n.OptionValue("caption")
	span := model.SpanFromOffsets(r, n.Range.Start, n.Range.End)

	var edges []model.Edge
	for _, line := range strings.Split(n.Literal, "\n") {
		target := strings.TrimSpace(line)
		if target == "" || strings.HasPrefix(target, "#") {
			continue
		}
		for _, e := range pathsToEdges(doc, span, model.EdgeStructure, idx, mode, target) {
			e.Caption = caption
			edges = append(edges, e)
		}
	}
	return edges
}

func pathsToEdges(doc string, span model.Span, kind model.EdgeKind, idx resolve.Index, mode config.CaseMatching, target string) []model.Edge {
	paths := resolve.ResolvePath(idx, doc, target, mode)
	edges := make([]model.Edge, 0, len(paths))
	for _, p := range paths {
		edges = append(edges, model.Edge{
			Kind:       kind,
			SourceDoc:  doc,
			SourceSpan: span,
			TargetDoc:  p,
			Target:     model.Referenceable{Kind: model.File, Doc: p},
		})
	}
	return edges
}
