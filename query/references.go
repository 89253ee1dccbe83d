package query

import (
	"fmt"
	"sort"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/resolve"
	"github.com/moxide-ls/moxide/rope"
	"github.com/moxide-ls/moxide/vault"
)

// FindReferences implements spec.md §4.5: identify the Referenceable at
// position (or, when the cursor sits on an outgoing Reference instead,
// the set of Referenceables it resolves to), then scan incoming graph
// edges keyed by target identity. Complexity is O(incoming degree), per
// spec.md §4.5 and §5's resource budget for this query.
func FindReferences(snap *vault.Snapshot, doc string, pos rope.Position, cfg config.Resolved) []Location {
	t := CursorAt(snap, doc, pos)

	var targets []model.Referenceable
	switch t.Kind {
	case TargetReferenceable:
		targets = []model.Referenceable{*t.Referenceable}
	case TargetReference:
		targets = resolve.Resolve(*t.Reference, snap.Index, cfg)
	default:
		return nil
	}

	seen := map[string]bool{}
	var out []Location
	for _, target := range targets {
		for _, e := range snap.IncomingEdges(target.Doc, target) {
			key := fmt.Sprintf("%s|%d|%d", e.SourceDoc, e.SourceSpan.ByteStart, e.SourceSpan.ByteEnd)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Location{Doc: e.SourceDoc, Span: e.SourceSpan})
		}
	}
	sortLocations(out)
	return out
}

// sortLocations gives FindReferences and Hover's backlink list a
// deterministic order: path ascending, then range ascending, the same
// tie-break spec.md §4.5 gives completions (Completions and
// WorkspaceSymbols sort their own results).
func sortLocations(locs []Location) {
	sort.SliceStable(locs, func(i, j int) bool {
		if locs[i].Doc != locs[j].Doc {
			return locs[i].Doc < locs[j].Doc
		}
		return locs[i].Span.ByteStart < locs[j].Span.ByteStart
	})
}
