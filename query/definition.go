package query

import (
	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/resolve"
	"github.com/moxide-ls/moxide/rope"
	"github.com/moxide-ls/moxide/vault"
)

// GoToDefinition implements spec.md §4.5: resolve the Reference at
// position and map each candidate Referenceable to a Location. If
// position is already on a Referenceable, it returns itself.
func GoToDefinition(snap *vault.Snapshot, doc string, pos rope.Position, cfg config.Resolved) []Location {
	t := CursorAt(snap, doc, pos)
	switch t.Kind {
	case TargetReferenceable:
		return []Location{{Doc: t.Referenceable.Doc, Span: t.Referenceable.Span}}
	case TargetReference:
		candidates := resolve.Resolve(*t.Reference, snap.Index, cfg)
		out := make([]Location, 0, len(candidates))
		for _, c := range candidates {
			out = append(out, Location{Doc: c.Doc, Span: c.Span})
		}
		return out
	default:
		return nil
	}
}
