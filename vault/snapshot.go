// Package vault implements the Vault Graph component of spec.md §4.4: a
// directed multigraph of Documents keyed by canonical path, the global
// auxiliary indexes the Resolver consults, and the incremental
// rebuild/transclusion-acyclicity machinery that keeps both consistent.
//
// Grounded on the teacher's graph.Builder (graph/builder.go): concurrent
// per-unit processing behind a bounded semaphore, gathering results under
// a mutex, then a single aggregation pass — generalized here from
// per-chunk LLM entity extraction to per-document deterministic
// extraction, and from a raw `chan struct{}` semaphore to
// golang.org/x/sync/semaphore.Weighted + errgroup (the concurrency
// primitives theRebelliousNerd-codenerd's ingest pipeline uses instead of
// hand-rolled channels).
package vault

import (
	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/resolve"
)

// edgeKey identifies the target side of an edge for backlink lookups:
// the target document plus the CanonicalForm of the target Referenceable
// (spec.md §3's canonical-form equality is how two independently-derived
// Referenceable values are recognized as "the same" target).
type edgeKey struct {
	doc  string
	form string
}

func keyOf(doc string, target model.Referenceable) edgeKey {
	return edgeKey{doc: doc, form: target.CanonicalForm()}
}

// Snapshot is spec.md §4.4's "Vault Snapshot": a point-in-time,
// read-consistent view composed of the document map, the graph (edges),
// and all derived indexes. A Snapshot is never mutated in place — every
// update produces a new one sharing the untouched parts by reference, so
// in-flight queries holding an old Snapshot keep working unaffected.
type Snapshot struct {
	Documents map[string]*model.Document
	Index     resolve.Index

	// outEdges is every committed edge, keyed by SourceDoc, for
	// incremental per-document removal and rebuild.
	outEdges map[string][]model.Edge

	// inEdges is the same edges keyed by target identity, answering
	// FindReferences in O(incoming degree) per spec.md §4.5.
	inEdges map[edgeKey][]model.Edge

	// rejected holds Transclusion edges that were computed but not
	// committed because they would have closed a cycle (spec.md §4.4's
	// "a newly introduced cycle is not committed"), keyed by SourceDoc.
	// Diagnostics reads this to attach an include-cycle error to the
	// offending directive (spec.md §4.5).
	rejected map[string][]model.Edge
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		Documents: map[string]*model.Document{},
		Index:     resolve.NewIndex(),
		outEdges:  map[string][]model.Edge{},
		inEdges:   map[edgeKey][]model.Edge{},
		rejected:  map[string][]model.Edge{},
	}
}

// Document looks up a document by canonical path.
func (s *Snapshot) Document(path string) (*model.Document, bool) {
	d, ok := s.Documents[path]
	return d, ok
}

// OutgoingEdges returns every edge whose source is doc.
func (s *Snapshot) OutgoingEdges(doc string) []model.Edge {
	return s.outEdges[doc]
}

// IncomingEdges returns every edge targeting target (a Referenceable
// belonging to document doc), for FindReferences/backlinks.
func (s *Snapshot) IncomingEdges(doc string, target model.Referenceable) []model.Edge {
	return s.inEdges[keyOf(doc, target)]
}

// RejectedTransclusions returns every Transclusion edge sourced at doc
// that was computed but rejected for closing a cycle, for Diagnostics
// (spec.md §4.5).
func (s *Snapshot) RejectedTransclusions(doc string) []model.Edge {
	return s.rejected[doc]
}

// clone produces a shallow copy of s: the top-level maps are copied (so
// callers can add/remove entries without mutating s), but Documents not
// being replaced and edge slices not being rebuilt are shared by
// reference with the original, per spec.md §4.4's per-document-confined
// rebuild ("keep the operation confined to D").
func (s *Snapshot) clone() *Snapshot {
	c := &Snapshot{
		Documents: make(map[string]*model.Document, len(s.Documents)),
		outEdges:  make(map[string][]model.Edge, len(s.outEdges)),
		inEdges:   make(map[edgeKey][]model.Edge, len(s.inEdges)),
		rejected:  make(map[string][]model.Edge, len(s.rejected)),
		Index:     s.Index.Clone(),
	}
	for k, v := range s.Documents {
		c.Documents[k] = v
	}
	for k, v := range s.outEdges {
		c.outEdges[k] = v
	}
	for k, v := range s.inEdges {
		c.inEdges[k] = v
	}
	for k, v := range s.rejected {
		c.rejected[k] = v
	}
	return c
}

// addRejected records a computed-but-not-committed Transclusion edge.
func (s *Snapshot) addRejected(e model.Edge) {
	s.rejected[e.SourceDoc] = append(s.rejected[e.SourceDoc], e)
}

// addEdge records e in both the outgoing and incoming indexes.
func (s *Snapshot) addEdge(e model.Edge) {
	s.outEdges[e.SourceDoc] = append(s.outEdges[e.SourceDoc], e)
	k := keyOf(e.TargetDoc, e.Target)
	s.inEdges[k] = append(s.inEdges[k], e)
}

// removeDocEdges strips every edge sourced at doc from both indexes, the
// first step of spec.md §4.4's per-document rebuild ("remove all
// outgoing edges whose source is D").
func (s *Snapshot) removeDocEdges(doc string) {
	removed := s.outEdges[doc]
	delete(s.outEdges, doc)
	delete(s.rejected, doc)
	for _, e := range removed {
		k := keyOf(e.TargetDoc, e.Target)
		s.inEdges[k] = filterEdges(s.inEdges[k], doc)
	}
}

func filterEdges(edges []model.Edge, excludeSource string) []model.Edge {
	out := edges[:0:0]
	for _, e := range edges {
		if e.SourceDoc != excludeSource {
			out = append(out, e)
		}
	}
	return out
}
