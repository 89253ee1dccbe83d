package vault

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/extract"
	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/myst"
	"github.com/moxide-ls/moxide/resolve"
	"github.com/moxide-ls/moxide/rope"
)

// defaultConcurrency mirrors the teacher's graph.defaultConcurrency
// (graph/builder.go), the semaphore width used when the caller doesn't
// specify one.
const defaultConcurrency = 16

// SourceFile is one file discovered during initial vault indexing.
type SourceFile struct {
	// Path is the vault-relative, forward-slash-separated canonical path.
	Path    string
	Content []byte
}

// parsedDoc bundles a document with the AST its edges still need; the
// AST itself is never retained on the Snapshot (model.Document only
// keeps the Rope), so structural-edge extraction must happen before it
// goes out of scope.
type parsedDoc struct {
	doc  *model.Document
	root *myst.Node
}

// extractOptions converts config.Resolved's tag/codeblock knobs into
// extract.Options, the one place the otherwise config-agnostic extract
// package's behavior is threaded from user settings (spec.md §6).
func extractOptions(cfg config.Resolved) extract.Options {
	return extract.Options{
		TagsEnabled:            true,
		TagsInCodeblocks:       cfg.TagsInCodeblocks,
		ReferencesInCodeblocks: cfg.ReferencesInCodeblocks,
	}
}

// Build parses and extracts every file in files concurrently, then
// performs a single-threaded resolve-and-commit pass over the completed
// global index to produce the initial Snapshot (spec.md §4.4, §5's
// "initial indexing may run concurrently per file").
//
// Grounded on the teacher's graph.Builder.Build (graph/builder.go): a
// bounded worker pool processes each unit independently and appends
// results behind a shared index, then a second pass (there: none needed,
// since entities/relationships were stored per-chunk; here: resolution,
// since targets aren't known until every document has been parsed)
// assembles the cross-document structure. Uses errgroup + a weighted
// semaphore in place of the teacher's raw `chan struct{}`.
func Build(ctx context.Context, files []SourceFile, cfg config.Resolved, concurrency int) (*Snapshot, error) {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	parsed := make([]parsedDoc, len(files))
	sem := semaphore.NewWeighted(int64(concurrency))
	g, gctx := errgroup.WithContext(ctx)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			r := rope.New(string(f.Content))
			root := myst.Parse(f.Content)
			ext := extract.Document(f.Path, r, f.Content, root, extractOptions(cfg))
			parsed[i] = parsedDoc{
				doc: &model.Document{
					CanonicalPath: f.Path,
					RelativePath:  f.Path,
					Rope:          r,
					Revision:      1,
					Extraction:    ext,
				},
				root: root,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("vault.Build: %w", err)
	}

	s := newSnapshot()
	for _, p := range parsed {
		s.Documents[p.doc.CanonicalPath] = p.doc
		s.Index.AddDoc(p.doc.CanonicalPath, p.doc.Extraction)
	}

	// Commit edges in a stable (path-sorted) order so acyclicity
	// rejection is deterministic regardless of goroutine scheduling.
	sort.Slice(parsed, func(i, j int) bool {
		return parsed[i].doc.CanonicalPath < parsed[j].doc.CanonicalPath
	})
	for _, p := range parsed {
		commitDocEdges(s, p.doc, p.root, cfg)
	}

	return s, nil
}

// commitDocEdges resolves every Reference extracted from doc plus its
// toctree/include directives, committing each as an Edge unless it's an
// unresolved Reference (no edge, left for Diagnostics) or a Transclusion
// edge that would close a cycle (rejected, also left for Diagnostics).
func commitDocEdges(s *Snapshot, doc *model.Document, root *myst.Node, cfg config.Resolved) {
	for _, ref := range doc.Extraction.References {
		for _, target := range resolve.Resolve(ref, s.Index, cfg) {
			s.addEdge(model.Edge{
				Kind:       model.EdgeReference,
				SourceDoc:  doc.CanonicalPath,
				SourceSpan: ref.Span,
				TargetDoc:  target.Doc,
				Target:     target,
				ResolvedAt: doc.Revision,
			})
		}
	}

	for _, e := range structuralEdges(doc.CanonicalPath, doc.Rope, root, s.Index, cfg.CaseMatching) {
		e.ResolvedAt = doc.Revision
		if e.Kind == model.EdgeTransclusion && wouldCycle(s.outEdges, e.SourceDoc, e.TargetDoc) {
			s.addRejected(e)
			continue
		}
		s.addEdge(e)
	}
}
