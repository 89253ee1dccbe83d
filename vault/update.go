package vault

import (
	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/extract"
	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/myst"
	"github.com/moxide-ls/moxide/rope"
)

// UpdateDocument implements spec.md §4.4's per-document rebuild: remove
// every outgoing edge and index entry belonging to path, re-run the
// Extractor and Resolver over the new content, and reinsert. The
// operation stays confined to path — edges other documents hold
// targeting path are left as-is; if path's Referenceables changed shape,
// those edges simply resolve against stale targets until the next time
// they're queried, at which point the caller re-resolves them against
// the current Snapshot (spec.md §4.4: "re-resolved lazily ... cached
// with a nonce", the nonce being the Snapshot/revision the caller
// queried with).
//
// open marks whether the document is currently open in the editor
// (spec.md §4.6 tracks this on the Session, not here; the caller passes
// its current view of it through so model.Document stays in sync).
//
// prev is untouched; the returned Snapshot is a new value sharing every
// unaffected document and edge list by reference with prev.
func UpdateDocument(prev *Snapshot, path string, content []byte, revision uint64, open bool, cfg config.Resolved) *Snapshot {
	s := prev.clone()

	s.removeDocEdges(path)
	s.Index.RemoveDoc(path)

	r := rope.New(string(content))
	root := myst.Parse(content)
	ext := extract.Document(path, r, content, root, extractOptions(cfg))

	doc := &model.Document{
		CanonicalPath: path,
		RelativePath:  path,
		Rope:          r,
		Revision:      revision,
		Open:          open,
		Extraction:    ext,
	}
	s.Documents[path] = doc
	s.Index.AddDoc(path, ext)
	commitDocEdges(s, doc, root, cfg)

	return s
}

// DeleteDocument removes path from the vault entirely: its document
// entry, its outgoing edges, and every index entry it defined. Edges
// other documents hold pointing at path are left in place per the same
// lazy-re-resolution rule UpdateDocument documents.
func DeleteDocument(prev *Snapshot, path string) *Snapshot {
	s := prev.clone()
	delete(s.Documents, path)
	s.removeDocEdges(path)
	s.Index.RemoveDoc(path)
	return s
}
