package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/model"
)

func buildIndex() Index {
	idx := NewIndex()
	idx.ByDoc["setup.md"] = []model.Referenceable{
		{Kind: model.Heading, Doc: "setup.md", Slug: "installation", Text: "Installation", Level: 1, Span: model.Span{ByteStart: 0, ByteEnd: 10}},
		{Kind: model.IndexedBlock, Doc: "setup.md", BlockID: "claim-1", Span: model.Span{ByteStart: 20, ByteEnd: 30}},
		{Kind: model.FootnoteDef, Doc: "setup.md", FootnoteID: "note", Span: model.Span{ByteStart: 40, ByteEnd: 50}},
		{Kind: model.LinkReferenceDef, Doc: "setup.md", RefLabel: "install", Span: model.Span{ByteStart: 60, ByteEnd: 70}},
	}
	idx.FilesByStem["setup"] = []string{"setup.md"}
	idx.Anchors["install"] = []model.Referenceable{{Kind: model.MystAnchor, Doc: "setup.md", Name: "install"}}
	idx.Slugs["installation"] = idx.ByDoc["setup.md"][:1]
	idx.Glossary["MyST"] = []model.Referenceable{{Kind: model.GlossaryTerm, Doc: "glossary.md", Term: "MyST"}}
	idx.AllTagRefs = []model.Reference{
		{Kind: model.Tag, SourceDoc: "a.md", RawTarget: "project/frontend"},
		{Kind: model.Tag, SourceDoc: "b.md", RawTarget: "project"},
	}
	return idx
}

func TestResolveMarkdownFileLink(t *testing.T) {
	idx := buildIndex()
	ref := model.Reference{Kind: model.MarkdownFileLink, SourceDoc: "q.md", RawTarget: "setup.md"}
	cands := Resolve(ref, idx, config.Defaults())
	assert.Len(t, cands, 1)
	assert.Equal(t, "setup.md", cands[0].Doc)
}

func TestResolveMarkdownFileLinkByStem(t *testing.T) {
	idx := buildIndex()
	ref := model.Reference{Kind: model.MarkdownFileLink, SourceDoc: "sub/q.md", RawTarget: "setup"}
	cands := Resolve(ref, idx, config.Defaults())
	assert.Len(t, cands, 1)
	assert.Equal(t, "setup.md", cands[0].Doc)
}

func TestResolveMarkdownHeadingLink(t *testing.T) {
	idx := buildIndex()
	ref := model.Reference{Kind: model.MarkdownHeadingLink, SourceDoc: "q.md", RawTarget: "setup.md", Heading: "Installation"}
	cands := Resolve(ref, idx, config.Defaults())
	assert.Len(t, cands, 1)
	assert.Equal(t, model.Heading, cands[0].Kind)
}

func TestResolveMarkdownBlockLink(t *testing.T) {
	idx := buildIndex()
	ref := model.Reference{Kind: model.MarkdownBlockLink, SourceDoc: "q.md", RawTarget: "setup.md", BlockID: "claim-1"}
	cands := Resolve(ref, idx, config.Defaults())
	assert.Len(t, cands, 1)
	assert.Equal(t, model.IndexedBlock, cands[0].Kind)
}

func TestResolveMystRoleRefAnchorFirst(t *testing.T) {
	idx := buildIndex()
	ref := model.Reference{Kind: model.MystRoleRef, SourceDoc: "q.md", RawTarget: "install"}
	cands := Resolve(ref, idx, config.Defaults())
	assert.Len(t, cands, 1)
	assert.Equal(t, model.MystAnchor, cands[0].Kind)
}

func TestResolveMystRoleRefFallsBackToSlug(t *testing.T) {
	idx := buildIndex()
	ref := model.Reference{Kind: model.MystRoleRef, SourceDoc: "q.md", RawTarget: "installation"}
	cands := Resolve(ref, idx, config.Defaults())
	assert.Len(t, cands, 1)
	assert.Equal(t, model.Heading, cands[0].Kind)
}

func TestResolveFootnoteScopedToSourceDoc(t *testing.T) {
	idx := buildIndex()
	ref := model.Reference{Kind: model.Footnote, SourceDoc: "setup.md", RawTarget: "note"}
	cands := Resolve(ref, idx, config.Defaults())
	assert.Len(t, cands, 1)
	assert.Equal(t, model.FootnoteDef, cands[0].Kind)

	// Same label, wrong source document: out of scope.
	ref.SourceDoc = "other.md"
	cands = Resolve(ref, idx, config.Defaults())
	assert.Empty(t, cands)
}

func TestResolveTagNesting(t *testing.T) {
	idx := buildIndex()
	ref := model.Reference{Kind: model.Tag, SourceDoc: "q.md", RawTarget: "project"}
	cands := Resolve(ref, idx, config.Defaults())
	assert.Len(t, cands, 2) // matches "project" and "project/frontend"
}

func TestResolveUnknownTargetEmpty(t *testing.T) {
	idx := buildIndex()
	ref := model.Reference{Kind: model.MarkdownFileLink, SourceDoc: "q.md", RawTarget: "ghost.md"}
	assert.Empty(t, Resolve(ref, idx, config.Defaults()))
}
