package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/model"
)

// TestBuildRejectsTransclusionCycle exercises spec.md §8's "Acyclicity of
// transclusion" testable property at initial-index time: a.md includes
// b.md, and b.md includes a.md back. Edges commit in path-sorted order
// (build.go), so a.md's include of b.md lands first; b.md's include of
// a.md would close the cycle and must be rejected rather than committed.
func TestBuildRejectsTransclusionCycle(t *testing.T) {
	files := []SourceFile{
		{Path: "a.md", Content: []byte("```{include} b.md\n```\n")},
		{Path: "b.md", Content: []byte("```{include} a.md\n```\n")},
	}
	snap, err := Build(context.Background(), files, config.Defaults(), 2)
	require.NoError(t, err)

	require.Len(t, snap.OutgoingEdges("a.md"), 1)
	assert.Equal(t, model.EdgeTransclusion, snap.OutgoingEdges("a.md")[0].Kind)
	assert.Equal(t, "b.md", snap.OutgoingEdges("a.md")[0].TargetDoc)

	assert.Empty(t, snap.OutgoingEdges("b.md"))
	rejected := snap.RejectedTransclusions("b.md")
	require.Len(t, rejected, 1)
	assert.Equal(t, model.EdgeTransclusion, rejected[0].Kind)
	assert.Equal(t, "a.md", rejected[0].TargetDoc)
}

// TestUpdateDocumentRejectsTransclusionCycle exercises the same property
// across an incremental update (spec.md §4.4): the vault starts acyclic
// (only a.md includes b.md), then b.md is edited to include a.md back,
// which UpdateDocument must reject rather than commit.
func TestUpdateDocumentRejectsTransclusionCycle(t *testing.T) {
	files := []SourceFile{
		{Path: "a.md", Content: []byte("```{include} b.md\n```\n")},
		{Path: "b.md", Content: []byte("# B\n")},
	}
	snap, err := Build(context.Background(), files, config.Defaults(), 2)
	require.NoError(t, err)
	require.Len(t, snap.OutgoingEdges("a.md"), 1)
	assert.Empty(t, snap.RejectedTransclusions("b.md"))

	updated := UpdateDocument(snap, "b.md", []byte("```{include} a.md\n```\n"), 2, false, config.Defaults())

	assert.Empty(t, updated.OutgoingEdges("b.md"))
	rejected := updated.RejectedTransclusions("b.md")
	require.Len(t, rejected, 1)
	assert.Equal(t, "a.md", rejected[0].TargetDoc)

	// The original snapshot is untouched (spec.md §4.4: snapshots are
	// never mutated in place).
	assert.Empty(t, snap.RejectedTransclusions("b.md"))
}
