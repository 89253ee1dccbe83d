package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/query"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeVault(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func TestInitialIndexTransitionsToReady(t *testing.T) {
	root := writeVault(t, map[string]string{
		"a.md": "# Hello\n\nSee {ref}`b-doc`.\n",
		"b.md": "(b-doc)=\n# World\n",
	})

	s := New(root, config.Defaults(), 2)
	require.Equal(t, Uninitialized, s.State())

	require.NoError(t, s.InitialIndex(context.Background()))
	require.Equal(t, Ready, s.State())

	snap, err := s.Snapshot()
	require.NoError(t, err)
	_, ok := snap.Document("a.md")
	require.True(t, ok)
}

func TestSnapshotBeforeIndexIsNotIndexed(t *testing.T) {
	root := writeVault(t, map[string]string{"a.md": "# Hello\n"})
	s := New(root, config.Defaults(), 2)
	_, err := s.Snapshot()
	require.Error(t, err)
}

func TestDidChangePublishesNewSnapshot(t *testing.T) {
	root := writeVault(t, map[string]string{"a.md": "# Hello\n"})
	s := New(root, config.Defaults(), 2)
	require.NoError(t, s.InitialIndex(context.Background()))

	revBefore := s.Revision()
	require.NoError(t, s.DidOpen("a.md", []byte("# Hello\n\nSee [missing](missing.md).\n")))
	require.Greater(t, s.Revision(), revBefore)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	diags := query.Diagnostics(snap, "a.md", config.Defaults())
	require.Len(t, diags, 1)
}

func TestDidChangeWatchedFileSkipsOpenDocuments(t *testing.T) {
	root := writeVault(t, map[string]string{"a.md": "# Hello\n"})
	s := New(root, config.Defaults(), 2)
	require.NoError(t, s.InitialIndex(context.Background()))
	require.NoError(t, s.DidOpen("a.md", []byte("# Hello\n\nOpened content.\n")))

	require.NoError(t, s.DidChangeWatchedFile("a.md", false))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	doc, ok := snap.Document("a.md")
	require.True(t, ok)
	require.Contains(t, doc.Rope.Text(), "Opened content")
}

func TestDidChangeWatchedFileDeletesDocument(t *testing.T) {
	root := writeVault(t, map[string]string{
		"a.md": "(x)=\n# X\n",
	})
	s := New(root, config.Defaults(), 2)
	require.NoError(t, s.InitialIndex(context.Background()))

	require.NoError(t, s.DidChangeWatchedFile("a.md", true))
	snap, err := s.Snapshot()
	require.NoError(t, err)
	_, ok := snap.Document("a.md")
	require.False(t, ok)
}

func TestReindexReturnsToReady(t *testing.T) {
	root := writeVault(t, map[string]string{"a.md": "# Hello\n"})
	s := New(root, config.Defaults(), 2)
	require.NoError(t, s.InitialIndex(context.Background()))
	require.NoError(t, s.Reindex(context.Background()))
	require.Equal(t, Ready, s.State())
}
