package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/rope"
	"github.com/moxide-ls/moxide/vault"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func buildSnapshot(t *testing.T, files map[string]string) *vault.Snapshot {
	t.Helper()
	var srcs []vault.SourceFile
	for path, content := range files {
		srcs = append(srcs, vault.SourceFile{Path: path, Content: []byte(content)})
	}
	snap, err := vault.Build(context.Background(), srcs, config.Defaults(), 4)
	require.NoError(t, err)
	return snap
}

func pos(line, char int) rope.Position {
	return rope.Position{Line: line, Character: char}
}

func TestCursorAtAndGoToDefinition(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"a.md": "# Intro\n\nSee {ref}`setup`.\n",
		"b.md": "(setup)=\n# Setup\n\nBody text.\n",
	})

	// cursor inside `{ref}`setup`` on line 2.
	locs := GoToDefinition(snap, "a.md", pos(2, 14), config.Defaults())
	require.Len(t, locs, 1)
	require.Equal(t, "b.md", locs[0].Doc)
}

func TestFindReferences(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"a.md": "See {ref}`setup`.\n",
		"b.md": "See also {ref}`setup`.\n",
		"c.md": "(setup)=\n# Setup\n",
	})

	refs := FindReferences(snap, "c.md", pos(0, 2), config.Defaults())
	require.Len(t, refs, 2)
	require.Equal(t, "a.md", refs[0].Doc)
	require.Equal(t, "b.md", refs[1].Doc)
}

func TestHoverAtShowsExcerptAndBacklinks(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"a.md": "See {ref}`setup`.\n",
		"b.md": "(setup)=\n# Setup\n\nFirst line of the body.\n",
	})

	h := HoverAt(snap, "a.md", pos(0, 10), config.Defaults())
	require.NotNil(t, h)
	require.Contains(t, h.Excerpt, "Setup")
	require.Len(t, h.Backlinks, 1)
	require.Equal(t, "a.md", h.Backlinks[0].Doc)
}

func TestDiagnosticsFlagsUnresolvedReference(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"a.md": "See {ref}`missing`.\n",
	})

	diags := Diagnostics(snap, "a.md", config.Defaults())
	require.Len(t, diags, 1)
	require.Equal(t, SeverityWarning, diags[0].Severity)
	require.Contains(t, diags[0].Message, "missing")
}

func TestDiagnosticsFlagsUndefinedSubstitution(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"a.md": "---\nsubstitutions:\n  known: value\n---\n\nHas {{known}} and {{unknown}}.\n",
	})

	diags := Diagnostics(snap, "a.md", config.Defaults())
	var messages []string
	for _, d := range diags {
		messages = append(messages, d.Message)
	}
	require.Contains(t, messages, `undefined substitution "unknown"`)
}

func TestRenamePropagatesToIncomingReferences(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"a.md": "See {ref}`setup`.\n",
		"b.md": "(setup)=\n# Setup\n",
	})

	plan, err := Rename(snap, "b.md", pos(0, 2), "install", config.Defaults())
	require.NoError(t, err)
	require.NotNil(t, plan)

	require.NotEmpty(t, plan["b.md"])
	require.Equal(t, "(install)=", plan["b.md"][0].NewText)

	require.NotEmpty(t, plan["a.md"])
	require.Contains(t, plan["a.md"][0].NewText, "install")
}

func TestRenameRejectsInvalidAnchorName(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"b.md": "(setup)=\n# Setup\n",
	})

	_, err := Rename(snap, "b.md", pos(0, 2), "has spaces", config.Defaults())
	require.Error(t, err)
}

func TestCompletionsRanksDirectiveNames(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"a.md": "```{fig\n",
	})
	items := Completions(snap, "a.md", pos(0, 7), config.Defaults())
	require.NotEmpty(t, items)
	require.Equal(t, "figure", items[0].Label)
}

func TestWorkspaceSymbolsFuzzyMatch(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"a.md": "# Installation Guide\n",
		"b.md": "# Troubleshooting\n",
	})
	syms := WorkspaceSymbols(snap, "inst")
	require.NotEmpty(t, syms)
	require.Equal(t, "Installation Guide", syms[0].Name)
}

func TestCodeActionsOffersCreateMissingFile(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"a.md": "[broken](missing.md)\n",
	})
	diags := Diagnostics(snap, "a.md", config.Defaults())
	actions := CodeActions(snap, "a.md", diags, config.Defaults())
	require.Len(t, actions, 1)
	require.Equal(t, CreateMissingFile, actions[0].Kind)
	require.Equal(t, "missing.md", actions[0].NewFilePath)
}

func TestCodeActionsHonorsNewFileFolderPath(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"a.md": "[broken](missing.md)\n",
	})
	diags := Diagnostics(snap, "a.md", config.Defaults())
	cfg := config.Defaults()
	cfg.NewFileFolderPath = "notes"
	actions := CodeActions(snap, "a.md", diags, cfg)
	require.Len(t, actions, 1)
	require.Equal(t, "notes/missing.md", actions[0].NewFilePath)
}
