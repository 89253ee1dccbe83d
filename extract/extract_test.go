package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/myst"
	"github.com/moxide-ls/moxide/rope"
)

func run(t *testing.T, src string, opts Options) model.Extraction {
	t.Helper()
	source := []byte(src)
	r := rope.New(src)
	root := myst.Parse(source)
	return Document("a.md", r, source, root, opts)
}

func findReferenceable(ext model.Extraction, kind model.ReferenceableKind) (model.Referenceable, bool) {
	for _, ref := range ext.Referenceables {
		if ref.Kind == kind {
			return ref, true
		}
	}
	return model.Referenceable{}, false
}

func TestExtractHeadingSlug(t *testing.T) {
	ext := run(t, "# Getting Started!\n", DefaultOptions())
	h, ok := findReferenceable(ext, model.Heading)
	require.True(t, ok)
	assert.Equal(t, "Getting Started!", h.Text)
	assert.Equal(t, "getting-started", h.Slug)
	assert.Equal(t, 1, h.Level)
}

func TestSlugifyIdempotent(t *testing.T) {
	once := Slugify("Café Déjà Vu!!")
	twice := Slugify(once)
	assert.Equal(t, once, twice)
}

func TestExtractAnchorAttachesFollowingHeading(t *testing.T) {
	ext := run(t, "(install)=\n# Installation\n", DefaultOptions())
	a, ok := findReferenceable(ext, model.MystAnchor)
	require.True(t, ok)
	assert.Equal(t, "install", a.Name)
	assert.Equal(t, "installation", a.AttachedHeading)
}

func TestExtractDirectiveLabelVariants(t *testing.T) {
	ext := run(t, "```{math}\n:label: eq-one\nx = y\n```\n", DefaultOptions())
	m, ok := findReferenceable(ext, model.LabeledMath)
	require.True(t, ok)
	assert.Equal(t, "eq-one", m.Label)

	ext = run(t, "```{figure} diagram.png\n:name: fig-diagram\n\ncaption\n```\n", DefaultOptions())
	f, ok := findReferenceable(ext, model.LabeledFigure)
	require.True(t, ok)
	assert.Equal(t, "fig-diagram", f.Name)
}

func TestExtractGlossaryTerms(t *testing.T) {
	src := "```{glossary}\nMyST\n    Markedly Structured Text.\n\nLSP\n    Language Server Protocol.\n```\n"
	ext := run(t, src, DefaultOptions())
	var terms []string
	for _, r := range ext.Referenceables {
		if r.Kind == model.GlossaryTerm {
			terms = append(terms, r.Term)
		}
	}
	assert.ElementsMatch(t, []string{"MyST", "LSP"}, terms)
}

func TestExtractRoleReference(t *testing.T) {
	ext := run(t, "See {ref}`install`.\n", DefaultOptions())
	require.Len(t, ext.References, 1)
	assert.Equal(t, model.MystRoleRef, ext.References[0].Kind)
	assert.Equal(t, "install", ext.References[0].RawTarget)
}

func TestExtractMarkdownLinkVariants(t *testing.T) {
	ext := run(t, "[guide](setup.md#installation)\n", DefaultOptions())
	require.Len(t, ext.References, 1)
	assert.Equal(t, model.MarkdownHeadingLink, ext.References[0].Kind)
	assert.Equal(t, "setup.md", ext.References[0].RawTarget)
	assert.Equal(t, "installation", ext.References[0].Heading)

	ext = run(t, "[block](notes.md#^abc123)\n", DefaultOptions())
	require.Len(t, ext.References, 1)
	assert.Equal(t, model.MarkdownBlockLink, ext.References[0].Kind)
	assert.Equal(t, "abc123", ext.References[0].BlockID)
}

func TestExtractTagSuppressedInCode(t *testing.T) {
	ext := run(t, "Use #project-x here.\n\n```\n#not-a-tag\n```\n", DefaultOptions())
	var tags []string
	for _, r := range ext.References {
		if r.Kind == model.Tag {
			tags = append(tags, r.RawTarget)
		}
	}
	assert.Equal(t, []string{"project-x"}, tags)
}

func TestExtractTagRequiresPrecedingWhitespace(t *testing.T) {
	ext := run(t, "a#notag #realtag\n", DefaultOptions())
	var tags []string
	for _, r := range ext.References {
		if r.Kind == model.Tag {
			tags = append(tags, r.RawTarget)
		}
	}
	assert.Equal(t, []string{"realtag"}, tags)
}

func TestExtractSuppressesReferencesInCommentLines(t *testing.T) {
	src := "% See {ref}`hidden` and #hidden-tag and [x](hidden.md).\nSee {ref}`visible`.\n"
	ext := run(t, src, DefaultOptions())
	require.Len(t, ext.References, 1)
	assert.Equal(t, "visible", ext.References[0].RawTarget)
}

func TestExtractFrontmatter(t *testing.T) {
	src := "---\ntitle: Hello\ntags:\n  - a\n  - b\n---\n\n# Body\n"
	ext := run(t, src, DefaultOptions())
	assert.Equal(t, "Hello", ext.Frontmatter.Title)
	assert.ElementsMatch(t, []string{"a", "b"}, ext.Frontmatter.Tags)
}

func TestExtractLiteralContentSuppressesCodeIsolation(t *testing.T) {
	src := "```{code-block} python\nx = {ref}`hidden` #alsohidden\n```\n"
	ext := run(t, src, DefaultOptions())
	assert.Empty(t, ext.References)
}

func TestExtractIndexedBlock(t *testing.T) {
	ext := run(t, "An important claim. ^claim-1\n", DefaultOptions())
	b, ok := findReferenceable(ext, model.IndexedBlock)
	require.True(t, ok)
	assert.Equal(t, "claim-1", b.BlockID)
}

func TestExtractFootnote(t *testing.T) {
	ext := run(t, "See it here.[^note].\n\n[^note]: An explanation.\n", DefaultOptions())
	var gotRef, gotDef bool
	for _, r := range ext.References {
		if r.Kind == model.Footnote && r.RawTarget == "note" {
			gotRef = true
		}
	}
	for _, r := range ext.Referenceables {
		if r.Kind == model.FootnoteDef && r.FootnoteID == "note" {
			gotDef = true
		}
	}
	assert.True(t, gotRef)
	assert.True(t, gotDef)
}

func TestExtractLinkReferenceDef(t *testing.T) {
	src := "See [install].\n\n[install]: setup.md\n"
	ext := run(t, src, DefaultOptions())
	def, ok := findReferenceable(ext, model.LinkReferenceDef)
	require.True(t, ok)
	assert.Equal(t, "install", def.RefLabel)

	// goldmark resolves "[install]" against the definition itself,
	// producing an AST Link (MarkdownFileLink) rather than leaving it for
	// raw-text LinkRefShortcut discovery; see collectLinkRefShortcuts.
	require.Len(t, ext.References, 1)
	assert.Equal(t, model.MarkdownFileLink, ext.References[0].Kind)
	assert.Equal(t, "setup.md", ext.References[0].RawTarget)
}

func TestExtractUnresolvedLinkRefShortcut(t *testing.T) {
	ext := run(t, "See [ghost] here.\n", DefaultOptions())
	var shortcuts []string
	for _, r := range ext.References {
		if r.Kind == model.LinkRefShortcut {
			shortcuts = append(shortcuts, r.RawTarget)
		}
	}
	assert.Equal(t, []string{"ghost"}, shortcuts)
}
