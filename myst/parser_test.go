package myst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFirst(root *Node, kind Kind) *Node {
	var found *Node
	Walk(root, func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Kind == kind {
			found = n
			return false
		}
		return true
	})
	return found
}

func TestParseHeading(t *testing.T) {
	doc := Parse([]byte("# Installation\n\nSome text.\n"))
	h := findFirst(doc, KindHeading)
	require.NotNil(t, h)
	assert.Equal(t, 1, h.Level)
}

func TestParseAnchorMarker(t *testing.T) {
	doc := Parse([]byte("(install)=\n# Installation\n"))
	a := findFirst(doc, KindAnchor)
	require.NotNil(t, a)
	assert.Equal(t, "install", a.AnchorName)
}

func TestParseBacktickDirective(t *testing.T) {
	src := []byte("```{figure} diagram.png\n:name: fig-diagram\n\nA caption.\n```\n")
	doc := Parse(src)
	d := findFirst(doc, KindDirective)
	require.NotNil(t, d)
	assert.Equal(t, "figure", d.DirectiveName)
	assert.Equal(t, "diagram.png", d.DirectiveArgs)
	v, ok := d.OptionValue("name")
	require.True(t, ok)
	assert.Equal(t, "fig-diagram", v)
}

func TestParseColonFenceDirective(t *testing.T) {
	src := []byte(":::{note}\nHello *there*.\n:::\n")
	doc := Parse(src)
	d := findFirst(doc, KindDirective)
	require.NotNil(t, d)
	assert.Equal(t, "note", d.DirectiveName)
	assert.Equal(t, FenceColon, d.FenceKind)
	// Body is recursively parsed: emphasis should be reachable as a child.
	em := findFirst(d, KindEmphasis)
	assert.NotNil(t, em)
}

func TestLiteralContentNotRecursed(t *testing.T) {
	src := []byte("```{code-block} python\nx = {ref}`hidden`\n```\n")
	doc := Parse(src)
	d := findFirst(doc, KindDirective)
	require.NotNil(t, d)
	assert.Equal(t, "code-block", d.DirectiveName)
	role := findFirst(d, KindRole)
	assert.Nil(t, role, "literal-content directive body must not be parsed for roles")
}

func TestInlineRole(t *testing.T) {
	doc := Parse([]byte("See {ref}`install`.\n"))
	r := findFirst(doc, KindRole)
	require.NotNil(t, r)
	assert.Equal(t, "ref", r.RoleName)
	assert.Equal(t, "install", r.RoleTarget)
}

func TestInlineRoleWithDisplay(t *testing.T) {
	doc := Parse([]byte("See {ref}`the guide <install>`.\n"))
	r := findFirst(doc, KindRole)
	require.NotNil(t, r)
	assert.Equal(t, "install", r.RoleTarget)
	assert.Equal(t, "the guide", r.RoleDisplay)
}

func TestFootnoteLabelMatchesDefinition(t *testing.T) {
	doc := Parse([]byte("See it here.[^note].\n\n[^note]: An explanation.\n"))
	ref := findFirst(doc, KindFootnoteRef)
	require.NotNil(t, ref)
	def := findFirst(doc, KindFootnoteDef)
	require.NotNil(t, def)
	assert.Equal(t, def.FootnoteLabel, ref.FootnoteLabel)
	assert.Equal(t, "note", ref.FootnoteLabel)
}

func TestNestedDirectiveFenceLength(t *testing.T) {
	src := []byte("`````{admonition} Outer\n```{note}\ninner\n```\n`````\n")
	doc := Parse(src)
	outer := findFirst(doc, KindDirective)
	require.NotNil(t, outer)
	assert.Equal(t, "admonition", outer.DirectiveName)
	inner := findFirst(outer, KindDirective)
	require.NotNil(t, inner)
	assert.Equal(t, "note", inner.DirectiveName)
}
