package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moxide-ls/moxide/rope"
)

func TestSpanFromOffsetsRoundTrip(t *testing.T) {
	r := rope.New("# Title\n\nSome text.\n")
	s := SpanFromOffsets(r, 0, 7)
	assert.Equal(t, 0, s.ByteStart)
	assert.Equal(t, 7, s.ByteEnd)
	assert.Equal(t, rope.Position{Line: 0, Character: 0}, s.Start)
	assert.Equal(t, rope.Position{Line: 0, Character: 7}, s.End)
}

func TestSpanContains(t *testing.T) {
	r := rope.New("abcdef\n")
	s := SpanFromOffsets(r, 2, 4)
	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(4))
	assert.False(t, s.Contains(1))
}

func TestReferenceableCanonicalForm(t *testing.T) {
	h := Referenceable{Kind: Heading, Slug: "installation"}
	assert.Equal(t, "installation", h.CanonicalForm())

	a := Referenceable{Kind: MystAnchor, Name: "install"}
	assert.Equal(t, "install", a.CanonicalForm())

	f := Referenceable{Kind: File}
	assert.Equal(t, "", f.CanonicalForm())
}

func TestReferenceKindString(t *testing.T) {
	assert.Equal(t, "MystRoleRef", MystRoleRef.String())
	assert.Equal(t, "Tag", Tag.String())
}
