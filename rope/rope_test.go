package rope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionRoundTrip(t *testing.T) {
	r := New("line one\nline two\nline three")

	pos := r.OffsetToPosition(14) // inside "line two"
	assert.Equal(t, Position{Line: 1, Character: 5}, pos)

	offset, ok := r.PositionToOffset(pos)
	require.True(t, ok)
	assert.Equal(t, 14, offset)
}

func TestLine(t *testing.T) {
	r := New("alpha\nbeta\ngamma")
	s, ok := r.Line(1)
	require.True(t, ok)
	assert.Equal(t, "beta", s)

	_, ok = r.Line(5)
	assert.False(t, ok)
}

func TestPatchImmutable(t *testing.T) {
	r := New("hello world")
	r2 := r.Patch(6, 11, "there")

	assert.Equal(t, "hello world", r.Text(), "original rope must be unmodified")
	assert.Equal(t, "hello there", r2.Text())
}

func TestPatchRangeAcrossLines(t *testing.T) {
	r := New("one\ntwo\nthree")
	r2 := r.PatchRange(Position{Line: 1, Character: 0}, Position{Line: 2, Character: 0}, "TWO\n")
	assert.Equal(t, "one\nTWO\nthree", r2.Text())
}

func TestUTF16Column(t *testing.T) {
	r := New("a\U0001F600b") // emoji is a surrogate pair in UTF-16
	pos := r.OffsetToPosition(len("a\U0001F600"))
	assert.Equal(t, 3, pos.Character) // 'a' (1) + surrogate pair (2)
}
