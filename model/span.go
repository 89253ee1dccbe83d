// Package model defines the cross-component data model of spec.md §3:
// Document, Reference, Referenceable, Frontmatter, Graph Edge, and Vault
// Snapshot. Grounded on the teacher's flat, tagged-struct row types
// (store.Document, store.Chunk, store.Entity in bbiangul-go-reason/store)
// rather than one Go interface per variant, matching spec.md §9's "model
// as two interfaces over a closed set of variants... tagged variants with
// exhaustive dispatch".
package model

import "github.com/moxide-ls/moxide/rope"

// Span locates a construct in both byte-offset and editor-position
// coordinates, satisfying spec.md §3's "byte range and line/column range"
// requirement on every Reference and Referenceable.
type Span struct {
	ByteStart int
	ByteEnd   int
	Start     rope.Position
	End       rope.Position
}

// Empty reports whether the span carries no extent (zero value).
func (s Span) Empty() bool {
	return s.ByteStart == 0 && s.ByteEnd == 0
}

// SpanFromOffsets builds a Span by converting byte offsets through r.
func SpanFromOffsets(r *rope.Rope, start, end int) Span {
	return Span{
		ByteStart: start,
		ByteEnd:   end,
		Start:     r.OffsetToPosition(start),
		End:       r.OffsetToPosition(end),
	}
}

// Contains reports whether the byte offset off falls within [Start, End).
func (s Span) Contains(off int) bool {
	return off >= s.ByteStart && off < s.ByteEnd
}

// ContainsPosition reports whether pos falls within [Start, End) using
// line/column comparison (so it works even against a stale Span whose
// byte offsets no longer match a newer document revision).
func (s Span) ContainsPosition(pos rope.Position) bool {
	if pos.Line < s.Start.Line || pos.Line > s.End.Line {
		return false
	}
	if pos.Line == s.Start.Line && pos.Character < s.Start.Character {
		return false
	}
	if pos.Line == s.End.Line && pos.Character >= s.End.Character {
		return false
	}
	return true
}
