// Package rope implements the per-document text buffer described in
// spec.md §4 (Rope Store): an immutable-snapshot buffer supporting byte
// offset <-> (line, column) conversion and efficient incremental
// patching. Every mutation returns a new Rope; the previous value is left
// untouched so concurrent readers never observe a torn edit (spec.md §5).
//
// There is no ecosystem rope library in the reference pack (DESIGN.md);
// this is original code built on the standard library.
package rope

import (
	"strings"
)

// Position is a zero-based (line, column) pair. Column counts UTF-16 code
// units, matching the LSP wire format, even though offsets and Range below
// are tracked in bytes internally for simplicity of the byte-range
// invariants in spec.md §3.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open [Start, End) span expressed as byte offsets into a
// specific Rope's Text().
type Range struct {
	Start int
	End   int
}

// Rope is an immutable snapshot of one document's text. Construct a new
// one with New or Patch; there is no in-place mutation.
type Rope struct {
	text       string
	lineStarts []int // byte offset of the first byte of each line
}

// New builds a Rope from raw text.
func New(text string) *Rope {
	return &Rope{
		text:       text,
		lineStarts: computeLineStarts(text),
	}
}

func computeLineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Text returns the full document text.
func (r *Rope) Text() string {
	return r.text
}

// Len returns the byte length of the document.
func (r *Rope) Len() int {
	return len(r.text)
}

// LineCount returns the number of lines. A trailing newline starts one
// more, empty line: "a\n" has two lines.
func (r *Rope) LineCount() int {
	return len(r.lineStarts)
}

// Line returns the text of a single line (without its trailing newline),
// or "" with ok=false if line is out of range.
func (r *Rope) Line(line int) (string, bool) {
	if line < 0 || line >= len(r.lineStarts) {
		return "", false
	}
	start := r.lineStarts[line]
	end := len(r.text)
	if line+1 < len(r.lineStarts) {
		end = r.lineStarts[line+1]
	}
	s := r.text[start:end]
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, true
}

// Slice returns the text in [start, end), clamped to the document bounds.
func (r *Rope) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(r.text) {
		end = len(r.text)
	}
	if start >= end {
		return ""
	}
	return r.text[start:end]
}

// OffsetToPosition converts a byte offset to a (line, column) position.
// Column is measured in UTF-16 code units over the bytes preceding offset
// on its line, matching the LSP wire encoding.
func (r *Rope) OffsetToPosition(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(r.text) {
		offset = len(r.text)
	}
	line := r.lineForOffset(offset)
	lineStart := r.lineStarts[line]
	col := utf16Len(r.text[lineStart:offset])
	return Position{Line: line, Character: col}
}

func (r *Rope) lineForOffset(offset int) int {
	lo, hi := 0, len(r.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if r.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// PositionToOffset converts a (line, column) position back to a byte
// offset. Returns ok=false if line is out of range; an out-of-range
// column is clamped to the end of the line.
func (r *Rope) PositionToOffset(pos Position) (int, bool) {
	if pos.Line < 0 || pos.Line >= len(r.lineStarts) {
		return 0, false
	}
	lineText, _ := r.Line(pos.Line)
	offset := r.lineStarts[pos.Line] + utf16Offset(lineText, pos.Character)
	return offset, true
}

// Patch replaces the byte range [start, end) with newText and returns a
// new Rope reflecting the edit. The receiver is left unmodified.
func (r *Rope) Patch(start, end int, newText string) *Rope {
	if start < 0 {
		start = 0
	}
	if end > len(r.text) {
		end = len(r.text)
	}
	if start > end {
		start = end
	}
	var b strings.Builder
	b.Grow(len(r.text) - (end - start) + len(newText))
	b.WriteString(r.text[:start])
	b.WriteString(newText)
	b.WriteString(r.text[end:])
	return New(b.String())
}

// PatchRange applies an LSP-style Position range edit.
func (r *Rope) PatchRange(startPos, endPos Position, newText string) *Rope {
	start, ok1 := r.PositionToOffset(startPos)
	end, ok2 := r.PositionToOffset(endPos)
	if !ok1 {
		start = 0
	}
	if !ok2 {
		end = len(r.text)
	}
	return r.Patch(start, end, newText)
}

// utf16Len counts UTF-16 code units in s (surrogate-pair aware).
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// utf16Offset returns the byte offset within s corresponding to the given
// UTF-16 column, clamped to len(s).
func utf16Offset(s string, col int) int {
	if col <= 0 {
		return 0
	}
	units := 0
	for i, r := range s {
		if units >= col {
			return i
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return len(s)
}
