package myst

import "regexp"

// colonFenceLinePattern matches an entire line that is a colon-fence
// delimiter: a run of 3+ colons at column 0 followed by any text up to
// the end of the line (typically a directive opener "{name} args", or
// nothing on a closing line).
var colonFenceLinePattern = regexp.MustCompile(`^:{3,}[^\n]*$`)

var backtickFenceLinePattern = regexp.MustCompile("^`{3,}[^\n]*$")

// rewriteColonFences returns a copy of source with every top-level colon
// fence delimiter line's colons replaced by backticks of the same count,
// so goldmark's ordinary CommonMark fenced-code matching (same character,
// closing length >= opening length) does the nesting/closing work for us
// (spec.md §4.1 step 3 lifts colon fences "when the colon_fence extension
// is enabled"). Lines already inside a real backtick-fenced code block are
// left untouched, since their content is literal and must not be
// reinterpreted as directive syntax.
//
// The substitution is strictly 1-byte-for-1-byte (':' and '`' are both
// single ASCII bytes), so every byte offset in the rewritten buffer lines
// up exactly with source; callers always slice Literal/Range text from
// the original source, never from the rewritten buffer.
func rewriteColonFences(source []byte) []byte {
	out := make([]byte, len(source))
	copy(out, source)

	insideBacktickFence := false
	var backtickFenceLen int

	start := 0
	for start <= len(out) {
		end := start
		for end < len(out) && out[end] != '\n' {
			end++
		}
		line := out[start:end]

		if insideBacktickFence {
			if backtickFenceLinePattern.Match(line) && countLeading(line, '`') >= backtickFenceLen {
				insideBacktickFence = false
			}
		} else if backtickFenceLinePattern.Match(line) {
			insideBacktickFence = true
			backtickFenceLen = countLeading(line, '`')
		} else if colonFenceLinePattern.Match(line) {
			for i := start; i < end && out[i] == ':'; i++ {
				out[i] = '`'
			}
		}

		if end >= len(out) {
			break
		}
		start = end + 1
	}

	return out
}

func countLeading(line []byte, b byte) int {
	n := 0
	for n < len(line) && line[n] == b {
		n++
	}
	return n
}
