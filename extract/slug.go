package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented runes (NFD) and drops the resulting
// combining marks, then recomposes, so e.g. "café" slugifies to "cafe"
// rather than keeping a combining acute accent byte sequence. Promoted
// from golang.org/x/text, already present transitively in the teacher's
// go.sum, to a direct dependency for this.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify computes a heading/anchor slug per spec.md §4.2: lowercase,
// unicode-normalize, replace runs of whitespace/punctuation with a single
// "-", strip leading/trailing "-". It is idempotent: Slugify(Slugify(x))
// == Slugify(x) (spec.md §8), since the output holds only lowercase
// letters (of any script), digits and single inner dashes, which a second
// pass leaves unchanged.
func Slugify(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	runDash := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			runDash = false
			continue
		}
		if !runDash && b.Len() > 0 {
			b.WriteByte('-')
			runDash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	return out
}
