package myst

import "regexp"

// rolePattern matches an inline MyST role: {name}`payload`. It is applied
// to the literal text of a Text node during inline conversion.
var rolePattern = regexp.MustCompile("\\{([A-Za-z][A-Za-z0-9_-]*)\\}`([^`]+)`")

// displayTargetPattern splits a role payload of the form "display <target>"
// (spec.md §4.1 edge case b).
var displayTargetPattern = regexp.MustCompile(`^(.*)<([^<>]+)>\s*$`)

// splitRolePayload separates an optional "display <target>" form from a
// plain target.
func splitRolePayload(payload string) (target, display string) {
	if m := displayTargetPattern.FindStringSubmatch(payload); m != nil {
		display := trimSpace(m[1])
		target := trimSpace(m[2])
		return target, display
	}
	return trimSpace(payload), ""
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// anchorPattern matches a standalone anchor marker "(name)=" occupying an
// entire line with no surrounding inline content (spec.md §4.1 edge case
// c: "only applies at column 0 with no surrounding inline content").
var anchorPattern = regexp.MustCompile(`^\(([A-Za-z][A-Za-z0-9_-]*)\)=\s*$`)

// anchorName returns the anchor name if text is exactly an anchor marker
// line, else ok=false.
func anchorName(text string) (string, bool) {
	m := anchorPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
