package myst

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// directiveInfoPattern matches a fenced code info string that names a
// MyST directive, e.g. "{figure} path/to/img.png" (spec.md §4.1 step 2).
var directiveInfoPattern = regexp.MustCompile(`^\s*\{([A-Za-z][A-Za-z0-9_-]*)\}\s*(.*)$`)

// colonOptionPattern matches a colon-style directive option line, e.g.
// ":name: install-guide".
var colonOptionPattern = regexp.MustCompile(`^:([A-Za-z][A-Za-z0-9_-]*):\s*(.*)$`)

// parseDirectiveInfo splits a fenced/colon block's info string into
// (name, args), or ok=false if it doesn't name a directive.
func parseDirectiveInfo(info string) (name, args string, ok bool) {
	m := directiveInfoPattern.FindStringSubmatch(info)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// splitDirectiveBody separates a directive's leading option block (colon
// style or a YAML frontmatter-style "---" fence) from the remaining body,
// per spec.md §4.1 step 2: "Parse options in the body until the first
// blank line... A YAML frontmatter block at the body head supersedes
// colon style."
func splitDirectiveBody(body string) (options []Option, rest string) {
	lines := splitKeepEnds(body)

	if len(lines) > 0 && strings.TrimRight(lines[0], "\r\n") == "---" {
		return splitYAMLOptionsBlock(lines)
	}

	i := 0
	for i < len(lines) {
		trimmed := strings.TrimRight(lines[i], "\r\n")
		if trimmed == "" {
			i++
			break
		}
		m := colonOptionPattern.FindStringSubmatch(trimmed)
		if m == nil {
			break
		}
		options = append(options, Option{Key: m[1], Value: strings.TrimSpace(m[2])})
		i++
	}

	rest = strings.Join(lines[i:], "")
	return options, rest
}

func splitYAMLOptionsBlock(lines []string) (options []Option, rest string) {
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		// No closing fence: treat the whole thing as body, no options
		// (spec.md §4.1 failure semantics: malformed YAML yields an empty
		// options map, directive remains).
		return nil, strings.Join(lines, "")
	}

	block := strings.Join(lines[1:end], "")
	var decoded map[string]interface{}
	if err := yaml.Unmarshal([]byte(block), &decoded); err != nil {
		return nil, strings.Join(lines[end+1:], "")
	}

	options = orderedOptionsFromYAML(block, decoded)
	rest = strings.Join(lines[end+1:], "")
	return options, rest
}

// orderedOptionsFromYAML re-derives key order from the raw YAML block
// text (map iteration order in Go is randomized) by scanning top-level
// "key:" lines in document order and pulling the decoded value for each.
func orderedOptionsFromYAML(block string, decoded map[string]interface{}) []Option {
	var opts []Option
	seen := map[string]bool{}
	keyLine := regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*):`)
	for _, line := range strings.Split(block, "\n") {
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue // nested value, not a top-level key
		}
		m := keyLine.FindStringSubmatch(line)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		if v, ok := decoded[m[1]]; ok {
			opts = append(opts, Option{Key: m[1], Value: scalarToString(v)})
		}
	}
	return opts
}

func scalarToString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		out, err := yaml.Marshal(v)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	}
}

// splitKeepEnds splits s into lines, keeping the trailing "\n" (or "\r\n")
// of each line except possibly the last, so rejoining the slice
// reconstructs s exactly.
func splitKeepEnds(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// OptionValue looks up a directive option by key (colon-style names are
// case-sensitive per spec.md).
func (n *Node) OptionValue(key string) (string, bool) {
	for _, o := range n.DirectiveOptions {
		if o.Key == key {
			return o.Value, true
		}
	}
	return "", false
}
