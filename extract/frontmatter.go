package extract

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/rope"
)

// ParseFrontmatter reads a leading "---\n...\n---" YAML fence at offset 0
// (spec.md §3 "Frontmatter"). It operates directly on raw source bytes
// rather than the myst tree, since a bare "---" delimiter is not fenced
// code by CommonMark rules and the parser does not special-case it.
// Absence of a frontmatter block is not an error: the zero Frontmatter is
// returned.
func ParseFrontmatter(r *rope.Rope, source []byte) model.Frontmatter {
	text := string(source)
	if !strings.HasPrefix(text, "---\n") && !strings.HasPrefix(text, "---\r\n") {
		return model.Frontmatter{}
	}

	lines := strings.SplitAfter(text, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		trimmed := strings.TrimRight(lines[i], "\r\n")
		if trimmed == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return model.Frontmatter{}
	}

	block := strings.Join(lines[1:end], "")
	blockEnd := len(strings.Join(lines[:end+1], ""))

	var decoded map[string]interface{}
	if err := yaml.Unmarshal([]byte(block), &decoded); err != nil {
		// Malformed YAML: no partial frontmatter, matching the directive
		// options failure semantics (spec.md §4.1).
		return model.Frontmatter{}
	}

	fm := model.Frontmatter{
		Extra: map[string]interface{}{},
		Span:  model.SpanFromOffsets(r, 0, blockEnd),
	}

	var topSubs, mystSubs map[string]string
	hasTop, hasMyst := false, false
	for k, v := range decoded {
		switch k {
		case "title":
			if s, ok := v.(string); ok {
				fm.Title = s
			}
		case "tags":
			fm.Tags = toStringSlice(v)
		case "substitutions":
			topSubs, hasTop = toStringMap(v), true
		case "myst":
			if m, ok := v.(map[string]interface{}); ok {
				if sub, ok := m["substitutions"]; ok {
					mystSubs, hasMyst = toStringMap(sub), true
				}
			}
			fm.Extra[k] = v
		default:
			fm.Extra[k] = v
		}
	}

	// myst.substitutions takes precedence over the top-level form on key
	// collision (spec.md §3), so it is merged last.
	if hasTop {
		fm.Substitutions = mergeSubstitutions(fm.Substitutions, topSubs)
	}
	if hasMyst {
		fm.Substitutions = mergeSubstitutions(fm.Substitutions, mystSubs)
	}

	return fm
}

func mergeSubstitutions(dst map[string]string, src map[string]string) map[string]string {
	if dst == nil {
		dst = map[string]string{}
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func toStringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toStringMap(v interface{}) map[string]string {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		} else {
			out[k] = yamlScalarString(val)
		}
	}
	return out
}

func yamlScalarString(v interface{}) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
