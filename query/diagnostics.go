package query

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/moxide-ls/moxide/config"
	"github.com/moxide-ls/moxide/model"
	"github.com/moxide-ls/moxide/resolve"
	"github.com/moxide-ls/moxide/vault"
)

// Severity mirrors the two levels spec.md §4.5/§7 assigns to query-time
// diagnostics (I/O and protocol errors are a separate, non-query concern
// handled by lspserver).
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Diagnostic is one problem found in a single document (spec.md §4.5
// Diagnostics).
type Diagnostic struct {
	Span     model.Span
	Severity Severity
	Message  string
}

// substitutionPattern matches a `{{name}}` substitution use.
var substitutionPattern = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_-]*)\}\}`)

// Diagnostics implements spec.md §4.5: unresolved references (Warning),
// include-cycle errors attached to the offending directive (Error), and
// undefined-substitution warnings for `{{name}}` uses.
func Diagnostics(snap *vault.Snapshot, doc string, cfg config.Resolved) []Diagnostic {
	d, ok := snap.Document(doc)
	if !ok {
		return nil
	}

	var out []Diagnostic

	if cfg.UnresolvedDiagnostics {
		for _, ref := range d.Extraction.References {
			if len(resolve.Resolve(ref, snap.Index, cfg)) == 0 {
				out = append(out, Diagnostic{
					Span:     ref.Span,
					Severity: SeverityWarning,
					Message:  unresolvedMessage(ref),
				})
			}
		}
	}

	for _, e := range snap.RejectedTransclusions(doc) {
		out = append(out, Diagnostic{
			Span:     e.SourceSpan,
			Severity: SeverityError,
			Message:  fmt.Sprintf("include cycle: %q already transcludes %q", e.TargetDoc, e.SourceDoc),
		})
	}

	out = append(out, undefinedSubstitutions(d)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.ByteStart < out[j].Span.ByteStart
	})
	return out
}

// undefinedSubstitutions scans raw text for `{{name}}` uses whose name is
// absent from the merged frontmatter substitutions map (spec.md §4.5).
func undefinedSubstitutions(d *model.Document) []Diagnostic {
	text := d.Rope.Text()
	var out []Diagnostic
	for _, m := range substitutionPattern.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		if _, ok := d.Extraction.Frontmatter.Substitutions[name]; ok {
			continue
		}
		out = append(out, Diagnostic{
			Span:     model.SpanFromOffsets(d.Rope, m[0], m[1]),
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("undefined substitution %q", name),
		})
	}
	return out
}
