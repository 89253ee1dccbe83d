package extract

// Options threads the subset of config.Resolved that changes extraction
// behavior, keeping the extract package decoupled from the config
// package's type (extract is lower in the dependency graph than config's
// consumers and must not import it back).
type Options struct {
	// TagsEnabled gates Tag reference extraction entirely.
	TagsEnabled bool

	// TagsInCodeblocks, when true, disables the default suppression of
	// "#tag" matches inside code spans and fenced/indented code (spec.md
	// §4.2: "configurable otherwise").
	TagsInCodeblocks bool

	// ReferencesInCodeblocks, when true, disables suppression of
	// LinkRefShortcut matches inside code ranges.
	ReferencesInCodeblocks bool
}

// DefaultOptions mirrors config.Defaults(): tags enabled, codeblock
// suppression on.
func DefaultOptions() Options {
	return Options{TagsEnabled: true}
}
