package model

// EdgeKind distinguishes the three edge semantics of the Vault Graph
// (spec.md §3 "Graph Edge").
type EdgeKind int

const (
	EdgeReference EdgeKind = iota
	EdgeStructure
	EdgeTransclusion
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeReference:
		return "Reference"
	case EdgeStructure:
		return "Structure"
	case EdgeTransclusion:
		return "Transclusion"
	default:
		return "Unknown"
	}
}

// Edge is one directed connection in the Vault Graph: a resolved
// Reference (or a structural toctree/include relationship) from one
// document to another (spec.md §3 "Graph Edge").
type Edge struct {
	Kind EdgeKind

	SourceDoc  string
	SourceSpan Span

	TargetDoc string
	// Target identifies the specific Referenceable this edge resolved to,
	// so FindReferences can do an exact (not merely same-document) match
	// when a document has more than one Referenceable of the same kind.
	Target Referenceable

	// ResolvedAt is the extraction revision of SourceDoc that produced
	// this edge; used to detect and evict stale edges (spec.md "Graph
	// consistency" invariant).
	ResolvedAt uint64

	// Caption is set for EdgeStructure edges from a toctree entry's
	// optional caption text.
	Caption string

	// LineRange is set for EdgeTransclusion edges when an `{include}`
	// directive restricts itself to a sub-range of the target file via
	// `:start-line:`/`:end-line:` options.
	LineRange *[2]int
}
