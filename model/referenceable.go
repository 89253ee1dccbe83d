package model

// ReferenceableKind identifies the syntactic variant of a Referenceable
// target, per spec.md §3. Unresolved* are negative variants produced by
// the Resolver when a Reference's target could not be mapped to anything;
// they carry the originating Reference rather than a document position.
type ReferenceableKind int

const (
	File ReferenceableKind = iota
	Heading
	IndexedBlock
	MystAnchor
	GlossaryTerm
	LabeledMath
	LabeledFigure
	FootnoteDef
	LinkReferenceDef

	// TagUsage represents another Tag reference site sharing a name (or a
	// nesting-rule-matching name) with the Reference being resolved. The
	// formal Referenceable variant list (spec.md §3) has no dedicated Tag
	// variant; this exists so Tag references still produce a uniform
	// Referenceable for graph-edge and backlink purposes (see DESIGN.md's
	// Open Question decisions).
	TagUsage

	Unresolved
)

func (k ReferenceableKind) String() string {
	switch k {
	case File:
		return "File"
	case Heading:
		return "Heading"
	case IndexedBlock:
		return "IndexedBlock"
	case MystAnchor:
		return "MystAnchor"
	case GlossaryTerm:
		return "GlossaryTerm"
	case LabeledMath:
		return "LabeledMath"
	case LabeledFigure:
		return "LabeledFigure"
	case FootnoteDef:
		return "FootnoteDef"
	case LinkReferenceDef:
		return "LinkReferenceDef"
	case TagUsage:
		return "TagUsage"
	case Unresolved:
		return "Unresolved"
	default:
		return "Unknown"
	}
}

// Referenceable is a site that can be pointed at (spec.md §3
// "Referenceable"). As with Reference, all variant fields live on one
// struct rather than behind a Go interface, tagged by Kind, to allow
// exhaustive dispatch across extract/resolve/vault/query without a
// type-switch per package.
type Referenceable struct {
	Kind ReferenceableKind

	// Doc is the canonical path of the document this Referenceable
	// belongs to. Unset for the Unresolved kind (it has no home document;
	// see SourceRef.SourceDoc instead).
	Doc string

	Span Span

	// Heading / slug / level fields (File, Heading).
	Slug  string
	Text  string
	Level int

	// IndexedBlock
	BlockID string

	// MystAnchor
	Name            string
	AttachedHeading string // slug of the heading this anchor is attached to, if any

	// GlossaryTerm
	Term string

	// LabeledMath / LabeledFigure
	Label string

	// FootnoteDef / LinkReferenceDef
	FootnoteID string
	RefLabel   string

	// SourceRef is populated only for the Unresolved kind: the Reference
	// whose target could not be mapped to any Referenceable.
	SourceRef *Reference
}

// CanonicalForm returns the string a Reference would need to carry as its
// raw target for resolution to find this Referenceable again, used by the
// Resolver-inverse property (spec.md §8).
func (r Referenceable) CanonicalForm() string {
	switch r.Kind {
	case Heading:
		return r.Slug
	case MystAnchor:
		return r.Name
	case GlossaryTerm:
		return r.Term
	case LabeledMath:
		return r.Label
	case LabeledFigure:
		return r.Name
	case FootnoteDef:
		return r.FootnoteID
	case LinkReferenceDef:
		return r.RefLabel
	default:
		return ""
	}
}
