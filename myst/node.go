// Package myst implements the Parser component of spec.md §4.1: a
// CommonMark-plus-MyST AST. It wraps goldmark for the CommonMark
// substrate (grounded on brandonbloom-catmd/parser.go's technique of
// walking the goldmark tree and re-deriving source-accurate text), then
// lifts MyST directive blocks, inline roles, and anchor markers into the
// node kinds spec.md §4.1 names.
package myst

// Kind identifies a Node's syntactic role.
type Kind int

const (
	KindDocument Kind = iota
	KindParagraph
	KindHeading
	KindList
	KindListItem
	KindThematicBreak
	KindBlockQuote
	KindFencedCode
	KindIndentedCode
	KindHTMLBlock
	KindTable
	KindTableRow
	KindTableCell

	KindText
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindLink
	KindImage
	KindCodeSpan
	KindInlineHTML
	KindHardBreak

	KindFootnoteRef
	KindFootnoteDef

	// MyST-specific lifted kinds (spec.md §4.1).
	KindDirective
	KindRole
	KindAnchor
)

// FenceKind distinguishes the two MyST directive fence styles.
type FenceKind int

const (
	FenceBacktick FenceKind = iota
	FenceColon
)

// Option is one key/value pair from a directive's colon-style or YAML
// options block. Order is preserved per spec.md §3 ("options (ordered
// key/value)").
type Option struct {
	Key   string
	Value string
}

// Range is a half-open byte-offset span into the document's source text.
type Range struct {
	Start int
	End   int
}

// Node is one element of the hybrid AST. Rather than a Go interface per
// variant (which would force type-switches everywhere in the extractor),
// Node is a single tagged struct: the fields relevant to Kind are
// populated, the rest left zero. This mirrors goldmark's own approach of
// small, field-light node types walked generically.
type Node struct {
	Kind     Kind
	Range    Range
	Children []*Node

	// Heading
	Level int

	// List
	Ordered   bool
	ListStart int

	// FencedCode / IndentedCode: Literal holds the raw body text.
	// Lang holds the info string's first token for fenced code that was
	// not lifted into a Directive.
	Literal string
	Lang    string

	// Text / CodeSpan / InlineHTML
	HardBreak bool

	// Link / Image
	Destination string
	Title       string

	// Directive (spec.md §3 "Graph Edge"/§4.1)
	DirectiveName    string
	DirectiveArgs    string
	DirectiveOptions []Option
	FenceKind        FenceKind
	FenceLength      int
	// BodyRange is the byte range of the directive body between the fence
	// lines, including any option/frontmatter header at its top (Literal
	// holds the body with that header removed).
	BodyRange Range

	// Role: `{name}`target`` with optional `display <target>` split.
	RoleName    string
	RoleTarget  string
	RoleDisplay string

	// Footnote ref/def
	FootnoteLabel string

	// Anchor: `(name)=`
	AnchorName string
}

// Walk calls fn for n and every descendant, depth-first, pre-order. fn
// returning false stops descent into that node's children (but sibling
// walking continues).
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// LiteralContentDirectives is the set of directive names whose body is
// NOT recursively parsed as MyST (spec.md §4.1 step 2).
var LiteralContentDirectives = map[string]bool{
	"code-block":      true,
	"code":            true,
	"literalinclude":  true,
	"math":            true,
	"raw":              true,
}

// BuiltinDirectives is the recognized built-in directive name set backing
// spec.md §6's completion capability and §9's "built-in list plus a
// user-supplied allowlist".
var BuiltinDirectives = []string{
	"toctree", "include", "figure", "image", "table", "list-table",
	"math", "code-block", "code", "literalinclude", "raw",
	"admonition", "note", "warning", "tip", "important", "danger",
	"glossary", "glossary-table", "dropdown", "margin", "sidebar",
	"epigraph", "highlights", "pull-quote", "topic", "contents",
	"rubric", "replace",
}

// BuiltinRoles is the recognized built-in inline role name set.
var BuiltinRoles = []string{
	"ref", "doc", "term", "numref", "eq", "download", "kbd", "abbr",
	"sub", "sup", "subscript", "superscript", "guilabel", "samp",
	"math", "footcite", "cite",
}
