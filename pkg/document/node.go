// Package document defines the typed document model and the tree builder
// that adapts the generic reStructuredText syntax tree into it.
//
// The model is a closed set of node variants. Each variant carries only
// what is needed to re-render it losslessly; the tree is built once and
// never mutated afterwards. Inline markup (emphasis, literals, roles,
// references) lives inside Paragraph and title spans as wrap-safe tokens
// rather than as block nodes.
package document

import (
	"github.com/rstfmt/rstfmt/pkg/rst"
)

// Node is one block-level element of a document.
type Node interface {
	node()
}

// Adornment identifies a section title decoration.
type Adornment struct {
	Char     byte
	Overline bool
}

// Document is the root of the model. Children are the top-level nodes in
// source order. Adornments records the first-seen adornment per depth
// (index 0 = depth 1), which PreserveAdornments rendering reuses.
type Document struct {
	Children   []Node
	Adornments []Adornment

	// Indent is the uniform prefix to re-apply on render when the source
	// was extracted from an embedded comment.
	Indent string
}

// Section is a title plus everything nested under it.
type Section struct {
	Title    []rst.Span
	Depth    int // 1-based
	Children []Node
}

// Paragraph is running text as wrap-safe inline tokens. LiteralIntro
// marks a paragraph ending in "::" that introduces a literal block.
type Paragraph struct {
	Spans        []rst.Span
	LiteralIntro bool
}

// LiteralBlock is a verbatim indented block. Bare blocks were introduced
// by a lone "::" marker instead of a paragraph.
type LiteralBlock struct {
	Lines []string
	Bare  bool
}

// Comment is an explicit markup block with no construct; kept verbatim.
type Comment struct {
	Lines []string
}

// Transition is a horizontal divider.
type Transition struct{}

// DoctestBlock is an interactive session example, kept verbatim.
type DoctestBlock struct {
	Lines []string
}

// BulletList is an unordered list; every item owns its own child nodes.
type BulletList struct {
	Items [][]Node
}

// EnumList is an ordered list renumbered from Start on render.
type EnumList struct {
	Start int
	Items [][]Node
}

// DefinitionList pairs single-line terms with indented definitions.
type DefinitionList struct {
	Items []DefinitionItem
}

// DefinitionItem is one term/definition pair.
type DefinitionItem struct {
	Term []rst.Span
	Body []Node
}

// Table is a uniform grid. Rows includes header rows first; HeaderRows
// says how many. Every row has exactly Columns cells.
type Table struct {
	Columns    int
	HeaderRows int
	Rows       [][]Cell
}

// Cell owns the block content of one table cell.
type Cell struct {
	Children []Node
}

// FieldList is structured metadata, canonically ordered by field kind.
type FieldList struct {
	Fields []Field
}

// Field is one name/body pair. Name is the canonical text between the
// colons (e.g. "param str x"); Kind drives canonical ordering.
type Field struct {
	Name string
	Kind FieldKind
	Body []Node
}

// Directive is a named block construct. Children holds the parsed body
// for markup-capable directives; RawBody the verbatim lines otherwise.
type Directive struct {
	Name       string
	Args       []string
	Options    []rst.Option
	Capability Capability
	Children   []Node
	RawBody    []string
}

// Target is a hyperlink target; Name is empty for anonymous targets.
type Target struct {
	Name string
	URI  string
}

// SubstitutionDef defines an inline substitution (".. |name| image:: x").
type SubstitutionDef struct {
	Name      string
	Directive string
	Text      string
}

// Footnote is a footnote or citation body.
type Footnote struct {
	Label string
	Body  []Node
}

// BlockQuote is an indented quotation.
type BlockQuote struct {
	Children []Node
}

func (*Section) node()         {}
func (*Paragraph) node()       {}
func (*LiteralBlock) node()    {}
func (*Comment) node()         {}
func (*Transition) node()      {}
func (*DoctestBlock) node()    {}
func (*BulletList) node()      {}
func (*EnumList) node()        {}
func (*DefinitionList) node()  {}
func (*Table) node()           {}
func (*FieldList) node()       {}
func (*Directive) node()       {}
func (*Target) node()          {}
func (*SubstitutionDef) node() {}
func (*Footnote) node()        {}
func (*BlockQuote) node()      {}
