// Package rst parses reStructuredText into a generic syntax tree.
//
// The tree is deliberately untyped: every construct is a Node with a Kind
// tag, a text payload, optional arguments/options, verbatim lines, and
// children. The document package adapts this tree into the typed document
// model; this package only answers "what construct is on these lines".
//
// Section titles are emitted flat (KindTitle) in source order with their
// adornment character; nesting by adornment depth is the tree builder's
// job, since adornment consistency is a document-level rule.
package rst

// Kind identifies the construct a Node represents.
type Kind string

// Node kinds produced by the parser.
const (
	KindDocument        Kind = "document"
	KindTitle           Kind = "title"
	KindTransition      Kind = "transition"
	KindParagraph       Kind = "paragraph"
	KindLiteralBlock    Kind = "literal_block"
	KindDoctestBlock    Kind = "doctest_block"
	KindComment         Kind = "comment"
	KindTarget          Kind = "target"
	KindSubstitutionDef Kind = "substitution_definition"
	KindFootnote        Kind = "footnote"
	KindBulletList      Kind = "bullet_list"
	KindEnumList        Kind = "enumerated_list"
	KindListItem        Kind = "list_item"
	KindDefinitionList  Kind = "definition_list"
	KindDefinitionItem  Kind = "definition_item"
	KindFieldList       Kind = "field_list"
	KindField           Kind = "field"
	KindDirective       Kind = "directive"
	KindTable           Kind = "table"
	KindRow             Kind = "row"
	KindCell            Kind = "cell"
	KindBlockQuote      Kind = "block_quote"
)

// Option is one directive option (":name: value").
type Option struct {
	Name  string
	Value string
}

// Node is one construct in the generic syntax tree.
//
// Which fields are populated depends on Kind:
//   - KindTitle: Text is the title, Args[0] the adornment character,
//     Args[1] == "overline" when the title carried an overline.
//   - KindParagraph: Text is the paragraph with lines joined by single
//     spaces; Args[0] == "literal-intro" when a literal block follows.
//   - KindLiteralBlock: Lines is the dedented verbatim body; Args[0] ==
//     "bare" when the introducing paragraph was exactly "::".
//   - KindDirective: Text is the directive name, Args the argument
//     tokens, Options the option lines, Lines the raw dedented body.
//   - KindField: Text is the field name (between the colons), Children
//     the parsed body blocks.
//   - KindTarget: Text is the target name ("" for anonymous), Args[0]
//     the link target text.
//   - KindRow: Text == "header" for header rows.
//   - Comment/doctest/literal payloads live in Lines, verbatim.
type Node struct {
	Kind     Kind
	Text     string
	Args     []string
	Options  []Option
	Lines    []string
	Children []*Node
	Line     int // 1-based source line of the construct
	Col      int // 1-based source column, 0 when unknown
}
