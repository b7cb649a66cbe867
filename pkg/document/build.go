package document

import (
	"strconv"

	"github.com/rstfmt/rstfmt/pkg/errors"
	"github.com/rstfmt/rstfmt/pkg/rst"
)

// Build adapts a generic syntax tree into a Document: sections nest by
// adornment depth, directives resolve their body capability, and field
// lists take their canonical shape. Constructs that cannot be mapped are
// reported as *errors.MalformedError with their source location.
func Build(tree *rst.Node) (*Document, error) {
	doc := &Document{}
	children, err := sectionize(doc, tree.Children)
	if err != nil {
		return nil, err
	}
	doc.Children = children
	return doc, nil
}

// BuildEmbedded builds a Document extracted from an embedded comment.
// indent is re-applied to every line on render.
func BuildEmbedded(tree *rst.Node, indent string) (*Document, error) {
	doc, err := Build(tree)
	if err != nil {
		return nil, err
	}
	doc.Indent = indent
	return doc, nil
}

// sectionize nests the flat title stream into Section nodes, resolving
// each adornment to a depth. The first-seen adornment for a depth is
// recorded on the Document and must be reused for every later section at
// that depth; an unseen adornment may only open the next deeper level.
func sectionize(doc *Document, nodes []*rst.Node) ([]Node, error) {
	var top []Node
	var stack []*Section

	appendNode := func(n Node) {
		if len(stack) == 0 {
			top = append(top, n)
		} else {
			s := stack[len(stack)-1]
			s.Children = append(s.Children, n)
		}
	}

	for _, n := range nodes {
		if n.Kind != rst.KindTitle {
			conv, err := convert(doc, n)
			if err != nil {
				return nil, err
			}
			appendNode(conv)
			continue
		}

		ad := Adornment{Char: n.Args[0][0], Overline: len(n.Args) > 1 && n.Args[1] == "overline"}
		depth := 0
		for i, a := range doc.Adornments {
			if a == ad {
				depth = i + 1
				break
			}
		}
		if depth == 0 {
			if len(doc.Adornments) != len(stack) {
				return nil, errors.Malformed(n.Line,
					"section adornment %q not seen before and used at depth %d, not %d",
					string(ad.Char), len(stack)+1, len(doc.Adornments)+1)
			}
			doc.Adornments = append(doc.Adornments, ad)
			depth = len(doc.Adornments)
		}
		if depth > len(stack)+1 {
			return nil, errors.Malformed(n.Line,
				"section depth jumps from %d to %d", len(stack), depth)
		}

		stack = stack[:depth-1]
		sec := &Section{Title: rst.Tokenize(n.Text), Depth: depth}
		appendNode(sec)
		stack = append(stack, sec)
	}
	return top, nil
}

// convertAll converts nested block content; section titles are invalid
// below the document level.
func convertAll(doc *Document, nodes []*rst.Node) ([]Node, error) {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		conv, err := convert(doc, n)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	return out, nil
}

func convert(doc *Document, n *rst.Node) (Node, error) {
	switch n.Kind {
	case rst.KindParagraph:
		return &Paragraph{
			Spans:        rst.Tokenize(n.Text),
			LiteralIntro: hasArg(n, "literal-intro"),
		}, nil

	case rst.KindLiteralBlock:
		return &LiteralBlock{Lines: n.Lines, Bare: hasArg(n, "bare")}, nil

	case rst.KindComment:
		return &Comment{Lines: n.Lines}, nil

	case rst.KindTransition:
		return &Transition{}, nil

	case rst.KindDoctestBlock:
		return &DoctestBlock{Lines: n.Lines}, nil

	case rst.KindBulletList:
		list := &BulletList{}
		for _, item := range n.Children {
			children, err := convertAll(doc, item.Children)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, children)
		}
		return list, nil

	case rst.KindEnumList:
		start, err := strconv.Atoi(n.Args[0])
		if err != nil {
			start = 1
		}
		list := &EnumList{Start: start}
		for _, item := range n.Children {
			children, err := convertAll(doc, item.Children)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, children)
		}
		return list, nil

	case rst.KindDefinitionList:
		list := &DefinitionList{}
		for _, item := range n.Children {
			body, err := convertAll(doc, item.Children)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, DefinitionItem{
				Term: rst.Tokenize(item.Text),
				Body: body,
			})
		}
		return list, nil

	case rst.KindFieldList:
		fields := make([]Field, 0, len(n.Children))
		for _, f := range n.Children {
			body, err := convertAll(doc, f.Children)
			if err != nil {
				return nil, err
			}
			name, kind := classifyField(f.Text)
			fields = append(fields, Field{Name: name, Kind: kind, Body: body})
		}
		fields, err := canonicalizeFields(fields, n.Line)
		if err != nil {
			return nil, err
		}
		return &FieldList{Fields: fields}, nil

	case rst.KindTable:
		return convertTable(doc, n)

	case rst.KindDirective:
		return convertDirective(doc, n)

	case rst.KindTarget:
		return &Target{Name: n.Text, URI: n.Args[0]}, nil

	case rst.KindSubstitutionDef:
		return &SubstitutionDef{Name: n.Text, Directive: n.Args[0], Text: n.Args[1]}, nil

	case rst.KindFootnote:
		body, err := convertAll(doc, n.Children)
		if err != nil {
			return nil, err
		}
		return &Footnote{Label: n.Text, Body: body}, nil

	case rst.KindBlockQuote:
		children, err := convertAll(doc, n.Children)
		if err != nil {
			return nil, err
		}
		return &BlockQuote{Children: children}, nil

	case rst.KindTitle:
		return nil, errors.Malformed(n.Line, "section title inside nested content")

	default:
		return nil, errors.Malformed(n.Line, "cannot represent construct %q", n.Kind)
	}
}

func convertTable(doc *Document, n *rst.Node) (Node, error) {
	table := &Table{}
	for _, row := range n.Children {
		if row.Text == "header" {
			table.HeaderRows++
		}
		cells := make([]Cell, 0, len(row.Children))
		for _, c := range row.Children {
			children, err := convertAll(doc, c.Children)
			if err != nil {
				return nil, err
			}
			cells = append(cells, Cell{Children: children})
		}
		if table.Columns == 0 {
			table.Columns = len(cells)
		} else if len(cells) != table.Columns {
			return nil, errors.Malformed(row.Line,
				"table row has %d cells, expected %d", len(cells), table.Columns)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

func convertDirective(doc *Document, n *rst.Node) (Node, error) {
	capability, canonical := capabilityFor(n.Text)
	d := &Directive{
		Name:       canonical,
		Args:       n.Args,
		Options:    n.Options,
		Capability: capability,
	}
	if capability == BodyMarkup {
		if len(n.Lines) > 0 {
			frag, err := rst.ParseFragment(n.Lines, n.Line+1)
			if err != nil {
				return nil, err
			}
			children, err := convertAll(doc, frag)
			if err != nil {
				return nil, err
			}
			d.Children = children
		}
		return d, nil
	}
	d.RawBody = n.Lines
	return d, nil
}

func hasArg(n *rst.Node, arg string) bool {
	for _, a := range n.Args {
		if a == arg {
			return true
		}
	}
	return false
}
