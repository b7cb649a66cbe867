// Package render serializes a document model tree into canonical
// reStructuredText under a target line width.
//
// Render is a pure function of (document, width, options): it keeps no
// state across calls and never mutates the tree. The canonical form is
// the fixed point the verifier checks; every rule here must survive a
// parse/build/render round trip unchanged.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rstfmt/rstfmt/pkg/document"
	"github.com/rstfmt/rstfmt/pkg/errors"
	"github.com/rstfmt/rstfmt/pkg/rst"
)

// DefaultWidth is the target line width when none is configured.
const DefaultWidth = 88

// indentUnit is the body indentation of directives, literal blocks,
// definitions, and block quotes.
const indentUnit = 4

// Options configures rendering.
type Options struct {
	// Width is the target line width; DefaultWidth when zero.
	Width int

	// PreserveAdornments reuses the source's first-seen section
	// adornment per depth instead of the canonical sequence.
	PreserveAdornments bool
}

// canonicalAdornments is the depth-to-marker sequence documents are
// normalized to. The first two depths carry overlines.
var canonicalAdornments = []document.Adornment{
	{Char: '#', Overline: true},
	{Char: '*', Overline: true},
	{Char: '='},
	{Char: '-'},
	{Char: '^'},
	{Char: '"'},
	{Char: '\''},
	{Char: '~'},
	{Char: '+'},
	{Char: '.'},
	{Char: '`'},
	{Char: '_'},
	{Char: ':'},
}

// Render serializes doc into canonical text. The output always ends with
// exactly one newline and contains no trailing blank line.
func Render(doc *document.Document, opts Options) (string, error) {
	if opts.Width == 0 {
		opts.Width = DefaultWidth
	}
	if opts.Width < 1 {
		return "", errors.New(errors.ErrCodeInvalidWidth, "target width must be positive, got %d", opts.Width)
	}
	r := &renderer{opts: opts, doc: doc}
	lines, err := r.blocks(doc.Children, opts.Width)
	if err != nil {
		return "", err
	}
	if doc.Indent != "" {
		for i, l := range lines {
			if l != "" {
				lines[i] = doc.Indent + l
			}
		}
	}
	return strings.Join(lines, "\n") + "\n", nil
}

type renderer struct {
	opts Options
	doc  *document.Document
}

// blocks renders a sibling sequence with exactly one blank line between
// block-level nodes.
func (r *renderer) blocks(nodes []document.Node, width int) ([]string, error) {
	var out []string
	for i, n := range nodes {
		lines, err := r.block(n, width)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, lines...)
	}
	return out, nil
}

func (r *renderer) block(n document.Node, width int) ([]string, error) {
	switch v := n.(type) {
	case *document.Section:
		return r.section(v, width)
	case *document.Paragraph:
		return wrapSpans(v.Spans, width, "", ""), nil
	case *document.LiteralBlock:
		return r.literal(v), nil
	case *document.Comment:
		return r.comment(v), nil
	case *document.Transition:
		return []string{"----"}, nil
	case *document.DoctestBlock:
		return append([]string(nil), v.Lines...), nil
	case *document.BulletList:
		return r.bulletList(v, width)
	case *document.EnumList:
		return r.enumList(v, width)
	case *document.DefinitionList:
		return r.definitionList(v, width)
	case *document.Table:
		return r.table(v, width)
	case *document.FieldList:
		return r.fieldList(v, width)
	case *document.Directive:
		return r.directive(v, width)
	case *document.Target:
		return []string{renderTarget(v)}, nil
	case *document.SubstitutionDef:
		line := fmt.Sprintf(".. |%s| %s::", v.Name, v.Directive)
		if v.Text != "" {
			line += " " + v.Text
		}
		return []string{line}, nil
	case *document.Footnote:
		return r.footnote(v, width)
	case *document.BlockQuote:
		body, err := r.blocks(v.Children, width-indentUnit)
		if err != nil {
			return nil, err
		}
		return indent(body, indentUnit), nil
	default:
		return nil, errors.New(errors.ErrCodeInternal, "no rendering rule for %T", n)
	}
}

// adornmentFor picks the marker for a section depth.
func (r *renderer) adornmentFor(depth int) document.Adornment {
	if r.opts.PreserveAdornments && depth <= len(r.doc.Adornments) {
		return r.doc.Adornments[depth-1]
	}
	if depth <= len(canonicalAdornments) {
		return canonicalAdornments[depth-1]
	}
	// Depths beyond the canonical sequence cycle through its tail.
	return canonicalAdornments[len(canonicalAdornments)-1]
}

func (r *renderer) section(s *document.Section, width int) ([]string, error) {
	title := document.SpanText(s.Title)
	ad := r.adornmentFor(s.Depth)

	var lines []string
	if ad.Overline {
		bar := strings.Repeat(string(ad.Char), displayWidth(title)+2)
		lines = append(lines, bar, " "+title, bar)
	} else {
		lines = append(lines, title, strings.Repeat(string(ad.Char), displayWidth(title)))
	}
	if len(s.Children) > 0 {
		body, err := r.blocks(s.Children, width)
		if err != nil {
			return nil, err
		}
		lines = append(lines, "")
		lines = append(lines, body...)
	}
	return lines, nil
}

func (r *renderer) literal(v *document.LiteralBlock) []string {
	var lines []string
	if v.Bare {
		lines = append(lines, "::", "")
	}
	lines = append(lines, indent(v.Lines, indentUnit)...)
	return lines
}

func (r *renderer) comment(v *document.Comment) []string {
	if len(v.Lines) == 1 {
		return []string{".. " + v.Lines[0]}
	}
	lines := []string{".."}
	lines = append(lines, indent(v.Lines, indentUnit)...)
	return lines
}

func (r *renderer) bulletList(v *document.BulletList, width int) ([]string, error) {
	return r.list(v.Items, width, func(int) string { return "- " })
}

func (r *renderer) enumList(v *document.EnumList, width int) ([]string, error) {
	return r.list(v.Items, width, func(i int) string {
		return fmt.Sprintf("%d. ", v.Start+i)
	})
}

// list renders items with per-item markers. Lists are "loose" (blank
// line between items) when any item holds more than one block.
func (r *renderer) list(items [][]document.Node, width int, marker func(int) string) ([]string, error) {
	loose := false
	for _, item := range items {
		if len(item) > 1 {
			loose = true
			break
		}
	}

	var out []string
	for i, item := range items {
		m := marker(i)
		body, err := r.blocks(item, width-len(m))
		if err != nil {
			return nil, err
		}
		if i > 0 && loose {
			out = append(out, "")
		}
		pad := strings.Repeat(" ", len(m))
		for j, l := range body {
			switch {
			case j == 0:
				out = append(out, m+l)
			case l == "":
				out = append(out, "")
			default:
				out = append(out, pad+l)
			}
		}
	}
	return out, nil
}

func (r *renderer) definitionList(v *document.DefinitionList, width int) ([]string, error) {
	var out []string
	for i, item := range v.Items {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, document.SpanText(item.Term))
		body, err := r.blocks(item.Body, width-indentUnit)
		if err != nil {
			return nil, err
		}
		out = append(out, indent(body, indentUnit)...)
	}
	return out, nil
}

func (r *renderer) fieldList(v *document.FieldList, width int) ([]string, error) {
	var out []string
	for _, f := range v.Fields {
		lines, err := r.field(f, width)
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}
	return out, nil
}

// field joins name and body with one space; wrapped body lines align
// under the body start column.
func (r *renderer) field(f document.Field, width int) ([]string, error) {
	prefix := ":" + f.Name + ": "
	align := strings.Repeat(" ", len(prefix))

	body := f.Body
	var out []string
	if p, ok := body[0].(*document.Paragraph); ok {
		out = append(out, wrapSpans(p.Spans, width, prefix, align)...)
		body = body[1:]
	} else {
		out = append(out, ":"+f.Name+":")
		rest, err := r.blocks(body, width-indentUnit)
		if err != nil {
			return nil, err
		}
		out = append(out, indent(rest, indentUnit)...)
		return out, nil
	}
	if len(body) > 0 {
		rest, err := r.blocks(body, width-len(prefix))
		if err != nil {
			return nil, err
		}
		out = append(out, "")
		out = append(out, indent(rest, len(prefix))...)
	}
	return out, nil
}

func (r *renderer) directive(v *document.Directive, width int) ([]string, error) {
	marker := ".. " + v.Name + "::"
	if len(v.Args) > 0 {
		marker += " " + strings.Join(v.Args, " ")
	}
	lines := []string{marker}

	opts := append([]rst.Option(nil), v.Options...)
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].Name < opts[j].Name })
	pad := strings.Repeat(" ", indentUnit)
	for _, o := range opts {
		if o.Value == "" {
			lines = append(lines, pad+":"+o.Name+":")
		} else {
			lines = append(lines, pad+":"+o.Name+": "+o.Value)
		}
	}

	switch {
	case v.Capability == document.BodyMarkup && len(v.Children) > 0:
		body, err := r.blocks(v.Children, width-indentUnit)
		if err != nil {
			return nil, err
		}
		lines = append(lines, "")
		lines = append(lines, indent(body, indentUnit)...)
	case len(v.RawBody) > 0:
		lines = append(lines, "")
		lines = append(lines, indent(v.RawBody, indentUnit)...)
	}
	return lines, nil
}

func (r *renderer) footnote(v *document.Footnote, width int) ([]string, error) {
	prefix := ".. [" + v.Label + "] "
	align := strings.Repeat(" ", indentUnit)

	body := v.Body
	var out []string
	if len(body) > 0 {
		if p, ok := body[0].(*document.Paragraph); ok {
			out = append(out, wrapSpans(p.Spans, width, prefix, align)...)
			body = body[1:]
		} else {
			out = append(out, ".. ["+v.Label+"]")
		}
	} else {
		out = append(out, ".. ["+v.Label+"]")
	}
	if len(body) > 0 {
		rest, err := r.blocks(body, width-indentUnit)
		if err != nil {
			return nil, err
		}
		out = append(out, "")
		out = append(out, indent(rest, indentUnit)...)
	}
	return out, nil
}

func renderTarget(v *document.Target) string {
	if v.Name == "" {
		return ".. __: " + v.URI
	}
	name := v.Name
	if strings.Contains(name, ":") {
		name = "`" + name + "`"
	}
	line := ".. _" + name + ":"
	if v.URI != "" {
		line += " " + v.URI
	}
	return line
}

// indent prefixes non-blank lines with n spaces.
func indent(lines []string, n int) []string {
	pad := strings.Repeat(" ", n)
	out := make([]string, len(lines))
	for i, l := range lines {
		if l == "" {
			out[i] = ""
		} else {
			out[i] = pad + l
		}
	}
	return out
}
