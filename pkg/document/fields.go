package document

import (
	"sort"
	"strings"

	"github.com/rstfmt/rstfmt/pkg/errors"
	"github.com/rstfmt/rstfmt/pkg/rst"
)

// FieldKind is the semantic sub-kind of a field, used for canonical
// ordering within a field list.
type FieldKind int

// Field kinds in canonical order.
const (
	FieldParam FieldKind = iota
	FieldType
	FieldReturns
	FieldRtype
	FieldRaises
	FieldVar
	FieldVartype
	FieldGeneric
)

// fieldAliases maps every accepted keyword spelling to its canonical
// spelling, mirroring the usual docstring conventions.
var fieldAliases = map[string]string{
	"param":     "param",
	"parameter": "param",
	"arg":       "param",
	"argument":  "param",
	"key":       "param",
	"keyword":   "param",
	"type":      "type",
	"return":    "returns",
	"returns":   "returns",
	"rtype":     "rtype",
	"raise":     "raises",
	"raises":    "raises",
	"except":    "raises",
	"exception": "raises",
	"var":       "var",
	"ivar":      "var",
	"cvar":      "var",
	"vartype":   "vartype",
}

var fieldKinds = map[string]FieldKind{
	"param":   FieldParam,
	"type":    FieldType,
	"returns": FieldReturns,
	"rtype":   FieldRtype,
	"raises":  FieldRaises,
	"var":     FieldVar,
	"vartype": FieldVartype,
}

// classifyField canonicalizes a field name: the keyword is lowered and
// de-aliased, the remaining tokens (type annotation, argument name) are
// kept verbatim.
func classifyField(name string) (string, FieldKind) {
	words := strings.Fields(name)
	if len(words) == 0 {
		return name, FieldGeneric
	}
	canonical, ok := fieldAliases[strings.ToLower(words[0])]
	if !ok {
		return strings.Join(words, " "), FieldGeneric
	}
	words[0] = canonical
	return strings.Join(words, " "), fieldKinds[canonical]
}

// fieldArg returns the last name token, e.g. "x" for "param str x".
func fieldArg(name string) string {
	words := strings.Fields(name)
	if len(words) < 2 {
		return ""
	}
	return words[len(words)-1]
}

// canonicalizeFields validates a field list and rewrites it into its
// canonical shape:
//
//   - ":type x:" fields merge into the matching ":param x:" as
//     ":param TYPE x:"; ":vartype x:" merges into ":var x:" the same way.
//   - fields reorder by kind (params, unmerged types, returns, rtype,
//     raises, vars, generic), stable within a kind.
//   - an empty field body or a second returns/rtype field is malformed.
func canonicalizeFields(fields []Field, line int) ([]Field, error) {
	for _, f := range fields {
		if len(f.Body) == 0 {
			return nil, errors.Malformed(line, "field %q has an empty body", f.Name)
		}
	}

	fields = mergeTypeFields(fields, FieldType, FieldParam)
	fields = mergeTypeFields(fields, FieldVartype, FieldVar)

	seen := map[FieldKind]bool{}
	for _, f := range fields {
		if f.Kind == FieldReturns || f.Kind == FieldRtype {
			if seen[f.Kind] {
				return nil, errors.Malformed(line, "duplicate %q field", strings.Fields(f.Name)[0])
			}
			seen[f.Kind] = true
		}
	}

	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Kind < fields[j].Kind
	})
	return fields, nil
}

// mergeTypeFields folds ":type x: T" style fields into the matching
// target field, producing ":param T x:". Type fields without a matching
// target stay as they are.
func mergeTypeFields(fields []Field, typeKind, targetKind FieldKind) []Field {
	type pending struct {
		idx  int
		text string
	}
	types := map[string]*pending{}
	for i, f := range fields {
		if f.Kind != typeKind {
			continue
		}
		arg := fieldArg(f.Name)
		text := inlineText(f.Body)
		if arg == "" || text == "" {
			continue
		}
		if _, dup := types[arg]; !dup {
			types[arg] = &pending{idx: i, text: text}
		}
	}

	merged := map[int]bool{}
	for i, f := range fields {
		if f.Kind != targetKind {
			continue
		}
		words := strings.Fields(f.Name)
		// Only plain ":param x:" targets accept a merged type.
		if len(words) != 2 {
			continue
		}
		if p, ok := types[words[1]]; ok && !merged[p.idx] {
			fields[i].Name = words[0] + " " + p.text + " " + words[1]
			merged[p.idx] = true
		}
	}

	out := fields[:0:0]
	for i, f := range fields {
		if !merged[i] {
			out = append(out, f)
		}
	}
	return out
}

// inlineText flattens a field body to plain text when it is one simple
// paragraph; otherwise it returns "" and the body is left alone.
func inlineText(body []Node) string {
	if len(body) != 1 {
		return ""
	}
	p, ok := body[0].(*Paragraph)
	if !ok {
		return ""
	}
	return SpanText(p.Spans)
}

// SpanText flattens inline tokens back to a single-space-joined string.
func SpanText(spans []rst.Span) string {
	parts := make([]string, len(spans))
	for i, s := range spans {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}
