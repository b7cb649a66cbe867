// Package pysource rewrites reStructuredText docstrings inside Python
// source files. It scans for triple-quoted strings in docstring
// position (first statement of a module, class, or function), hands the
// inner text to a formatter callback, and splices the result back
// without touching any other byte of the file.
package pysource

import (
	"strings"

	"github.com/rstfmt/rstfmt/pkg/errors"
)

// Formatter formats one docstring body. text is the dedented inner
// content; indent is the indentation the result must carry on every
// line after the first. The returned string ends with a newline.
type Formatter func(text, indent string) (string, error)

// docstring is one triple-quoted string in docstring position.
type docstring struct {
	startLine int    // opening-quote line index
	endLine   int    // closing-quote line index
	indent    string // indentation of the opening line
	prefix    string // string prefix, e.g. "r"
	quote     string // `"""` or `'''`
	body      string // inner text, dedented
}

// Rewrite formats every docstring in src. trailingLine puts the closing
// quotes of multi-line docstrings on their own line.
func Rewrite(src string, format Formatter, trailingLine bool) (string, error) {
	lines := strings.Split(src, "\n")
	docs, err := scan(lines)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return src, nil
	}

	var out []string
	prev := 0
	for _, d := range docs {
		out = append(out, lines[prev:d.startLine]...)

		formatted, err := format(d.body, d.indent)
		if err != nil {
			return "", err
		}
		out = append(out, splice(d, formatted, trailingLine)...)
		prev = d.endLine + 1
	}
	out = append(out, lines[prev:]...)
	return strings.Join(out, "\n"), nil
}

// splice rebuilds the docstring lines around the formatted body. The
// first body line shares the opening-quote line; continuation lines
// keep the docstring indent.
func splice(d docstring, formatted string, trailingLine bool) []string {
	quote := d.prefix + `"""`
	closing := `"""`
	if strings.Contains(formatted, `"""`) {
		quote = d.prefix + "'''"
		closing = "'''"
	}

	body := strings.Split(strings.TrimRight(formatted, "\n"), "\n")
	if len(body) == 1 {
		text := strings.TrimPrefix(body[0], d.indent)
		return []string{d.indent + quote + text + closing}
	}

	out := make([]string, 0, len(body)+1)
	out = append(out, d.indent+quote+strings.TrimPrefix(body[0], d.indent))
	out = append(out, body[1:]...)
	if trailingLine {
		out = append(out, d.indent+closing)
	} else {
		out[len(out)-1] += closing
	}
	return out
}

// scan finds docstring positions: the first statement of the module and
// the first statement after every def/class header.
func scan(lines []string) ([]docstring, error) {
	var docs []docstring
	expect := true // module docstring
	depth := 0     // bracket depth of a continued def/class header

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		if depth > 0 {
			depth += bracketDelta(trimmed)
			if depth == 0 && strings.HasSuffix(trimmed, ":") {
				expect = true
			}
			continue
		}

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			continue

		case expect && isDocstringOpen(trimmed):
			d, err := parseDocstring(lines, i)
			if err != nil {
				return nil, err
			}
			docs = append(docs, d)
			i = d.endLine
			expect = false

		case isHeader(trimmed):
			depth = bracketDelta(trimmed)
			if depth == 0 {
				if !strings.HasSuffix(trimmed, ":") {
					return nil, errors.Malformed(i+1, "def or class header does not end with a colon")
				}
				expect = true
			}

		default:
			expect = false
		}
	}
	return docs, nil
}

func isHeader(trimmed string) bool {
	for _, kw := range []string{"def ", "class ", "async def "} {
		if strings.HasPrefix(trimmed, kw) {
			return true
		}
	}
	return false
}

// bracketDelta tracks open minus closed brackets, ignoring anything
// inside single-quoted or double-quoted string literals on the line.
func bracketDelta(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '#':
			return depth
		}
	}
	return depth
}

// isDocstringOpen matches an optional string prefix followed by triple
// quotes at the start of a statement.
func isDocstringOpen(trimmed string) bool {
	rest := strings.TrimLeft(trimmed, "rRuU")
	if len(trimmed)-len(rest) > 2 {
		return false
	}
	return strings.HasPrefix(rest, `"""`) || strings.HasPrefix(rest, "'''")
}

// parseDocstring reads one triple-quoted string starting at line i.
func parseDocstring(lines []string, i int) (docstring, error) {
	raw := lines[i]
	trimmed := strings.TrimSpace(raw)
	indent := raw[:len(raw)-len(strings.TrimLeft(raw, " \t"))]

	rest := strings.TrimLeft(trimmed, "rRuU")
	prefix := trimmed[:len(trimmed)-len(rest)]
	quote := rest[:3]

	inner := rest[3:]
	// Single-line docstring.
	if end := findClose(inner, quote, prefix); end >= 0 {
		if strings.TrimSpace(inner[end+3:]) != "" {
			return docstring{}, errors.Malformed(i+1, "trailing code after docstring")
		}
		return docstring{
			startLine: i, endLine: i, indent: indent,
			prefix: prefix, quote: quote,
			body: inner[:end],
		}, nil
	}

	var body []string
	if strings.TrimSpace(inner) != "" {
		body = append(body, strings.TrimRight(inner, " \t"))
	}
	for j := i + 1; j < len(lines); j++ {
		l := lines[j]
		if end := findClose(l, quote, prefix); end >= 0 {
			if strings.TrimSpace(l[end+3:]) != "" {
				return docstring{}, errors.Malformed(j+1, "trailing code after docstring")
			}
			if head := strings.TrimRight(l[:end], " \t"); strings.TrimSpace(head) != "" {
				body = append(body, head)
			}
			return docstring{
				startLine: i, endLine: j, indent: indent,
				prefix: prefix, quote: quote,
				body: dedent(body, indent),
			}, nil
		}
		body = append(body, strings.TrimRight(l, " \t"))
	}
	return docstring{}, errors.Malformed(i+1, "unterminated docstring")
}

// findClose locates the closing triple quote, honoring backslash
// escapes in non-raw strings.
func findClose(s, quote, prefix string) int {
	raw := strings.ContainsAny(prefix, "rR")
	for i := 0; i+3 <= len(s); i++ {
		if s[i] == '\\' && !raw {
			i++
			continue
		}
		if s[i:i+3] == quote {
			return i
		}
	}
	return -1
}

// dedent strips the docstring indent from continuation lines and joins
// the body to a single string.
func dedent(lines []string, indent string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimPrefix(l, indent)
	}
	return strings.Join(out, "\n")
}
