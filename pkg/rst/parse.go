package rst

import (
	"regexp"
	"strings"

	"github.com/rstfmt/rstfmt/pkg/errors"
)

// adornmentChars are the punctuation characters docutils accepts for
// section adornments and transitions.
const adornmentChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var (
	directiveRe    = regexp.MustCompile(`^\.\. +([^\s:|\[]+(?::[^\s:]+)*)::(?:\s+(.*))?$`)
	substitutionRe = regexp.MustCompile(`^\.\. +\|([^|]+)\| +([^\s:]+)::(?:\s+(.*))?$`)
	targetRe       = regexp.MustCompile("^\\.\\. +_(`[^`]+`|[^:`]+): *(.*)$")
	anonTargetRe   = regexp.MustCompile(`^(?:\.\. +__:|__) *(.*)$`)
	footnoteRe     = regexp.MustCompile(`^\.\. +\[([#*]?[\w.-]*)\] *(.*)$`)
	bulletRe       = regexp.MustCompile(`^([-*+])( +)(\S.*)$`)
	enumRe         = regexp.MustCompile(`^(\d+|#)([.)])( +)(\S.*)$`)
	fieldRe        = regexp.MustCompile("^:([^:`]+):(?: +(.*))?$")
	optionRe       = regexp.MustCompile("^:([^:`]+):(?: +(.*))?$")
	simpleBorderRe = regexp.MustCompile(`^=+(?: +=+)+ *$`)
	gridBorderRe   = regexp.MustCompile(`^\+[-=+]+\+ *$`)
)

// line is one source line with its 1-based position.
type line struct {
	text string
	num  int
}

// Parse parses a complete reStructuredText source into a generic tree.
// The returned node has KindDocument; construct-level problems are
// reported as *errors.MalformedError with the offending source line.
func Parse(src string) (*Node, error) {
	ls := splitLines(src, 1)
	children, err := parseBlocks(ls)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindDocument, Children: children, Line: 1}, nil
}

// ParseFragment parses a block of already-dedented lines, reporting
// locations relative to startLine. The tree builder uses this for
// directive bodies whose capability says "parse as markup".
func ParseFragment(lines []string, startLine int) ([]*Node, error) {
	ls := make([]line, len(lines))
	for i, t := range lines {
		ls[i] = line{text: expandTabs(t), num: startLine + i}
	}
	return parseBlocks(ls)
}

func splitLines(src string, startNum int) []line {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	raw := strings.Split(src, "\n")
	ls := make([]line, len(raw))
	for i, t := range raw {
		ls[i] = line{text: expandTabs(strings.TrimRight(t, " \t")), num: startNum + i}
	}
	return ls
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "        ")
}

func blank(l line) bool { return strings.TrimSpace(l.text) == "" }

func indentOf(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

// isAdornment reports whether s is a run of one repeated adornment
// character, at least two long.
func isAdornment(s string) bool {
	s = strings.TrimRight(s, " ")
	if len(s) < 2 {
		return false
	}
	c := s[0]
	if !strings.ContainsRune(adornmentChars, rune(c)) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}

// dedent strips the common leading indentation from a block of lines.
func dedent(ls []line) []line {
	min := -1
	for _, l := range ls {
		if blank(l) {
			continue
		}
		if ind := indentOf(l.text); min < 0 || ind < min {
			min = ind
		}
	}
	if min <= 0 {
		out := make([]line, len(ls))
		copy(out, ls)
		for i := range out {
			if blank(out[i]) {
				out[i].text = ""
			}
		}
		return out
	}
	out := make([]line, len(ls))
	for i, l := range ls {
		if blank(l) {
			out[i] = line{text: "", num: l.num}
			continue
		}
		out[i] = line{text: l.text[min:], num: l.num}
	}
	return out
}

// trimBlank drops leading and trailing blank lines.
func trimBlank(ls []line) []line {
	start, end := 0, len(ls)
	for start < end && blank(ls[start]) {
		start++
	}
	for end > start && blank(ls[end-1]) {
		end--
	}
	return ls[start:end]
}

func texts(ls []line) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.text
	}
	return out
}

// collectIndented returns the end index of the block of lines following
// position i that are blank or indented, i.e. the attached body of the
// construct starting at i-1.
func collectIndented(ls []line, i int) int {
	j := i
	for j < len(ls) && (blank(ls[j]) || indentOf(ls[j].text) > 0) {
		j++
	}
	// Do not swallow trailing blank lines between this construct and the
	// next sibling.
	for j > i && blank(ls[j-1]) {
		j--
	}
	return j
}

func parseBlocks(ls []line) ([]*Node, error) {
	var nodes []*Node
	i := 0
	for i < len(ls) {
		if blank(ls[i]) {
			i++
			continue
		}
		l := ls[i]

		// Stray indentation opens a block quote.
		if indentOf(l.text) > 0 {
			j := collectIndented(ls, i)
			children, err := parseBlocks(dedent(trimBlank(ls[i:j])))
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, &Node{Kind: KindBlockQuote, Children: children, Line: l.num})
			i = j
			continue
		}

		// A bare "::" introduces a literal block, never an adornment.
		if l.text == "::" {
			para, next, err := parseParagraph(ls, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, para...)
			i = next
			continue
		}

		// Overlined section title.
		if isAdornment(l.text) && i+2 < len(ls) && !blank(ls[i+1]) && !isAdornment(ls[i+1].text) &&
			isAdornment(ls[i+2].text) && ls[i+2].text[0] == l.text[0] {
			title := strings.TrimSpace(ls[i+1].text)
			nodes = append(nodes, &Node{
				Kind: KindTitle,
				Text: title,
				Args: []string{string(l.text[0]), "overline"},
				Line: ls[i+1].num,
			})
			i += 3
			continue
		}

		// Transition: an adornment line on its own.
		if isAdornment(l.text) {
			if i+1 < len(ls) && !blank(ls[i+1]) {
				return nil, errors.Malformed(l.num, "section adornment without a title")
			}
			nodes = append(nodes, &Node{Kind: KindTransition, Line: l.num})
			i++
			continue
		}

		// Explicit markup: directives, targets, footnotes, comments.
		if l.text == ".." || strings.HasPrefix(l.text, ".. ") {
			node, next, err := parseExplicit(ls, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			i = next
			continue
		}

		// Anonymous hyperlink target shorthand.
		if m := anonTargetRe.FindStringSubmatch(l.text); m != nil {
			nodes = append(nodes, &Node{Kind: KindTarget, Args: []string{m[1]}, Line: l.num})
			i++
			continue
		}

		// Grid table.
		if gridBorderRe.MatchString(l.text) {
			j := i
			for j < len(ls) && !blank(ls[j]) &&
				(strings.HasPrefix(ls[j].text, "+") || strings.HasPrefix(ls[j].text, "|")) {
				j++
			}
			table, err := parseGridTable(ls[i:j])
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, table)
			i = j
			continue
		}

		// Simple table.
		if simpleBorderRe.MatchString(l.text) {
			table, next, err := parseSimpleTable(ls, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, table)
			i = next
			continue
		}

		// Doctest block.
		if strings.HasPrefix(l.text, ">>>") {
			j := i
			for j < len(ls) && !blank(ls[j]) {
				j++
			}
			nodes = append(nodes, &Node{Kind: KindDoctestBlock, Lines: texts(ls[i:j]), Line: l.num})
			i = j
			continue
		}

		// Line blocks are not representable in the document model.
		if l.text == "|" || strings.HasPrefix(l.text, "| ") {
			return nil, errors.Malformed(l.num, "line blocks are not supported")
		}

		// Bullet list.
		if bulletRe.MatchString(l.text) {
			list, next, err := parseBulletList(ls, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, list)
			i = next
			continue
		}

		// Enumerated list.
		if enumRe.MatchString(l.text) {
			list, next, err := parseEnumList(ls, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, list)
			i = next
			continue
		}

		// Field list.
		if fieldRe.MatchString(l.text) {
			list, next, err := parseFieldList(ls, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, list)
			i = next
			continue
		}

		// Underlined section title.
		if i+1 < len(ls) && isAdornment(ls[i+1].text) {
			title := strings.TrimSpace(l.text)
			nodes = append(nodes, &Node{
				Kind: KindTitle,
				Text: title,
				Args: []string{string(ls[i+1].text[0])},
				Line: l.num,
			})
			i += 2
			continue
		}

		// Definition list item: a term line directly followed by an
		// indented block.
		if i+1 < len(ls) && !blank(ls[i+1]) && indentOf(ls[i+1].text) > 0 {
			list, next, err := parseDefinitionList(ls, i)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, list)
			i = next
			continue
		}

		// Paragraph, possibly introducing a literal block.
		para, next, err := parseParagraph(ls, i)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, para...)
		i = next
	}
	return nodes, nil
}

// parseExplicit handles constructs introduced by "..".
func parseExplicit(ls []line, i int) (*Node, int, error) {
	l := ls[i]
	end := collectIndented(ls, i+1)
	body := dedent(trimBlank(ls[i+1 : end]))

	if m := substitutionRe.FindStringSubmatch(l.text); m != nil {
		node := &Node{
			Kind: KindSubstitutionDef,
			Text: m[1],
			Args: []string{m[2], strings.TrimSpace(m[3])},
			Line: l.num,
		}
		return node, end, nil
	}

	if m := anonTargetRe.FindStringSubmatch(l.text); m != nil {
		return &Node{Kind: KindTarget, Args: []string{strings.TrimSpace(m[1])}, Line: l.num}, end, nil
	}

	if m := targetRe.FindStringSubmatch(l.text); m != nil {
		uri := strings.TrimSpace(m[2])
		// Long URIs may continue on indented lines; they concatenate
		// without separators.
		for _, b := range body {
			uri += strings.TrimSpace(b.text)
		}
		name := strings.Trim(m[1], "`")
		return &Node{Kind: KindTarget, Text: name, Args: []string{uri}, Line: l.num}, end, nil
	}

	if m := footnoteRe.FindStringSubmatch(l.text); m != nil && m[1] != "" {
		lines := body
		if rest := strings.TrimSpace(m[2]); rest != "" {
			lines = append([]line{{text: rest, num: l.num}}, lines...)
		}
		children, err := parseBlocks(lines)
		if err != nil {
			return nil, 0, err
		}
		return &Node{Kind: KindFootnote, Text: m[1], Children: children, Line: l.num}, end, nil
	}

	if m := directiveRe.FindStringSubmatch(l.text); m != nil {
		node := &Node{Kind: KindDirective, Text: m[1], Line: l.num}
		if arg := strings.TrimSpace(m[2]); arg != "" {
			node.Args = strings.Fields(arg)
		}
		rest, opts := parseDirectiveOptions(body)
		node.Options = opts
		node.Lines = texts(trimBlank(rest))
		return node, end, nil
	}

	// Everything else is a comment.
	var lines []string
	if rest := strings.TrimSpace(strings.TrimPrefix(l.text, "..")); rest != "" {
		lines = append(lines, rest)
	}
	lines = append(lines, texts(body)...)
	return &Node{Kind: KindComment, Lines: lines, Line: l.num}, end, nil
}

// parseDirectiveOptions splits the leading ":name: value" lines off a
// directive body. Option values may continue on further-indented lines.
func parseDirectiveOptions(body []line) ([]line, []Option) {
	var opts []Option
	i := 0
	for i < len(body) {
		l := body[i]
		if blank(l) {
			i++
			break
		}
		m := optionRe.FindStringSubmatch(l.text)
		if m == nil {
			break
		}
		value := strings.TrimSpace(m[2])
		i++
		for i < len(body) && !blank(body[i]) && indentOf(body[i].text) > 0 {
			value += " " + strings.TrimSpace(body[i].text)
			i++
		}
		opts = append(opts, Option{Name: m[1], Value: value})
	}
	if opts == nil {
		return body, nil
	}
	return body[i:], opts
}

func parseGridTable(ls []line) (*Node, error) {
	if len(ls) < 3 {
		return nil, errors.Malformed(ls[0].num, "grid table too short")
	}
	border := strings.TrimRight(ls[0].text, " ")
	var edges []int
	for idx, c := range border {
		if c == '+' {
			edges = append(edges, idx)
		}
	}
	if len(edges) < 2 {
		return nil, errors.Malformed(ls[0].num, "grid table border has no columns")
	}
	if !gridBorderRe.MatchString(strings.TrimRight(ls[len(ls)-1].text, " ")) {
		return nil, errors.Malformed(ls[len(ls)-1].num, "grid table is not closed")
	}

	table := &Node{Kind: KindTable, Line: ls[0].num}
	headerEnd := -1 // row index after which the '=' separator appeared
	var rows [][]line

	var chunk []line
	for _, l := range ls {
		t := strings.TrimRight(l.text, " ")
		if strings.HasPrefix(t, "+") {
			if !gridBorderRe.MatchString(t) {
				return nil, errors.Malformed(l.num, "malformed grid table separator")
			}
			for _, e := range edges {
				if e >= len(t) || t[e] != '+' {
					return nil, errors.Malformed(l.num, "grid table columns are misaligned")
				}
			}
			if chunk != nil {
				rows = append(rows, chunk)
				chunk = nil
			}
			if strings.Contains(t, "=") {
				if headerEnd >= 0 {
					return nil, errors.Malformed(l.num, "grid table has multiple header separators")
				}
				headerEnd = len(rows)
			}
			continue
		}
		for _, e := range edges {
			if e >= len(l.text) || l.text[e] != '|' {
				return nil, errors.Malformed(l.num, "grid table row is misaligned")
			}
		}
		chunk = append(chunk, l)
	}
	if chunk != nil {
		return nil, errors.Malformed(ls[len(ls)-1].num, "grid table is not closed")
	}

	for ri, chunk := range rows {
		row := &Node{Kind: KindRow, Line: chunk[0].num}
		if headerEnd > 0 && ri < headerEnd {
			row.Text = "header"
		}
		for c := 0; c+1 < len(edges); c++ {
			var cellLines []line
			for _, l := range chunk {
				start, stop := edges[c]+1, edges[c+1]
				if stop > len(l.text) {
					stop = len(l.text)
				}
				text := ""
				if start < stop {
					text = strings.TrimRight(l.text[start:stop], " ")
				}
				cellLines = append(cellLines, line{text: text, num: l.num})
			}
			children, err := parseBlocks(dedent(trimBlank(cellLines)))
			if err != nil {
				return nil, err
			}
			row.Children = append(row.Children, &Node{Kind: KindCell, Children: children, Line: chunk[0].num})
		}
		table.Children = append(table.Children, row)
	}
	if len(table.Children) == 0 {
		return nil, errors.Malformed(ls[0].num, "grid table has no rows")
	}
	return table, nil
}

func parseSimpleTable(ls []line, i int) (*Node, int, error) {
	border := strings.TrimRight(ls[i].text, " ")
	type span struct{ start, end int }
	var spans []span
	inRun := false
	for idx := 0; idx <= len(border); idx++ {
		if idx < len(border) && border[idx] == '=' {
			if !inRun {
				spans = append(spans, span{start: idx})
				inRun = true
			}
		} else if inRun {
			spans[len(spans)-1].end = idx
			inRun = false
		}
	}

	sameBorder := func(t string) bool {
		return strings.TrimRight(t, " ") == border
	}

	table := &Node{Kind: KindTable, Line: ls[i].num}
	headerSep := -1
	endBorder := -1
	var rowLines []line
	j := i + 1
	for ; j < len(ls); j++ {
		if blank(ls[j]) {
			break
		}
		if sameBorder(ls[j].text) {
			if j+1 >= len(ls) || blank(ls[j+1]) {
				endBorder = j
				j++
				break
			}
			if headerSep >= 0 {
				return nil, 0, errors.Malformed(ls[j].num, "simple table has multiple header separators")
			}
			headerSep = len(rowLines)
			continue
		}
		rowLines = append(rowLines, ls[j])
	}
	if endBorder < 0 {
		return nil, 0, errors.Malformed(ls[i].num, "simple table is not closed")
	}

	for ri, l := range rowLines {
		row := &Node{Kind: KindRow, Line: l.num}
		if headerSep > 0 && ri < headerSep {
			row.Text = "header"
		}
		for c, sp := range spans {
			start, stop := sp.start, sp.end
			if c == len(spans)-1 {
				stop = len(l.text)
			}
			if start > len(l.text) {
				start = len(l.text)
			}
			if stop > len(l.text) {
				stop = len(l.text)
			}
			text := strings.TrimSpace(l.text[start:stop])
			var children []*Node
			if text != "" {
				parsed, err := parseBlocks([]line{{text: text, num: l.num}})
				if err != nil {
					return nil, 0, err
				}
				children = parsed
			}
			row.Children = append(row.Children, &Node{Kind: KindCell, Children: children, Line: l.num})
		}
		table.Children = append(table.Children, row)
	}
	if len(table.Children) == 0 {
		return nil, 0, errors.Malformed(ls[i].num, "simple table has no rows")
	}
	return table, j, nil
}

func parseBulletList(ls []line, i int) (*Node, int, error) {
	first := bulletRe.FindStringSubmatch(ls[i].text)
	marker := first[1]
	list := &Node{Kind: KindBulletList, Args: []string{marker}, Line: ls[i].num}

	for i < len(ls) {
		if blank(ls[i]) {
			// A blank line ends the list unless another item follows.
			k := i
			for k < len(ls) && blank(ls[k]) {
				k++
			}
			if k < len(ls) && indentOf(ls[k].text) == 0 {
				if m := bulletRe.FindStringSubmatch(ls[k].text); m != nil && m[1] == marker {
					i = k
					continue
				}
			}
			break
		}
		m := bulletRe.FindStringSubmatch(ls[i].text)
		if m == nil || m[1] != marker || indentOf(ls[i].text) > 0 {
			break
		}
		itemIndent := len(m[1]) + len(m[2])
		item, next, err := parseListItem(ls, i, ls[i].text[itemIndent:], itemIndent)
		if err != nil {
			return nil, 0, err
		}
		list.Children = append(list.Children, item)
		i = next
	}
	return list, i, nil
}

func parseEnumList(ls []line, i int) (*Node, int, error) {
	first := enumRe.FindStringSubmatch(ls[i].text)
	start := first[1]
	if start == "#" {
		start = "1"
	}
	list := &Node{Kind: KindEnumList, Args: []string{start}, Line: ls[i].num}

	for i < len(ls) {
		if blank(ls[i]) {
			k := i
			for k < len(ls) && blank(ls[k]) {
				k++
			}
			if k < len(ls) && indentOf(ls[k].text) == 0 && enumRe.MatchString(ls[k].text) {
				i = k
				continue
			}
			break
		}
		m := enumRe.FindStringSubmatch(ls[i].text)
		if m == nil || indentOf(ls[i].text) > 0 {
			break
		}
		itemIndent := len(m[1]) + len(m[2]) + len(m[3])
		item, next, err := parseListItem(ls, i, ls[i].text[itemIndent:], itemIndent)
		if err != nil {
			return nil, 0, err
		}
		list.Children = append(list.Children, item)
		i = next
	}
	return list, i, nil
}

// parseListItem collects one list item: the rest of the marker line plus
// the following lines indented at least to the item body column.
func parseListItem(ls []line, i int, rest string, itemIndent int) (*Node, int, error) {
	body := []line{{text: rest, num: ls[i].num}}
	j := i + 1
	for j < len(ls) && (blank(ls[j]) || indentOf(ls[j].text) >= itemIndent) {
		if blank(ls[j]) {
			body = append(body, line{text: "", num: ls[j].num})
		} else {
			body = append(body, line{text: ls[j].text[itemIndent:], num: ls[j].num})
		}
		j++
	}
	children, err := parseBlocks(trimBlank(body))
	if err != nil {
		return nil, 0, err
	}
	return &Node{Kind: KindListItem, Children: children, Line: ls[i].num}, j, nil
}

func parseFieldList(ls []line, i int) (*Node, int, error) {
	list := &Node{Kind: KindFieldList, Line: ls[i].num}
	for i < len(ls) {
		if blank(ls[i]) {
			k := i
			for k < len(ls) && blank(ls[k]) {
				k++
			}
			if k < len(ls) && indentOf(ls[k].text) == 0 && fieldRe.MatchString(ls[k].text) {
				i = k
				continue
			}
			break
		}
		if indentOf(ls[i].text) > 0 {
			break
		}
		m := fieldRe.FindStringSubmatch(ls[i].text)
		if m == nil {
			break
		}
		field := &Node{Kind: KindField, Text: m[1], Line: ls[i].num, Col: 1}
		var body []line
		if rest := strings.TrimSpace(m[2]); rest != "" {
			body = append(body, line{text: rest, num: ls[i].num})
		}
		j := i + 1
		var cont []line
		for j < len(ls) && (blank(ls[j]) || indentOf(ls[j].text) > 0) {
			cont = append(cont, ls[j])
			j++
		}
		cont = dedent(trimBlank(cont))
		body = append(body, cont...)
		children, err := parseBlocks(body)
		if err != nil {
			return nil, 0, err
		}
		field.Children = children
		list.Children = append(list.Children, field)
		i = j
	}
	return list, i, nil
}

func parseDefinitionList(ls []line, i int) (*Node, int, error) {
	list := &Node{Kind: KindDefinitionList, Line: ls[i].num}
	for i < len(ls) {
		if blank(ls[i]) {
			k := i
			for k < len(ls) && blank(ls[k]) {
				k++
			}
			// Another term line directly followed by an indented block
			// continues the list.
			if k+1 < len(ls) && !blank(ls[k]) && indentOf(ls[k].text) == 0 &&
				!blank(ls[k+1]) && indentOf(ls[k+1].text) > 0 &&
				looksLikeTerm(ls[k].text) {
				i = k
				continue
			}
			break
		}
		if indentOf(ls[i].text) > 0 || !looksLikeTerm(ls[i].text) {
			break
		}
		if i+1 >= len(ls) || blank(ls[i+1]) || indentOf(ls[i+1].text) == 0 {
			break
		}
		term := strings.TrimSpace(ls[i].text)
		j := collectIndented(ls, i+1)
		children, err := parseBlocks(dedent(trimBlank(ls[i+1 : j])))
		if err != nil {
			return nil, 0, err
		}
		list.Children = append(list.Children, &Node{
			Kind:     KindDefinitionItem,
			Text:     term,
			Children: children,
			Line:     ls[i].num,
		})
		i = j
	}
	return list, i, nil
}

// looksLikeTerm rejects lines that start some other construct from being
// taken as a definition term.
func looksLikeTerm(s string) bool {
	if strings.HasPrefix(s, ".. ") || s == ".." || isAdornment(s) {
		return false
	}
	if bulletRe.MatchString(s) || enumRe.MatchString(s) || fieldRe.MatchString(s) {
		return false
	}
	if strings.HasPrefix(s, ">>>") || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "| ") {
		return false
	}
	return true
}

// parseParagraph collects a paragraph and, when it ends with "::", the
// literal block that follows it.
func parseParagraph(ls []line, i int) ([]*Node, int, error) {
	start := i
	for i < len(ls) && !blank(ls[i]) && indentOf(ls[i].text) == 0 &&
		(!isAdornment(ls[i].text) || ls[i].text == "::") {
		i++
	}
	if i < len(ls) && !blank(ls[i]) && indentOf(ls[i].text) > 0 {
		return nil, 0, errors.Malformed(ls[i].num, "unexpected indentation")
	}
	if i < len(ls) && !blank(ls[i]) && isAdornment(ls[i].text) {
		return nil, 0, errors.Malformed(ls[i].num, "section title must be a single line")
	}
	parts := make([]string, 0, i-start)
	for _, l := range ls[start:i] {
		parts = append(parts, strings.TrimSpace(l.text))
	}
	text := strings.Join(parts, " ")

	if !strings.HasSuffix(text, "::") {
		return []*Node{{Kind: KindParagraph, Text: text, Line: ls[start].num}}, i, nil
	}

	// Literal block candidate: skip blanks, require an indented block.
	j := i
	for j < len(ls) && blank(ls[j]) {
		j++
	}
	if j >= len(ls) || indentOf(ls[j].text) == 0 {
		return []*Node{{Kind: KindParagraph, Text: text, Line: ls[start].num}}, i, nil
	}
	end := collectIndented(ls, j)
	literal := &Node{
		Kind:  KindLiteralBlock,
		Lines: texts(dedent(trimBlank(ls[j:end]))),
		Line:  ls[j].num,
	}

	var nodes []*Node
	if text == "::" {
		literal.Args = []string{"bare"}
		nodes = append(nodes, literal)
	} else {
		nodes = append(nodes,
			&Node{Kind: KindParagraph, Text: text, Args: []string{"literal-intro"}, Line: ls[start].num},
			literal)
	}
	return nodes, end, nil
}
