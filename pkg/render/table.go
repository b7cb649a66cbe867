package render

import (
	"strings"

	"github.com/rstfmt/rstfmt/pkg/document"
)

// minColumnWidth is the floor of a column's content budget, so that very
// narrow targets still produce usable cells.
const minColumnWidth = 8

// table renders a grid table. Cell content is rendered first against a
// per-column budget derived only from (width, column count); final
// column widths are the widest natural line each column produced, so the
// layout is a deterministic function of content and width.
func (r *renderer) table(t *document.Table, width int) ([]string, error) {
	if t.Columns == 0 || len(t.Rows) == 0 {
		return nil, nil
	}

	// Border overhead: one "+" per boundary plus "| " and " |" padding
	// around every cell.
	available := width - (3*t.Columns + 1)
	budget := available / t.Columns
	if budget < minColumnWidth {
		budget = minColumnWidth
	}

	// Render every cell, tracking the natural width of each column.
	colWidths := make([]int, t.Columns)
	cells := make([][][]string, len(t.Rows))
	for ri, row := range t.Rows {
		cells[ri] = make([][]string, t.Columns)
		for ci, cell := range row {
			lines, err := r.blocks(cell.Children, budget)
			if err != nil {
				return nil, err
			}
			cells[ri][ci] = lines
			for _, l := range lines {
				if w := displayWidth(l); w > colWidths[ci] {
					colWidths[ci] = w
				}
			}
		}
	}

	var out []string
	out = append(out, tableBorder(colWidths, '-'))
	for ri := range t.Rows {
		out = append(out, tableRow(cells[ri], colWidths)...)
		if ri == t.HeaderRows-1 {
			out = append(out, tableBorder(colWidths, '='))
		} else {
			out = append(out, tableBorder(colWidths, '-'))
		}
	}
	return out, nil
}

// tableBorder builds "+---+---+" style separators.
func tableBorder(widths []int, ch byte) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat(string(ch), w+2))
		b.WriteByte('+')
	}
	return b.String()
}

// tableRow lays the cells of one row side by side, padding every cell to
// its column width and short cells to the row height.
func tableRow(cells [][]string, widths []int) []string {
	height := 0
	for _, c := range cells {
		if len(c) > height {
			height = len(c)
		}
	}

	out := make([]string, 0, height)
	for li := 0; li < height; li++ {
		var b strings.Builder
		b.WriteByte('|')
		for ci, w := range widths {
			text := ""
			if li < len(cells[ci]) {
				text = cells[ci][li]
			}
			b.WriteString(" " + text + strings.Repeat(" ", w-displayWidth(text)) + " |")
		}
		out = append(out, b.String())
	}
	return out
}
