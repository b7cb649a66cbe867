package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/rstfmt/rstfmt/pkg/rst"
)

// wrapSpans greedily wraps inline tokens to the target width. Breaks
// happen only between tokens; a single token wider than the remaining
// room is emitted unbroken. first and cont are the prefixes of the first
// and continuation lines and count toward the width.
func wrapSpans(spans []rst.Span, width int, first, cont string) []string {
	var lines []string
	line := first
	used := runewidth.StringWidth(first)
	contWidth := runewidth.StringWidth(cont)
	onLine := 0

	for _, s := range spans {
		w := runewidth.StringWidth(s.Text)
		if onLine > 0 && used+1+w > width {
			lines = append(lines, line)
			line = cont + s.Text
			used = contWidth + w
			onLine = 1
			continue
		}
		if onLine == 0 {
			line += s.Text
			used += w
		} else {
			line += " " + s.Text
			used += 1 + w
		}
		onLine++
	}
	if onLine > 0 || len(lines) == 0 {
		lines = append(lines, line)
	}
	return lines
}

// displayWidth is the terminal cell width of s.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}
