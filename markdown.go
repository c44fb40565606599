package gridconv

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	markdownRuleRegex    = regexp.MustCompile(`^:?-+:?$`)
	markdownCellEscaper  = strings.NewReplacer(`|`, `\|`, "\r\n", "<br>", "\n", "<br>", "\r", "<br>")
	markdownCellUnescape = strings.NewReplacer(`\|`, `|`, "<br>", "\n", "<br/>", "\n", "<br />", "\n")
)

func parseMarkdown(text string) (Grid, error) {
	g := parsePipeLines(text, markdownCellUnescape, isMarkdownRule)
	if len(g) == 0 {
		return nil, errors.New("no table rows")
	}
	return g, nil
}

func isMarkdownRule(cells []string) bool {
	for _, cell := range cells {
		if !markdownRuleRegex.MatchString(cell) {
			return false
		}
	}
	return true
}

// parsePipeLines reads every line holding a pipe as a row. A leading or
// trailing pipe does not open an extra cell. Rows for which isRule reports
// true are dropped. When unescape is set, "\|" does not split cells and
// unescape is applied to every cell.
func parsePipeLines(text string, unescape *strings.Replacer, isRule func([]string) bool) Grid {
	var g Grid
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "|") {
			continue
		}
		cells := splitPipes(line, unescape != nil)
		for i, cell := range cells {
			cells[i] = strings.TrimSpace(cell)
		}
		if len(cells) == 0 || isRule(cells) {
			continue
		}
		if unescape != nil {
			for i, cell := range cells {
				cells[i] = unescape.Replace(cell)
			}
		}
		g = append(g, cells)
	}
	return g
}

func splitPipes(line string, escapes bool) []string {
	var (
		cells []string
		cell  strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if escapes && c == '\\' && i+1 < len(line) && line[i+1] == '|' {
			cell.WriteByte(c)
			cell.WriteByte(line[i+1])
			i++
			continue
		}
		if c == '|' {
			cells = append(cells, cell.String())
			cell.Reset()
			continue
		}
		cell.WriteByte(c)
	}
	cells = append(cells, cell.String())

	if strings.HasPrefix(line, "|") {
		cells = cells[1:]
	}
	if len(cells) > 0 && endsWithPipe(line, escapes) {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func endsWithPipe(line string, escapes bool) bool {
	if !strings.HasSuffix(line, "|") {
		return false
	}
	return !escapes || !strings.HasSuffix(line, `\|`)
}

func writeMarkdown(w io.Writer, g Grid) error {
	if g.Width() == 0 {
		return nil
	}
	g = g.Rect()
	numCols := g.Width()
	for _, row := range g {
		for i, cell := range row {
			row[i] = markdownCellEscaper.Replace(cell)
		}
	}

	// Minimum width 3 leaves room for alignment markers.
	widths := computeWidths(g)
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}
	aligns := columnAlignments(g)

	if err := writeMarkdownRow(w, g[0], widths, aligns); err != nil {
		return err
	}

	sep := make([]string, numCols)
	for i, width := range widths {
		switch aligns[i] {
		case AlignRight:
			sep[i] = strings.Repeat("-", width-1) + ":"
		case AlignCenter:
			sep[i] = ":" + strings.Repeat("-", width-2) + ":"
		default:
			sep[i] = strings.Repeat("-", width)
		}
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | ")); err != nil {
		return err
	}

	for _, row := range g[1:] {
		if err := writeMarkdownRow(w, row, widths, aligns); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdownRow(w io.Writer, cells []string, widths []int, aligns []Alignment) error {
	padded := make([]string, len(widths))
	for i, width := range widths {
		padded[i] = alignCell(cells[i], width, aligns[i])
	}
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	return err
}
