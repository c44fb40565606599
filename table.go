package gridconv

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// BorderStyle controls the characters of a bordered text table.
type BorderStyle int

const (
	BorderRounded BorderStyle = iota // ╭─╮╰╯│┬┴├┤┼
	BorderNone                       // No borders, space-separated columns
	BorderASCII                      // +-+|
	BorderHeavy                      // ┏━┓┗┛┃┳┻┣┫╋
	BorderDouble                     // ╔═╗╚╝║╦╩╠╣╬
)

var borderNames = map[string]BorderStyle{
	"rounded": BorderRounded,
	"none":    BorderNone,
	"ascii":   BorderASCII,
	"heavy":   BorderHeavy,
	"double":  BorderDouble,
}

// ParseBorderStyle parses a border style name such as "rounded" or "ascii".
func ParseBorderStyle(s string) (BorderStyle, error) {
	if b, ok := borderNames[strings.ToLower(s)]; ok {
		return b, nil
	}
	return 0, fmt.Errorf("unknown border style %q", s)
}

// Alignment controls column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Border pieces, one rune each: the four corners (top left, top right,
// bottom left, bottom right), the horizontal and vertical lines, the four tees
// (top, bottom, left, right) and the cross.
var borderPieces = map[BorderStyle]string{
	BorderRounded: "╭╮╰╯─│┬┴├┤┼",
	BorderASCII:   "++++-|+++++",
	BorderHeavy:   "┏┓┗┛━┃┳┻┣┫╋",
	BorderDouble:  "╔╗╚╝═║╦╩╠╣╬",
}

// frame holds the rules and column separator of one border style.
type frame struct {
	top, header, bottom rule
	vertical            string
}

// rule is a horizontal line: its two ends, the run filling each column and
// the joint between columns.
type rule struct {
	left, fill, joint, right string
}

func frameFor(style BorderStyle) frame {
	pieces, ok := borderPieces[style]
	if !ok {
		pieces = borderPieces[BorderRounded]
	}
	p := make([]string, 0, 11)
	for _, r := range pieces {
		p = append(p, string(r))
	}
	return frame{
		top:      rule{left: p[0], fill: p[4], joint: p[6], right: p[1]},
		header:   rule{left: p[8], fill: p[4], joint: p[10], right: p[9]},
		bottom:   rule{left: p[2], fill: p[4], joint: p[7], right: p[3]},
		vertical: p[5],
	}
}

var lineBreakReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// WriteTable renders g as a text table with row 0 as the header. Numeric
// columns are right-aligned.
func WriteTable(w io.Writer, g Grid, style BorderStyle) error {
	return renderTable(w, g, style, columnAlignments(g))
}

// writeASCII escapes pipes inside cells so the table parses back. Preview
// tables drawn by WriteTable leave them alone.
func writeASCII(w io.Writer, g Grid) error {
	g = g.Rect()
	for _, row := range g {
		for i, cell := range row {
			row[i] = asciiCellEscaper.Replace(cell)
		}
	}
	return renderTable(w, g, BorderASCII, nil)
}

func renderTable(w io.Writer, g Grid, style BorderStyle, aligns []Alignment) error {
	if g.Width() == 0 {
		return nil
	}
	g = g.Rect()
	for _, row := range g {
		for i, cell := range row {
			row[i] = lineBreakReplacer.Replace(cell)
		}
	}
	widths := computeWidths(g)
	aligns = extendAligns(aligns, len(widths))

	if style == BorderNone {
		return renderPlainTable(w, g, widths, aligns)
	}
	return renderBorderedTable(w, g, widths, aligns, frameFor(style))
}

// columnAlignments right-aligns columns whose data cells are all numeric.
func columnAlignments(g Grid) []Alignment {
	aligns := make([]Alignment, g.Width())
	for c := range aligns {
		if numericColumn(g, c) {
			aligns[c] = AlignRight
		}
	}
	return aligns
}

func computeWidths(g Grid) []int {
	widths := make([]int, g.Width())
	for _, row := range g {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func extendAligns(aligns []Alignment, numCols int) []Alignment {
	if len(aligns) >= numCols {
		return aligns[:numCols]
	}
	extended := make([]Alignment, numCols)
	copy(extended, aligns)
	return extended
}

// --- Plain table (BorderNone) ---

func renderPlainTable(w io.Writer, g Grid, widths []int, aligns []Alignment) error {
	for i, row := range g {
		if err := writePlainRow(w, row, widths, aligns); err != nil {
			return err
		}
		if i == 0 {
			if err := writePlainSep(w, widths); err != nil {
				return err
			}
		}
	}
	return nil
}

func writePlainSep(w io.Writer, widths []int) error {
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	_, err := fmt.Fprintln(w, strings.Join(sep, "  "))
	return err
}

func writePlainRow(w io.Writer, cells []string, widths []int, aligns []Alignment) error {
	parts := make([]string, len(widths))
	for i, width := range widths {
		parts[i] = alignCell(cells[i], width, aligns[i])
	}
	line := strings.TrimRight(strings.Join(parts, "  "), " ")
	_, err := fmt.Fprintln(w, line)
	return err
}

// --- Bordered table ---

func renderBorderedTable(w io.Writer, g Grid, widths []int, aligns []Alignment, f frame) error {
	var sb strings.Builder
	f.top.draw(&sb, widths)
	for i, row := range g {
		sb.WriteString(f.vertical)
		for c, width := range widths {
			sb.WriteByte(' ')
			sb.WriteString(alignCell(row[c], width, aligns[c]))
			sb.WriteByte(' ')
			sb.WriteString(f.vertical)
		}
		sb.WriteByte('\n')
		if i == 0 {
			f.header.draw(&sb, widths)
		}
	}
	f.bottom.draw(&sb, widths)
	_, err := io.WriteString(w, sb.String())
	return err
}

// draw writes the rule with a run of width+2 fill for each column.
func (r rule) draw(sb *strings.Builder, widths []int) {
	sb.WriteString(r.left)
	for i, width := range widths {
		if i > 0 {
			sb.WriteString(r.joint)
		}
		sb.WriteString(strings.Repeat(r.fill, width+2))
	}
	sb.WriteString(r.right)
	sb.WriteByte('\n')
}

// alignCell pads s with spaces to width display columns. Centered text puts
// the odd space on the right.
func alignCell(s string, width int, align Alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	var left int
	switch align {
	case AlignRight:
		left = pad
	case AlignCenter:
		left = pad / 2
	}
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
