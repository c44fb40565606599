package gridconv

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// parseHTML reads the first table in the document. Rows of nested tables are
// not part of it. A table without rows yields an empty grid.
func parseHTML(text string) (Grid, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("no table element")
	}

	g := Grid{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if !tr.Closest("table").IsSelection(table) {
			return
		}
		var row []string
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.TrimSpace(cell.Text()))
		})
		if len(row) > 0 {
			g = append(g, row)
		}
	})
	return g, nil
}

func writeHTML(w io.Writer, g Grid) error {
	if len(g) == 0 {
		_, err := io.WriteString(w, "<table>\n</table>\n")
		return err
	}
	g = g.Rect()
	aligns := columnAlignments(g)

	var sb strings.Builder
	sb.WriteString("<table>\n")
	sb.WriteString("  <thead>\n    <tr>\n")
	for i, col := range g[0] {
		fmt.Fprintf(&sb, "      <th%s>%s</th>\n", alignStyle(aligns, i), markupEscaper.Replace(col))
	}
	sb.WriteString("    </tr>\n  </thead>\n")
	sb.WriteString("  <tbody>\n")
	for _, row := range g[1:] {
		sb.WriteString("    <tr>\n")
		for i, cell := range row {
			fmt.Fprintf(&sb, "      <td%s>%s</td>\n", alignStyle(aligns, i), markupEscaper.Replace(cell))
		}
		sb.WriteString("    </tr>\n")
	}
	sb.WriteString("  </tbody>\n")
	sb.WriteString("</table>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func alignStyle(aligns []Alignment, col int) string {
	if col >= len(aligns) {
		return ""
	}
	switch aligns[col] {
	case AlignRight:
		return ` style="text-align: right"`
	case AlignCenter:
		return ` style="text-align: center"`
	default:
		return ""
	}
}
