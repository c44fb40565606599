package gridconv

import (
	"io"
	"strings"
)

var tsvCellReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// parseTSV splits lines on tabs. There is no quoting.
func parseTSV(text string) (Grid, error) {
	var g Grid
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" && !strings.Contains(line, "\t") {
			continue
		}
		g = append(g, strings.Split(line, "\t"))
	}
	return g, nil
}

func writeTSV(w io.Writer, g Grid) error {
	for _, row := range g.Rect() {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = tsvCellReplacer.Replace(cell)
		}
		if _, err := io.WriteString(w, strings.Join(cells, "\t")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// splitLines splits text on LF, CRLF or CR.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
