package gridconv

import (
	"io"
	"strings"
	"unicode"
)

// parseCSV scans the whole buffer so quoted fields may span lines. Unquoted
// fields are trimmed; quoted content is kept as written. An unterminated quote
// runs to the end of the input.
func parseCSV(text string) (Grid, error) {
	var (
		g        Grid
		row      []string
		field    strings.Builder
		quoted   bool
		inQuotes bool
		qStart   int
		qEnd     int
		content  bool
	)
	endField := func() {
		s := field.String()
		if quoted {
			s = strings.TrimLeftFunc(s[:qStart], unicode.IsSpace) + s[qStart:qEnd] + strings.TrimRightFunc(s[qEnd:], unicode.IsSpace)
		} else {
			s = strings.TrimSpace(s)
		}
		row = append(row, s)
		field.Reset()
		quoted = false
	}
	endRow := func() {
		endField()
		if content {
			g = append(g, row)
		}
		row = nil
		content = false
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuotes {
			if c != '"' {
				field.WriteByte(c)
				continue
			}
			if i+1 < len(text) && text[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			inQuotes = false
			qEnd = field.Len()
			continue
		}
		switch c {
		case '"':
			if !quoted {
				quoted = true
				qStart = field.Len()
			}
			inQuotes = true
			content = true
		case ',':
			endField()
			content = true
		case '\n':
			endRow()
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				continue
			}
			endRow()
		default:
			if !unicode.IsSpace(rune(c)) {
				content = true
			}
			field.WriteByte(c)
		}
	}
	if inQuotes {
		qEnd = field.Len()
	}
	endRow()
	return g, nil
}

func writeCSV(w io.Writer, g Grid) error {
	for _, row := range g.Rect() {
		if err := writeCSVRow(w, row, ','); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVRow(w io.Writer, row []string, delim rune) error {
	var sb strings.Builder
	for i, cell := range row {
		if i > 0 {
			sb.WriteRune(delim)
		}
		if !needsQuotes(cell, delim) && !(len(row) == 1 && cell == "") {
			sb.WriteString(cell)
			continue
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// needsQuotes also quotes cells with outer whitespace, which the parser would
// otherwise trim.
func needsQuotes(cell string, delim rune) bool {
	if cell == "" {
		return false
	}
	if strings.ContainsRune(cell, delim) || strings.ContainsAny(cell, "\"\r\n") {
		return true
	}
	return strings.TrimSpace(cell) != cell
}
