package gridconv

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Tab, the field separator pasted cells are split on.
const excelSeparator = "CHAR(9)"

var (
	excelCallRegex = regexp.MustCompile(`(?i)\b(CONCATENATE|CONCAT)\s*\(`)
	excelCharRegex = regexp.MustCompile(`(?i)^CHAR\s*\(\s*\d+\s*\)$`)
)

// parseExcel reads one row per CONCATENATE or CONCAT formula. Quoted
// arguments are cells and CHAR(n) arguments are separators.
func parseExcel(text string) (Grid, error) {
	var g Grid
	for n, line := range splitLines(text) {
		loc := excelCallRegex.FindStringIndex(line)
		if loc == nil {
			continue
		}
		args, err := excelArgs(line[loc[1]:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		var row []string
		for _, arg := range args {
			if excelCharRegex.MatchString(arg) {
				continue
			}
			row = append(row, excelUnquote(arg))
		}
		g = append(g, row)
	}
	if len(g) == 0 {
		return nil, errors.New("no CONCATENATE formulas")
	}
	return g, nil
}

// excelArgs splits the argument list that follows an opening parenthesis.
func excelArgs(s string) ([]string, error) {
	var (
		args     []string
		start    int
		depth    int
		inQuotes bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuotes {
			if c == '"' {
				if i+1 < len(s) && s[i+1] == '"' {
					i++
					continue
				}
				inQuotes = false
			}
			continue
		}
		switch c {
		case '"':
			inQuotes = true
		case '(':
			depth++
		case ')':
			if depth == 0 {
				if arg := strings.TrimSpace(s[start:i]); arg != "" || len(args) > 0 {
					args = append(args, arg)
				}
				return args, nil
			}
			depth--
		case ',', ';':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return nil, errors.New("unterminated formula")
}

func excelUnquote(arg string) string {
	if len(arg) >= 2 && arg[0] == '"' && arg[len(arg)-1] == '"' {
		return strings.ReplaceAll(arg[1:len(arg)-1], `""`, `"`)
	}
	return arg
}

func writeExcel(w io.Writer, g Grid) error {
	if g.Width() == 0 {
		return nil
	}
	var sb strings.Builder
	for _, row := range g.Rect() {
		args := make([]string, len(row))
		for i, cell := range row {
			cell = lineBreakReplacer.Replace(cell)
			args[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
		}
		sb.WriteString("=CONCATENATE(")
		sb.WriteString(strings.Join(args, ", "+excelSeparator+", "))
		sb.WriteString(")\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
