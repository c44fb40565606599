package gridconv

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const sqlTableName = "table_data"

var (
	insertRegex     = regexp.MustCompile(`(?is)INSERT\s+INTO\s+[^\s(]+\s*(?:\(([^)]*)\))?\s*VALUES\s*`)
	sqlIdentRegex   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	sqlIdentQuoting = "\"`[]'"
)

// parseSQL reads the rows of every INSERT ... VALUES statement. Later
// statements are matched to the columns of the first one by name. Other
// statements such as CREATE TABLE are ignored. Scanning resumes after each
// statement's last tuple, so quoted values never start a statement.
func parseSQL(text string) (Grid, error) {
	var (
		g     Grid
		index map[string]int
		n     int
	)
	for pos := 0; ; {
		m := insertRegex.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		n++
		var columns []string
		if m[2] >= 0 {
			columns = sqlColumns(text[pos+m[2] : pos+m[3]])
		}
		start := pos + m[1]
		tuples, consumed, err := sqlTuples(text[start:])
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", n, err)
		}
		pos = start + consumed

		if g == nil {
			if len(columns) == 0 && len(tuples) > 0 {
				columns = fieldNames(nil, len(tuples[0]))
			}
			g = Grid{columns}
			index = make(map[string]int, len(columns))
			for i, c := range columns {
				index[strings.ToLower(c)] = i
			}
			g = append(g, tuples...)
			continue
		}
		for _, tuple := range tuples {
			if len(columns) == 0 {
				g = append(g, tuple)
				continue
			}
			row := make([]string, len(g[0]))
			for i, c := range columns {
				if j, ok := index[strings.ToLower(c)]; ok && i < len(tuple) {
					row[j] = tuple[i]
				}
			}
			g = append(g, row)
		}
	}
	if n == 0 {
		return nil, errors.New("no INSERT INTO ... VALUES statement")
	}
	if len(g) == 0 || len(g[0]) == 0 {
		return nil, errors.New("no columns")
	}
	return g, nil
}

func sqlColumns(list string) []string {
	var columns []string
	for _, c := range strings.Split(list, ",") {
		c = strings.Trim(strings.TrimSpace(c), sqlIdentQuoting)
		if c != "" {
			columns = append(columns, c)
		}
	}
	return columns
}

// sqlTuples reads "(v, ...), (v, ...)" from the start of s up to the first
// character that does not continue the list. It also returns the number of
// bytes consumed.
func sqlTuples(s string) ([][]string, int, error) {
	var tuples [][]string
	i := 0
	for {
		for i < len(s) && isSQLSpace(s[i]) {
			i++
		}
		if i >= len(s) || s[i] != '(' {
			break
		}
		tuple, next, err := sqlTuple(s, i+1)
		if err != nil {
			return nil, 0, err
		}
		tuples = append(tuples, tuple)
		i = next
		for i < len(s) && isSQLSpace(s[i]) {
			i++
		}
		if i >= len(s) || s[i] != ',' {
			break
		}
		i++
	}
	if len(tuples) == 0 {
		return nil, 0, errors.New("VALUES has no tuples")
	}
	return tuples, i, nil
}

// sqlTuple splits the values of one tuple starting after its "(". Commas
// inside single-quoted strings or nested parentheses do not split.
func sqlTuple(s string, i int) ([]string, int, error) {
	var (
		values []string
		value  strings.Builder
		quoted bool
		qEnd   int
		depth  int
	)
	endValue := func() {
		v := value.String()
		if quoted {
			v = v[:qEnd] + strings.TrimSpace(v[qEnd:])
		}
		values = append(values, sqlValue(v, quoted))
		value.Reset()
		quoted = false
	}
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			end := i + 1
			for end < len(s) {
				if s[end] == '\'' {
					if end+1 < len(s) && s[end+1] == '\'' {
						end += 2
						continue
					}
					break
				}
				end++
			}
			if end >= len(s) {
				return nil, 0, errors.New("unterminated string literal")
			}
			if strings.TrimSpace(value.String()) == "" {
				value.Reset()
			}
			value.WriteString(strings.ReplaceAll(s[i+1:end], "''", "'"))
			qEnd = value.Len()
			quoted = true
			i = end
		case c == '(':
			depth++
			value.WriteByte(c)
		case c == ')' && depth > 0:
			depth--
			value.WriteByte(c)
		case c == ')':
			endValue()
			return values, i + 1, nil
		case c == ',' && depth == 0:
			endValue()
		default:
			value.WriteByte(c)
		}
	}
	return nil, 0, errors.New("unterminated value tuple")
}

func sqlValue(v string, quoted bool) string {
	if quoted {
		return v
	}
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "NULL") {
		return ""
	}
	return v
}

func isSQLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func writeSQL(w io.Writer, g Grid) error {
	if g.Width() == 0 {
		return nil
	}
	g = g.Rect()
	names := fieldNames(g[0], g.Width())
	columns := make([]string, len(names))
	for i, name := range names {
		columns[i] = sqlIdent(name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE %s (\n", sqlTableName)
	for i, col := range columns {
		typ := "VARCHAR(255)"
		if numericColumn(g, i) {
			typ = "NUMERIC"
		}
		sep := ","
		if i == len(columns)-1 {
			sep = ""
		}
		fmt.Fprintf(&sb, "  %s %s%s\n", col, typ, sep)
	}
	sb.WriteString(");\n")

	if len(g) > 1 {
		fmt.Fprintf(&sb, "\nINSERT INTO %s (%s) VALUES\n", sqlTableName, strings.Join(columns, ", "))
		for r, row := range g[1:] {
			values := make([]string, len(row))
			for i, cell := range row {
				values[i] = sqlLiteral(cell)
			}
			end := ","
			if r == len(g)-2 {
				end = ";"
			}
			fmt.Fprintf(&sb, "  (%s)%s\n", strings.Join(values, ", "), end)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func sqlLiteral(cell string) string {
	if IsNumeric(cell) {
		return strings.TrimSpace(cell)
	}
	return "'" + strings.ReplaceAll(cell, "'", "''") + "'"
}

func sqlIdent(name string) string {
	if sqlIdentRegex.MatchString(name) {
		return name
	}
	var sb strings.Builder
	for _, r := range name {
		if strings.ContainsRune(sqlIdentQuoting+",()", r) {
			r = '_'
		}
		sb.WriteRune(r)
	}
	return `"` + sb.String() + `"`
}
