package gridconv

import (
	"errors"
	"io"
	"regexp"
	"strings"
)

var (
	latexRuleRegex = regexp.MustCompile(`\\(hline|toprule|midrule|bottomrule)\b|\\cline\{[^}]*\}`)
	latexEscaper   = strings.NewReplacer(
		`\`, `\textbackslash{}`,
		`{`, `\{`,
		`}`, `\}`,
		`$`, `\$`,
		`&`, `\&`,
		`%`, `\%`,
		`#`, `\#`,
		`^`, `\textasciicircum{}`,
		`_`, `\_`,
		`~`, `\textasciitilde{}`,
		"\r\n", " ",
		"\n", " ",
		"\r", " ",
	)
	latexUnescaper = strings.NewReplacer(
		`\textbackslash{}`, `\`,
		`\textasciicircum{}`, `^`,
		`\textasciitilde{}`, `~`,
		`\{`, `{`,
		`\}`, `}`,
		`\$`, `$`,
		`\&`, `&`,
		`\%`, `%`,
		`\#`, `#`,
		`\_`, `_`,
	)
)

// parseLaTeX reads the rows of the first tabular environment, or of the whole
// text when there is none. Rows end with "\\" and cells are split on "&".
func parseLaTeX(text string) (Grid, error) {
	body := text
	if i := strings.Index(body, `\begin{tabular}`); i >= 0 {
		body = body[i+len(`\begin{tabular}`):]
		body = skipBraceGroup(body)
		if j := strings.Index(body, `\end{tabular}`); j >= 0 {
			body = body[:j]
		}
	}

	var g Grid
	for _, line := range splitLines(body) {
		line = strings.TrimSpace(latexRuleRegex.ReplaceAllString(line, ""))
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if !strings.Contains(line, `\\`) && !containsUnescaped(line, '&') {
			continue
		}
		parts := strings.Split(line, `\\`)
		for i, part := range parts {
			// Only the text after the last row break can be empty filler.
			// Earlier parts are rows, possibly of one empty cell.
			if i == len(parts)-1 && strings.TrimSpace(part) == "" {
				continue
			}
			cells := splitUnescaped(part, '&')
			for j, cell := range cells {
				cells[j] = strings.TrimSpace(latexUnescaper.Replace(strings.TrimSpace(cell)))
			}
			g = append(g, cells)
		}
	}
	if len(g) == 0 {
		return nil, errors.New("no tabular rows")
	}
	return g, nil
}

// skipBraceGroup drops a leading column spec such as "{|l|r|}".
func skipBraceGroup(s string) string {
	t := strings.TrimLeft(s, " \t")
	if !strings.HasPrefix(t, "{") {
		return s
	}
	depth := 0
	for i := 0; i < len(t); i++ {
		switch t[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return t[i+1:]
			}
		}
	}
	return s
}

func containsUnescaped(s string, sep byte) bool {
	return len(splitUnescaped(s, sep)) > 1
}

// splitUnescaped splits s on sep unless it follows a backslash.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func writeLaTeX(w io.Writer, g Grid) error {
	if g.Width() == 0 {
		return nil
	}
	g = g.Rect()
	aligns := columnAlignments(g)
	spec := make([]string, len(aligns))
	for i, a := range aligns {
		spec[i] = "l"
		if a == AlignRight {
			spec[i] = "r"
		}
	}

	var sb strings.Builder
	sb.WriteString(`\begin{tabular}{|` + strings.Join(spec, "|") + "|}\n")
	sb.WriteString("\\hline\n")
	for r, row := range g {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = latexEscaper.Replace(cell)
		}
		sb.WriteString(strings.Join(cells, " & "))
		sb.WriteString(" \\\\\n")
		if r == 0 {
			sb.WriteString("\\hline\n")
		}
	}
	if len(g) > 1 {
		sb.WriteString("\\hline\n")
	}
	sb.WriteString("\\end{tabular}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
