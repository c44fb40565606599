package gridconv

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Verticals of every border style, read as column separators.
var asciiVerticals = strings.NewReplacer("│", "|", "┃", "|", "║", "|")

// Cells written by the ASCII generator escape pipes only; other
// backslashes are literal.
var (
	asciiCellEscaper   = strings.NewReplacer(`|`, `\|`)
	asciiCellUnescaper = strings.NewReplacer(`\|`, `|`)
)

const borderRunes = "+-=|:─━═│┃║╭╮╰╯┬┴├┤┼┏┓┗┛┳┻┣┫╋╔╗╚╝╦╩╠╣╬ "

// parseASCII reads bordered text tables in any of the border styles. Rule
// lines are skipped and padding is trimmed.
func parseASCII(text string) (Grid, error) {
	var lines []string
	for _, line := range splitLines(text) {
		if isBorderLine(line) {
			continue
		}
		lines = append(lines, asciiVerticals.Replace(line))
	}
	g := parsePipeLines(strings.Join(lines, "\n"), asciiCellUnescaper, isMarkdownRule)
	if len(g) == 0 {
		return nil, errors.New("no table rows")
	}
	return g, nil
}

// isBorderLine reports rule lines such as "+---+" or "├───┤". Lines that
// open with a vertical are rows, even when every cell is blank.
func isBorderLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.Trim(line, borderRunes) != "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(line)
	return !strings.ContainsRune("|│┃║", first)
}
