package gridconv

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber reports the value of s when the whole trimmed cell is a finite
// decimal number. Empty cells are never numeric.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// IsNumeric reports whether s is emitted as a number by JSON and SQL output.
func IsNumeric(s string) bool {
	_, ok := ParseNumber(s)
	return ok
}

// jsonNumber returns the JSON literal for a numeric cell. The cell's own
// spelling is kept when JSON accepts it ("30", "1.5e3"); otherwise the
// canonical float form is used ("+5" -> 5, ".5" -> 0.5, "007" -> 7).
func jsonNumber(s string) (json.Number, bool) {
	f, ok := ParseNumber(s)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if json.Valid([]byte(s)) {
		return json.Number(s), true
	}
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), true
}

// numericColumn reports whether every data cell in column c is numeric.
// Columns with no data cells are not numeric.
func numericColumn(g Grid, c int) bool {
	if len(g) < 2 {
		return false
	}
	for _, row := range g[1:] {
		if c >= len(row) || !IsNumeric(row[c]) {
			return false
		}
	}
	return true
}
