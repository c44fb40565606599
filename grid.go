package gridconv

import (
	"fmt"
	"strings"
)

// Grid is an ordered list of rows of string cells. Row 0 is the header.
// A grid with no rows means no data. Rows may have different lengths; every
// generator pads short rows to the widest one.
type Grid [][]string

// Stats summarizes the size of a grid.
type Stats struct {
	Rows    int `json:"totalRows"`
	Columns int `json:"totalColumns"`
	Cells   int `json:"totalCells"`
}

// Len returns the number of rows, header included.
func (g Grid) Len() int { return len(g) }

// Empty reports whether g holds no rows.
func (g Grid) Empty() bool { return len(g) == 0 }

// Width returns the length of the widest row.
func (g Grid) Width() int {
	n := 0
	for _, row := range g {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// Header returns a copy of row 0, or nil for an empty grid.
func (g Grid) Header() []string {
	if len(g) == 0 {
		return nil
	}
	return append([]string(nil), g[0]...)
}

// Cell returns the value at (r, c), or "" when it lies outside the grid.
func (g Grid) Cell(r, c int) string {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return ""
	}
	return g[r][c]
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Rect returns a copy of g with every row padded to Width.
func (g Grid) Rect() Grid {
	width := g.Width()
	out := make(Grid, len(g))
	for i, row := range g {
		r := make([]string, width)
		copy(r, row)
		out[i] = r
	}
	return out
}

// Equal reports whether g and other hold the same cells. A nil grid equals an
// empty one.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if len(g[i]) != len(other[i]) {
			return false
		}
		for j := range g[i] {
			if g[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// Filter keeps the header and every data row with a cell containing query,
// compared case-insensitively. An empty query returns a copy of g.
func (g Grid) Filter(query string) Grid {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(g) == 0 {
		return g.Clone()
	}
	out := Grid{append([]string(nil), g[0]...)}
	for _, row := range g[1:] {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), query) {
				out = append(out, append([]string(nil), row...))
				break
			}
		}
	}
	return out
}

// Stats counts rows, columns and cells of the rectangular form of g.
func (g Grid) Stats() Stats {
	w := g.Width()
	return Stats{Rows: len(g), Columns: w, Cells: len(g) * w}
}

// fieldNames turns the header into usable, unique record keys. Blank names
// become ColumnN and repeats get a numeric suffix.
func fieldNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]bool, width)
	for i := 0; i < width; i++ {
		base := ""
		if i < len(header) {
			base = strings.TrimSpace(header[i])
		}
		if base == "" {
			base = fmt.Sprintf("Column%d", i+1)
		}
		name := base
		for n := 2; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}
