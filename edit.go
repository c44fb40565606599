package gridconv

import "fmt"

// InsertRow returns a copy of g with an empty row at index i. The new row has
// Width cells. i is clamped to [0, Len].
func (g Grid) InsertRow(i int) Grid {
	i = clamp(i, 0, len(g))
	out := make(Grid, 0, len(g)+1)
	for _, row := range g[:i] {
		out = append(out, append([]string(nil), row...))
	}
	out = append(out, make([]string, g.Width()))
	for _, row := range g[i:] {
		out = append(out, append([]string(nil), row...))
	}
	return out
}

// InsertColumn returns a copy of g with an empty cell at index j of every
// row. Rows shorter than j are padded first. j is clamped to [0, Width].
func (g Grid) InsertColumn(j int) Grid {
	j = clamp(j, 0, g.Width())
	out := make(Grid, len(g))
	for r, row := range g {
		n := max(len(row), j) + 1
		next := make([]string, n)
		copy(next, row[:min(j, len(row))])
		if j < len(row) {
			copy(next[j+1:], row[j:])
		}
		out[r] = next
	}
	return out
}

// DeleteRow returns a copy of g without row i. The header row cannot be
// deleted. On error g is returned unchanged.
func (g Grid) DeleteRow(i int) (Grid, error) {
	if i == 0 && len(g) > 0 {
		return g, ErrHeaderRow
	}
	if i < 0 || i >= len(g) {
		return g, fmt.Errorf("%w: row %d of %d", ErrOutOfRange, i, len(g))
	}
	out := make(Grid, 0, len(g)-1)
	for r, row := range g {
		if r != i {
			out = append(out, append([]string(nil), row...))
		}
	}
	return out, nil
}

// DeleteColumn returns a copy of g without column j. The last remaining
// column cannot be deleted. On error g is returned unchanged.
func (g Grid) DeleteColumn(j int) (Grid, error) {
	width := g.Width()
	if width == 1 {
		return g, ErrLastColumn
	}
	if j < 0 || j >= width {
		return g, fmt.Errorf("%w: column %d of %d", ErrOutOfRange, j, width)
	}
	out := make(Grid, len(g))
	for r, row := range g {
		next := make([]string, 0, len(row))
		for c, cell := range row {
			if c != j {
				next = append(next, cell)
			}
		}
		out[r] = next
	}
	return out, nil
}

// SetCell returns a copy of g with (r, c) set to v. Missing rows and cells are
// created with empty values. Negative indexes leave the grid unchanged.
func (g Grid) SetCell(r, c int, v string) Grid {
	out := g.Clone()
	if r < 0 || c < 0 {
		return out
	}
	for len(out) <= r {
		out = append(out, make([]string, g.Width()))
	}
	for len(out[r]) <= c {
		out[r] = append(out[r], "")
	}
	out[r][c] = v
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
