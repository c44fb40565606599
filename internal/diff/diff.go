// Package diff compares two grids as rendered text and cell by cell.
package diff

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/bjaus/gridconv"
)

// Unified renders a and b in format f and returns their unified diff. The
// result is empty when the renderings are equal.
func Unified(aName, bName string, a, b gridconv.Grid, f gridconv.Format) string {
	return Text(aName, bName, gridconv.Generate(f, a), gridconv.Generate(f, b))
}

// Text returns the unified diff of two texts.
func Text(aName, bName, a, b string) string {
	if a == b {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(aName), a, b)
	return fmt.Sprint(gotextdiff.ToUnified(aName, bName, a, edits))
}

// Render wraps a unified diff in a markdown code fence and renders it for
// the terminal. The fenced markdown is returned if rendering fails.
func Render(unified string, width int) string {
	md := fmt.Sprintf("```diff\n%s```\n", unified)
	if width <= 0 {
		width = 120
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// Change is one cell whose value differs between two grids.
type Change struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Old    string `json:"old"`
	New    string `json:"new"`
}

// Cells lists the differing cells of a and b, row by row. Cells missing
// from one side compare as empty.
func Cells(a, b gridconv.Grid) []Change {
	rows := max(a.Len(), b.Len())
	cols := max(a.Width(), b.Width())
	var out []Change
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x, y := a.Cell(r, c), b.Cell(r, c)
			if x != y {
				out = append(out, Change{Row: r, Column: c, Old: x, New: y})
			}
		}
	}
	return out
}
