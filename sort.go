package gridconv

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortDirection is one state of the column sort cycle.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

var sortDirectionNames = map[SortDirection]string{
	SortNone: "none",
	SortAsc:  "asc",
	SortDesc: "desc",
}

func (d SortDirection) String() string {
	if s, ok := sortDirectionNames[d]; ok {
		return s
	}
	return fmt.Sprintf("SortDirection(%d)", int(d))
}

// Next returns the following state of the cycle none, asc, desc, none.
func (d SortDirection) Next() SortDirection {
	switch d {
	case SortNone:
		return SortAsc
	case SortAsc:
		return SortDesc
	default:
		return SortNone
	}
}

// ParseSortDirection parses "none", "asc" or "desc".
func ParseSortDirection(s string) (SortDirection, error) {
	for d, name := range sortDirectionNames {
		if name == s {
			return d, nil
		}
	}
	return SortNone, fmt.Errorf("invalid sort direction %q", s)
}

// Sort returns a copy of g with the data rows ordered by column col. The
// header stays first and equal rows keep their order. Numeric cells order by
// value and come before text cells, which order by root-locale collation.
// SortNone returns an unchanged copy: restoring source order is the caller's
// job, usually by parsing the source text again.
func (g Grid) Sort(col int, dir SortDirection) Grid {
	return g.SortLocale(col, dir, language.Und)
}

// SortLocale is like Sort but collates text cells for the given language.
func (g Grid) SortLocale(col int, dir SortDirection, lang language.Tag) Grid {
	out := g.Clone()
	if dir == SortNone || len(out) < 3 || col < 0 {
		return out
	}
	coll := collate.New(lang)
	data := out[1:]
	slices.SortStableFunc(data, func(a, b []string) int {
		c := compareCells(coll, cellAt(a, col), cellAt(b, col))
		if dir == SortDesc {
			return -c
		}
		return c
	})
	return out
}

// compareCells orders numbers before text so mixed columns still sort
// transitively.
func compareCells(coll *collate.Collator, a, b string) int {
	x, xok := ParseNumber(a)
	y, yok := ParseNumber(b)
	switch {
	case xok && yok:
		return cmp.Compare(x, y)
	case xok:
		return -1
	case yok:
		return 1
	}
	return coll.CompareString(a, b)
}

func cellAt(row []string, c int) string {
	if c < len(row) {
		return row[c]
	}
	return ""
}
