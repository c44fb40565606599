// Package session holds one table being edited: its source text, format,
// grid, sort state and undo history.
package session

import (
	"errors"
	"fmt"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/history"
)

// ErrNothingToUndo and ErrNothingToRedo report an exhausted history.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// SortState is the column and direction of the active sort.
type SortState struct {
	Column    int                    `json:"column"`
	Direction gridconv.SortDirection `json:"-"`
}

// Session is not safe for concurrent use.
type Session struct {
	format  gridconv.Format
	text    string
	grid    gridconv.Grid
	sort    SortState
	history *history.History
}

// New returns an empty session that reads and writes format f.
func New(f gridconv.Format, historyLimit int, opts ...history.Option) *Session {
	return &Session{
		format:  f,
		sort:    SortState{Column: -1},
		history: history.New(historyLimit, opts...),
	}
}

func (s *Session) Format() gridconv.Format { return s.format }
func (s *Session) Text() string            { return s.text }
func (s *Session) Sort() SortState         { return s.sort }
func (s *Session) History() *history.History {
	return s.history
}

// Grid returns a copy of the current grid.
func (s *Session) Grid() gridconv.Grid { return s.grid.Clone() }

// SetFormat changes the session format and regenerates the source text in
// source order, so a sorted view stays a view. Text that does not parse is
// kept as is. The change is not an undo step.
func (s *Session) SetFormat(f gridconv.Format) {
	if f == s.format {
		return
	}
	if g, err := gridconv.Parse(s.text, s.format); err == nil && !g.Empty() {
		s.text = gridconv.Generate(f, g)
	}
	s.format = f
}

// Load parses text in format f. On failure the grid is emptied and the
// *gridconv.ParseError is returned; the text is kept so it can be fixed.
func (s *Session) Load(text string, f gridconv.Format) error {
	s.format = f
	s.text = text
	s.sort = SortState{Column: -1}
	g, err := gridconv.Parse(text, f)
	if err != nil {
		s.grid = nil
		return err
	}
	s.grid = g
	s.history.Record(s.grid, s.text, s.format)
	return nil
}

// LoadGrid replaces the table with g, rendered in the session format.
func (s *Session) LoadGrid(g gridconv.Grid) {
	s.commit(g.Clone())
}

func (s *Session) commit(g gridconv.Grid) {
	s.grid = g
	s.text = gridconv.Generate(s.format, g)
	s.sort = SortState{Column: -1}
	s.history.Record(s.grid, s.text, s.format)
}

func (s *Session) InsertRow(i int) {
	s.commit(s.grid.InsertRow(i))
}

func (s *Session) InsertColumn(j int) {
	s.commit(s.grid.InsertColumn(j))
}

func (s *Session) DeleteRow(i int) error {
	g, err := s.grid.DeleteRow(i)
	if err != nil {
		return err
	}
	s.commit(g)
	return nil
}

func (s *Session) DeleteColumn(j int) error {
	g, err := s.grid.DeleteColumn(j)
	if err != nil {
		return err
	}
	s.commit(g)
	return nil
}

// SetCell sets one cell. The table grows by at most one row or column: r may
// be Len and c may be Width, anything further out is ErrOutOfRange.
func (s *Session) SetCell(r, c int, v string) error {
	if r < 0 || r > s.grid.Len() || c < 0 || c > s.grid.Width() {
		return fmt.Errorf("%w: cell (%d, %d) of %dx%d", gridconv.ErrOutOfRange, r, c, s.grid.Len(), s.grid.Width())
	}
	s.commit(s.grid.SetCell(r, c, v))
	return nil
}

// SortBy advances the sort cycle for column col. Choosing a new column
// starts at ascending. Returning to none restores the order of the source
// text. Sorting changes the view only; the source text and history are left
// alone.
func (s *Session) SortBy(col int) (gridconv.SortDirection, error) {
	if col < 0 || col >= s.grid.Width() {
		return gridconv.SortNone, fmt.Errorf("%w: column %d", gridconv.ErrOutOfRange, col)
	}
	dir := gridconv.SortAsc
	if s.sort.Column == col {
		dir = s.sort.Direction.Next()
	}
	if dir == gridconv.SortNone {
		g, err := gridconv.Parse(s.text, s.format)
		if err != nil {
			return s.sort.Direction, err
		}
		s.grid = g
		s.sort = SortState{Column: -1}
		return dir, nil
	}
	s.grid = s.grid.Sort(col, dir)
	s.sort = SortState{Column: col, Direction: dir}
	return dir, nil
}

// Undo restores the previous history entry.
func (s *Session) Undo() error {
	e, ok := s.history.StepBack()
	if !ok {
		return ErrNothingToUndo
	}
	s.restore(e)
	return nil
}

// Redo restores the next history entry.
func (s *Session) Redo() error {
	e, ok := s.history.StepForward()
	if !ok {
		return ErrNothingToRedo
	}
	s.restore(e)
	return nil
}

// restore keeps the session format. An entry recorded under another format
// has its text regenerated.
func (s *Session) restore(e history.Entry) {
	s.grid = e.Grid
	s.text = e.Text
	if e.Format != s.format {
		s.text = gridconv.Generate(s.format, e.Grid)
	}
	s.sort = SortState{Column: -1}
}

// Output renders the current grid, sorted view included, in format f.
func (s *Session) Output(f gridconv.Format) string {
	return gridconv.Generate(f, s.grid)
}

// Filter returns the rows matching query without changing the session.
func (s *Session) Filter(query string) gridconv.Grid {
	return s.grid.Filter(query)
}

func (s *Session) Stats() gridconv.Stats {
	return s.grid.Stats()
}

// Clear empties the table and its history.
func (s *Session) Clear() {
	s.text = ""
	s.grid = nil
	s.sort = SortState{Column: -1}
	s.history.Clear()
}
