// Package history keeps a bounded undo/redo list of grid snapshots.
package history

import (
	"time"

	"github.com/tiendc/go-deepcopy"

	"github.com/bjaus/gridconv"
)

// DefaultLimit is the number of snapshots kept when New is given zero.
const DefaultLimit = 50

// Entry is one recorded state: the grid, the source text it renders to, the
// format of that text and when it was recorded.
type Entry struct {
	Grid      gridconv.Grid
	Text      string
	Format    gridconv.Format
	Timestamp time.Time
}

// History is a list of entries with a cursor. It is not safe for concurrent
// use.
type History struct {
	entries []Entry
	index   int
	limit   int
	now     func() time.Time
}

// Option configures a History.
type Option func(*History)

// WithClock sets the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *History) { h.now = now }
}

// New returns an empty history keeping at most limit entries.
func New(limit int, opts ...Option) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	h := &History{index: -1, limit: limit, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Record stores a snapshot after the cursor. Entries past the cursor are
// dropped, and the oldest entry is evicted once the limit is exceeded.
func (h *History) Record(g gridconv.Grid, text string, f gridconv.Format) {
	h.entries = append(h.entries[:h.index+1], Entry{
		Grid:      snapshot(g),
		Text:      text,
		Format:    f,
		Timestamp: h.now(),
	})
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append(h.entries[:0], h.entries[over:]...)
	}
	h.index = len(h.entries) - 1
}

// StepBack moves the cursor back and returns the entry it lands on.
func (h *History) StepBack() (Entry, bool) {
	if !h.CanUndo() {
		return Entry{}, false
	}
	h.index--
	return h.current(), true
}

// StepForward moves the cursor forward and returns the entry it lands on.
func (h *History) StepForward() (Entry, bool) {
	if !h.CanRedo() {
		return Entry{}, false
	}
	h.index++
	return h.current(), true
}

// Current returns the entry under the cursor.
func (h *History) Current() (Entry, bool) {
	if h.index < 0 {
		return Entry{}, false
	}
	return h.current(), true
}

func (h *History) current() Entry {
	e := h.entries[h.index]
	e.Grid = snapshot(e.Grid)
	return e
}

// Clear drops every entry.
func (h *History) Clear() {
	h.entries = nil
	h.index = -1
}

func (h *History) Len() int      { return len(h.entries) }
func (h *History) Index() int    { return h.index }
func (h *History) Limit() int    { return h.limit }
func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

func snapshot(g gridconv.Grid) gridconv.Grid {
	var out gridconv.Grid
	if err := deepcopy.Copy(&out, g); err != nil {
		return g.Clone()
	}
	return out
}
