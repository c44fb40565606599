package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bjaus/gridconv"
)

// Errors returned by Tables.Add and Tables.Rename.
var (
	ErrNameRequired = errors.New("table name is required")
	ErrEmptyTable   = errors.New("no data to save")
)

// Tables manages the saved tables of one Store. Every call loads the
// collection, applies the change and saves it back.
type Tables struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
	newID func() string
}

// TablesOption configures Tables.
type TablesOption func(*Tables)

// WithClock sets the time source for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) TablesOption {
	return func(t *Tables) { t.now = now }
}

// WithIDs sets the id generator.
func WithIDs(newID func() string) TablesOption {
	return func(t *Tables) { t.newID = newID }
}

func NewTables(s Store, opts ...TablesOption) *Tables {
	t := &Tables{store: s, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// List returns the tables whose name contains query, case-insensitively,
// newest first. An empty query lists everything.
func (t *Tables) List(ctx context.Context, query string) ([]SavedTable, error) {
	tables, err := t.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return tables, nil
	}
	var out []SavedTable
	for _, tbl := range tables {
		if strings.Contains(strings.ToLower(tbl.Name), query) {
			out = append(out, tbl)
		}
	}
	return out, nil
}

func (t *Tables) Get(ctx context.Context, id string) (SavedTable, error) {
	tables, err := t.store.Load(ctx)
	if err != nil {
		return SavedTable{}, err
	}
	for _, tbl := range tables {
		if tbl.ID == id {
			return tbl, nil
		}
	}
	return SavedTable{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Add saves a copy of g under name at the front of the list.
func (t *Tables) Add(ctx context.Context, name string, g gridconv.Grid, f gridconv.Format) (SavedTable, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedTable{}, ErrNameRequired
	}
	if g.Empty() {
		return SavedTable{}, ErrEmptyTable
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	tables, err := t.store.Load(ctx)
	if err != nil {
		return SavedTable{}, err
	}
	now := t.now().UnixMilli()
	tbl := SavedTable{
		ID:        t.newID(),
		Name:      name,
		Data:      g.Clone(),
		Format:    f,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tables = append([]SavedTable{tbl}, tables...)
	if err := t.store.Save(ctx, tables); err != nil {
		return SavedTable{}, err
	}
	return tbl, nil
}

func (t *Tables) Rename(ctx context.Context, id, name string) (SavedTable, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedTable{}, ErrNameRequired
	}
	return t.update(ctx, id, func(tbl *SavedTable) { tbl.Name = name })
}

// Update replaces the grid and format of a saved table.
func (t *Tables) Update(ctx context.Context, id string, g gridconv.Grid, f gridconv.Format) (SavedTable, error) {
	if g.Empty() {
		return SavedTable{}, ErrEmptyTable
	}
	return t.update(ctx, id, func(tbl *SavedTable) {
		tbl.Data = g.Clone()
		tbl.Format = f
	})
}

func (t *Tables) update(ctx context.Context, id string, apply func(*SavedTable)) (SavedTable, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tables, err := t.store.Load(ctx)
	if err != nil {
		return SavedTable{}, err
	}
	for i := range tables {
		if tables[i].ID != id {
			continue
		}
		apply(&tables[i])
		tables[i].UpdatedAt = t.now().UnixMilli()
		if err := t.store.Save(ctx, tables); err != nil {
			return SavedTable{}, err
		}
		return tables[i], nil
	}
	return SavedTable{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (t *Tables) Delete(ctx context.Context, id string) (SavedTable, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tables, err := t.store.Load(ctx)
	if err != nil {
		return SavedTable{}, err
	}
	for i, tbl := range tables {
		if tbl.ID == id {
			tables = append(tables[:i], tables[i+1:]...)
			if err := t.store.Save(ctx, tables); err != nil {
				return SavedTable{}, err
			}
			return tbl, nil
		}
	}
	return SavedTable{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}
