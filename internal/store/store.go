// Package store persists saved tables.
//
// A [Store] loads and saves the whole list of tables of one collection;
// [Tables] adds the list operations on top. Backends are an in-memory list,
// a JSON file, SQLite and PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bjaus/gridconv"
)

// ErrNotFound is returned for an unknown table id.
var ErrNotFound = errors.New("table not found")

// SavedTable is a named grid kept between sessions. Times are Unix
// milliseconds.
type SavedTable struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Data      gridconv.Grid   `json:"data"`
	Format    gridconv.Format `json:"format"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
}

// Store loads and replaces the saved tables of a collection, newest first.
type Store interface {
	Load(ctx context.Context) ([]SavedTable, error)
	Save(ctx context.Context, tables []SavedTable) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver     string
	Path       string
	DSN        string
	Collection string
}

// Open returns the backend named by opts.Driver: memory, file, sqlite or
// postgres.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	switch strings.ToLower(opts.Driver) {
	case "memory":
		return NewMemoryStore(), nil
	case "", "file":
		return NewFileStore(opts.Path, opts.Collection), nil
	case "sqlite":
		s, err := OpenSQLite(ctx, opts.Path, opts.Collection)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := OpenPostgres(ctx, opts.DSN, opts.Collection)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// DefaultCollection is the collection name used when none is given.
const DefaultCollection = "savedTables"
