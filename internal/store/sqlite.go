package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bjaus/gridconv"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS saved_tables (
	collection TEXT NOT NULL,
	position   INTEGER NOT NULL,
	id         TEXT NOT NULL,
	name       TEXT NOT NULL,
	format     TEXT NOT NULL,
	data       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (collection, id)
)`

// SQLiteStore keeps one row per saved table. Grids are stored as JSON.
type SQLiteStore struct {
	db         *sql.DB
	collection string
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(ctx context.Context, path, collection string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite store: failed to create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writes.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: failed to connect: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: failed to create schema: %w", err)
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &SQLiteStore{db: db, collection: collection}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]SavedTable, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, format, data, created_at, updated_at
		 FROM saved_tables WHERE collection = ? ORDER BY position`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: load failed: %w", err)
	}
	defer rows.Close()

	var tables []SavedTable
	for rows.Next() {
		var (
			t      SavedTable
			format string
			data   string
		)
		if err := rows.Scan(&t.ID, &t.Name, &format, &data, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite store: scan failed: %w", err)
		}
		t.Format = gridconv.Format(format)
		if err := json.Unmarshal([]byte(data), &t.Data); err != nil {
			return nil, fmt.Errorf("sqlite store: table %s: %w", t.ID, err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (s *SQLiteStore) Save(ctx context.Context, tables []SavedTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite store: begin failed: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM saved_tables WHERE collection = ?`, s.collection); err != nil {
		return fmt.Errorf("sqlite store: clear failed: %w", err)
	}
	for i, t := range tables {
		data, err := json.Marshal(t.Data)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO saved_tables (collection, position, id, name, format, data, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.collection, i, t.ID, t.Name, string(t.Format), string(data), t.CreatedAt, t.UpdatedAt); err != nil {
			return fmt.Errorf("sqlite store: insert %s failed: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
