package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bjaus/gridconv"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS saved_tables (
	collection TEXT NOT NULL,
	position   INTEGER NOT NULL,
	id         TEXT NOT NULL,
	name       TEXT NOT NULL,
	format     TEXT NOT NULL,
	data       JSONB NOT NULL,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL,
	PRIMARY KEY (collection, id)
)`

// PostgresStore keeps one row per saved table in a pgx connection pool.
type PostgresStore struct {
	pool       *pgxpool.Pool
	collection string
}

// OpenPostgres connects to dsn and creates the schema if needed.
func OpenPostgres(ctx context.Context, dsn, collection string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres store: dsn is required")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: failed to parse dsn: %w", err)
	}
	cfg.MaxConns = 5
	cfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres store: failed to connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: failed to ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: failed to create schema: %w", err)
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &PostgresStore{pool: pool, collection: collection}, nil
}

func (p *PostgresStore) Load(ctx context.Context) ([]SavedTable, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, format, data, created_at, updated_at
		 FROM saved_tables WHERE collection = $1 ORDER BY position`, p.collection)
	if err != nil {
		return nil, fmt.Errorf("postgres store: load failed: %w", err)
	}
	tables, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SavedTable, error) {
		var (
			t      SavedTable
			format string
		)
		err := row.Scan(&t.ID, &t.Name, &format, &t.Data, &t.CreatedAt, &t.UpdatedAt)
		t.Format = gridconv.Format(format)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres store: scan failed: %w", err)
	}
	return tables, nil
}

func (p *PostgresStore) Save(ctx context.Context, tables []SavedTable) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres store: begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM saved_tables WHERE collection = $1`, p.collection); err != nil {
		return fmt.Errorf("postgres store: clear failed: %w", err)
	}
	batch := &pgx.Batch{}
	for i, t := range tables {
		batch.Queue(
			`INSERT INTO saved_tables (collection, position, id, name, format, data, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.collection, i, t.ID, t.Name, string(t.Format), t.Data, t.CreatedAt, t.UpdatedAt)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("postgres store: insert failed: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// Close releases the pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
