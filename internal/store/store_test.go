package store_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/store"
)

func backends(t *testing.T) map[string]func(t *testing.T) store.Store {
	t.Helper()
	b := map[string]func(t *testing.T) store.Store{
		"memory": func(*testing.T) store.Store { return store.NewMemoryStore() },
		"file": func(t *testing.T) store.Store {
			return store.NewFileStore(filepath.Join(t.TempDir(), "tables.json"), "")
		},
		"sqlite": func(t *testing.T) store.Store {
			s, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "tables.db"), "")
			require.NoError(t, err)
			return s
		},
	}
	if dsn := os.Getenv("GRIDCONV_TEST_POSTGRES_DSN"); dsn != "" {
		b["postgres"] = func(t *testing.T) store.Store {
			s, err := store.OpenPostgres(context.Background(), dsn, fmt.Sprintf("test_%d", time.Now().UnixNano()))
			require.NoError(t, err)
			return s
		}
	}
	return b
}

func newTables(s store.Store) *store.Tables {
	clock := time.UnixMilli(1_700_000_000_000)
	n := 0
	return store.NewTables(s,
		store.WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
		store.WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

var sales = gridconv.Grid{{"Region", "Total"}, {"North", "10"}, {"South", "20"}}

func TestTables(t *testing.T) {
	t.Parallel()
	for name, open := range backends(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := open(t)
			defer s.Close()
			tables := newTables(s)

			first, err := tables.Add(ctx, "  Sales Q1 ", sales, gridconv.CSV)
			require.NoError(t, err)
			assert.Equal(t, "id-1", first.ID)
			assert.Equal(t, "Sales Q1", first.Name)
			assert.Equal(t, first.CreatedAt, first.UpdatedAt)

			second, err := tables.Add(ctx, "Inventory", gridconv.Grid{{"SKU"}, {"A1"}}, gridconv.JSON)
			require.NoError(t, err)

			all, err := tables.List(ctx, "")
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, second.ID, all[0].ID)
			assert.Equal(t, sales, all[1].Data)
			assert.Equal(t, gridconv.CSV, all[1].Format)

			found, err := tables.List(ctx, "sales")
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, first.ID, found[0].ID)

			renamed, err := tables.Rename(ctx, first.ID, "Sales 2024")
			require.NoError(t, err)
			assert.Equal(t, "Sales 2024", renamed.Name)
			assert.Greater(t, renamed.UpdatedAt, renamed.CreatedAt)

			updated, err := tables.Update(ctx, first.ID, gridconv.Grid{{"x"}}, gridconv.TSV)
			require.NoError(t, err)
			assert.Equal(t, gridconv.Grid{{"x"}}, updated.Data)

			got, err := tables.Get(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, updated, got)

			deleted, err := tables.Delete(ctx, second.ID)
			require.NoError(t, err)
			assert.Equal(t, "Inventory", deleted.Name)

			_, err = tables.Get(ctx, second.ID)
			assert.ErrorIs(t, err, store.ErrNotFound)
			_, err = tables.Delete(ctx, second.ID)
			assert.ErrorIs(t, err, store.ErrNotFound)
			_, err = tables.Rename(ctx, "missing", "x")
			assert.ErrorIs(t, err, store.ErrNotFound)

			all, err = tables.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestAddValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tables := newTables(store.NewMemoryStore())

	_, err := tables.Add(ctx, "   ", sales, gridconv.CSV)
	assert.ErrorIs(t, err, store.ErrNameRequired)

	_, err = tables.Add(ctx, "empty", gridconv.Grid{}, gridconv.CSV)
	assert.ErrorIs(t, err, store.ErrEmptyTable)

	tbl, err := tables.Add(ctx, "ok", sales, gridconv.CSV)
	require.NoError(t, err)
	_, err = tables.Rename(ctx, tbl.ID, "")
	assert.ErrorIs(t, err, store.ErrNameRequired)
}

func TestAddCopiesGrid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tables := newTables(store.NewMemoryStore())
	g := sales.Clone()
	tbl, err := tables.Add(ctx, "copy", g, gridconv.CSV)
	require.NoError(t, err)

	g[1][0] = "changed"
	got, err := tables.Get(ctx, tbl.ID)
	require.NoError(t, err)
	assert.Equal(t, "North", got.Data[1][0])
}

func TestFileStoreKeepsOtherCollections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tables.json")

	a := store.NewFileStore(path, "a")
	b := store.NewFileStore(path, "b")
	require.NoError(t, a.Save(ctx, []store.SavedTable{{ID: "1", Name: "one", Data: sales}}))
	require.NoError(t, b.Save(ctx, []store.SavedTable{{ID: "2", Name: "two", Data: sales}}))

	got, err := a.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "one", got[0].Name)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"a"`)
	assert.Contains(t, string(data), `"b"`)
	assert.Contains(t, string(data), `"createdAt"`)
}

func TestFileStoreCorrupt(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tables.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := store.NewFileStore(path, "").Load(context.Background())
	assert.Error(t, err)
}

func TestSQLiteCollectionsAreIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tables.db")

	a, err := store.OpenSQLite(ctx, path, "a")
	require.NoError(t, err)
	require.NoError(t, a.Save(ctx, []store.SavedTable{{ID: "1", Name: "one", Data: sales, Format: gridconv.CSV}}))
	require.NoError(t, a.Close())

	b, err := store.OpenSQLite(ctx, path, "b")
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	a, err = store.OpenSQLite(ctx, path, "a")
	require.NoError(t, err)
	defer a.Close()
	got, err = a.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, sales, got[0].Data)
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := store.Open(ctx, store.Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, s)

	s, err = store.Open(ctx, store.Options{Driver: "file", Path: filepath.Join(t.TempDir(), "t.json")})
	require.NoError(t, err)
	assert.IsType(t, &store.FileStore{}, s)

	s, err = store.Open(ctx, store.Options{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &store.SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = store.Open(ctx, store.Options{Driver: "postgres"})
	assert.Error(t, err)

	_, err = store.Open(ctx, store.Options{Driver: "mongo"})
	assert.Error(t, err)
}
