package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// DefaultFilePath returns the JSON file used when no path is configured.
func DefaultFilePath() string {
	return filepath.Join(xdg.DataHome, "gridconv", "tables.json")
}

// FileStore keeps collections in one JSON object keyed by collection name.
// Other collections in the file are preserved on save.
type FileStore struct {
	mu         sync.Mutex
	path       string
	collection string
}

func NewFileStore(path, collection string) *FileStore {
	if path == "" {
		path = DefaultFilePath()
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &FileStore{path: path, collection: collection}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(context.Context) ([]SavedTable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[f.collection]
	if !ok {
		return nil, nil
	}
	var tables []SavedTable
	if err := json.Unmarshal(raw, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse collection %q: %w", f.collection, err)
	}
	return tables, nil
}

func (f *FileStore) Save(_ context.Context, tables []SavedTable) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.read()
	if err != nil {
		return err
	}
	if tables == nil {
		tables = []SavedTable{}
	}
	raw, err := json.Marshal(tables)
	if err != nil {
		return fmt.Errorf("failed to marshal tables: %w", err)
	}
	doc[f.collection] = raw

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, err
	}
	doc := make(map[string]json.RawMessage)
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}
	return doc, nil
}
