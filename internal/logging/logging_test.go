package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/gridconv/internal/logging"
)

func TestNewJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l, err := logging.New(&buf, logging.Options{Format: "json"})
	require.NoError(t, err)

	l.Converted("csv", "json", 3, 1500*time.Microsecond)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "converted", entry["msg"])
	assert.Equal(t, "csv", entry["from"])
	assert.Equal(t, "json", entry["to"])
	assert.InDelta(t, 3, entry["rows"], 0)
}

func TestLevelFilters(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l, err := logging.New(&buf, logging.Options{Level: "error", Format: "logfmt"})
	require.NoError(t, err)

	l.TableSaved("id-1", "report")
	assert.Empty(t, buf.String())

	l.Error("boom")
	assert.Contains(t, buf.String(), "boom")
}

func TestEvents(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l, err := logging.New(&buf, logging.Options{Level: "debug", Format: "logfmt"})
	require.NoError(t, err)

	l.ParseFailed("sql", errors.New("no INSERT"))
	l.EditRejected("delete-row", 0, errors.New("header"))
	l.TableDeleted("id-2")
	l.Request("GET", "/api/formats", 200, time.Millisecond)
	l.Named("watch").Watching("in.csv", "csv", "json")

	out := buf.String()
	for _, want := range []string{
		"parse failed", "format=sql",
		"edit rejected", "op=delete-row",
		"table deleted", "id=id-2",
		"path=/api/formats", "status=200",
		"watching", "path=in.csv",
	} {
		assert.Contains(t, out, want)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	t.Parallel()
	_, err := logging.New(&bytes.Buffer{}, logging.Options{Level: "loud"})
	require.Error(t, err)

	_, err = logging.New(&bytes.Buffer{}, logging.Options{Format: "xml"})
	require.Error(t, err)

	assert.True(t, logging.ValidFormat("JSON"))
	assert.False(t, logging.ValidFormat("xml"))
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() {
		logging.Discard().Converted("a", "b", 0, 0)
	})
}
