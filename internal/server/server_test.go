package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/logging"
	"github.com/bjaus/gridconv/internal/server"
	"github.com/bjaus/gridconv/internal/store"
	"github.com/bjaus/gridconv/internal/xlsx"
)

func newServer(t *testing.T, opts server.Options) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	tables := store.NewTables(store.NewMemoryStore())
	return server.New(ctx, opts, logging.Discard(), tables).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type gridBody struct {
	Data   gridconv.Grid  `json:"data"`
	Stats  gridconv.Stats `json:"stats"`
	Output string         `json:"output"`
}

type errBody struct {
	Error  string `json:"error"`
	Format string `json:"format"`
}

func TestFormats(t *testing.T) {
	t.Parallel()
	h := newServer(t, server.Options{})
	rec := do(t, h, http.MethodGet, "/api/formats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	infos := decode[[]gridconv.FormatInfo](t, rec)
	require.Len(t, infos, 11)
	assert.Equal(t, gridconv.CSV, infos[0].ID)
	assert.Equal(t, "text/csv", infos[0].MIMEType)
}

func TestParse(t *testing.T) {
	t.Parallel()
	h := newServer(t, server.Options{})

	rec := do(t, h, http.MethodPost, "/api/parse", map[string]string{"text": "a,b\n1,2", "format": "csv"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[gridBody](t, rec)
	assert.Equal(t, gridconv.Grid{{"a", "b"}, {"1", "2"}}, body.Data)
	assert.Equal(t, gridconv.Stats{Rows: 2, Columns: 2, Cells: 4}, body.Stats)

	rec = do(t, h, http.MethodPost, "/api/parse", map[string]string{"text": "CREATE TABLE t (a INT);", "format": "sql"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	eb := decode[errBody](t, rec)
	assert.Equal(t, "sql", eb.Format)
	assert.Contains(t, eb.Error, "parse sql")

	rec = do(t, h, http.MethodPost, "/api/parse", map[string]string{"text": "x", "format": "docx"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/parse", map[string]string{"text": "   ", "format": "json"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[gridBody](t, rec).Data)
}

func TestParseRejectsBadJSON(t *testing.T) {
	t.Parallel()
	h := newServer(t, server.Options{})
	req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader(`{"text": 1}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader(`{"txt": "a"}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateAndConvert(t *testing.T) {
	t.Parallel()
	h := newServer(t, server.Options{})

	rec := do(t, h, http.MethodPost, "/api/generate", map[string]any{
		"data":   gridconv.Grid{{"Name", "Age"}, {"Ann", "30"}},
		"format": "json",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[map[string]string](t, rec)
	assert.Equal(t, "[\n  {\n    \"Name\": \"Ann\",\n    \"Age\": 30\n  }\n]\n", out["output"])

	rec = do(t, h, http.MethodPost, "/api/convert", map[string]string{
		"text": "Name\tAge\nAnn\t30", "from": "tsv", "to": "md",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[gridBody](t, rec)
	assert.Equal(t, "| Name | Age |\n| ---- | --: |\n| Ann  |  30 |\n", body.Output)
	assert.Equal(t, 2, body.Stats.Rows)
}

func TestDownload(t *testing.T) {
	t.Parallel()
	h := newServer(t, server.Options{})
	rec := do(t, h, http.MethodPost, "/api/download", map[string]any{
		"data":   gridconv.Grid{{"a"}, {"1"}},
		"format": "latex",
		"name":   "../report",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-latex; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report.tex"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), `\begin{tabular}`)
}

func TestXLSX(t *testing.T) {
	t.Parallel()
	h := newServer(t, server.Options{})
	g := gridconv.Grid{{"Name", "Age"}, {"Ann", "30"}}

	rec := do(t, h, http.MethodPost, "/api/xlsx", map[string]any{"data": g})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsx.MIMEType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="table.xlsx"`, rec.Header().Get("Content-Disposition"))

	req := httptest.NewRequest(http.MethodPost, "/api/xlsx/read", bytes.NewReader(rec.Body.Bytes()))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, g, decode[gridBody](t, rec).Data)

	req = httptest.NewRequest(http.MethodPost, "/api/xlsx/read", strings.NewReader("not a workbook"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDiffAndShare(t *testing.T) {
	t.Parallel()
	h := newServer(t, server.Options{})

	rec := do(t, h, http.MethodPost, "/api/diff", map[string]any{
		"before": gridconv.Grid{{"a"}, {"1"}},
		"after":  gridconv.Grid{{"a"}, {"2"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[struct {
		Unified string           `json:"unified"`
		Changes []map[string]any `json:"changes"`
	}](t, rec)
	assert.Contains(t, d.Unified, "-1\n")
	assert.Contains(t, d.Unified, "+2\n")
	assert.Len(t, d.Changes, 1)

	rec = do(t, h, http.MethodPost, "/api/share", map[string]any{
		"data": gridconv.Grid{{"a"}, {"1"}}, "base": "https://example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	sh := decode[map[string]string](t, rec)
	assert.True(t, strings.HasPrefix(sh["email"], "mailto:?subject=Shared%20Table%20Data&body="))
	assert.True(t, strings.HasPrefix(sh["whatsapp"], "https://wa.me/?text="))
	assert.Equal(t, "https://example.com/shared/"+sh["id"], sh["link"])

	rec = do(t, h, http.MethodPost, "/api/share", map[string]any{"data": gridconv.Grid{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTemplatesAndSamples(t *testing.T) {
	t.Parallel()
	h := newServer(t, server.Options{})

	rec := do(t, h, http.MethodGet, "/api/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 6)

	rec = do(t, h, http.MethodGet, "/api/templates?popular=true&category=sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/templates/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Project Timeline", decode[map[string]any](t, rec)["name"])

	rec = do(t, h, http.MethodGet, "/api/templates/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/samples/yml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	s := decode[map[string]string](t, rec)
	assert.Equal(t, "yaml", s["format"])
	assert.True(t, strings.HasPrefix(s["text"], "- Name: John Doe"))

	rec = do(t, h, http.MethodGet, "/api/samples/docx", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTablesCRUD(t *testing.T) {
	t.Parallel()
	h := newServer(t, server.Options{})
	g := gridconv.Grid{{"Region", "Total"}, {"North", "10"}}

	rec := do(t, h, http.MethodPost, "/api/tables", map[string]any{"name": "Sales", "data": g, "format": "csv"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[store.SavedTable](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, g, created.Data)

	rec = do(t, h, http.MethodPost, "/api/tables", map[string]any{"name": " ", "data": g})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/tables", map[string]any{"name": "empty", "data": gridconv.Grid{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/tables?q=sal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]store.SavedTable](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/tables?q=zzz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = do(t, h, http.MethodPatch, "/api/tables/"+created.ID, map[string]any{
		"name": "Sales 2024", "data": gridconv.Grid{{"x"}}, "format": "tsv",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[store.SavedTable](t, rec)
	assert.Equal(t, "Sales 2024", updated.Name)
	assert.Equal(t, gridconv.TSV, updated.Format)
	assert.Equal(t, gridconv.Grid{{"x"}}, updated.Data)

	rec = do(t, h, http.MethodGet, "/api/tables/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sales 2024", decode[store.SavedTable](t, rec).Name)

	rec = do(t, h, http.MethodDelete, "/api/tables/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/tables/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/tables/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	h := newServer(t, server.Options{RateLimit: 0.001, RateBurst: 2})
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/formats", nil).Code)
	}
	rec := do(t, h, http.MethodGet, "/api/formats", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	req := httptest.NewRequest(http.MethodGet, "/api/formats", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	other := httptest.NewRecorder()
	h.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)
}

type wsState struct {
	Data   gridconv.Grid `json:"data"`
	View   gridconv.Grid `json:"view"`
	Text   string        `json:"text"`
	Output string        `json:"output"`
	Sort   struct {
		Column    int    `json:"column"`
		Direction string `json:"direction"`
	} `json:"sort"`
	CanUndo bool   `json:"canUndo"`
	CanRedo bool   `json:"canRedo"`
	Error   string `json:"error"`
}

func TestWebSocketSession(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(newServer(t, server.Options{HistoryLimit: 10}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	send := func(msg map[string]any) wsState {
		t.Helper()
		require.NoError(t, conn.WriteJSON(msg))
		var st wsState
		require.NoError(t, conn.ReadJSON(&st))
		return st
	}

	st := send(map[string]any{"action": "load", "text": "n,v\nb,10\na,9\nc,2", "format": "csv", "output": "tsv"})
	require.Empty(t, st.Error)
	assert.Equal(t, "n\tv\nb\t10\na\t9\nc\t2\n", st.Output)
	assert.False(t, st.CanUndo)

	st = send(map[string]any{"action": "sort", "col": 1})
	assert.Equal(t, "asc", st.Sort.Direction)
	assert.Equal(t, []string{"c", "2"}, st.Data[1])

	st = send(map[string]any{"action": "sort", "col": 1})
	assert.Equal(t, "desc", st.Sort.Direction)
	st = send(map[string]any{"action": "sort", "col": 1})
	assert.Equal(t, "none", st.Sort.Direction)
	assert.Equal(t, []string{"b", "10"}, st.Data[1])

	st = send(map[string]any{"action": "deleteRow", "index": 0})
	assert.Contains(t, st.Error, "header row")

	st = send(map[string]any{"action": "setCell", "row": 1, "col": 0, "value": "B"})
	require.Empty(t, st.Error)
	assert.Equal(t, "n,v\nB,10\na,9\nc,2\n", st.Text)
	assert.True(t, st.CanUndo)

	st = send(map[string]any{"action": "undo"})
	assert.Equal(t, "b", st.Data[1][0])
	assert.True(t, st.CanRedo)

	st = send(map[string]any{"action": "filter", "query": "A"})
	assert.Equal(t, gridconv.Grid{{"n", "v"}, {"a", "9"}}, st.View)

	st = send(map[string]any{"action": "load", "text": "<p>no table</p>", "format": "html"})
	assert.Contains(t, st.Error, "parse html")
	assert.Empty(t, st.Data)

	st = send(map[string]any{"action": "template", "template": "sales"})
	require.Empty(t, st.Error)
	assert.Equal(t, "Salesperson", st.Data[0][0])

	st = send(map[string]any{"action": "explode"})
	assert.Contains(t, st.Error, "unknown action")
}

func TestWebSocketSetCellOutOfRange(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(newServer(t, server.Options{HistoryLimit: 10}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	send := func(msg map[string]any) wsState {
		t.Helper()
		require.NoError(t, conn.WriteJSON(msg))
		var st wsState
		require.NoError(t, conn.ReadJSON(&st))
		return st
	}

	st := send(map[string]any{"action": "load", "text": "n,v\na,1", "format": "csv"})
	require.Empty(t, st.Error)

	st = send(map[string]any{"action": "setCell", "row": 100000000, "col": 0, "value": "x"})
	assert.Contains(t, st.Error, "out of range")
	assert.Equal(t, gridconv.Grid{{"n", "v"}, {"a", "1"}}, st.Data)
	assert.Equal(t, "n,v\na,1", st.Text)
	assert.False(t, st.CanUndo)

	st = send(map[string]any{"action": "setCell", "row": 1, "col": 5000, "value": "x"})
	assert.Contains(t, st.Error, "out of range")
	assert.Len(t, st.Data[1], 2)

	st = send(map[string]any{"action": "setCell", "row": 2, "col": 2, "value": "x"})
	require.Empty(t, st.Error)
	assert.Equal(t, gridconv.Grid{{"n", "v"}, {"a", "1"}, {"", "", "x"}}, st.Data)
	assert.Equal(t, "n,v,\na,1,\n,,x\n", st.Text)
}
