package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/store"
)

type result struct {
	out    string
	stderr string
	err    error
}

// writeConfig points the store at a fresh directory and quiets logging.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "[log]\nlevel = \"warn\"\n\n[store]\ndriver = \"file\"\npath = \"" +
		filepath.ToSlash(filepath.Join(dir, "tables.json")) + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(ctx context.Context, cfg, stdin string, args ...string) result {
	cmd := newRootCmd()
	var out, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.ExecuteContext(ctx)
	return result{out: out.String(), stderr: stderr.String(), err: err}
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	return execute(context.Background(), writeConfig(t), stdin, args...)
}

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		stdin string
		args  []string
		want  string
	}{
		"csv to json": {
			stdin: "a,b\n1,2",
			args:  []string{"convert", "--from", "csv", "--to", "json"},
			want:  "[\n  {\n    \"a\": 1,\n    \"b\": 2\n  }\n]\n",
		},
		"config defaults": {
			stdin: "name,city\nAnn,Oslo",
			args:  []string{"convert"},
			want:  "[\n  {\n    \"name\": \"Ann\",\n    \"city\": \"Oslo\"\n  }\n]\n",
		},
		"short flags and alias": {
			stdin: "name\tcity\nAnn\tOslo",
			args:  []string{"convert", "-f", "tsv", "-t", "md"},
			want:  "| name | city |\n| ---- | ---- |\n| Ann  | Oslo |\n",
		},
		"stdin dash": {
			stdin: "- name: Ann\n",
			args:  []string{"convert", "-", "--from", "yaml", "--to", "csv"},
			want:  "name\nAnn\n",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			r := run(t, tc.stdin, tc.args...)
			require.NoError(t, r.err)
			assert.Equal(t, tc.want, r.out)
		})
	}
}

func TestConvertDetectsFormatsFromFilenames(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tsv")
	out := filepath.Join(dir, "out.md")
	require.NoError(t, os.WriteFile(in, []byte("name\tcity\nAnn\tOslo\n"), 0o644))

	r := run(t, "", "convert", in, "-o", out)
	require.NoError(t, r.err)
	assert.Empty(t, r.out)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "| name | city |\n| ---- | ---- |\n| Ann  | Oslo |\n", string(got))
}

func TestConvertWorkbookRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	book := filepath.Join(dir, "out.xlsx")

	r := run(t, "name,qty\nbolt,12\n", "convert", "--from", "csv", "-o", book)
	require.NoError(t, r.err)

	r = run(t, "", "convert", book, "--to", "csv")
	require.NoError(t, r.err)
	assert.Equal(t, "name,qty\nbolt,12\n", r.out)
}

func TestConvertErrors(t *testing.T) {
	t.Parallel()

	r := run(t, "nothing here", "convert", "--from", "sql")
	require.Error(t, r.err)
	var perr *gridconv.ParseError
	require.ErrorAs(t, r.err, &perr)
	assert.Equal(t, gridconv.SQL, perr.Format)

	r = run(t, "a", "convert", "--to", "docx")
	assert.ErrorIs(t, r.err, gridconv.ErrUnsupportedFormat)

	r = run(t, "", "convert", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, r.err, os.ErrNotExist)
}

func TestLogFlags(t *testing.T) {
	t.Parallel()
	r := run(t, "a", "--log-level", "loud", "formats")
	assert.ErrorContains(t, r.err, "log level")

	r = run(t, "a", "--log-format", "xml", "formats")
	assert.ErrorContains(t, r.err, "log format")

	r = run(t, "a,b\n1,2", "--log-level", "info", "--log-format", "logfmt", "convert", "-t", "csv")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "msg=converted")
	assert.Contains(t, r.stderr, "rows=2")
}

func TestFormats(t *testing.T) {
	t.Parallel()
	r := run(t, "", "formats")
	require.NoError(t, r.err)
	for _, want := range []string{"MIME TYPE", "markdown", "text/csv", "latex", "xlsx"} {
		assert.Contains(t, r.out, want)
	}
	assert.Len(t, strings.Split(strings.TrimSpace(r.out), "\n"), len(gridconv.Formats())+2)
}

func TestPreview(t *testing.T) {
	t.Parallel()
	r := run(t, "a,b\n1,2", "preview", "--from", "csv", "--border", "ascii")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "+---+---+")
	assert.Contains(t, r.out, "2 rows, 2 columns, 4 cells")

	r = run(t, "a,b\n1,2", "preview", "--from", "csv", "--border", "wavy")
	assert.ErrorContains(t, r.err, "unknown border style")

	r = run(t, "item,qty\nbolt,12", "preview", "--from", "csv", "--markdown")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "bolt")
}

func TestDiff(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(a, []byte("k,v\nx,1\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(`[{"k": "x", "v": 2}]`), 0o644))

	r := run(t, "", "diff", a, b, "--plain")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "-x,1\n")
	assert.Contains(t, r.out, "+x,2\n")

	r = run(t, "", "diff", a, b, "--cells")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "OLD")
	assert.Contains(t, r.out, "2")

	r = run(t, "", "diff", a, a)
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "no differences")
}

func TestTemplatesAndSample(t *testing.T) {
	t.Parallel()

	r := run(t, "", "templates", "list")
	require.NoError(t, r.err)
	for _, id := range []string{"business", "financial", "inventory", "employees", "sales", "projects"} {
		assert.Contains(t, r.out, id)
	}

	r = run(t, "", "templates", "list", "--category", "hr")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "employees")
	assert.NotContains(t, r.out, "inventory")

	r = run(t, "", "templates", "show", "sales", "--to", "tsv")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.out, "Salesperson\tRegion\t"))

	r = run(t, "", "templates", "show", "nope")
	assert.ErrorContains(t, r.err, "unknown template")

	r = run(t, "", "sample", "yml")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.out, "- Name: John Doe"))
}

func TestTables(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := writeConfig(t)

	r := execute(ctx, cfg, "region,total\nNorth,10\n", "tables", "save", "Q1 Sales", "--from", "csv")
	require.NoError(t, r.err)
	id := strings.TrimSpace(r.out)
	require.NotEmpty(t, id)

	r = execute(ctx, cfg, "", "tables", "list", "q1")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Q1 Sales")
	assert.Contains(t, r.out, "2x2")

	r = execute(ctx, cfg, "", "tables", "list", "nothing")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "no saved tables")

	r = execute(ctx, cfg, "", "tables", "show", id)
	require.NoError(t, r.err)
	assert.Equal(t, "region,total\nNorth,10\n", r.out)

	r = execute(ctx, cfg, "", "tables", "show", id, "--to", "json")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, `"total": 10`)

	r = execute(ctx, cfg, "a\n1\n", "tables", "save", "  ", "--from", "csv")
	assert.ErrorIs(t, r.err, store.ErrNameRequired)

	r = execute(ctx, cfg, "", "tables", "delete", id)
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "Q1 Sales")

	r = execute(ctx, cfg, "", "tables", "show", id)
	assert.ErrorIs(t, r.err, store.ErrNotFound)
}

func TestShare(t *testing.T) {
	t.Parallel()
	r := run(t, "a,b\n1,2", "share", "--from", "csv", "--base", "https://tables.example.com")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "mailto:?subject=Shared%20Table%20Data&body=Check%20out%20this%20table%20data")
	assert.Contains(t, r.out, "https://wa.me/?text=")
	assert.Contains(t, r.out, "https://tables.example.com/shared/")
	assert.Contains(t, r.out, `<iframe src="https://tables.example.com/embed/`)

	r = run(t, "", "share", "--from", "csv")
	assert.ErrorContains(t, r.err, "no table data")
}

func TestWatch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.tsv")
	require.NoError(t, os.WriteFile(in, []byte("a,b\n1,2\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan result, 1)
	cfg := writeConfig(t)
	go func() {
		done <- execute(ctx, cfg, "", "watch", in, "-o", out)
	}()

	read := func() string {
		data, _ := os.ReadFile(out)
		return string(data)
	}
	require.Eventually(t, func() bool { return read() == "a\tb\n1\t2\n" }, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(in, []byte("a,b\n3,4\n"), 0o644))
	require.Eventually(t, func() bool { return read() == "a\tb\n3\t4\n" }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case r := <-done:
		require.NoError(t, r.err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestResolveFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		id   string
		name string
		def  string
		want gridconv.Format
	}{
		"explicit wins":      {id: "json", name: "a.csv", def: "csv", want: gridconv.JSON},
		"extension":          {name: "report.yml", def: "csv", want: gridconv.YAML},
		"workbook extension": {name: "Book.XLSX", def: "csv", want: xlsxFormat},
		"workbook id":        {id: "XLSX", def: "csv", want: xlsxFormat},
		"default":            {name: "data", def: "tsv", want: gridconv.TSV},
		"txt is ascii":       {name: "t.txt", def: "csv", want: gridconv.ASCII},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveFormat(tc.id, tc.name, tc.def)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
