package templates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/templates"
)

func TestAll(t *testing.T) {
	t.Parallel()
	all := templates.All()
	require.Len(t, all, 6)

	var ids []string
	for _, tpl := range all {
		ids = append(ids, tpl.ID)
		width := len(tpl.Data[0])
		for _, row := range tpl.Data {
			assert.Len(t, row, width, tpl.ID)
		}
	}
	assert.Equal(t, []string{"business", "financial", "inventory", "employees", "sales", "projects"}, ids)
}

func TestGet(t *testing.T) {
	t.Parallel()
	tpl, ok := templates.Get("inventory")
	require.True(t, ok)
	assert.Equal(t, "Inventory Management", tpl.Name)
	assert.Equal(t, []string{"P001", "Laptop Pro 15", "Electronics", "25", "1299.99", "TechCorp"}, tpl.Data[1])

	tpl.Data[1][0] = "changed"
	again, _ := templates.Get("inventory")
	assert.Equal(t, "P001", again.Data[1][0])

	_, ok = templates.Get("missing")
	assert.False(t, ok)
}

func TestPopularAndCategories(t *testing.T) {
	t.Parallel()
	var ids []string
	for _, tpl := range templates.Popular() {
		ids = append(ids, tpl.ID)
	}
	assert.Equal(t, []string{"business", "inventory", "sales"}, ids)
	assert.Equal(t, []string{"Business", "Finance", "HR", "Management", "Operations", "Sales"}, templates.Categories())
}

func TestTemplatesRoundTrip(t *testing.T) {
	t.Parallel()
	for _, tpl := range templates.All() {
		for _, f := range gridconv.Formats() {
			got, err := gridconv.Parse(gridconv.Generate(f, tpl.Data), f)
			require.NoError(t, err, "%s/%s", tpl.ID, f)
			if f == gridconv.XML {
				// element names replace spaces and symbols in the header
				assert.Equal(t, tpl.Data[1:], got[1:], "%s/%s", tpl.ID, f)
				continue
			}
			assert.Equal(t, tpl.Data, got, "%s/%s", tpl.ID, f)
		}
	}
}

func TestSamples(t *testing.T) {
	t.Parallel()
	rows := map[gridconv.Format]int{
		gridconv.CSV:      6,
		gridconv.TSV:      6,
		gridconv.JSON:     6,
		gridconv.HTML:     4,
		gridconv.Markdown: 6,
		gridconv.XML:      4,
		gridconv.YAML:     4,
		gridconv.SQL:      6,
		gridconv.LaTeX:    6,
		gridconv.ASCII:    6,
		gridconv.Excel:    3,
	}
	for _, f := range gridconv.Formats() {
		f := f
		t.Run(string(f), func(t *testing.T) {
			t.Parallel()
			g, err := gridconv.Parse(templates.Sample(f), f)
			require.NoError(t, err)
			assert.Equal(t, []string{"Name", "Age", "City", "Salary"}, g.Header())
			assert.Len(t, g, rows[f])
			assert.Equal(t, []string{"John Doe", "28", "New York", "75000"}, g[1])
		})
	}
	assert.Equal(t, templates.Sample(gridconv.CSV), templates.Sample("docx"))
}
