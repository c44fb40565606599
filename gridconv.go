package gridconv

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format identifies a textual table format.
type Format string

const (
	CSV      Format = "csv"
	TSV      Format = "tsv"
	JSON     Format = "json"
	HTML     Format = "html"
	Markdown Format = "markdown"
	XML      Format = "xml"
	YAML     Format = "yaml"
	SQL      Format = "sql"
	LaTeX    Format = "latex"
	ASCII    Format = "ascii"
	Excel    Format = "excel"
)

// FormatInfo describes a format for display and download.
type FormatInfo struct {
	ID        Format `json:"id"`
	Label     string `json:"label"`
	Extension string `json:"extension"`
	MIMEType  string `json:"mimeType"`
}

var infos = []FormatInfo{
	{ID: CSV, Label: "CSV", Extension: "csv", MIMEType: "text/csv"},
	{ID: TSV, Label: "TSV", Extension: "tsv", MIMEType: "text/tab-separated-values"},
	{ID: JSON, Label: "JSON", Extension: "json", MIMEType: "application/json"},
	{ID: HTML, Label: "HTML Table", Extension: "html", MIMEType: "text/html"},
	{ID: Markdown, Label: "Markdown", Extension: "md", MIMEType: "text/markdown"},
	{ID: XML, Label: "XML", Extension: "xml", MIMEType: "application/xml"},
	{ID: YAML, Label: "YAML", Extension: "yaml", MIMEType: "application/x-yaml"},
	{ID: SQL, Label: "SQL Insert", Extension: "sql", MIMEType: "application/sql"},
	{ID: LaTeX, Label: "LaTeX", Extension: "tex", MIMEType: "application/x-latex"},
	{ID: ASCII, Label: "ASCII Table", Extension: "txt", MIMEType: "text/plain"},
	{ID: Excel, Label: "Excel Formula", Extension: "txt", MIMEType: "text/plain"},
}

// Short ids accepted by [ParseFormat].
var idAliases = map[Format]Format{
	"md":  Markdown,
	"yml": YAML,
}

// Extra extensions recognized when detecting a format from a file name.
var extensionAliases = map[string]Format{
	"htm":      HTML,
	"markdown": Markdown,
	"yml":      YAML,
	"latex":    LaTeX,
}

type codec struct {
	parse func(string) (Grid, error)
	write func(io.Writer, Grid) error
}

var codecs = map[Format]codec{
	CSV:      {parse: parseCSV, write: writeCSV},
	TSV:      {parse: parseTSV, write: writeTSV},
	JSON:     {parse: parseJSON, write: writeJSON},
	HTML:     {parse: parseHTML, write: writeHTML},
	Markdown: {parse: parseMarkdown, write: writeMarkdown},
	XML:      {parse: parseXML, write: writeXML},
	YAML:     {parse: parseYAML, write: writeYAML},
	SQL:      {parse: parseSQL, write: writeSQL},
	LaTeX:    {parse: parseLaTeX, write: writeLaTeX},
	ASCII:    {parse: parseASCII, write: writeASCII},
	Excel:    {parse: parseExcel, write: writeExcel},
}

// String returns the format id.
func (f Format) String() string { return string(f) }

// Info returns the registry entry for f, falling back to CSV for unknown ids.
func (f Format) Info() FormatInfo {
	if info, ok := Lookup(f); ok {
		return info
	}
	return infos[0]
}

// Formats returns all supported format ids in registry order.
func Formats() []Format {
	out := make([]Format, len(infos))
	for i, info := range infos {
		out[i] = info.ID
	}
	return out
}

// Infos returns a copy of the format registry.
func Infos() []FormatInfo {
	out := make([]FormatInfo, len(infos))
	copy(out, infos)
	return out
}

// Lookup returns the registry entry for f.
func Lookup(f Format) (FormatInfo, bool) {
	for _, info := range infos {
		if info.ID == f {
			return info, true
		}
	}
	return FormatInfo{}, false
}

// ParseFormat parses a format id. Unlike [Parse] and [Generate], unknown ids
// are reported instead of falling back to CSV.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Lookup(f); ok {
		return f, nil
	}
	if a, ok := idAliases[f]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ForFilename detects a format from the extension of name. The generic "txt"
// extension is reported as ASCII.
func ForFilename(name string) (Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return "", false
	}
	if f, ok := extensionAliases[ext]; ok {
		return f, true
	}
	for _, info := range infos {
		if info.Extension == ext {
			return info.ID, true
		}
	}
	return "", false
}

func codecFor(f Format) codec {
	if c, ok := codecs[f]; ok {
		return c
	}
	return codecs[CSV]
}

// Parse converts text in format f into a Grid. Whitespace-only text yields an
// empty grid. Unknown formats are parsed as CSV. When the text does not match
// the format the returned grid is nil and the error is a *ParseError.
func Parse(text string, f Format) (Grid, error) {
	if strings.TrimSpace(text) == "" {
		return Grid{}, nil
	}
	if _, ok := codecs[f]; !ok {
		f = CSV
	}
	g, err := codecFor(f).parse(text)
	if err != nil {
		return nil, &ParseError{Format: f, Err: err}
	}
	return g, nil
}

// Write renders g in format f to w. Unknown formats are written as CSV.
// The only errors returned come from w.
func Write(w io.Writer, f Format, g Grid) error {
	return codecFor(f).write(w, g)
}

// Generate renders g in format f.
func Generate(f Format, g Grid) string {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail.
	_ = Write(&buf, f, g)
	return buf.String()
}

// Convert parses text as from and renders the result as to.
func Convert(text string, from, to Format) (string, error) {
	g, err := Parse(text, from)
	if err != nil {
		return "", err
	}
	return Generate(to, g), nil
}
