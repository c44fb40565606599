package gridconv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// parseJSON reads a non-empty array of flat objects. Column order follows the
// keys of the first object as written in the document.
func parseJSON(text string) (Grid, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.New("root is not an array of objects")
	}

	var (
		header  []string
		records []map[string]string
	)
	for dec.More() {
		keys, record, err := readJSONObject(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records)+1, err)
		}
		if header == nil {
			header = keys
		}
		records = append(records, record)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after the array")
	}
	if len(records) == 0 {
		return nil, errors.New("array is empty")
	}
	if len(header) == 0 {
		return nil, errors.New("first object has no keys")
	}

	g := Grid{header}
	for _, record := range records {
		row := make([]string, len(header))
		for i, key := range header {
			row[i] = record[key]
		}
		g = append(g, row)
	}
	return g, nil
}

func readJSONObject(dec *json.Decoder) ([]string, map[string]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.New("element is not an object")
	}
	keys := []string{}
	record := make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		value, err := jsonCell(raw)
		if err != nil {
			return nil, nil, err
		}
		if _, seen := record[key]; !seen {
			keys = append(keys, key)
		}
		record[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, record, nil
}

// jsonCell renders a JSON value as cell text. Strings are unquoted, null is
// empty, and arrays or objects are kept as compact JSON.
func jsonCell(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || string(raw) == "null":
		return "", nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case raw[0] == '{' || raw[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(raw), nil
	}
}

func writeJSON(w io.Writer, g Grid) error {
	if len(g) < 2 {
		_, err := io.WriteString(w, "[]\n")
		return err
	}
	g = g.Rect()
	keys := fieldNames(g[0], g.Width())

	var compact bytes.Buffer
	compact.WriteByte('[')
	for r, row := range g[1:] {
		if r > 0 {
			compact.WriteByte(',')
		}
		compact.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				compact.WriteByte(',')
			}
			compact.WriteString(jsonString(key))
			compact.WriteByte(':')
			if n, ok := jsonNumber(row[i]); ok {
				compact.WriteString(n.String())
			} else {
				compact.WriteString(jsonString(row[i]))
			}
		}
		compact.WriteByte('}')
	}
	compact.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}

func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
