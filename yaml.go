package gridconv

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseYAML reads a list of flat mappings line by line. "- " opens a record
// and may carry its first pair inline; later "key: value" lines extend the
// current record. Quoted keys and values are decoded as YAML scalars; plain
// values are kept as written.
func parseYAML(text string) (Grid, error) {
	var (
		header  []string
		records []map[string]string
		current map[string]string
		order   []string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		if header == nil {
			header = order
		}
		records = append(records, current)
	}
	add := func(line string) {
		key, value, ok := splitYAMLPair(line)
		if !ok {
			return
		}
		if current == nil {
			current = make(map[string]string)
			order = nil
		}
		if _, seen := current[key]; !seen {
			order = append(order, key)
		}
		current[key] = value
	}

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"), trimmed == "---", trimmed == "...":
			continue
		case trimmed == "-" || strings.HasPrefix(trimmed, "- "):
			flush()
			current = make(map[string]string)
			order = nil
			if rest := strings.TrimSpace(trimmed[1:]); rest != "" {
				add(rest)
			}
		default:
			add(trimmed)
		}
	}
	flush()

	if len(records) == 0 {
		return nil, errors.New("no key: value records")
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

// splitYAMLPair splits "key: value" at the first separator outside a quoted
// key. A line ending in ":" has an empty value.
func splitYAMLPair(line string) (string, string, bool) {
	rest := line
	var key string
	if len(line) > 0 && (line[0] == '"' || line[0] == '\'') {
		end := closingQuote(line)
		if end < 0 {
			return "", "", false
		}
		key = yamlScalar(line[:end+1])
		rest = strings.TrimLeft(line[end+1:], " \t")
		if !strings.HasPrefix(rest, ":") {
			return "", "", false
		}
		rest = rest[1:]
	} else {
		i := strings.Index(line, ": ")
		switch {
		case i >= 0:
			key, rest = line[:i], line[i+2:]
		case strings.HasSuffix(line, ":"):
			key, rest = line[:len(line)-1], ""
		default:
			return "", "", false
		}
		key = strings.TrimSpace(key)
	}
	if key == "" {
		return "", "", false
	}
	return key, yamlScalar(strings.TrimSpace(rest)), true
}

// closingQuote returns the index of the quote closing the scalar that opens s.
func closingQuote(s string) int {
	q := s[0]
	for i := 1; i < len(s); i++ {
		switch {
		case q == '"' && s[i] == '\\':
			i++
		case s[i] == q && q == '\'' && i+1 < len(s) && s[i+1] == '\'':
			i++
		case s[i] == q:
			return i
		}
	}
	return -1
}

func yamlScalar(s string) string {
	if len(s) < 2 || (s[0] != '"' && s[0] != '\'') {
		return s
	}
	var out string
	if err := yaml.Unmarshal([]byte(s), &out); err != nil {
		return s
	}
	return out
}

func writeYAML(w io.Writer, g Grid) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	if len(g) > 1 {
		g = g.Rect()
		keys := fieldNames(g[0], g.Width())
		for _, row := range g[1:] {
			m := &yaml.Node{Kind: yaml.MappingNode}
			for i, key := range keys {
				m.Content = append(m.Content, yamlNode(key), yamlNode(row[i]))
			}
			seq.Content = append(seq.Content, m)
		}
	}
	if len(seq.Content) == 0 {
		seq.Style = yaml.FlowStyle
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func yamlNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: s}
	if yamlNeedsQuotes(s) {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// yamlNeedsQuotes reports values that could be misread as structure.
func yamlNeedsQuotes(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return true
	}
	if strings.ContainsAny(s, ":-[]{}#\"'\n\r\t,") {
		return true
	}
	return strings.ContainsAny(s[:1], "&*!|>%@`?")
}
