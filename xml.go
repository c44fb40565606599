package gridconv

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

type xmlNode struct {
	name     string
	attrs    []xml.Attr
	children []*xmlNode
	text     strings.Builder
}

// innerText returns the trimmed text of n and its descendants.
func (n *xmlNode) innerText() string {
	var sb strings.Builder
	var walk func(*xmlNode)
	walk = func(n *xmlNode) {
		sb.WriteString(n.text.String())
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func (n *xmlNode) child(name string) *xmlNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// parseXML takes the elements named row or record as records, falling back to
// the repeated children of the root. Fields are the child elements of the
// first record, or its attributes when it has no children.
func parseXML(text string) (Grid, error) {
	root, err := decodeXMLTree(text)
	if err != nil {
		return nil, err
	}
	records := findRecords(root)
	if len(records) == 0 {
		return Grid{}, nil
	}

	first := records[0]
	var header []string
	seen := make(map[string]bool)
	if len(first.children) > 0 {
		for _, c := range first.children {
			if !seen[c.name] {
				seen[c.name] = true
				header = append(header, c.name)
			}
		}
	} else {
		for _, a := range first.attrs {
			if !seen[a.Name.Local] {
				seen[a.Name.Local] = true
				header = append(header, a.Name.Local)
			}
		}
	}
	if len(header) == 0 {
		return nil, errors.New("records have no fields")
	}

	g := Grid{header}
	for _, rec := range records {
		row := make([]string, len(header))
		for i, name := range header {
			if c := rec.child(name); c != nil {
				row[i] = c.innerText()
				continue
			}
			for _, a := range rec.attrs {
				if a.Name.Local == name {
					row[i] = strings.TrimSpace(a.Value)
					break
				}
			}
		}
		g = append(g, row)
	}
	return g, nil
}

func decodeXMLTree(text string) (*xmlNode, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Entity = xml.HTMLEntity

	var (
		root  *xmlNode
		stack []*xmlNode
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name.Local, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("more than one root element")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}

func findRecords(root *xmlNode) []*xmlNode {
	var records []*xmlNode
	var walk func(*xmlNode)
	walk = func(n *xmlNode) {
		for _, c := range n.children {
			switch strings.ToLower(c.name) {
			case "row", "record":
				records = append(records, c)
			default:
				walk(c)
			}
		}
	}
	walk(root)
	if len(records) > 0 {
		return records
	}

	// Descend through single wrappers such as <data><items>...</items></data>.
	n := root
	for len(n.children) == 1 && hasNestedChildren(n.children[0]) {
		n = n.children[0]
	}
	return n.children
}

func hasNestedChildren(n *xmlNode) bool {
	for _, c := range n.children {
		if len(c.children) > 0 {
			return true
		}
	}
	return false
}

func writeXML(w io.Writer, g Grid) error {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	if len(g) < 2 {
		sb.WriteString("<data></data>\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}
	g = g.Rect()
	width := g.Width()
	sanitized := make([]string, width)
	for i, name := range g[0] {
		sanitized[i] = xmlName(name)
	}
	names := fieldNames(sanitized, width)

	sb.WriteString("<data>\n")
	for _, row := range g[1:] {
		sb.WriteString("  <record>\n")
		for i, cell := range row {
			sb.WriteString("    <" + names[i] + ">")
			sb.WriteString(markupEscaper.Replace(cell))
			sb.WriteString("</" + names[i] + ">\n")
		}
		sb.WriteString("  </record>\n")
	}
	sb.WriteString("</data>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// xmlName maps s onto a valid element name. Characters outside letters,
// digits, underscore and hyphen become underscores. Names that would start
// with a digit, a hyphen or "xml" get a leading underscore.
func xmlName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	name := sb.String()
	first := name[0]
	if first == '-' || (first >= '0' && first <= '9') || strings.HasPrefix(strings.ToLower(name), "xml") {
		name = "_" + name
	}
	return name
}
