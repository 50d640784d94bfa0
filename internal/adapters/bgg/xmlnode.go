package bgg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// node is a generic XML element. BGG payloads are loosely structured, so
// they are decoded into a tree and queried rather than bound to structs.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

func parseDocument(doc []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.Entity = xml.HTMLEntity
	var root node
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}
	return &root, nil
}

func (n *node) name() string { return n.XMLName.Local }

func (n *node) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// child returns the first direct child called name.
func (n *node) child(name string) *node {
	for i := range n.Children {
		if n.Children[i].name() == name {
			return &n.Children[i]
		}
	}
	return nil
}

// children returns every direct child called name.
func (n *node) children(name string) []*node {
	var out []*node
	for i := range n.Children {
		if n.Children[i].name() == name {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

// find follows a slash-separated path of direct children.
func (n *node) find(path string) *node {
	cur := n
	for _, step := range strings.Split(path, "/") {
		if cur = cur.child(step); cur == nil {
			return nil
		}
	}
	return cur
}

// descendants returns every element called name below n at any depth,
// in document order.
func (n *node) descendants(name string) []*node {
	var out []*node
	var walk func(*node)
	walk = func(cur *node) {
		for i := range cur.Children {
			c := &cur.Children[i]
			if c.name() == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// extract locates path under n, reads attr (or the element text when attr
// is empty) and converts it with cast. Any missing element, missing value
// or cast failure yields nil.
func extract[T any](n *node, path, attr string, cast func(string) (T, error)) *T {
	if n == nil {
		return nil
	}
	target := n.find(path)
	if target == nil {
		return nil
	}
	var raw string
	if attr != "" {
		v, ok := target.attr(attr)
		if !ok {
			return nil
		}
		raw = v
	} else {
		raw = target.Text
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := cast(raw)
	if err != nil {
		return nil
	}
	return &v
}

func asString(s string) (string, error) { return s, nil }

func asInt(s string) (int, error) { return strconv.Atoi(s) }

func asFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return f, nil
}

func extractText(n *node, path string) *string { return extract(n, path, "", asString) }

func extractInt(n *node, path, attr string) *int { return extract(n, path, attr, asInt) }

func extractFloat(n *node, path, attr string) *float64 { return extract(n, path, attr, asFloat) }
