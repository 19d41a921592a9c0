package article

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Selector matches elements by tag, classes and exact attribute values.
// It understands the subset of CSS used by news site scrapers:
// "tag", ".class", "[attr=value]" and combinations like
// `div.body[itemprop="articleBody"]`.
type Selector struct {
	Tag     string
	Classes []string
	Attrs   map[string]string
}

const combinators = " \t\n>+~"

// ParseSelector parses a compound selector.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, fmt.Errorf("empty selector")
	}

	var sel Selector
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && s[i] != '.' && s[i] != '[' {
			i++
		}
		return s[start:i]
	}

	sel.Tag = strings.ToLower(readIdent())
	if strings.ContainsAny(sel.Tag, combinators) {
		return Selector{}, fmt.Errorf("selector %q: combinators are not supported", s)
	}
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			class := readIdent()
			if class == "" {
				return Selector{}, fmt.Errorf("selector %q: empty class", s)
			}
			if strings.ContainsAny(class, combinators) {
				return Selector{}, fmt.Errorf("selector %q: combinators are not supported", s)
			}
			sel.Classes = append(sel.Classes, class)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return Selector{}, fmt.Errorf("selector %q: unterminated attribute", s)
			}
			key, val, ok := strings.Cut(s[i+1:i+end], "=")
			if !ok || strings.TrimSpace(key) == "" {
				return Selector{}, fmt.Errorf("selector %q: attribute must be [name=value]", s)
			}
			if sel.Attrs == nil {
				sel.Attrs = make(map[string]string)
			}
			sel.Attrs[strings.ToLower(strings.TrimSpace(key))] = strings.Trim(strings.TrimSpace(val), `"'`)
			i += end + 1
		default:
			return Selector{}, fmt.Errorf("selector %q: unexpected %q", s, s[i])
		}
	}
	return sel, nil
}

// ParseSelectorList parses a comma-separated list of selectors.
func ParseSelectorList(s string) ([]Selector, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []Selector
	for _, part := range strings.Split(s, ",") {
		sel, err := ParseSelector(part)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

// Matches reports whether n is an element satisfying the selector.
func (s Selector) Matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.Tag != "" && n.Data != s.Tag {
		return false
	}
	if len(s.Classes) > 0 {
		classes := strings.Fields(attr(n, "class"))
		for _, c := range s.Classes {
			if !slices.Contains(classes, c) {
				return false
			}
		}
	}
	for k, v := range s.Attrs {
		if got, ok := lookupAttr(n, k); !ok || got != v {
			return false
		}
	}
	return true
}

// findFirst returns the first node in document order matching sel.
func findFirst(root *html.Node, sel Selector) *html.Node {
	if sel.Matches(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := findFirst(c, sel); n != nil {
			return n
		}
	}
	return nil
}

// findAll returns every node under root matching any of sels, outermost
// first. Descendants of a match are not visited.
func findAll(root *html.Node, sels []Selector) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for _, s := range sels {
			if s.Matches(n) {
				out = append(out, n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
