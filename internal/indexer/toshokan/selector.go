package toshokan

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Node is the small slice of DOM traversal the listing parser relies on.
// A Node may hold zero, one or many elements; Len reports how many.
type Node interface {
	Find(selector string) Node
	Last() Node
	Parent() Node
	Next() Node
	Attr(name string) (string, bool)
	Text() string
	Len() int
	Each(fn func(i int, n Node))
}

// LoadDocument parses raw HTML into a root Node backed by goquery.
func LoadDocument(html []byte) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return selection{sel: doc.Selection}, nil
}

type selection struct {
	sel *goquery.Selection
}

func (s selection) Find(selector string) Node {
	return selection{sel: s.sel.Find(selector)}
}

func (s selection) Last() Node {
	return selection{sel: s.sel.Last()}
}

func (s selection) Parent() Node {
	return selection{sel: s.sel.Parent()}
}

func (s selection) Next() Node {
	return selection{sel: s.sel.Next()}
}

func (s selection) Attr(name string) (string, bool) {
	return s.sel.Attr(name)
}

func (s selection) Text() string {
	return s.sel.Text()
}

func (s selection) Len() int {
	return s.sel.Length()
}

func (s selection) Each(fn func(i int, n Node)) {
	s.sel.Each(func(i int, sel *goquery.Selection) {
		fn(i, selection{sel: sel})
	})
}

// ExtractText returns the trimmed text of a node, or "" for an empty node.
func ExtractText(n Node) string {
	if n == nil || n.Len() == 0 {
		return ""
	}
	return strings.TrimSpace(n.Text())
}

// ExtractAttribute returns the trimmed attribute of the first element.
func ExtractAttribute(n Node, attr string) string {
	if n == nil || n.Len() == 0 {
		return ""
	}
	val, _ := n.Attr(attr)
	return strings.TrimSpace(val)
}
