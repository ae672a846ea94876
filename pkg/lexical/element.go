package lexical

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr is one element attribute. Order is preserved on output.
type Attr struct {
	Key string
	Val string
}

// Element is one presentational element produced by Render. An element with
// an empty Tag is a text node.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
	Text     string
}

// Fragment is an ordered list of sibling elements.
type Fragment []*Element

func newElement(tag string, children ...*Element) *Element {
	return &Element{Tag: tag, Children: children}
}

func textElement(text string) *Element {
	return &Element{Text: text}
}

func (e *Element) setAttr(key, val string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Key == key {
			e.Attrs[i].Val = val
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Key: key, Val: val})
	return e
}

// Attr returns the value of an attribute and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether the class attribute lists name.
func (e *Element) HasClass(name string) bool {
	classes, _ := e.Attr("class")
	for _, c := range strings.Fields(classes) {
		if c == name {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text below e.
func (e *Element) TextContent() string {
	if e.Tag == "" {
		return e.Text
	}
	var sb strings.Builder
	for _, c := range e.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// Find returns every element in the fragment (depth-first) with the given tag.
func (f Fragment) Find(tag string) []*Element {
	var out []*Element
	var visit func(els []*Element)
	visit = func(els []*Element) {
		for _, el := range els {
			if el.Tag == tag {
				out = append(out, el)
			}
			visit(el.Children)
		}
	}
	visit(f)
	return out
}

// HTML serializes the fragment. Text and attribute values are escaped by the
// html package.
func (f Fragment) HTML() string {
	var buf bytes.Buffer
	for _, el := range f {
		if err := html.Render(&buf, el.node()); err != nil {
			continue
		}
	}
	return buf.String()
}

func (e *Element) node() *html.Node {
	if e.Tag == "" {
		return &html.Node{Type: html.TextNode, Data: e.Text}
	}

	n := &html.Node{
		Type:     html.ElementNode,
		Data:     e.Tag,
		DataAtom: atom.Lookup([]byte(e.Tag)),
	}
	for _, a := range e.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range e.Children {
		n.AppendChild(c.node())
	}
	return n
}
