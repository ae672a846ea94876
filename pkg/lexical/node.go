package lexical

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRoot is returned by ParseDocument when the payload has no root node.
var ErrMissingRoot = errors.New("lexical document has no root")

// ParseDocument decodes a serialized editor state.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse lexical json: %w", err)
	}
	if doc.Root == nil {
		return nil, ErrMissingRoot
	}
	dropNilChildren(doc.Root)
	return &doc, nil
}

// dropNilChildren removes null entries from every children array below n,
// caption trees included.
func dropNilChildren(n *Node) {
	n.Children = compactNodes(n.Children)
	if n.Caption.IsNodes {
		n.Caption.Nodes = compactNodes(n.Caption.Nodes)
	}
}

func compactNodes(nodes []*Node) []*Node {
	kept := nodes[:0]
	for _, c := range nodes {
		if c == nil {
			continue
		}
		dropNilChildren(c)
		kept = append(kept, c)
	}
	return kept
}

// ParseContent parses a raw string, returning nil when it does not hold a
// usable document.
func ParseContent(content string) *Document {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	doc, err := ParseDocument([]byte(trimmed))
	if err != nil {
		return nil
	}
	return doc
}

// NewEmptyDocument returns the state a fresh editor starts with: one empty
// paragraph under the root.
func NewEmptyDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     TypeRoot,
			Version:  1,
			Format:   Named(""),
			Children: []*Node{NewParagraph()},
		},
	}
}

// NewParagraph returns a paragraph holding the given inline children.
func NewParagraph(children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Type: TypeParagraph, Version: 1, Format: Named(""), Children: children}
}

// NewText returns a text run.
func NewText(text string, format int) *Node {
	return &Node{Type: TypeText, Version: 1, Text: text, Format: Bits(format), Mode: "normal"}
}

// Children returns the root's block list, tolerating a nil document.
func (d *Document) Children() []*Node {
	if d == nil || d.Root == nil {
		return nil
	}
	return d.Root.Children
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{Root: d.Root.Clone()}
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Children = cloneNodes(n.Children)
	if n.Caption.IsNodes {
		c.Caption.Nodes = cloneNodes(n.Caption.Nodes)
	}
	if n.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(n.Extra))
		for k, v := range n.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

func cloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// IsElement reports whether the node is a container that may hold children.
func (n *Node) IsElement() bool {
	switch n.Type {
	case TypeText, TypeLineBreak, TypeTab, TypeImage, TypeHorizontalRule:
		return false
	}
	return true
}

// Walk visits nodes depth-first in document order. Returning false from fn
// skips the node's subtree.
func Walk(nodes []*Node, fn func(n *Node) bool) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if fn(n) {
			Walk(n.Children, fn)
		}
	}
}
