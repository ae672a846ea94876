package editor

import (
	"unicode/utf8"

	"bistro-cms-be/pkg/lexical"
)

func nodeAt(root *lexical.Node, path []int) *lexical.Node {
	if root == nil || len(path) == 0 {
		return nil
	}
	n := root
	for _, i := range path {
		if i < 0 || i >= len(n.Children) {
			return nil
		}
		n = n.Children[i]
		if n == nil {
			return nil
		}
	}
	return n
}

func parentOf(root *lexical.Node, path []int) (*lexical.Node, int) {
	if len(path) == 0 {
		return nil, -1
	}
	if len(path) == 1 {
		return root, path[0]
	}
	return nodeAt(root, path[:len(path)-1]), path[len(path)-1]
}

// pathOf finds target by identity.
func pathOf(root *lexical.Node, target *lexical.Node) []int {
	var path []int
	var visit func(n *lexical.Node) bool
	visit = func(n *lexical.Node) bool {
		for i, c := range n.Children {
			if c == nil {
				continue
			}
			path = append(path, i)
			if c == target || visit(c) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	if visit(root) {
		return path
	}
	return nil
}

// findParent returns the direct parent of target and its index there.
func findParent(root *lexical.Node, target *lexical.Node) (*lexical.Node, int) {
	path := pathOf(root, target)
	if path == nil {
		return nil, -1
	}
	return parentOf(root, path)
}

func insertChild(parent *lexical.Node, idx int, nodes ...*lexical.Node) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(parent.Children) {
		idx = len(parent.Children)
	}
	children := make([]*lexical.Node, 0, len(parent.Children)+len(nodes))
	children = append(children, parent.Children[:idx]...)
	children = append(children, nodes...)
	children = append(children, parent.Children[idx:]...)
	parent.Children = children
}

func replaceChild(parent *lexical.Node, idx int, nodes ...*lexical.Node) {
	children := make([]*lexical.Node, 0, len(parent.Children)-1+len(nodes))
	children = append(children, parent.Children[:idx]...)
	children = append(children, nodes...)
	children = append(children, parent.Children[idx+1:]...)
	parent.Children = children
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func clampOffset(n *lexical.Node, offset int) int {
	limit := runeLen(n.Text)
	if n.Type != lexical.TypeText {
		limit = len(n.Children)
	}
	if offset < 0 {
		return 0
	}
	if offset > limit {
		return limit
	}
	return offset
}

// splitText cuts a text node at a rune offset. The node keeps the left part
// and the returned sibling, already inserted after it, holds the right part.
func splitText(parent *lexical.Node, idx int, offset int) *lexical.Node {
	n := parent.Children[idx]
	runes := []rune(n.Text)
	right := n.Clone()
	right.Text = string(runes[offset:])
	n.Text = string(runes[:offset])
	insertChild(parent, idx+1, right)
	return right
}

func firstText(n *lexical.Node) *lexical.Node {
	if n.Type == lexical.TypeText {
		return n
	}
	var found *lexical.Node
	lexical.Walk(n.Children, func(c *lexical.Node) bool {
		if found == nil && c.Type == lexical.TypeText {
			found = c
		}
		return found == nil
	})
	return found
}

func lastText(n *lexical.Node) *lexical.Node {
	if n.Type == lexical.TypeText {
		return n
	}
	var found *lexical.Node
	lexical.Walk(n.Children, func(c *lexical.Node) bool {
		if c.Type == lexical.TypeText {
			found = c
		}
		return true
	})
	return found
}

// textFormat is the bitmask of a text run; class-name formats count as none.
func textFormat(n *lexical.Node) int {
	if n.Format.IsName {
		return 0
	}
	return n.Format.Bits
}
