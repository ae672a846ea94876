package editor

import (
	"encoding/json"
	"fmt"
	"strings"

	"bistro-cms-be/pkg/lexical"
)

// Block types accepted by set_block_type.
const (
	BlockParagraph = "paragraph"
	BlockH2        = "h2"
	BlockH3        = "h3"
	BlockQuote     = "quote"
	BlockCode      = "code"
)

// List types accepted by toggle_list.
const (
	ListNumber = "number"
	ListBullet = "bullet"
)

func setBlockType(t *tx, payload json.RawMessage) error {
	var p SetBlockTypePayload
	if err := decode(payload, &p); err != nil {
		return err
	}
	blockType := strings.ToLower(strings.TrimSpace(p.BlockType))
	switch blockType {
	case BlockParagraph, BlockH2, BlockH3, BlockQuote, BlockCode:
	default:
		return fmt.Errorf("%w: unknown block type %q", ErrInvalidPayload, p.BlockType)
	}

	root := t.root()
	from, to := t.selectedBlocks()
	if from < 0 {
		return nil
	}

	var out []*lexical.Node
	expanded := false
	for i := from; i <= to; i++ {
		block := root.Children[i]
		if block.Type == lexical.TypeList {
			// Each item becomes its own block.
			for _, item := range listItems(block) {
				out = append(out, convertBlock(lexical.NewParagraph(inlineChildren(item)...), blockType))
			}
			expanded = true
			continue
		}
		if !isTextBlock(block) {
			out = append(out, block)
			continue
		}
		out = append(out, convertBlock(block, blockType))
	}

	root.Children = spliceBlocks(root.Children, from, to, out)
	if expanded || blockType == BlockCode {
		t.selectBlocks(from, from+len(out)-1)
	}
	t.changed = true
	return nil
}

// isTextBlock reports whether a root child holds inline content that can be
// re-typed.
func isTextBlock(n *lexical.Node) bool {
	switch n.Type {
	case lexical.TypeParagraph, lexical.TypeHeading, lexical.TypeQuote, lexical.TypeCode:
		return true
	}
	return false
}

func convertBlock(block *lexical.Node, blockType string) *lexical.Node {
	children := inlineChildren(block)
	n := &lexical.Node{
		Version:   1,
		Direction: block.Direction,
		Indent:    block.Indent,
		Format:    block.Format,
		Extra:     block.Extra,
	}
	if n.Format.IsZero() {
		n.Format = lexical.Named("")
	}

	switch blockType {
	case BlockParagraph:
		n.Type = lexical.TypeParagraph
	case BlockH2, BlockH3:
		n.Type = lexical.TypeHeading
		n.Tag = blockType
	case BlockQuote:
		n.Type = lexical.TypeQuote
	case BlockCode:
		n.Type = lexical.TypeCode
		n.Language = block.Language
		n.Format = lexical.Named("")
		children = codeRuns(children)
	}
	if children == nil {
		children = []*lexical.Node{}
	}
	n.Children = children
	return n
}

// inlineChildren returns the inline content of a block. Code runs come back
// as plain text runs.
func inlineChildren(block *lexical.Node) []*lexical.Node {
	if block.Type != lexical.TypeCode {
		return block.Children
	}
	out := make([]*lexical.Node, 0, len(block.Children))
	for _, c := range block.Children {
		if c.Type == lexical.TypeCodeHighlight {
			out = append(out, lexical.NewText(c.Text, 0))
			continue
		}
		out = append(out, c)
	}
	return out
}

// codeRuns flattens inline content to unformatted code runs.
func codeRuns(children []*lexical.Node) []*lexical.Node {
	var out []*lexical.Node
	lexical.Walk(children, func(c *lexical.Node) bool {
		switch c.Type {
		case lexical.TypeText:
			if c.Text != "" {
				out = append(out, &lexical.Node{Type: lexical.TypeCodeHighlight, Version: 1, Text: c.Text})
			}
		case lexical.TypeLineBreak, lexical.TypeTab:
			out = append(out, &lexical.Node{Type: c.Type, Version: 1})
		}
		return true
	})
	return out
}

// listItems returns the items of a list, flattening nested lists into the
// same sequence.
func listItems(list *lexical.Node) []*lexical.Node {
	var items []*lexical.Node
	for _, item := range list.Children {
		if item == nil || item.Type != lexical.TypeListItem {
			continue
		}
		var inline, nested []*lexical.Node
		for _, c := range item.Children {
			if c.Type == lexical.TypeList {
				nested = append(nested, listItems(c)...)
				continue
			}
			inline = append(inline, c)
		}
		if len(inline) > 0 || len(nested) == 0 {
			items = append(items, &lexical.Node{Type: lexical.TypeListItem, Version: 1, Children: inline})
		}
		items = append(items, nested...)
	}
	return items
}

func spliceBlocks(blocks []*lexical.Node, from, to int, repl []*lexical.Node) []*lexical.Node {
	out := make([]*lexical.Node, 0, len(blocks)-(to-from+1)+len(repl))
	out = append(out, blocks[:from]...)
	out = append(out, repl...)
	out = append(out, blocks[to+1:]...)
	return out
}

func (t *tx) selectBlocks(from, to int) {
	t.sel = Selection{
		Anchor: Point{Path: []int{from}},
		Focus:  Point{Path: []int{to}, Offset: len(t.root().Children[to].Children)},
	}
}

func toggleList(t *tx, payload json.RawMessage) error {
	var p ToggleListPayload
	if err := decode(payload, &p); err != nil {
		return err
	}
	var listType string
	switch strings.ToLower(strings.TrimSpace(p.ListType)) {
	case ListNumber, "ordered", "ol":
		listType = ListNumber
	case ListBullet, "unordered", "ul":
		listType = ListBullet
	default:
		return fmt.Errorf("%w: unknown list type %q", ErrInvalidPayload, p.ListType)
	}

	root := t.root()
	from, to := t.selectedBlocks()
	if from < 0 {
		return nil
	}

	unwrap := true
	for i := from; i <= to; i++ {
		b := root.Children[i]
		if b.Type != lexical.TypeList || b.ListType != listType {
			unwrap = false
			break
		}
	}

	var out []*lexical.Node
	if unwrap {
		for i := from; i <= to; i++ {
			for _, item := range listItems(root.Children[i]) {
				out = append(out, lexical.NewParagraph(item.Children...))
			}
		}
	} else {
		out = wrapInLists(root.Children[from:to+1], listType)
	}

	root.Children = spliceBlocks(root.Children, from, to, out)
	t.selectBlocks(from, from+len(out)-1)
	t.changed = true
	return nil
}

// wrapInLists turns consecutive text blocks and lists into one list of
// listType. Blocks without inline content stay where they are and split the
// run.
func wrapInLists(blocks []*lexical.Node, listType string) []*lexical.Node {
	var out []*lexical.Node
	var current *lexical.Node

	add := func(children []*lexical.Node) {
		if current == nil {
			current = newList(listType)
			out = append(out, current)
		}
		if children == nil {
			children = []*lexical.Node{}
		}
		current.Children = append(current.Children, &lexical.Node{
			Type:     lexical.TypeListItem,
			Version:  1,
			Value:    len(current.Children) + 1,
			Format:   lexical.Named(""),
			Children: children,
		})
	}

	for _, b := range blocks {
		switch {
		case b.Type == lexical.TypeList:
			for _, item := range listItems(b) {
				add(item.Children)
			}
		case isTextBlock(b):
			add(inlineChildren(b))
		default:
			current = nil
			out = append(out, b)
		}
	}
	return out
}

func newList(listType string) *lexical.Node {
	tag := "ul"
	if listType == ListNumber {
		tag = "ol"
	}
	return &lexical.Node{
		Type:     lexical.TypeList,
		Version:  1,
		ListType: listType,
		Start:    1,
		Tag:      tag,
		Format:   lexical.Named(""),
	}
}

func setAlignment(t *tx, payload json.RawMessage) error {
	var p SetAlignmentPayload
	if err := decode(payload, &p); err != nil {
		return err
	}
	alignment := strings.ToLower(strings.TrimSpace(p.Alignment))
	switch alignment {
	case "", "left", "center", "right", "justify":
	default:
		return fmt.Errorf("%w: unknown alignment %q", ErrInvalidPayload, p.Alignment)
	}

	root := t.root()
	from, to := t.selectedBlocks()
	for i := from; i >= 0 && i <= to; i++ {
		b := root.Children[i]
		switch {
		case b.Type == lexical.TypeImage:
			if img, ok := ImageNodeFromNode(b); ok {
				b.Alignment = img.WithAlignment(alignment).Alignment()
			}
		case b.Type == lexical.TypeList:
			for _, item := range b.Children {
				item.Format = lexical.Named(alignment)
			}
		case b.IsElement():
			b.Format = lexical.Named(alignment)
		default:
			continue
		}
		t.changed = true
	}
	return nil
}
