package editor

import (
	"encoding/json"
	"fmt"
	"strings"

	"bistro-cms-be/pkg/lexical"
)

var formatBits = map[string]int{
	"bold":          lexical.FormatBold,
	"italic":        lexical.FormatItalic,
	"underline":     lexical.FormatUnderline,
	"strikethrough": lexical.FormatStrikethrough,
	"code":          lexical.FormatCode,
	"subscript":     lexical.FormatSubscript,
	"superscript":   lexical.FormatSuperscript,
	"highlight":     lexical.FormatHighlight,
}

func formatText(t *tx, payload json.RawMessage) error {
	var p FormatTextPayload
	if err := decode(payload, &p); err != nil {
		return err
	}
	bit, ok := formatBits[strings.ToLower(p.Format)]
	if !ok {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidPayload, p.Format)
	}

	if t.sel.IsCollapsed() {
		t.pending ^= bit
		return nil
	}

	runs := t.splitSelection()
	if len(runs) == 0 {
		return nil
	}

	all := true
	for _, r := range runs {
		if textFormat(r)&bit == 0 {
			all = false
			break
		}
	}
	for _, r := range runs {
		f := textFormat(r)
		if all {
			f &^= bit
		} else {
			f |= bit
		}
		r.Format = lexical.Bits(f)
	}

	t.selectRuns(runs)
	t.changed = true
	return nil
}

// splitSelection cuts the text runs at the selection edges and returns the
// runs that now lie fully inside it, in document order.
func (t *tx) splitSelection() []*lexical.Node {
	root := t.root()
	start, end := t.sel.ordered()

	first, firstOff, ok := t.textPoint(start, false)
	if !ok {
		return nil
	}
	last, lastOff, ok := t.textPoint(end, true)
	if !ok || (first == last && firstOff >= lastOff) {
		return nil
	}

	excludeFirst, excludeLast := false, false

	// End first: splitting it never moves the start run.
	if lastOff == 0 && !(first == last && firstOff == 0) {
		excludeLast = true
	} else if lastOff < runeLen(last.Text) {
		parent, idx := findParent(root, last)
		splitText(parent, idx, lastOff)
	}

	if firstOff >= runeLen(first.Text) && firstOff > 0 {
		excludeFirst = true
	} else if firstOff > 0 {
		parent, idx := findParent(root, first)
		right := splitText(parent, idx, firstOff)
		if first == last {
			last = right
		}
		first = right
	}

	var runs []*lexical.Node
	inside := false
	lexical.Walk(root.Children, func(n *lexical.Node) bool {
		if n.Type != lexical.TypeText {
			return true
		}
		if n == first {
			inside = true
		}
		if inside {
			runs = append(runs, n)
		}
		if n == last {
			inside = false
		}
		return true
	})

	if excludeFirst && len(runs) > 0 && runs[0] == first {
		runs = runs[1:]
	}
	if excludeLast && len(runs) > 0 && runs[len(runs)-1] == last {
		runs = runs[:len(runs)-1]
	}
	return runs
}

// textPoint maps a point to a text run and rune offset. A point on an element
// resolves to its first run (start) or last run (end).
func (t *tx) textPoint(p Point, isEnd bool) (*lexical.Node, int, bool) {
	n := nodeAt(t.root(), p.Path)
	if n == nil {
		return nil, 0, false
	}
	if n.Type == lexical.TypeText {
		return n, clampOffset(n, p.Offset), true
	}
	if isEnd {
		if r := lastText(n); r != nil {
			return r, runeLen(r.Text), true
		}
		return nil, 0, false
	}
	if r := firstText(n); r != nil {
		return r, 0, true
	}
	return nil, 0, false
}

// selectRuns spans the selection over runs after the tree was reshaped.
func (t *tx) selectRuns(runs []*lexical.Node) {
	root := t.root()
	first, last := runs[0], runs[len(runs)-1]
	t.sel = Selection{
		Anchor: Point{Path: pathOf(root, first), Offset: 0},
		Focus:  Point{Path: pathOf(root, last), Offset: runeLen(last.Text)},
	}
}

func insertLink(t *tx, payload json.RawMessage) error {
	var p InsertLinkPayload
	if err := decode(payload, &p); err != nil {
		return err
	}
	url := strings.TrimSpace(p.URL)
	root := t.root()

	if t.sel.IsCollapsed() {
		caret := nodeAt(root, t.sel.Anchor.Path)
		link := enclosingLink(root, caret)
		if link == nil {
			return nil
		}
		if url == "" {
			unwrapLink(root, link)
			if caret != link {
				t.sel = Caret(Point{Path: pathOf(root, caret), Offset: t.sel.Anchor.Offset})
			} else {
				t.sel = Caret(Point{Path: t.sel.Anchor.Path[:1]})
			}
		} else {
			link.URL = url
		}
		t.changed = true
		return nil
	}

	runs := t.splitSelection()
	if len(runs) == 0 {
		return nil
	}

	if url == "" {
		for _, r := range runs {
			if link := enclosingLink(root, r); link != nil {
				unwrapLink(root, link)
			}
		}
		t.selectRuns(runs)
		t.changed = true
		return nil
	}

	// Runs already inside a link retarget it; consecutive free runs under the
	// same parent share one new link.
	var group []*lexical.Node
	var groupParent *lexical.Node
	flush := func() {
		if len(group) == 0 {
			return
		}
		_, idx := findParent(root, group[0])
		link := &lexical.Node{Type: lexical.TypeLink, Version: 1, URL: url, Format: lexical.Named("")}
		link.Children = append(link.Children, group...)
		children := make([]*lexical.Node, 0, len(groupParent.Children))
		children = append(children, groupParent.Children[:idx]...)
		children = append(children, link)
		children = append(children, groupParent.Children[idx+len(group):]...)
		groupParent.Children = children
		group, groupParent = nil, nil
	}

	for _, r := range runs {
		if link := enclosingLink(root, r); link != nil {
			flush()
			link.URL = url
			continue
		}
		parent, idx := findParent(root, r)
		adjacent := groupParent == parent && len(group) > 0 && parent.Children[idx-1] == group[len(group)-1]
		if !adjacent {
			flush()
		}
		group = append(group, r)
		groupParent = parent
	}
	flush()

	t.selectRuns(runs)
	t.changed = true
	return nil
}

func enclosingLink(root, n *lexical.Node) *lexical.Node {
	if n == nil {
		return nil
	}
	path := pathOf(root, n)
	for len(path) > 0 {
		if c := nodeAt(root, path); c.Type == lexical.TypeLink || c.Type == lexical.TypeAutoLink {
			return c
		}
		path = path[:len(path)-1]
	}
	return nil
}

func unwrapLink(root, link *lexical.Node) {
	parent, idx := findParent(root, link)
	if parent == nil {
		return
	}
	replaceChild(parent, idx, link.Children...)
}
