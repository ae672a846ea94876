package editor

import (
	"encoding/json"

	"bistro-cms-be/pkg/lexical"
)

// Point addresses a position in the document. Path holds child indexes from
// the root; Offset is a rune offset inside a text node, or a child index
// inside an element.
type Point struct {
	Path   []int `json:"path"`
	Offset int   `json:"offset"`
}

// Selection is the editor's caret or range. Anchor and Focus may be in any
// order.
type Selection struct {
	Anchor Point `json:"anchor"`
	Focus  Point `json:"focus"`
}

// Caret returns a collapsed selection at p.
func Caret(p Point) Selection {
	return Selection{Anchor: p, Focus: p.clone()}
}

func (p Point) clone() Point {
	return Point{Path: append([]int(nil), p.Path...), Offset: p.Offset}
}

func (s Selection) clone() Selection {
	return Selection{Anchor: s.Anchor.clone(), Focus: s.Focus.clone()}
}

// IsCollapsed reports whether anchor and focus are the same position.
func (s Selection) IsCollapsed() bool {
	return comparePoints(s.Anchor, s.Focus) == 0
}

// ordered returns the selection's points in document order.
func (s Selection) ordered() (Point, Point) {
	if comparePoints(s.Anchor, s.Focus) <= 0 {
		return s.Anchor, s.Focus
	}
	return s.Focus, s.Anchor
}

func comparePoints(a, b Point) int {
	for i := 0; i < len(a.Path) && i < len(b.Path); i++ {
		if a.Path[i] != b.Path[i] {
			if a.Path[i] < b.Path[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a.Path) < len(b.Path):
		return -1
	case len(a.Path) > len(b.Path):
		return 1
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

// State is one immutable editor snapshot. Commands never modify a State in
// place; they return a new one.
type State struct {
	doc           *lexical.Document
	selection     Selection
	pendingFormat int
}

// NewState starts a state on doc with the caret at the start of the first
// block. A nil or rootless document starts empty.
func NewState(doc *lexical.Document) State {
	if doc == nil || doc.Root == nil {
		doc = lexical.NewEmptyDocument()
	} else {
		doc = doc.Clone()
	}
	return State{doc: doc, selection: Caret(Point{Path: []int{0}})}
}

// Document returns a copy of the state's document.
func (s State) Document() *lexical.Document {
	return s.doc.Clone()
}

// Selection returns the current selection.
func (s State) Selection() Selection {
	return s.selection.clone()
}

// PendingFormat is the format bitmask toggled on a collapsed caret. It applies
// to the next inserted text.
func (s State) PendingFormat() int {
	return s.pendingFormat
}

// MarshalDocument serializes the document without copying it.
func (s State) MarshalDocument() ([]byte, error) {
	return json.Marshal(s.doc)
}

// TOC extracts the document's table of contents.
func (s State) TOC() []lexical.TocEntry {
	return lexical.ExtractHeadings(s.doc)
}
