package editor

import (
	"encoding/json"
	"errors"
	"fmt"

	"bistro-cms-be/pkg/lexical"
)

var (
	ErrUnknownCommand   = errors.New("unknown editor command")
	ErrInvalidPayload   = errors.New("invalid command payload")
	ErrInvalidSelection = errors.New("selection does not address the document")
	ErrNotImage         = errors.New("node is not an image")
	ErrCommandFailed    = errors.New("editor command failed")
)

// Command names
const (
	CmdSetDocument  = "set_document"
	CmdSetSelection = "set_selection"
	CmdInsertText   = "insert_text"
	CmdInsertImage  = "insert_image"
	CmdUpdateImage  = "update_image"
	CmdFormatText   = "format_text"
	CmdSetBlockType = "set_block_type"
	CmdToggleList   = "toggle_list"
	CmdSetAlignment = "set_alignment"
	CmdInsertLink   = "insert_link"
	CmdInsertTable  = "insert_table"
)

// Command is one named editor action with its JSON payload.
type Command struct {
	Name    string          `json:"name" validate:"required"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewCommand builds a command, encoding payload as JSON.
func NewCommand(name string, payload interface{}) (Command, error) {
	if payload == nil {
		return Command{Name: name}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Command{}, fmt.Errorf("encode %s payload: %w", name, err)
	}
	return Command{Name: name, Payload: data}, nil
}

type SetDocumentPayload struct {
	Document json.RawMessage `json:"document"`
}

type SetSelectionPayload struct {
	Selection Selection `json:"selection"`
}

type InsertTextPayload struct {
	Text string `json:"text"`
}

type InsertImagePayload struct {
	Src       string          `json:"src"`
	AltText   string          `json:"altText"`
	Caption   lexical.Caption `json:"caption"`
	Alignment string          `json:"alignment"`
	Size      string          `json:"size"`
}

// UpdateImagePayload changes only the fields that are set.
type UpdateImagePayload struct {
	Path      []int            `json:"path"`
	Src       *string          `json:"src,omitempty"`
	AltText   *string          `json:"altText,omitempty"`
	Caption   *lexical.Caption `json:"caption,omitempty"`
	Alignment *string          `json:"alignment,omitempty"`
	Size      *string          `json:"size,omitempty"`
}

type FormatTextPayload struct {
	Format string `json:"format"`
}

type SetBlockTypePayload struct {
	BlockType string `json:"blockType"`
}

type ToggleListPayload struct {
	ListType string `json:"listType"`
}

type SetAlignmentPayload struct {
	Alignment string `json:"alignment"`
}

type InsertLinkPayload struct {
	URL string `json:"url"`
}

// tx is the working copy a command mutates. Nothing in it is shared with the
// state it started from.
type tx struct {
	doc     *lexical.Document
	sel     Selection
	pending int
	changed bool
}

func (t *tx) root() *lexical.Node {
	return t.doc.Root
}

type handler func(t *tx, payload json.RawMessage) error

var handlers = map[string]handler{
	CmdSetDocument:  setDocument,
	CmdSetSelection: setSelection,
	CmdInsertText:   insertText,
	CmdInsertImage:  insertImage,
	CmdUpdateImage:  updateImage,
	CmdFormatText:   formatText,
	CmdSetBlockType: setBlockType,
	CmdToggleList:   toggleList,
	CmdSetAlignment: setAlignment,
	CmdInsertLink:   insertLink,
	CmdInsertTable:  insertTable,
}

// Apply runs cmd against s as a single transaction. On error s is returned
// untouched. The bool reports whether the document changed, which is what
// makes a step undoable.
func Apply(s State, cmd Command) (next State, changed bool, err error) {
	h, ok := handlers[cmd.Name]
	if !ok {
		return s, false, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}
	// A handler that trips over a malformed tree leaves s untouched.
	defer func() {
		if r := recover(); r != nil {
			next, changed, err = s, false, fmt.Errorf("%w: %s: %v", ErrCommandFailed, cmd.Name, r)
		}
	}()

	doc := s.doc.Clone()
	if doc == nil || doc.Root == nil {
		doc = lexical.NewEmptyDocument()
	}
	t := &tx{doc: doc, sel: s.selection.clone(), pending: s.pendingFormat}
	if err := h(t, cmd.Payload); err != nil {
		return s, false, err
	}

	next = State{doc: t.doc, selection: t.sel, pendingFormat: t.pending}
	if !t.changed {
		next.doc = s.doc
	}
	return next, t.changed, nil
}

func decode(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func setDocument(t *tx, payload json.RawMessage) error {
	var p SetDocumentPayload
	if err := decode(payload, &p); err != nil {
		return err
	}
	doc, err := lexical.ParseDocument(p.Document)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	t.doc = doc
	t.sel = Caret(Point{Path: []int{0}})
	t.pending = 0
	t.changed = true
	return nil
}

func setSelection(t *tx, payload json.RawMessage) error {
	var p SetSelectionPayload
	if err := decode(payload, &p); err != nil {
		return err
	}
	anchor, ok := t.resolve(p.Selection.Anchor)
	if !ok {
		return ErrInvalidSelection
	}
	focus, ok := t.resolve(p.Selection.Focus)
	if !ok {
		return ErrInvalidSelection
	}
	t.sel = Selection{Anchor: anchor, Focus: focus}
	t.pending = 0
	return nil
}

// resolve checks that p addresses a node and clamps its offset.
func (t *tx) resolve(p Point) (Point, bool) {
	n := nodeAt(t.root(), p.Path)
	if n == nil {
		return Point{}, false
	}
	return Point{Path: append([]int(nil), p.Path...), Offset: clampOffset(n, p.Offset)}, true
}

// topIndex is the root child the point sits in.
func (t *tx) topIndex(p Point) int {
	if len(p.Path) == 0 {
		return len(t.root().Children) - 1
	}
	idx := p.Path[0]
	if idx < 0 {
		idx = 0
	}
	if idx >= len(t.root().Children) {
		idx = len(t.root().Children) - 1
	}
	return idx
}

// selectedBlocks returns the range of root children touched by the selection.
func (t *tx) selectedBlocks() (int, int) {
	start, end := t.sel.ordered()
	return t.topIndex(start), t.topIndex(end)
}

func insertText(t *tx, payload json.RawMessage) error {
	var p InsertTextPayload
	if err := decode(payload, &p); err != nil {
		return err
	}
	if p.Text == "" {
		return nil
	}

	start, end := t.sel.ordered()
	root := t.root()
	if len(root.Children) == 0 {
		root.Children = []*lexical.Node{lexical.NewParagraph()}
		start = Point{Path: []int{0}}
		end = start
	}

	target := nodeAt(root, start.Path)
	if target == nil {
		return ErrInvalidSelection
	}

	if target.Type != lexical.TypeText {
		if !target.IsElement() {
			return ErrInvalidSelection
		}
		run := lexical.NewText(p.Text, t.pending)
		idx := clampOffset(target, start.Offset)
		insertChild(target, idx, run)
		t.caretAfter(run)
		return nil
	}

	runes := []rune(target.Text)
	from := clampOffset(target, start.Offset)
	to := from
	// A range inside one run is replaced; wider ranges collapse to their start.
	if equalPath(start.Path, end.Path) {
		to = clampOffset(target, end.Offset)
	}
	runes = append(runes[:from:from], runes[to:]...)

	if t.pending == 0 {
		target.Text = string(runes[:from]) + p.Text + string(runes[from:])
		t.sel = Caret(Point{Path: append([]int(nil), start.Path...), Offset: from + runeLen(p.Text)})
		t.changed = true
		return nil
	}

	parent, idx := parentOf(root, start.Path)
	run := target.Clone()
	run.Text = p.Text
	run.Format = lexical.Bits(textFormat(target) ^ t.pending)

	var nodes []*lexical.Node
	if from > 0 {
		left := target.Clone()
		left.Text = string(runes[:from])
		nodes = append(nodes, left)
	}
	nodes = append(nodes, run)
	if from < len(runes) {
		right := target.Clone()
		right.Text = string(runes[from:])
		nodes = append(nodes, right)
	}
	replaceChild(parent, idx, nodes...)
	t.caretAfter(run)
	return nil
}

// caretAfter places a collapsed selection at the end of run and commits.
func (t *tx) caretAfter(run *lexical.Node) {
	t.sel = Caret(Point{Path: pathOf(t.root(), run), Offset: runeLen(run.Text)})
	t.pending = 0
	t.changed = true
}

func equalPath(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func insertImage(t *tx, payload json.RawMessage) error {
	var p InsertImagePayload
	if err := decode(payload, &p); err != nil {
		return err
	}
	img := NewImageNode(p.Src, p.AltText).
		WithCaption(p.Caption).
		WithAlignment(p.Alignment).
		WithSize(p.Size)
	if img.Src() == "" {
		return fmt.Errorf("%w: image src is required", ErrInvalidPayload)
	}
	t.insertBlock(img.ToNode())
	return nil
}

// insertBlock adds n after the block holding the selection's anchor and
// moves the caret onto it.
func (t *tx) insertBlock(n *lexical.Node) {
	root := t.root()
	idx := t.topIndex(t.sel.Anchor) + 1
	insertChild(root, idx, n)
	t.sel = Caret(Point{Path: []int{idx}})
	t.changed = true
}

func updateImage(t *tx, payload json.RawMessage) error {
	var p UpdateImagePayload
	if err := decode(payload, &p); err != nil {
		return err
	}
	path := p.Path
	if len(path) == 0 {
		path = t.sel.Anchor.Path
	}
	n := nodeAt(t.root(), path)
	img, ok := ImageNodeFromNode(n)
	if !ok {
		return ErrNotImage
	}

	if p.Src != nil {
		img = img.WithSrc(*p.Src)
	}
	if p.AltText != nil {
		img = img.WithAltText(*p.AltText)
	}
	if p.Caption != nil {
		img = img.WithCaption(*p.Caption)
	}
	if p.Alignment != nil {
		img = img.WithAlignment(*p.Alignment)
	}
	if p.Size != nil {
		img = img.WithSize(*p.Size)
	}
	if img.Src() == "" {
		return fmt.Errorf("%w: image src is required", ErrInvalidPayload)
	}

	// Keep fields the image value does not model.
	updated := img.ToNode()
	updated.Version = n.Version
	updated.Extra = n.Clone().Extra
	parent, idx := parentOf(t.root(), path)
	replaceChild(parent, idx, updated)
	t.changed = true
	return nil
}

func insertTable(t *tx, payload json.RawMessage) error {
	const rows, cols = 3, 3

	table := &lexical.Node{Type: lexical.TypeTable, Version: 1}
	for r := 0; r < rows; r++ {
		row := &lexical.Node{Type: lexical.TypeTableRow, Version: 1}
		for c := 0; c < cols; c++ {
			cell := &lexical.Node{
				Type:     lexical.TypeTableCell,
				Version:  1,
				Children: []*lexical.Node{lexical.NewParagraph()},
			}
			if r == 0 {
				cell.HeaderState = 1
			}
			row.Children = append(row.Children, cell)
		}
		table.Children = append(table.Children, row)
	}

	t.insertBlock(table)
	idx := t.sel.Anchor.Path[0]
	t.sel = Caret(Point{Path: []int{idx, 0, 0, 0}})
	return nil
}
