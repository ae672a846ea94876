package lexical

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Node type discriminants
const (
	TypeRoot           = "root"
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeText           = "text"
	TypeLineBreak      = "linebreak"
	TypeTab            = "tab"
	TypeQuote          = "quote"
	TypeList           = "list"
	TypeListItem       = "listitem"
	TypeCode           = "code"
	TypeCodeHighlight  = "code-highlight"
	TypeTable          = "table"
	TypeTableRow       = "tablerow"
	TypeTableCell      = "tablecell"
	TypeImage          = "image"
	TypeLink           = "link"
	TypeAutoLink       = "autolink"
	TypeHorizontalRule = "horizontalrule"
)

// Constants for Text Format Bitmask
const (
	FormatBold          = 1
	FormatItalic        = 2
	FormatUnderline     = 4
	FormatStrikethrough = 8
	FormatCode          = 16
	FormatSubscript     = 32
	FormatSuperscript   = 64
	FormatHighlight     = 128
)

// Document is the serialized editor state for one locale of one content item.
type Document struct {
	Root *Node `json:"root"`
}

// Node represents any node in the Lexical tree.
// Fields not listed here survive a decode/encode cycle through Extra.
type Node struct {
	Type     string  `json:"type"`
	Version  int     `json:"version,omitempty"`
	Children []*Node `json:"children,omitempty"`

	// Text specific
	Text   string `json:"text,omitempty"`
	Format Format `json:"format,omitzero"` // bitmask on text, alignment keyword on elements
	Style  string `json:"style,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Detail int    `json:"detail,omitempty"`

	// Element specific
	Direction  string `json:"direction,omitempty"`
	Indent     int    `json:"indent,omitempty"`
	TextFormat int    `json:"textFormat,omitempty"`
	TextStyle  string `json:"textStyle,omitempty"`

	// Heading specific
	Tag   string `json:"tag,omitempty"`
	Level int    `json:"level,omitempty"`

	// Link specific
	URL    string `json:"url,omitempty"`
	Rel    string `json:"rel,omitempty"`
	Target string `json:"target,omitempty"`
	Title  string `json:"title,omitempty"`

	// List specific
	ListType string `json:"listType,omitempty"` // bullet, number, check
	Start    int    `json:"start,omitempty"`
	Checked  bool   `json:"checked,omitempty"`
	Value    int    `json:"value,omitempty"`

	// Code specific
	Language string `json:"language,omitempty"`

	// Table specific
	ColSpan     int `json:"colSpan,omitempty"`
	RowSpan     int `json:"rowSpan,omitempty"`
	HeaderState int `json:"headerState,omitempty"`

	// Image specific
	Src       string         `json:"src,omitempty"`
	AltText   string         `json:"altText,omitempty"`
	Caption   Caption        `json:"caption,omitzero"`
	Alignment ImageAlignment `json:"alignment,omitempty"`
	Size      ImageSize      `json:"size,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type nodeAlias Node

var knownFields = func() map[string]struct{} {
	fields := make(map[string]struct{})
	t := reflect.TypeOf(Node{})
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			fields[name] = struct{}{}
		}
	}
	return fields
}()

func (n *Node) UnmarshalJSON(data []byte) error {
	var a nodeAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if _, ok := knownFields[k]; ok {
			delete(raw, k)
		}
	}
	if len(raw) > 0 {
		a.Extra = raw
	}

	*n = Node(a)
	return nil
}

func (n Node) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(nodeAlias(n))
	if err != nil || len(n.Extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range n.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Format is the "format" field. Text nodes carry a bitmask (or, from some
// producers, a precomputed class name); element nodes carry an alignment
// keyword such as "center".
type Format struct {
	Bits   int
	Name   string
	IsName bool
}

// Bits returns a numeric format.
func Bits(b int) Format {
	return Format{Bits: b}
}

// Named returns a string format.
func Named(name string) Format {
	return Format{Name: name, IsName: true}
}

func (f Format) IsZero() bool {
	return !f.IsName && f.Bits == 0
}

// Has reports whether every bit in mask is set. String formats have no bits.
func (f Format) Has(mask int) bool {
	return !f.IsName && f.Bits&mask == mask
}

// Alignment returns the keyword of an element format, or "" for numeric formats.
func (f Format) Alignment() string {
	if !f.IsName {
		return ""
	}
	return f.Name
}

func (f Format) MarshalJSON() ([]byte, error) {
	if f.IsName {
		return json.Marshal(f.Name)
	}
	return json.Marshal(f.Bits)
}

func (f *Format) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*f = Bits(int(val))
	case string:
		*f = Named(val)
	default:
		*f = Format{}
	}
	return nil
}

// Caption is an image caption, written either as a plain string or as an
// inline node list. Nested editor payloads ({"editorState":{"root":...}})
// are accepted and flattened to their root children.
type Caption struct {
	Text    string
	Nodes   []*Node
	IsNodes bool
}

// TextCaption returns a plain string caption.
func TextCaption(text string) Caption {
	return Caption{Text: text}
}

// NodeCaption returns an inline fragment caption.
func NodeCaption(nodes []*Node) Caption {
	return Caption{Nodes: nodes, IsNodes: true}
}

func (c Caption) IsZero() bool {
	if c.IsNodes {
		return len(c.Nodes) == 0
	}
	return strings.TrimSpace(c.Text) == ""
}

// PlainText returns the caption text with any formatting dropped.
func (c Caption) PlainText() string {
	if !c.IsNodes {
		return strings.TrimSpace(c.Text)
	}
	var sb strings.Builder
	for _, n := range c.Nodes {
		if n != nil {
			writePlainText(n, &sb)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func (c Caption) MarshalJSON() ([]byte, error) {
	if c.IsNodes {
		if c.Nodes == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Nodes)
	}
	return json.Marshal(c.Text)
}

func (c *Caption) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "" || trimmed == "null":
		*c = Caption{}
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = TextCaption(s)
	case strings.HasPrefix(trimmed, "["):
		var nodes []*Node
		if err := json.Unmarshal(data, &nodes); err != nil {
			return err
		}
		*c = NodeCaption(nodes)
	case strings.HasPrefix(trimmed, "{"):
		var nested struct {
			Root        *Node `json:"root"`
			EditorState *struct {
				Root *Node `json:"root"`
			} `json:"editorState"`
		}
		if err := json.Unmarshal(data, &nested); err != nil {
			return err
		}
		root := nested.Root
		if root == nil && nested.EditorState != nil {
			root = nested.EditorState.Root
		}
		if root == nil {
			*c = Caption{}
			return nil
		}
		*c = NodeCaption(root.Children)
	default:
		*c = Caption{}
	}
	return nil
}
