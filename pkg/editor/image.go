package editor

import (
	"strings"

	"bistro-cms-be/pkg/lexical"
)

// ImageNode is the editor's image block. Values are immutable: every With
// method returns a modified copy and leaves the receiver alone.
type ImageNode struct {
	src       string
	altText   string
	caption   lexical.Caption
	alignment lexical.ImageAlignment
	size      lexical.ImageSize
}

// NewImageNode returns an image with the default alignment and size.
func NewImageNode(src, altText string) ImageNode {
	return ImageNode{
		src:       strings.TrimSpace(src),
		altText:   altText,
		alignment: lexical.DefaultImageAlignment,
		size:      lexical.DefaultImageSize,
	}
}

// ImageNodeFromNode reads an image node from the document tree.
func ImageNodeFromNode(n *lexical.Node) (ImageNode, bool) {
	if n == nil || n.Type != lexical.TypeImage {
		return ImageNode{}, false
	}
	img := NewImageNode(lexical.ImageSource(n), n.AltText).
		WithAlignment(string(n.Alignment)).
		WithSize(string(n.Size))
	img.caption = cloneCaption(n.Caption)
	return img, true
}

func (i ImageNode) Src() string                       { return i.src }
func (i ImageNode) AltText() string                   { return i.altText }
func (i ImageNode) Caption() lexical.Caption          { return cloneCaption(i.caption) }
func (i ImageNode) Alignment() lexical.ImageAlignment { return i.alignment }
func (i ImageNode) Size() lexical.ImageSize           { return i.size }

func (i ImageNode) WithSrc(src string) ImageNode {
	i.src = strings.TrimSpace(src)
	return i
}

func (i ImageNode) WithAltText(alt string) ImageNode {
	i.altText = alt
	return i
}

func (i ImageNode) WithCaption(c lexical.Caption) ImageNode {
	i.caption = cloneCaption(c)
	return i
}

// WithAlignment ignores values outside the known set.
func (i ImageNode) WithAlignment(a string) ImageNode {
	if parsed, ok := lexical.ParseImageAlignment(a); ok {
		i.alignment = parsed
	}
	return i
}

// WithSize ignores values outside the known set.
func (i ImageNode) WithSize(sz string) ImageNode {
	if parsed, ok := lexical.ParseImageSize(sz); ok {
		i.size = parsed
	}
	return i
}

// LayoutClasses is the decoration the editor shows; it matches the published
// figure for the same alignment and size.
func (i ImageNode) LayoutClasses() []string {
	return lexical.ImageLayoutClasses(i.alignment, i.size)
}

// ToNode returns a fresh document node for the image.
func (i ImageNode) ToNode() *lexical.Node {
	return &lexical.Node{
		Type:      lexical.TypeImage,
		Version:   1,
		Src:       i.src,
		AltText:   i.altText,
		Caption:   cloneCaption(i.caption),
		Alignment: i.alignment,
		Size:      i.size,
	}
}

func cloneCaption(c lexical.Caption) lexical.Caption {
	if !c.IsNodes {
		return c
	}
	nodes := make([]*lexical.Node, len(c.Nodes))
	for k, n := range c.Nodes {
		nodes[k] = n.Clone()
	}
	return lexical.NodeCaption(nodes)
}
