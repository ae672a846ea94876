package lexical

import "strings"

// ImageAlignment places an image within the text column.
type ImageAlignment string

const (
	AlignFull   ImageAlignment = "full"
	AlignLeft   ImageAlignment = "left"
	AlignRight  ImageAlignment = "right"
	AlignCenter ImageAlignment = "center"
)

// ImageSize is the relative width of an image.
type ImageSize string

const (
	SizeFull   ImageSize = "full"
	SizeLarge  ImageSize = "large"
	SizeMedium ImageSize = "medium"
	SizeSmall  ImageSize = "small"
)

const (
	DefaultImageAlignment = AlignCenter
	DefaultImageSize      = SizeLarge
)

var sizeClasses = map[ImageSize]string{
	SizeFull:   "w-full",
	SizeLarge:  "w-3/4",
	SizeMedium: "w-1/2",
	SizeSmall:  "w-1/3",
}

var alignmentClasses = map[ImageAlignment][]string{
	AlignFull:   {"mx-auto", "clear-both"},
	AlignLeft:   {"float-left", "mr-6", "mb-4"},
	AlignRight:  {"float-right", "ml-6", "mb-4"},
	AlignCenter: {"mx-auto"},
}

// ParseImageAlignment maps a stored value to a known alignment.
func ParseImageAlignment(s string) (ImageAlignment, bool) {
	a := ImageAlignment(strings.ToLower(strings.TrimSpace(s)))
	_, ok := alignmentClasses[a]
	return a, ok
}

// ParseImageSize maps a stored value to a known size.
func ParseImageSize(s string) (ImageSize, bool) {
	sz := ImageSize(strings.ToLower(strings.TrimSpace(s)))
	_, ok := sizeClasses[sz]
	return sz, ok
}

// ImageLayoutClasses is the layout lookup shared by the editor's image
// decoration and the published renderer: both must produce the same classes
// for the same alignment and size. Unknown values fall back to the defaults,
// and a full-bleed alignment always spans the full width.
func ImageLayoutClasses(alignment ImageAlignment, size ImageSize) []string {
	a, ok := ParseImageAlignment(string(alignment))
	if !ok {
		a = DefaultImageAlignment
	}
	sz, ok := ParseImageSize(string(size))
	if !ok {
		sz = DefaultImageSize
	}
	if a == AlignFull {
		sz = SizeFull
	}

	classes := []string{"lexical-image", sizeClasses[sz]}
	return append(classes, alignmentClasses[a]...)
}

// ImageSource returns an image node's URL, accepting the legacy "url" field.
func ImageSource(n *Node) string {
	if src := strings.TrimSpace(n.Src); src != "" {
		return src
	}
	return strings.TrimSpace(n.URL)
}
