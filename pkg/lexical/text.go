package lexical

import (
	"strings"
	"unicode/utf8"
)

// PlainText returns the readable text of a node and its subtree. Inline runs
// are concatenated as written; block boundaries and line breaks become spaces.
func PlainText(n *Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	writePlainText(n, &sb)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func writePlainText(n *Node, sb *strings.Builder) {
	switch n.Type {
	case TypeText, TypeCodeHighlight:
		sb.WriteString(n.Text)
		return
	case TypeLineBreak, TypeTab:
		sb.WriteString(" ")
		return
	case TypeImage:
		if alt := strings.TrimSpace(n.AltText); alt != "" {
			sb.WriteString(" " + alt + " ")
		}
		return
	}

	for _, c := range n.Children {
		if c == nil {
			continue
		}
		writePlainText(c, sb)
	}
	if n.Type != TypeLink && n.Type != TypeAutoLink {
		sb.WriteString(" ")
	}
}

// DocumentText is PlainText over every block of the document.
func DocumentText(doc *Document) string {
	if doc == nil || doc.Root == nil {
		return ""
	}
	return PlainText(doc.Root)
}

// Excerpt returns at most maxRunes of the document's text, cut at a word
// boundary and suffixed with an ellipsis when shortened. Headings are skipped
// so the summary starts with body copy.
func Excerpt(doc *Document, maxRunes int) string {
	var parts []string
	for _, block := range doc.Children() {
		if block == nil || block.Type == TypeHeading || block.Type == TypeCode {
			continue
		}
		if t := PlainText(block); t != "" {
			parts = append(parts, t)
		}
	}
	return truncateWords(strings.Join(parts, " "), maxRunes)
}

func truncateWords(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	runes := []rune(s)
	cut := maxRunes
	for i := maxRunes; i > maxRunes/2; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	return strings.TrimRight(string(runes[:cut]), " ,.;:") + "…"
}
