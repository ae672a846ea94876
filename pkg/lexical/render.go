package lexical

import (
	"strconv"
	"strings"
)

// RenderOptions configures Render.
type RenderOptions struct {
	// TOC is the normalized table of contents the heading ids must match.
	// When nil the document's own headings are extracted.
	TOC []TocEntry

	// Locale is carried for the caller; the tree walk does not use it.
	Locale string

	// OnMismatch, when set, is called for every level 2/3 heading whose TOC
	// slot is missing or describes a different heading.
	OnMismatch func(Mismatch)
}

// Mismatch describes a heading that could not take its id from the TOC.
type Mismatch struct {
	Cursor  int
	Level   int
	Text    string
	Entry   *TocEntry // nil when the TOC was exhausted
	Emitted string
}

// walkState is threaded through the recursive descent. cursor mirrors the
// extractor: it only moves past a non-empty level 2/3 heading.
type walkState struct {
	toc        []TocEntry
	cursor     int
	ids        *idRegistry
	onMismatch func(Mismatch)
}

// Render walks the document eagerly in document order and returns its
// presentational tree. A nil or rootless document renders to nothing. The
// input is never modified.
func Render(doc *Document, opts RenderOptions) Fragment {
	if doc == nil || doc.Root == nil {
		return nil
	}

	toc := opts.TOC
	if toc == nil {
		toc = ExtractHeadings(doc)
	} else {
		toc = NormalizeTOC(toc)
	}

	st := &walkState{
		toc:        toc,
		ids:        newIDRegistry(toc),
		onMismatch: opts.OnMismatch,
	}
	return Fragment(renderChildren(doc.Root.Children, st))
}

// RenderJSON parses and renders a serialized document. Anything unparseable
// renders to nothing.
func RenderJSON(data []byte, opts RenderOptions) Fragment {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil
	}
	return Render(doc, opts)
}

// HeadingIDs returns the id attributes of level 2/3 heading elements, in order.
func (f Fragment) HeadingIDs() []string {
	var ids []string
	var visit func(els []*Element)
	visit = func(els []*Element) {
		for _, el := range els {
			if el.Tag == "h2" || el.Tag == "h3" {
				if id, ok := el.Attr("id"); ok {
					ids = append(ids, id)
				}
			}
			visit(el.Children)
		}
	}
	visit(f)
	return ids
}

func renderChildren(nodes []*Node, st *walkState) []*Element {
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if el := renderNode(n, st); el != nil {
			out = append(out, el)
		}
	}
	return out
}

func renderNode(n *Node, st *walkState) *Element {
	switch n.Type {
	case TypeParagraph:
		return withAlignment(newElement("p", renderChildren(n.Children, st)...), n)

	case TypeHeading:
		return renderHeading(n, st)

	case TypeText, TypeCodeHighlight:
		return renderText(n)

	case TypeLineBreak:
		return newElement("br")

	case TypeTab:
		return textElement("\t")

	case TypeQuote:
		return newElement("blockquote", renderChildren(n.Children, st)...)

	case TypeList:
		return renderList(n, st)

	case TypeListItem:
		li := newElement("li", renderChildren(n.Children, st)...)
		if n.Value > 0 {
			li.setAttr("value", strconv.Itoa(n.Value))
		}
		return li

	case TypeCode:
		// Code blocks are plain text: per-run formatting is dropped.
		return newElement("pre", newElement("code", textElement(codeText(n))))

	case TypeTable:
		return newElement("table", newElement("tbody", renderChildren(n.Children, st)...))

	case TypeTableRow:
		return newElement("tr", renderChildren(n.Children, st)...)

	case TypeTableCell:
		tag := "td"
		if n.HeaderState != 0 {
			tag = "th"
		}
		cell := newElement(tag, renderChildren(n.Children, st)...)
		if n.ColSpan > 1 {
			cell.setAttr("colspan", strconv.Itoa(n.ColSpan))
		}
		if n.RowSpan > 1 {
			cell.setAttr("rowspan", strconv.Itoa(n.RowSpan))
		}
		return cell

	case TypeImage:
		return renderImage(n)

	case TypeLink, TypeAutoLink:
		return renderLink(n, renderChildren(n.Children, st))

	case TypeHorizontalRule:
		return newElement("hr")

	default:
		if len(n.Children) == 0 {
			return nil
		}
		return newElement("div", renderChildren(n.Children, st)...)
	}
}

func renderHeading(n *Node, st *walkState) *Element {
	level := HeadingLevel(n)
	tag := "h2"
	if level >= 1 && level <= 6 {
		tag = "h" + strconv.Itoa(level)
	}
	el := withAlignment(newElement(tag), n)

	if IsTrackedLevel(level) {
		el.setAttr("id", st.headingID(level, HeadingText(n)))
	}

	el.Children = renderChildren(n.Children, st)
	return el
}

// headingID resolves the id for a level 2/3 heading and advances the cursor
// exactly when the extractor would have emitted an entry.
func (st *walkState) headingID(level int, text string) string {
	if text == "" {
		return st.ids.claim(FallbackSlug)
	}

	cursor := st.cursor
	st.cursor++

	if cursor < len(st.toc) {
		entry := st.toc[cursor]
		if entry.Level == level && Slugify(entry.Text) == Slugify(text) {
			return st.ids.claimReserved(entry.ID)
		}
		id := st.ids.claim(Slugify(text))
		st.reportMismatch(Mismatch{Cursor: cursor, Level: level, Text: text, Entry: &entry, Emitted: id})
		return id
	}

	id := st.ids.claim(Slugify(text))
	st.reportMismatch(Mismatch{Cursor: cursor, Level: level, Text: text, Emitted: id})
	return id
}

func (st *walkState) reportMismatch(m Mismatch) {
	if st.onMismatch != nil {
		st.onMismatch(m)
	}
}

func withAlignment(el *Element, n *Node) *Element {
	switch n.Format.Alignment() {
	case "center":
		el.setAttr("class", "text-center")
	case "right":
		el.setAttr("class", "text-right")
	case "justify":
		el.setAttr("class", "text-justify")
	}
	return el
}

var formatTags = []struct {
	bit int
	tag string
}{
	{FormatCode, "code"},
	{FormatBold, "strong"},
	{FormatItalic, "em"},
	{FormatUnderline, "u"},
	{FormatStrikethrough, "s"},
	{FormatSubscript, "sub"},
	{FormatSuperscript, "sup"},
	{FormatHighlight, "mark"},
}

func renderText(n *Node) *Element {
	el := textElement(n.Text)

	if n.Format.IsName {
		if class := strings.TrimSpace(n.Format.Name); class != "" {
			el = newElement("span", el).setAttr("class", class)
		}
	} else {
		// Innermost first so the output nests <strong><em>..</em></strong>.
		for i := len(formatTags) - 1; i >= 0; i-- {
			if n.Format.Has(formatTags[i].bit) {
				el = newElement(formatTags[i].tag, el)
			}
		}
	}

	if style := ParseStyle(n.Style).Inline(); style != "" {
		el = newElement("span", el).setAttr("style", style)
	}
	return el
}

func renderList(n *Node, st *walkState) *Element {
	tag := "ul"
	if isOrderedList(n) {
		tag = "ol"
	}
	el := newElement(tag, renderChildren(n.Children, st)...)
	if tag == "ol" && n.Start > 1 {
		el.setAttr("start", strconv.Itoa(n.Start))
	}
	return el
}

func isOrderedList(n *Node) bool {
	switch strings.ToLower(n.ListType) {
	case "number", "ordered":
		return true
	}
	return strings.EqualFold(n.Tag, "ol")
}

func codeText(n *Node) string {
	var sb strings.Builder
	Walk(n.Children, func(c *Node) bool {
		switch c.Type {
		case TypeLineBreak:
			sb.WriteString("\n")
		case TypeTab:
			sb.WriteString("\t")
		default:
			sb.WriteString(c.Text)
		}
		return true
	})
	return sb.String()
}

func renderImage(n *Node) *Element {
	src := ImageSource(n)
	if src == "" {
		return nil
	}

	img := newElement("img").
		setAttr("src", src).
		setAttr("alt", n.AltText).
		setAttr("loading", "lazy")

	figure := newElement("figure", img).
		setAttr("class", strings.Join(ImageLayoutClasses(n.Alignment, n.Size), " "))

	if !n.Caption.IsZero() {
		figure.Children = append(figure.Children, newElement("figcaption", renderCaption(n.Caption)...))
	}
	return figure
}

// renderCaption renders inline runs only. Captions sit outside the children
// walk, so they never touch the heading cursor.
func renderCaption(c Caption) []*Element {
	if !c.IsNodes {
		return []*Element{textElement(strings.TrimSpace(c.Text))}
	}

	var out []*Element
	for _, n := range c.Nodes {
		if n == nil {
			continue
		}
		switch n.Type {
		case TypeText:
			out = append(out, renderText(n))
		case TypeLineBreak:
			out = append(out, newElement("br"))
		case TypeLink, TypeAutoLink:
			out = append(out, renderLink(n, renderCaption(NodeCaption(n.Children))))
		default:
			if t := PlainText(n); t != "" {
				out = append(out, textElement(t))
			}
		}
	}
	return out
}

func renderLink(n *Node, children []*Element) *Element {
	href := strings.TrimSpace(n.URL)
	if !isSafeHref(href) {
		return newElement("span", children...)
	}
	a := newElement("a", children...).setAttr("href", href)
	if n.Target != "" {
		a.setAttr("target", n.Target)
	}
	rel := n.Rel
	if n.Target == "_blank" && rel == "" {
		rel = "noopener noreferrer"
	}
	if rel != "" {
		a.setAttr("rel", rel)
	}
	if n.Title != "" {
		a.setAttr("title", n.Title)
	}
	return a
}

func isSafeHref(href string) bool {
	if href == "" {
		return false
	}
	lower := strings.ToLower(href)
	scheme, _, found := strings.Cut(lower, ":")
	if !found || strings.ContainsAny(scheme, "/?#") {
		return true
	}
	switch scheme {
	case "http", "https", "mailto", "tel":
		return true
	}
	return false
}
