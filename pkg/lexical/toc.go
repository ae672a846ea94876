package lexical

import (
	"strconv"
	"strings"
)

// TocEntry is one navigable heading.
type TocEntry struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// HeadingLevel resolves a heading's level: the explicit numeric level wins,
// otherwise the tag decides ("h1" -> 1, "h3" -> 3, anything else -> 2).
func HeadingLevel(n *Node) int {
	if n.Level > 0 {
		return n.Level
	}
	switch strings.ToLower(strings.TrimSpace(n.Tag)) {
	case "h1":
		return 1
	case "h3":
		return 3
	default:
		return 2
	}
}

// IsTrackedLevel reports whether headings of this level appear in the TOC.
func IsTrackedLevel(level int) bool {
	return level == 2 || level == 3
}

// HeadingText concatenates the text runs below n, space-joined and trimmed.
// Inner whitespace is kept as written.
func HeadingText(n *Node) string {
	var parts []string
	Walk(n.Children, func(c *Node) bool {
		if c.Type == TypeText && c.Text != "" {
			parts = append(parts, c.Text)
		}
		return true
	})
	return strings.TrimSpace(strings.Join(parts, " "))
}

// ExtractHeadings walks the document in document order and returns one entry
// per non-empty level 2/3 heading. IDs are unique within the result.
func ExtractHeadings(doc *Document) []TocEntry {
	return ExtractHeadingsFromNodes(doc.Children())
}

// ExtractHeadingsFromNodes is ExtractHeadings over a bare node list.
func ExtractHeadingsFromNodes(nodes []*Node) []TocEntry {
	entries := make([]TocEntry, 0)
	seen := make(map[string]int)

	Walk(nodes, func(n *Node) bool {
		if n.Type != TypeHeading {
			return true
		}
		level := HeadingLevel(n)
		if !IsTrackedLevel(level) {
			return true
		}
		text := HeadingText(n)
		if text == "" {
			return true
		}

		base := Slugify(text)
		seen[base]++
		id := base
		if count := seen[base]; count > 1 {
			id = base + "-" + strconv.Itoa(count)
		}
		entries = append(entries, TocEntry{ID: id, Text: text, Level: level})
		return true
	})

	// A suffixed id can collide with a heading whose own slug ends in a number.
	return NormalizeTOC(entries)
}

// NormalizeTOC returns a copy of entries whose IDs are unique: the first
// holder of an id keeps it and later ones get "-2", "-3", ... Entries with an
// empty id are given the slug of their text. Already-unique lists come back
// unchanged.
func NormalizeTOC(entries []TocEntry) []TocEntry {
	out := make([]TocEntry, len(entries))
	ids := newIDRegistry(nil)
	for i, e := range entries {
		base := strings.TrimSpace(e.ID)
		if base == "" {
			base = Slugify(e.Text)
		}
		e.ID = ids.claim(base)
		out[i] = e
	}
	return out
}

// idRegistry hands out unique ids. Reserved ids can only be taken through
// claimReserved, so ids owned by TOC entries stay available for their headings.
type idRegistry struct {
	used     map[string]struct{}
	reserved map[string]struct{}
	counts   map[string]int
}

func newIDRegistry(toc []TocEntry) *idRegistry {
	r := &idRegistry{
		used:     make(map[string]struct{}),
		reserved: make(map[string]struct{}),
		counts:   make(map[string]int),
	}
	for _, e := range toc {
		r.reserved[e.ID] = struct{}{}
	}
	return r
}

func (r *idRegistry) taken(id string) bool {
	if _, ok := r.used[id]; ok {
		return true
	}
	_, ok := r.reserved[id]
	return ok
}

func (r *idRegistry) claim(base string) string {
	if base == "" {
		base = FallbackSlug
	}
	r.counts[base]++
	if r.counts[base] == 1 && !r.taken(base) {
		r.used[base] = struct{}{}
		return base
	}

	n := r.counts[base]
	if n < 2 {
		n = 2
	}
	for {
		id := base + "-" + strconv.Itoa(n)
		if !r.taken(id) {
			r.counts[base] = n
			r.used[id] = struct{}{}
			return id
		}
		n++
	}
}

func (r *idRegistry) claimReserved(id string) string {
	if _, ok := r.reserved[id]; ok {
		if _, used := r.used[id]; !used {
			r.counts[id]++
			r.used[id] = struct{}{}
			return id
		}
	}
	return r.claim(id)
}
