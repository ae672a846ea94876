package lexical

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackSlug is used when a heading's text slugifies to nothing.
const FallbackSlug = "section"

var (
	// Matches any run of non-alphanumeric characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

	// Đ carries a stroke rather than a combining mark, so decomposition keeps it.
	strokeFolder = strings.NewReplacer("đ", "d", "Đ", "D")
)

// Slugify converts heading text to an anchor-safe identifier.
// "Món Đặc Trưng!" -> "mon-dac-trung".
// "  " -> "section".
func Slugify(text string) string {
	s := strokeFolder.Replace(text)

	// Decompose and drop combining marks.
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripper, s); err == nil {
		s = stripped
	}

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		return FallbackSlug
	}
	return s
}
