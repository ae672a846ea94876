package lexical

import (
	"strings"
)

// StyleMap represents parsed CSS styles
type StyleMap map[string]string

// Inline declarations a text run may carry into published markup.
var styleWhitelist = []string{"color", "background-color", "font-size", "text-transform"}

// ParseStyle parses a CSS style string into a map
// Example: "color: #F97316; background-color: #BFDBFE;"
func ParseStyle(styleStr string) StyleMap {
	styles := make(StyleMap)
	if styleStr == "" {
		return styles
	}

	for _, part := range strings.Split(styleStr, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k != "" && v != "" {
			styles[k] = v
		}
	}
	return styles
}

// Inline returns the whitelisted declarations as a style attribute value,
// or "" when none survive. Values that could break out of the attribute or
// pull remote resources are dropped.
func (s StyleMap) Inline() string {
	var relevant []string
	for _, k := range styleWhitelist {
		v, ok := s[k]
		if !ok || strings.ContainsAny(v, `<>"'`) || strings.Contains(strings.ToLower(v), "url(") {
			continue
		}
		relevant = append(relevant, k+": "+v)
	}
	return strings.Join(relevant, "; ")
}
