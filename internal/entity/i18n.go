package entity

const (
	LocaleVi = "vi"
	LocaleEn = "en"

	DefaultLocale = LocaleVi
)

var SupportedLocales = []string{LocaleVi, LocaleEn}

func IsSupportedLocale(locale string) bool {
	for _, l := range SupportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}

// LocalizedText holds one string per locale.
type LocalizedText map[string]string

// Get returns the text for locale, falling back to the default locale and
// then to any non-empty translation.
func (t LocalizedText) Get(locale string) string {
	if v := t[locale]; v != "" {
		return v
	}
	if v := t[DefaultLocale]; v != "" {
		return v
	}
	for _, l := range SupportedLocales {
		if v := t[l]; v != "" {
			return v
		}
	}
	return ""
}

func (t LocalizedText) Clone() LocalizedText {
	if t == nil {
		return LocalizedText{}
	}
	out := make(LocalizedText, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
