package lexical

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain words", "Intro", "intro"},
		{"spaces", "Our Kitchen Story", "our-kitchen-story"},
		{"vietnamese diacritics", "Món Đặc Trưng!", "mon-dac-trung"},
		{"lowercase d with stroke", "đồ uống", "do-uong"},
		{"horn vowels", "Phở bò tươi", "pho-bo-tuoi"},
		{"french accents", "Crème brûlée", "creme-brulee"},
		{"punctuation runs", "Hello -- World!!!", "hello-world"},
		{"leading and trailing", "  ...Menu...  ", "menu"},
		{"numbers kept", "Top 10 Dishes", "top-10-dishes"},
		{"non latin script collapses", "Menu 菜单 Today", "menu-today"},
		{"empty falls back", "", "section"},
		{"whitespace falls back", "   ", "section"},
		{"only symbols falls back", "!@#$%", "section"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugifyIsStable(t *testing.T) {
	inputs := []string{"Món Đặc Trưng!", "Intro", "", "Bánh mì & cà phê"}
	for _, in := range inputs {
		first := Slugify(in)
		if second := Slugify(in); first != second {
			t.Errorf("Slugify(%q) not stable: %q then %q", in, first, second)
		}
		if again := Slugify(first); again != first {
			t.Errorf("Slugify(Slugify(%q)) = %q, want %q", in, again, first)
		}
	}
}
