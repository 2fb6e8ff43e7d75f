package ui

import (
	"image/color"
	"testing"
)

func TestGetTheme_KnownAndFallback(t *testing.T) {
	if got := GetTheme("Blueprint"); got.Name != "Blueprint" {
		t.Fatalf("GetTheme(Blueprint).Name = %q", got.Name)
	}
	if got := GetTheme("nope"); got.Name != themes[0].Name {
		t.Fatalf("GetTheme(nope).Name = %q, want fallback %q", got.Name, themes[0].Name)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	name := themes[0].Name
	seen := map[string]bool{}
	for range themes {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != themes[0].Name {
		t.Fatalf("cycle did not wrap: ended at %q", name)
	}
	if len(seen) != len(themes) {
		t.Fatalf("cycle visited %d themes, want %d", len(seen), len(themes))
	}
}

func TestParseHexColor(t *testing.T) {
	cases := map[string]color.RGBA{
		"#ff0000": {R: 0xff, A: 0xff},
		"#7aa2f7": {R: 0x7a, G: 0xa2, B: 0xf7, A: 0xff},
		"#FFFFFF": {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		"bogus":   {A: 0xff},
		"":        {A: 0xff},
	}
	for in, want := range cases {
		if got := parseHexColor(in); got != want {
			t.Fatalf("parseHexColor(%q) = %+v, want %+v", in, got, want)
		}
	}
}
