package country

import "testing"

func TestResolve_USForms(t *testing.T) {
	for _, in := range []string{"USA", "usa", "United States", "American", "Americans", "US"} {
		code, ok := Resolve(in)
		if !ok || code != "us" {
			t.Fatalf("Resolve(%q) = %q, %v; want us, true", in, code, ok)
		}
	}
}

func TestResolve_FirstSegmentOnly(t *testing.T) {
	code, ok := Resolve("RU/Unknown")
	if !ok || code != "ru" {
		t.Fatalf("Resolve(RU/Unknown) = %q, %v; want ru, true", code, ok)
	}
	code, ok = Resolve("Germany | France")
	if !ok || code != "de" {
		t.Fatalf("Resolve(Germany | France) = %q, %v; want de, true", code, ok)
	}
}

func TestResolve_Aliases(t *testing.T) {
	// "UK" parses as a reserved region code, so the alias table must be
	// consulted first for it to win.
	cases := map[string]string{"uk": "gb", "UK": "gb", "UAE": "ae", "England": "gb"}
	for in, want := range cases {
		code, ok := Resolve(in)
		if !ok || code != want {
			t.Fatalf("Resolve(%q) = %q, %v; want %q", in, code, ok, want)
		}
	}
}

func TestResolve_CountryNames(t *testing.T) {
	cases := map[string]string{
		"Russia":      "ru",
		"germany":     "de",
		"South Korea": "kr",
		"Japan":       "jp",
	}
	for in, want := range cases {
		code, ok := Resolve(in)
		if !ok || code != want {
			t.Fatalf("Resolve(%q) = %q, %v; want %q", in, code, ok, want)
		}
	}
}

func TestResolve_Demonyms(t *testing.T) {
	cases := map[string]string{
		"Russian":    "ru",
		"Ukrainians": "ua",
		"Chinese":    "cn",
	}
	for in, want := range cases {
		code, ok := Resolve(in)
		if !ok || code != want {
			t.Fatalf("Resolve(%q) = %q, %v; want %q", in, code, ok, want)
		}
	}
}

func TestResolve_Unresolved(t *testing.T) {
	for _, in := range []string{"", "  ", "Atlantis", "Worldwide", "???"} {
		if code, ok := Resolve(in); ok {
			t.Fatalf("Resolve(%q) unexpectedly resolved to %q", in, code)
		}
	}
}

func TestFlagEmoji(t *testing.T) {
	if got := FlagEmoji("us"); got != "\U0001F1FA\U0001F1F8" {
		t.Fatalf("FlagEmoji(us) = %q", got)
	}
	if got := FlagEmoji("x"); got != "" {
		t.Fatalf("expected empty for one-letter input, got %q", got)
	}
	if got := FlagEmoji("1a"); got != "" {
		t.Fatalf("expected empty for non-alpha input, got %q", got)
	}
}
