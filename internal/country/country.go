// Package country resolves free-text origin expressions ("Russia", "USA",
// "Americans", "RU/Unknown") into ISO 3166-1 alpha-2 codes through a short
// chain of lookups. It is best-effort: ambiguous or fictional origins simply
// fail to resolve, and callers drop any origin-derived decoration.
package country

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// aliases maps informal short forms that are not ISO codes onto alpha-2.
// Read-only after package init.
var aliases = map[string]string{
	"usa":              "us",
	"uk":               "gb",
	"uae":              "ae",
	"england":          "gb",
	"scotland":         "gb",
	"wales":            "gb",
	"northern ireland": "gb",
	"drc":              "cd",
	"czech republic":   "cz",
}

// demonyms maps nationality adjectives onto alpha-2. Plural forms are
// handled by retrying with a trailing "s" stripped.
var demonyms = map[string]string{
	"american":      "us",
	"russian":       "ru",
	"chinese":       "cn",
	"british":       "gb",
	"english":       "gb",
	"french":        "fr",
	"german":        "de",
	"italian":       "it",
	"spanish":       "es",
	"portuguese":    "pt",
	"ukrainian":     "ua",
	"iranian":       "ir",
	"israeli":       "il",
	"indian":        "in",
	"pakistani":     "pk",
	"turkish":       "tr",
	"korean":        "kr",
	"south korean":  "kr",
	"north korean":  "kp",
	"japanese":      "jp",
	"dutch":         "nl",
	"belgian":       "be",
	"swiss":         "ch",
	"austrian":      "at",
	"canadian":      "ca",
	"mexican":       "mx",
	"brazilian":     "br",
	"argentine":     "ar",
	"colombian":     "co",
	"australian":    "au",
	"polish":        "pl",
	"swedish":       "se",
	"norwegian":     "no",
	"danish":        "dk",
	"finnish":       "fi",
	"greek":         "gr",
	"romanian":      "ro",
	"hungarian":     "hu",
	"czech":         "cz",
	"saudi":         "sa",
	"emirati":       "ae",
	"egyptian":      "eg",
	"nigerian":      "ng",
	"south african": "za",
	"indonesian":    "id",
	"malaysian":     "my",
	"thai":          "th",
	"vietnamese":    "vn",
	"filipino":      "ph",
	"singaporean":   "sg",
}

// byName maps lowercase English country names onto alpha-2 codes. Built once
// at init by walking the two-letter region space and asking CLDR for each
// region's English display name; never mutated afterwards.
var byName = buildNameIndex()

func buildNameIndex() map[string]string {
	namer := display.English.Regions()
	idx := make(map[string]string, 300)
	code := []byte{'A', 'A'}
	for a := byte('A'); a <= 'Z'; a++ {
		for b := byte('A'); b <= 'Z'; b++ {
			code[0], code[1] = a, b
			r, err := language.ParseRegion(string(code))
			if err != nil || !r.IsCountry() {
				continue
			}
			name := namer.Name(r)
			if name == "" {
				continue
			}
			idx[strings.ToLower(name)] = strings.ToLower(r.String())
		}
	}
	return idx
}

// Resolve maps a free-text origin to a lowercase alpha-2 code. Only the first
// segment of slash/pipe/comma-delimited lists is considered. The chain, first
// success wins: informal alias, valid 2-letter code, 3-letter code, English
// country name, demonym (retried without a plural trailing "s"). No match at
// any stage returns ok=false. Aliases go first: ParseRegion accepts some
// reserved codes ("UK") that the alias table is meant to redirect.
func Resolve(origin string) (string, bool) {
	s := firstSegment(origin)
	if s == "" {
		return "", false
	}
	lower := strings.ToLower(s)

	if code, ok := aliases[lower]; ok {
		return code, true
	}
	if len(s) == 2 || len(s) == 3 {
		if r, err := language.ParseRegion(s); err == nil && r.IsCountry() {
			return strings.ToLower(r.String()), true
		}
	}
	if code, ok := byName[lower]; ok {
		return code, true
	}
	if code, ok := demonyms[lower]; ok {
		return code, true
	}
	if strings.HasSuffix(lower, "s") {
		if code, ok := demonyms[strings.TrimSuffix(lower, "s")]; ok {
			return code, true
		}
	}
	return "", false
}

func firstSegment(origin string) string {
	s := strings.TrimSpace(origin)
	if i := strings.IndexAny(s, "/|,"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// FlagEmoji returns the regional-indicator flag for an alpha-2 code, or ""
// when the code is not two ASCII letters.
func FlagEmoji(code string) string {
	if len(code) != 2 {
		return ""
	}
	up := strings.ToUpper(code)
	var b strings.Builder
	for i := 0; i < 2; i++ {
		c := up[i]
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + rune(c-'A'))
	}
	return b.String()
}
