package report

import (
	"strconv"
	"strings"
)

// NormalizeValue trims a raw extracted value and collapses internal
// whitespace runs to single spaces. Blank input normalizes to the empty
// string, which is the canonical "not found" marker throughout the package.
func NormalizeValue(s string) string {
	return collapseSpaces(strings.TrimSpace(s))
}

// namedEntities is the small fixed set the feed markup actually uses.
// Anything outside it passes through unchanged.
var namedEntities = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": `"`,
	"&#39;":  "'",
	"&nbsp;": " ",
}

// DecodeEntities decodes numeric character references (decimal and hex) and
// the six named entities the feed emits. Decoding is single-pass: "&amp;lt;"
// yields the literal text "&lt;", not "<". Unrecognized entities are kept
// verbatim.
func DecodeEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		semi := strings.IndexByte(s[i:], ';')
		if semi < 0 {
			b.WriteString(s[i:])
			break
		}
		ref := s[i : i+semi+1]
		if rep, ok := namedEntities[ref]; ok {
			b.WriteString(rep)
			i += len(ref)
			continue
		}
		if r, ok := decodeNumericRef(ref); ok {
			b.WriteRune(r)
			i += len(ref)
			continue
		}
		// Unknown entity: emit the ampersand and keep scanning after it so
		// a later reference on the same line still decodes.
		b.WriteByte('&')
		i++
	}
	return b.String()
}

// decodeNumericRef decodes "&#123;" and "&#x7B;" style references.
func decodeNumericRef(ref string) (rune, bool) {
	if len(ref) < 4 || !strings.HasPrefix(ref, "&#") || !strings.HasSuffix(ref, ";") {
		return 0, false
	}
	body := ref[2 : len(ref)-1]
	base := 10
	if body[0] == 'x' || body[0] == 'X' {
		base = 16
		body = body[1:]
	}
	n, err := strconv.ParseUint(body, base, 32)
	if err != nil || n == 0 || n > 0x10FFFF {
		return 0, false
	}
	return rune(n), true
}

// StripTags removes every <...> span, replacing each with a single space,
// then decodes entities and collapses whitespace. A dangling "<" with no
// closing ">" swallows the remainder of the string, which matches how the
// feed truncates malformed blocks.
func StripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '<' {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := strings.IndexByte(s[i:], '>')
		if end < 0 {
			break
		}
		b.WriteByte(' ')
		i += end + 1
	}
	return NormalizeValue(DecodeEntities(b.String()))
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}
