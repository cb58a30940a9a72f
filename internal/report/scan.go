package report

import (
	"strings"

	"golang.org/x/net/html"
)

// tokKind classifies scanner output. Only the shapes the feed markup uses
// are distinguished; everything else (comments, doctype) is dropped.
type tokKind int

const (
	tokStart tokKind = iota
	tokEnd
	tokSelfClose
	tokText
)

// tok is one markup token with the byte span it occupies in the scanned
// input. Text holds the raw (undecoded) source for text tokens so callers
// control entity decoding.
type tok struct {
	Kind  tokKind
	Name  string
	Attrs map[string]string
	Text  string
	Start int
	End   int
}

// scanMarkup tokenizes s with the tolerant x/net/html tokenizer, tracking
// byte offsets by accumulating raw token lengths. It never fails: malformed
// markup produces whatever tokens the tokenizer can recover.
func scanMarkup(s string) []tok {
	z := html.NewTokenizer(strings.NewReader(s))
	var out []tok
	off := 0
	for {
		tt := z.Next()
		raw := z.Raw()
		start := off
		off += len(raw)
		switch tt {
		case html.ErrorToken:
			return out
		case html.TextToken:
			out = append(out, tok{Kind: tokText, Text: string(raw), Start: start, End: off})
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[strings.ToLower(string(k))] = string(v)
			}
			kind := tokStart
			if tt == html.SelfClosingTagToken {
				kind = tokSelfClose
			}
			out = append(out, tok{Kind: kind, Name: strings.ToLower(string(name)), Attrs: attrs, Start: start, End: off})
		case html.EndTagToken:
			name, _ := z.TagName()
			out = append(out, tok{Kind: tokEnd, Name: strings.ToLower(string(name)), Start: start, End: off})
		}
	}
}

// hasClass reports whether the token's class attribute contains name as a
// whitespace-separated word.
func (t tok) hasClass(name string) bool {
	for _, c := range strings.Fields(t.Attrs["class"]) {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// classContains reports whether any class word contains frag as a substring.
// Used for marker families like "flag-icon" vs "flag-img".
func (t tok) classContains(frag string) bool {
	for _, c := range strings.Fields(t.Attrs["class"]) {
		if strings.Contains(strings.ToLower(c), frag) {
			return true
		}
	}
	return false
}

// innerText returns the normalized text between the start tag at index i and
// its matching end tag (depth-aware for same-named nesting). Tags inside the
// span contribute word breaks, matching StripTags behavior.
func innerText(toks []tok, i int) string {
	if i < 0 || i >= len(toks) || toks[i].Kind != tokStart {
		return ""
	}
	name := toks[i].Name
	depth := 1
	var b strings.Builder
	for j := i + 1; j < len(toks); j++ {
		t := toks[j]
		switch t.Kind {
		case tokStart:
			if t.Name == name {
				depth++
			}
			b.WriteByte(' ')
		case tokEnd:
			if t.Name == name {
				depth--
				if depth == 0 {
					return NormalizeValue(DecodeEntities(b.String()))
				}
			} else {
				b.WriteByte(' ')
			}
		case tokText:
			b.WriteString(t.Text)
		case tokSelfClose:
			b.WriteByte(' ')
		}
	}
	// Unclosed element: take everything to the end of the block.
	return NormalizeValue(DecodeEntities(b.String()))
}
