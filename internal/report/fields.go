package report

import (
	"net/url"
	"strings"
)

// flagCDNHost serves the per-country flag icons the feed decorates blocks
// with. Images from it are metadata, never the report's illustration.
const flagCDNHost = "flagcdn.com"

// Parse converts a raw feed document into normalized records, newest (highest
// numeric id) first. Malformed blocks degrade to empty fields; they never
// abort the parse.
func Parse(doc string) []ThreatRecord {
	blocks := segment(doc)
	records := make([]ThreatRecord, 0, len(blocks))
	for _, b := range blocks {
		records = append(records, resolveBlock(b))
	}
	SortRecords(records)
	return records
}

// strategy is one way of pulling a field out of a tokenized block. It returns
// the empty string when the block does not match its shape.
type strategy func(toks []tok) string

// firstOf tries strategies in order and returns the first non-empty result.
func firstOf(toks []tok, strategies ...strategy) string {
	for _, s := range strategies {
		if v := s(toks); v != "" {
			return v
		}
	}
	return ""
}

// ordered arranges a detail-layout probe and a legacy-layout probe according
// to the block's layout flag. The non-preferred probe stays as fallback; the
// flag only decides who goes first.
func ordered(detailFirst bool, detail, legacy strategy) []strategy {
	if detailFirst {
		return []strategy{detail, legacy}
	}
	return []strategy{legacy, detail}
}

func resolveBlock(b block) ThreatRecord {
	toks := scanMarkup(b.text)
	detailFirst := isDetailLayout(toks)

	rec := ThreatRecord{ID: b.id}
	rec.Title = firstOf(toks, ordered(detailFirst, headingWhiteText, headingCardTitle)...)
	rec.ThreatActor = firstOf(toks, ordered(detailFirst, detailField("THREAT ACTOR"), legacyField("ACTOR:"))...)
	rec.Timestamp = firstOf(toks, ordered(detailFirst, detailField("TIMESTAMP"), legacyField("DATE:"))...)
	rec.Origin = firstOf(toks, ordered(detailFirst, detailField("ORIGIN"), legacyField("TARGET:"))...)
	rec.Sector = firstOf(toks, ordered(detailFirst, detailSector, legacySector)...)
	rec.Image = firstImage(toks)
	rec.SourceURL = rankSourceLink(toks)
	return rec
}

// isDetailLayout flips field precedence for the whole block as soon as a
// single detail-label marker appears anywhere in it.
func isDetailLayout(toks []tok) bool {
	for _, t := range toks {
		if t.Kind == tokStart && t.hasClass("detail-label") {
			return true
		}
	}
	return false
}

// headingWhiteText extracts the detail layout's heading, an h1-h6 carrying
// the text-white class.
func headingWhiteText(toks []tok) string {
	for i, t := range toks {
		if t.Kind != tokStart || !isHeading(t.Name) {
			continue
		}
		if t.hasClass("text-white") {
			return innerText(toks, i)
		}
	}
	return ""
}

// headingCardTitle extracts the legacy layout's card-title heading.
func headingCardTitle(toks []tok) string {
	for i, t := range toks {
		if t.Kind == tokStart && t.hasClass("card-title") {
			return innerText(toks, i)
		}
	}
	return ""
}

func isHeading(name string) bool {
	return len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6'
}

// detailField looks up a detail-label div by exact label text and returns the
// text of the detail-val element that follows it. The scan stops at the next
// detail-label so a label missing its value cannot steal a later pair's.
func detailField(label string) strategy {
	return func(toks []tok) string {
		for i, t := range toks {
			if t.Kind != tokStart || !t.hasClass("detail-label") {
				continue
			}
			if !strings.EqualFold(innerText(toks, i), label) {
				continue
			}
			for j := i + 1; j < len(toks); j++ {
				if toks[j].Kind != tokStart {
					continue
				}
				if toks[j].hasClass("detail-label") {
					break
				}
				if toks[j].hasClass("detail-val") {
					return innerText(toks, j)
				}
			}
			return ""
		}
		return ""
	}
}

// legacyField looks up a bold prose label ("ACTOR:") and returns the text run
// immediately after the closing tag, stopping at the next tag of any kind.
func legacyField(label string) strategy {
	return func(toks []tok) string {
		for i, t := range toks {
			if t.Kind != tokStart || (t.Name != "b" && t.Name != "strong") {
				continue
			}
			if !strings.EqualFold(innerText(toks, i), label) {
				continue
			}
			// Skip to the matching end tag, then take following text.
			j := i + 1
			for j < len(toks) && !(toks[j].Kind == tokEnd && toks[j].Name == t.Name) {
				j++
			}
			var b strings.Builder
			for k := j + 1; k < len(toks) && toks[k].Kind == tokText; k++ {
				b.WriteString(toks[k].Text)
			}
			if v := NormalizeValue(DecodeEntities(b.String())); v != "" {
				return v
			}
		}
		return ""
	}
}

// detailSector handles the detail layout's SECTOR pair, where the value sits
// either in a detail-val div or directly in a badge span.
func detailSector(toks []tok) string {
	for i, t := range toks {
		if t.Kind != tokStart || !t.hasClass("detail-label") {
			continue
		}
		if !strings.EqualFold(innerText(toks, i), "SECTOR") {
			continue
		}
		for j := i + 1; j < len(toks); j++ {
			if toks[j].Kind != tokStart {
				continue
			}
			if toks[j].hasClass("detail-label") {
				break
			}
			if toks[j].hasClass("detail-val") || toks[j].classContains("badge") {
				return innerText(toks, j)
			}
		}
		return ""
	}
	return ""
}

// legacySector takes the first badge span in the block. The greedy legacy
// markup match can swallow the preceding tag's ">", so a leading ">" is
// stripped from the result.
func legacySector(toks []tok) string {
	for i, t := range toks {
		if t.Kind == tokStart && t.Name == "span" && t.classContains("badge") {
			v := innerText(toks, i)
			v = NormalizeValue(strings.TrimPrefix(v, ">"))
			return v
		}
	}
	return ""
}

// firstImage returns the src of the first img in document order, skipping
// flag icons (flag class marker or the flag CDN host).
func firstImage(toks []tok) string {
	for _, t := range toks {
		if (t.Kind != tokStart && t.Kind != tokSelfClose) || t.Name != "img" {
			continue
		}
		src := NormalizeValue(t.Attrs["src"])
		if src == "" {
			continue
		}
		if t.classContains("flag") || isFlagCDN(src) {
			continue
		}
		return src
	}
	return ""
}

func isFlagCDN(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == flagCDNHost || strings.HasSuffix(host, "."+flagCDNHost)
}
