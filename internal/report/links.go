package report

import (
	"net/url"
	"strings"
)

// candidate is one anchor considered by the ranker. Transient; only the
// winning href leaves this file.
type candidate struct {
	href string
	text string
}

// forumHostFragments identify known breach/leak forums. A forum permalink is
// the canonical evidentiary source, so these outrank everything else.
var forumHostFragments = []string{
	"breachforums",
	"xss.is",
	"exploit.in",
	"leakbase",
	"darkforums",
	"cracked.io",
	"nulled.to",
}

// forumPathFragments catch forum-shaped permalinks on hosts we do not know.
var forumPathFragments = []string{
	"/thread-",
	"/thread/",
	"/topic/",
	"/forum/",
	"/forums/",
}

// messagingHosts are announcement channels, usually ephemeral reposts rather
// than the primary source. They rank last.
var messagingHosts = []string{
	"t.me",
	"telegram.me",
	"telegram.org",
}

// rankSourceLink collects every anchor in the block and returns the best
// href. If any anchor's visible text contains "source" (case-insensitive),
// the pool is restricted to those anchors first: an explicit author label
// beats any heuristic. Ties keep document order.
func rankSourceLink(toks []tok) string {
	var pool []candidate
	for i, t := range toks {
		if t.Kind != tokStart || t.Name != "a" {
			continue
		}
		href := NormalizeValue(DecodeEntities(t.Attrs["href"]))
		if href == "" {
			continue
		}
		pool = append(pool, candidate{href: href, text: innerText(toks, i)})
	}
	if len(pool) == 0 {
		return ""
	}

	var labeled []candidate
	for _, c := range pool {
		if strings.Contains(strings.ToLower(c.text), "source") {
			labeled = append(labeled, c)
		}
	}
	if len(labeled) > 0 {
		pool = labeled
	}

	best := pool[0]
	bestScore := scoreLink(best.href)
	for _, c := range pool[1:] {
		if s := scoreLink(c.href); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best.href
}

// scoreLink: 3 for forum-pattern URLs, 1 for messaging platforms, 2 for
// everything else.
func scoreLink(href string) int {
	u, err := url.Parse(href)
	if err != nil {
		return 2
	}
	host := strings.ToLower(u.Hostname())
	path := strings.ToLower(u.EscapedPath())

	for _, frag := range forumHostFragments {
		if strings.Contains(host, frag) || strings.Contains(path, frag) {
			return 3
		}
	}
	for _, frag := range forumPathFragments {
		if strings.Contains(path, frag) {
			return 3
		}
	}
	for _, h := range messagingHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return 1
		}
	}
	return 2
}
