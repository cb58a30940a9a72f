package report

import "testing"

func rank(t *testing.T, html string) string {
	t.Helper()
	return rankSourceLink(scanMarkup(html))
}

func TestRankSourceLink_ForumBeatsTelegram(t *testing.T) {
	html := `<a href="https://t.me/breachchannel/42">announcement</a>
<a href="https://breachforums.example/thread-99">discussion</a>`
	if got := rank(t, html); got != "https://breachforums.example/thread-99" {
		t.Fatalf("expected forum link to win, got %q", got)
	}
}

func TestRankSourceLink_SourceLabelOverridesScore(t *testing.T) {
	// The "Source" label is an explicit author signal; it must beat a
	// higher-scoring forum link without that label.
	html := `<a href="https://breachforums.example/thread-1">forum post</a>
<a href="https://t.me/chan/5">Original Source</a>`
	if got := rank(t, html); got != "https://t.me/chan/5" {
		t.Fatalf("expected Source-labeled link to win, got %q", got)
	}
}

func TestRankSourceLink_PathPatternsScoreAsForum(t *testing.T) {
	html := `<a href="https://t.me/chan/1">tg</a>
<a href="https://obscure.example/forum/breaches/123">permalink</a>`
	if got := rank(t, html); got != "https://obscure.example/forum/breaches/123" {
		t.Fatalf("expected /forum/ path to outrank messaging, got %q", got)
	}
}

func TestRankSourceLink_TiesKeepDocumentOrder(t *testing.T) {
	html := `<a href="https://first.example/a">one</a>
<a href="https://second.example/b">two</a>`
	if got := rank(t, html); got != "https://first.example/a" {
		t.Fatalf("expected stable tie-break on document order, got %q", got)
	}
}

func TestRankSourceLink_GenericBeatsTelegram(t *testing.T) {
	html := `<a href="https://t.me/chan/9">tg</a>
<a href="https://news.example/article">article</a>`
	if got := rank(t, html); got != "https://news.example/article" {
		t.Fatalf("expected generic URL over messaging, got %q", got)
	}
}

func TestRankSourceLink_Empty(t *testing.T) {
	if got := rank(t, `<p>no anchors at all</p>`); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}
