package report

import "testing"

func TestNormalizeValue_CollapsesAndTrims(t *testing.T) {
	if got := NormalizeValue("  LockBit \t 3.0\n"); got != "LockBit 3.0" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if got := NormalizeValue("   \t\n"); got != "" {
		t.Fatalf("blank input should normalize to the empty marker, got %q", got)
	}
}

func TestDecodeEntities_NamedAndNumeric(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"a &amp; b", "a & b"},
		{"&lt;b&gt;", "<b>"},
		{"&quot;quoted&quot;", `"quoted"`},
		{"it&#39;s", "it's"},
		{"a&nbsp;b", "a b"},
		{"&#65;&#x42;", "AB"},
		{"&bogus; stays", "&bogus; stays"},
		{"no entities", "no entities"},
	}
	for _, c := range cases {
		if got := DecodeEntities(c.in); got != c.want {
			t.Fatalf("DecodeEntities(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDecodeEntities_SingleLevelOnly(t *testing.T) {
	// The outer &amp; decodes; the result must be the literal text "&lt;",
	// not a second-pass "<".
	if got := DecodeEntities("&amp;lt;"); got != "&lt;" {
		t.Fatalf("expected one level of decoding, got %q", got)
	}
}

func TestStripTags(t *testing.T) {
	in := `<div class="x">ACTOR:</div><b>foo</b> &amp; bar`
	if got := StripTags(in); got != "ACTOR: foo & bar" {
		t.Fatalf("unexpected strip result: %q", got)
	}
}

func TestStripTags_DanglingBracketTruncates(t *testing.T) {
	if got := StripTags("keep this <div class=broken"); got != "keep this" {
		t.Fatalf("expected truncation at dangling bracket, got %q", got)
	}
}
