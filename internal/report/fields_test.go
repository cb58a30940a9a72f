package report

import "testing"

const detailBlock = `<div class="report-card" data-report-id="900">
  <h5 class="text-white">Hospital Group Breached</h5>
  <img class="flag-icon" src="https://flagcdn.com/ru.svg">
  <img src="https://cdn.example.com/shot.png" alt="screenshot">
  <div class="detail-label">THREAT ACTOR</div><div class="detail-val">LockBit</div>
  <div class="detail-label">TIMESTAMP</div><div class="detail-val">2024-06-01 14:22</div>
  <div class="detail-label">ORIGIN</div><div class="detail-val">Russia</div>
  <div class="detail-label">SECTOR</div><span class="badge badge-dark">Healthcare</span>
  <a href="https://breachforums.example/thread-1">post</a>
</div>`

const legacyBlock = `<div class="report-card" id="card-900">
  <div class="card-title">Hospital Group Breached</div>
  <img class="flag-icon" src="https://flagcdn.com/ru.svg">
  <img src="https://cdn.example.com/shot.png" alt="screenshot">
  <b>ACTOR:</b> LockBit <br>
  <b>DATE:</b> 2024-06-01 14:22 <br>
  <b>TARGET:</b> Russia <br>
  <span class="badge badge-info">Healthcare</span>
  <a href="https://breachforums.example/thread-1">post</a>
</div>`

// Both layouts carry the same values, so both must resolve to identical
// records; precedence only decides which probe runs first.
func TestResolveBlock_LayoutsAgree(t *testing.T) {
	d := resolveBlock(block{id: "900", text: detailBlock})
	l := resolveBlock(block{id: "900", text: legacyBlock})

	if d.Title != "Hospital Group Breached" {
		t.Fatalf("detail title: %q", d.Title)
	}
	if d.ThreatActor != l.ThreatActor || d.ThreatActor != "LockBit" {
		t.Fatalf("actor mismatch: detail=%q legacy=%q", d.ThreatActor, l.ThreatActor)
	}
	if d.Timestamp != l.Timestamp || d.Timestamp != "2024-06-01 14:22" {
		t.Fatalf("timestamp mismatch: detail=%q legacy=%q", d.Timestamp, l.Timestamp)
	}
	if d.Origin != l.Origin || d.Origin != "Russia" {
		t.Fatalf("origin mismatch: detail=%q legacy=%q", d.Origin, l.Origin)
	}
	if d.Sector != l.Sector || d.Sector != "Healthcare" {
		t.Fatalf("sector mismatch: detail=%q legacy=%q", d.Sector, l.Sector)
	}
	if d.Title != l.Title {
		t.Fatalf("title mismatch: detail=%q legacy=%q", d.Title, l.Title)
	}
	if d.Image != l.Image || d.Image != "https://cdn.example.com/shot.png" {
		t.Fatalf("image mismatch: detail=%q legacy=%q", d.Image, l.Image)
	}
}

func TestResolveBlock_FlagIconsSkipped(t *testing.T) {
	rec := resolveBlock(block{id: "1", text: `<div class="report-card" data-report-id="1">
<img src="https://flagcdn.com/w40/ru.png">
<img class="country-flag" src="https://cdn.example.com/ru-badge.png">
</div>`})
	if rec.Image != "" {
		t.Fatalf("flag icons must never become the report image, got %q", rec.Image)
	}
}

func TestResolveBlock_FallbackAcrossLayouts(t *testing.T) {
	// Detail layout flagged, but the actor only exists as a legacy label:
	// the non-preferred probe must still run.
	mixed := `<div class="report-card" data-report-id="2">
  <div class="detail-label">TIMESTAMP</div><div class="detail-val">2024-01-01</div>
  <b>ACTOR:</b> ShinyHunters <br>
</div>`
	rec := resolveBlock(block{id: "2", text: mixed})
	if rec.ThreatActor != "ShinyHunters" {
		t.Fatalf("expected legacy fallback to fill actor, got %q", rec.ThreatActor)
	}
	if rec.Timestamp != "2024-01-01" {
		t.Fatalf("expected detail timestamp, got %q", rec.Timestamp)
	}
}

func TestDetailField_ValuelessLabelStaysEmpty(t *testing.T) {
	// THREAT ACTOR lost its detail-val: the scan must stop at the next
	// label instead of grabbing ORIGIN's value.
	rec := resolveBlock(block{id: "6", text: `<div class="report-card" data-report-id="6">
  <div class="detail-label">THREAT ACTOR</div>
  <div class="detail-label">ORIGIN</div><div class="detail-val">Russia</div>
</div>`})
	if rec.ThreatActor != "" {
		t.Fatalf("valueless label must resolve empty, got %q", rec.ThreatActor)
	}
	if rec.Origin != "Russia" {
		t.Fatalf("origin pair must survive, got %q", rec.Origin)
	}
}

func TestResolveBlock_MissingFieldsAreEmpty(t *testing.T) {
	rec := resolveBlock(block{id: "3", text: `<div class="report-card" data-report-id="3">bare</div>`})
	if rec.ThreatActor != "" || rec.Timestamp != "" || rec.Origin != "" ||
		rec.Sector != "" || rec.Title != "" || rec.Image != "" || rec.SourceURL != "" {
		t.Fatalf("unresolved fields must be empty, got %+v", rec)
	}
}

func TestLegacySector_StripsLeadingAngle(t *testing.T) {
	rec := resolveBlock(block{id: "4", text: `<div class="report-card" data-report-id="4">
<span class="badge">&gt;Finance</span>
</div>`})
	if rec.Sector != "Finance" {
		t.Fatalf("expected leading > stripped, got %q", rec.Sector)
	}
}

func TestResolveBlock_EntityDecodedValues(t *testing.T) {
	rec := resolveBlock(block{id: "5", text: `<div class="report-card" data-report-id="5">
<b>ACTOR:</b> Scattered&nbsp;Spider &amp; Friends <br>
</div>`})
	if rec.ThreatActor != "Scattered Spider & Friends" {
		t.Fatalf("expected decoded value, got %q", rec.ThreatActor)
	}
}

func TestParse_EndToEndOrder(t *testing.T) {
	doc := `<html><body>` +
		`<div class="report-card" data-report-id="12">` +
		`<b>ACTOR:</b> ActorA <br></div>` +
		`<div class="report-card" data-report-id="205">` +
		`<b>ACTOR:</b> ActorB <br></div>` +
		`</body></html>`
	records := Parse(doc)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "205" || records[1].ID != "12" {
		t.Fatalf("expected descending numeric order, got %q then %q", records[0].ID, records[1].ID)
	}
}
