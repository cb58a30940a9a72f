package report

import (
	"sort"
	"strconv"
)

// ThreatRecord is the normalized form of one report block. Fields that could
// not be resolved hold the empty string; presentation-layer placeholders like
// "N/A" are applied by the delivery code, never stored here. Records are
// immutable once produced.
type ThreatRecord struct {
	ID          string `json:"id"`
	Image       string `json:"image,omitempty"`
	ThreatActor string `json:"threat_actor,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	Origin      string `json:"origin,omitempty"`
	Sector      string `json:"sector,omitempty"`
	Title       string `json:"title,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
}

// SortRecords orders records by descending numeric id. Ids that do not parse
// as numbers keep their original relative order and sort after all numeric
// ids; input ids carry no uniqueness guarantee, so equal ids also keep
// document order.
func SortRecords(records []ThreatRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, aok := parseID(records[i].ID)
		b, bok := parseID(records[j].ID)
		if aok && bok {
			return a > b
		}
		return aok && !bok
	})
}

func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, err == nil
}
