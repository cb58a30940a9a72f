package report

import "strings"

// containerClass marks a report container's opening tag in both layouts.
const containerClass = "report-card"

// block is one contiguous document span describing a single report.
type block struct {
	id   string
	text string
}

// segment splits the document into one span per report container. A span
// runs from a container's opening tag to the next container's opening tag,
// or to the end of the document for the last one. Containers whose id cannot
// be parsed are skipped. Zero containers yields a nil slice, not an error.
func segment(doc string) []block {
	toks := scanMarkup(doc)
	type mark struct {
		id    string
		start int
	}
	var marks []mark
	for _, t := range toks {
		if t.Kind != tokStart && t.Kind != tokSelfClose {
			continue
		}
		if !t.hasClass(containerClass) {
			continue
		}
		marks = append(marks, mark{id: containerID(t), start: t.Start})
	}
	var out []block
	for i, m := range marks {
		end := len(doc)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		if m.id == "" {
			continue
		}
		out = append(out, block{id: m.id, text: doc[m.start:end]})
	}
	return out
}

// containerID pulls the numeric identifier off a container's opening tag:
// the data-report-id attribute when present, otherwise the first digit run
// inside the id attribute (e.g. id="card-1042").
func containerID(t tok) string {
	if v := strings.TrimSpace(t.Attrs["data-report-id"]); v != "" && isDigits(v) {
		return v
	}
	return firstDigitRun(t.Attrs["id"])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func firstDigitRun(s string) string {
	start := -1
	for i := 0; i < len(s); i++ {
		d := s[i] >= '0' && s[i] <= '9'
		if d && start < 0 {
			start = i
		}
		if !d && start >= 0 {
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return ""
}
