package scraper

import (
	"regexp"
	"strings"
)

// quotedRe finds single-quoted substrings inside the click-handler call,
// e.g. mdsende('a','b','06-12-2025;2;9;18:00;19:00').
var quotedRe = regexp.MustCompile(`'(.*?)'`)

// SlotPayload is the structured form of a slot element's click-handler
// payload.
type SlotPayload struct {
	Date     string // ISO 8601 (YYYY-MM-DD)
	CourtNum string
	Start    string // passed through verbatim, e.g. "18:00"
	End      string
}

// ParseSlotPayload decodes the inline-script payload of a slot element.
// It reports ok=false when the payload does not carry the expected shape;
// malformed individual elements must never abort a whole poll, so this
// never returns an error.
func ParseSlotPayload(onclick string) (SlotPayload, bool) {
	if onclick == "" {
		return SlotPayload{}, false
	}

	quoted := quotedRe.FindAllStringSubmatch(onclick, -1)
	if len(quoted) < 3 {
		return SlotPayload{}, false
	}

	// The third quoted argument holds the slot record:
	// "DD-MM-YYYY;<flag>;<courtNum>;<start>;<end>;..."
	parts := strings.Split(quoted[2][1], ";")
	if len(parts) < 5 {
		return SlotPayload{}, false
	}

	return SlotPayload{
		Date:     toISODate(parts[0]),
		CourtNum: parts[2],
		Start:    parts[3],
		End:      parts[4],
	}, true
}

// toISODate converts DD-MM-YYYY to YYYY-MM-DD. Anything that does not
// split into three parts passes through unchanged.
func toISODate(ddmmyyyy string) string {
	parts := strings.Split(ddmmyyyy, "-")
	if len(parts) != 3 {
		return ddmmyyyy
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// CourtMap is the bidirectional lookup between the site's raw court
// numbers and human-readable names. It is loaded once at startup and
// treated as read-only afterwards.
type CourtMap map[string]string

// ParseCourtMap parses the "9:Court11,10:Court12" pair syntax.
func ParseCourtMap(raw string) CourtMap {
	m := CourtMap{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(k) == "" {
			continue
		}
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return m
}

// Bootstrap reports whether the map is empty. In bootstrap mode every
// court number is accepted and no structure validation occurs; this is
// what the -map-courts discovery tooling relies on.
func (m CourtMap) Bootstrap() bool {
	return len(m) == 0
}

// Resolve returns the display name for a raw court number, synthesizing
// "court-<num>" when the number is not mapped.
func (m CourtMap) Resolve(courtNum string) string {
	if name, ok := m[courtNum]; ok {
		return name
	}
	return "court-" + courtNum
}

// NumberFor is the reverse lookup: display name back to raw court number.
// It also accepts a raw number as input so booking requests can carry
// either form.
func (m CourtMap) NumberFor(name string) (string, bool) {
	if _, ok := m[name]; ok {
		return name, true
	}
	for num, display := range m {
		if display == name {
			return num, true
		}
	}
	return "", false
}
