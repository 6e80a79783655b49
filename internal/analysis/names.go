package analysis

import "strings"

// FilterNames restricts PERSON spans to the configured whitelist. Matching
// is case-insensitive containment of the whitelist entry within the span
// text; the canonical whitelist spelling, not the raw span, is emitted.
// Spans matching no entry are dropped: this is a closed-world filter, not
// a general name detector.
func FilterNames(spans []Span, whitelist []string) []string {
	var out []string
	have := make(map[string]struct{}, len(whitelist))

	for _, span := range spans {
		if span.Label != LabelPerson {
			continue
		}
		lower := strings.ToLower(span.Text)
		for _, entry := range whitelist {
			if !strings.Contains(lower, strings.ToLower(entry)) {
				continue
			}
			if _, ok := have[entry]; !ok {
				have[entry] = struct{}{}
				out = append(out, entry)
			}
			break
		}
	}
	return out
}
