package analysis

import (
	"regexp"
	"strings"
)

// HeuristicRecognizer is the recognizer shipped with the engine: a
// pattern-based labeler for capitalized name-like and vendor-like spans.
// It is deliberately loose (the whitelist and validity filters downstream
// own precision) and exists so the pipeline exercises the same interface
// a statistical recognizer would plug into.
type HeuristicRecognizer struct{}

// NewHeuristicRecognizer constructs the shipped recognizer.
func NewHeuristicRecognizer() (Recognizer, error) {
	return &HeuristicRecognizer{}, nil
}

var (
	// runs of two to four capitalized words, ampersands allowed inside
	reCapRun = regexp.MustCompile(`\b[A-Z][A-Za-z&]*(?:[ ][A-Z&][A-Za-z&']*){0,3}\b`)

	reOrgSuffix = regexp.MustCompile(`(?i)\b(inc|llc|ltd|corp|corporation|company|co|bank|insurance|energy|electric|gas|health|healthcare|services|group|utilities|telecom|wireless|mutual)\.?$`)

	reHonorific = regexp.MustCompile(`(?i)\b(mr|mrs|ms|dr|prof)\.?\s*$`)
)

// Recognize labels capitalized runs: spans ending in a corporate suffix
// become ORGANIZATION; two-word runs of plain letters become PERSON;
// everything else is skipped.
func (r *HeuristicRecognizer) Recognize(text string) ([]Span, error) {
	var spans []Span
	for _, loc := range reCapRun.FindAllStringIndex(text, -1) {
		candidate := strings.TrimSpace(text[loc[0]:loc[1]])
		words := strings.Fields(candidate)
		if len(words) == 0 {
			continue
		}
		switch {
		case reOrgSuffix.MatchString(candidate):
			spans = append(spans, Span{Text: candidate, Label: LabelOrganization})
		case len(words) == 2 && isNameLike(words[0]) && isNameLike(words[1]):
			spans = append(spans, Span{Text: candidate, Label: LabelPerson})
		case len(words) == 1 && isNameLike(words[0]) && reHonorific.MatchString(prefixBefore(text, loc[0])):
			spans = append(spans, Span{Text: candidate, Label: LabelPerson})
		}
	}
	return spans, nil
}

// isNameLike accepts a single capitalized alphabetic word.
func isNameLike(w string) bool {
	if len(w) < 2 {
		return false
	}
	if w[0] < 'A' || w[0] > 'Z' {
		return false
	}
	for _, r := range w[1:] {
		if (r < 'a' || r > 'z') && r != '\'' {
			return false
		}
	}
	return true
}

// prefixBefore returns up to eight characters of text preceding pos, used
// to spot honorifics ahead of single-word person candidates.
func prefixBefore(text string, pos int) string {
	start := pos - 8
	if start < 0 {
		start = 0
	}
	return text[start:pos]
}
