package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

// Address shapes: leading digits, an optional directional, a word, and a
// street-type token ("123 W Main St").
var reAddress = regexp.MustCompile(`(?i)^\s*\d+\s+(?:[nsew]\.?\s+|north\s+|south\s+|east\s+|west\s+)?\S+\s+(st|street|ave|avenue|rd|road|blvd|boulevard|dr|drive|ln|lane|ct|court|pl|place|way|hwy|highway)\b`)

// Co-located number + capitalized street-type word that the full address
// pattern misses ("Suite 12 Elm Street").
var (
	reDigitToken = regexp.MustCompile(`\b\d+\b`)
	reStreetWord = regexp.MustCompile(`\b(St|Street|Ave|Avenue|Rd|Road|Blvd|Boulevard|Dr|Drive|Ln|Lane|Ct|Court|Pl|Place|Hwy|Highway)\b`)
)

// OCR artifacts of the form a_b_c_d.
var reAlternatingSingles = regexp.MustCompile(`(?i)[a-z](_[a-z]){3,}`)

// FilterOrganizations rejects address fragments and OCR gibberish from the
// organization candidate set, preserving first-seen order and deduplicating
// by exact string equality. Every heuristic is computed independently; any
// one of them rejects the candidate.
func FilterOrganizations(candidates []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		if !validOrganization(c) {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func validOrganization(c string) bool {
	switch {
	case reAddress.MatchString(c):
		return false
	case reDigitToken.MatchString(c) && reStreetWord.MatchString(c):
		return false
	case mostlySingleCharSegments(c):
		return false
	case strings.Count(c, "_") > 3 || strings.Count(c, "-") > 3:
		return false
	case reAlternatingSingles.MatchString(c):
		return false
	case dominantCharHeavy(c):
		return false
	case tooShortStripped(c):
		return false
	case mostlyNonAlphanumeric(c):
		return false
	case mostlySingleLetterWords(c):
		return false
	}
	return true
}

// splitting on _/- yields more than 3 segments where over half are single
// characters (I_l_l_l_a style artifacts).
func mostlySingleCharSegments(c string) bool {
	segments := strings.FieldsFunc(c, func(r rune) bool { return r == '_' || r == '-' })
	if len(segments) <= 3 {
		return false
	}
	singles := 0
	for _, s := range segments {
		if len(s) == 1 {
			singles++
		}
	}
	return singles*2 > len(segments)
}

// after stripping non-alphanumerics, the most frequent character exceeds
// 40% of the cleaned length.
func dominantCharHeavy(c string) bool {
	cleaned := make([]rune, 0, len(c))
	for _, r := range c {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) == 0 {
		return true
	}
	freq := make(map[rune]int, len(cleaned))
	max := 0
	for _, r := range cleaned {
		freq[r]++
		if freq[r] > max {
			max = freq[r]
		}
	}
	return float64(max) > 0.4*float64(len(cleaned))
}

// stripped of separators and whitespace, shorter than 3 characters.
func tooShortStripped(c string) bool {
	stripped := strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, c)
	return len([]rune(stripped)) < 3
}

// fewer than half of the raw characters are alphanumeric.
func mostlyNonAlphanumeric(c string) bool {
	total, alnum := 0, 0
	for _, r := range c {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	return total > 0 && alnum*2 < total
}

// more than 2 words where over 60% are single letters, after converting
// separators to spaces.
func mostlySingleLetterWords(c string) bool {
	spaced := strings.NewReplacer("_", " ", "-", " ").Replace(c)
	words := strings.Fields(spaced)
	if len(words) <= 2 {
		return false
	}
	singles := 0
	for _, w := range words {
		if len(w) == 1 {
			singles++
		}
	}
	return float64(singles) > 0.6*float64(len(words))
}
