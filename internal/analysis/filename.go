package analysis

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// punctuation stripped from filename components
	disallowedPunct = "?&#@!$%^*+=[]{}()<>:;\"',./\\|`~"
	// characters the filesystem reserves, stripped in the final pass
	reservedChars = `<>:"/\|?*`

	// longest slice of the original stem used when only a date was found
	stemPrefixLen = 24
)

var reAnyWhitespace = regexp.MustCompile(`\s+`)

// Synthesize composes the canonical filename from the analysis facts:
// [Organization]-[for_FirstName]-[MostRecentDate] when an organization is
// present, [FirstName]-[MostRecentDate] with a name alone, and a prefix of
// the original stem when only a date survived. With no facts at all the
// fallback is renamed_<original stem>.pdf.
func Synthesize(organizations, names, dates []string, originalFilename string) string {
	var parts []string

	if len(organizations) > 0 {
		if org := sanitizeComponent(organizations[0]); org != "" {
			parts = append(parts, org)
		}
	}
	if len(names) > 0 {
		if first := firstName(names[0]); first != "" {
			if len(parts) > 0 {
				parts = append(parts, "for_"+first)
			} else {
				parts = append(parts, first)
			}
		}
	}
	if len(parts) == 0 && len(dates) > 0 {
		if prefix := stemPrefix(originalFilename); prefix != "" {
			parts = append(parts, prefix)
		}
	}
	// the most recent date always goes last, whichever parts exist
	if len(dates) > 0 {
		parts = append(parts, dates[0])
	}

	if len(parts) == 0 {
		return StripReserved("renamed_" + stem(originalFilename) + ".pdf")
	}

	joined := sanitizeComponent(strings.Join(parts, "-"))
	return StripReserved(joined + ".pdf")
}

// StripReserved removes filesystem-reserved characters. Manually supplied
// names go through the same final pass as synthesized ones.
func StripReserved(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(reservedChars, r) {
			return -1
		}
		return r
	}, s)
}

// sanitizeComponent applies the staged cleanup: collapse whitespace, strip
// the disallowed punctuation set, trim, then turn spaces into underscores.
func sanitizeComponent(s string) string {
	s = reAnyWhitespace.ReplaceAllString(s, " ")
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(disallowedPunct, r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	return reAnyWhitespace.ReplaceAllString(s, "_")
}

// firstName sanitizes a person name and keeps only the text before the
// first underscore.
func firstName(name string) string {
	clean := sanitizeComponent(name)
	if i := strings.IndexByte(clean, '_'); i >= 0 {
		return clean[:i]
	}
	return clean
}

func stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func stemPrefix(filename string) string {
	s := sanitizeComponent(stem(filename))
	if len(s) > stemPrefixLen {
		s = s[:stemPrefixLen]
	}
	return strings.Trim(s, "_-")
}
