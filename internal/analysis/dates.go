package analysis

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// The four date shapes the engine recognizes. Matches are merged across
// patterns; ordering comes from the final sort, not from pattern order.
var (
	reNumericDMY = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`)
	reNumericYMD = regexp.MustCompile(`\b(\d{4})[/-](\d{1,2})[/-](\d{1,2})\b`)
	reMonthDY    = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?\s*,?\s*(\d{4})\b`)
	reDMonthY    = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{4})\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ExtractDates finds date-like substrings, parses each one leniently, and
// returns the surviving dates as unique ISO YYYY-MM-DD strings sorted
// descending. Unparsable matches are dropped without error. dayFirst
// controls the ambiguous numeric D/M order; the default is US month-first.
func ExtractDates(text string, dayFirst bool) []string {
	seen := make(map[string]struct{})

	add := func(when time.Time, ok bool) {
		if !ok {
			return
		}
		seen[when.Format("2006-01-02")] = struct{}{}
	}

	for _, m := range reNumericDMY.FindAllStringSubmatch(text, -1) {
		add(parseNumericDMY(m[1], m[2], m[3], dayFirst))
	}
	for _, m := range reNumericYMD.FindAllStringSubmatch(text, -1) {
		add(makeDate(m[1], m[2], m[3]))
	}
	for _, m := range reMonthDY.FindAllStringSubmatch(text, -1) {
		add(parseNamedMonth(m[1], m[2], m[3]))
	}
	for _, m := range reDMonthY.FindAllStringSubmatch(text, -1) {
		add(parseNamedMonth(m[2], m[1], m[3]))
	}

	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	// descending lexicographic == descending chronological for ISO strings
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

func parseNumericDMY(a, b, year string, dayFirst bool) (time.Time, bool) {
	month, day := a, b
	if dayFirst {
		month, day = b, a
	}
	return makeDate(expandYear(year), month, day)
}

func parseNamedMonth(monthName, day, year string) (time.Time, bool) {
	prefix := strings.ToLower(monthName)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	month, ok := monthsByPrefix[prefix]
	if !ok {
		return time.Time{}, false
	}
	return makeDate(year, strconv.Itoa(int(month)), day)
}

// makeDate validates the numeric fields and rejects anything time.Date
// would silently normalize (e.g. Feb 31).
func makeDate(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil || y < 1000 || y > 9999 {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, false
	}
	when := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if when.Year() != y || when.Month() != time.Month(m) || when.Day() != d {
		return time.Time{}, false
	}
	return when, true
}

// expandYear maps two-digit years to 2000-2068 / 1969-1999.
func expandYear(year string) string {
	if len(year) != 2 {
		return year
	}
	n, err := strconv.Atoi(year)
	if err != nil {
		return year
	}
	if n < 69 {
		return strconv.Itoa(2000 + n)
	}
	return strconv.Itoa(1900 + n)
}
