// Package rules holds the externally configurable data tables the analysis
// engine matches against: the personal-name whitelist, the well-known
// provider fallback table, and the recognizer labels treated as
// organization-like. The tables ship with defaults but are plain data, not
// logic, so behavior is tunable without code changes.
package rules

import (
	"encoding/json"
	"fmt"
	"os"
)

// Rules is the full set of tunable analysis tables.
type Rules struct {
	// Whitelist is the closed set of canonical personal names. Matching is
	// case-insensitive containment; the canonical spelling here is what
	// appears in results.
	Whitelist []string `json:"whitelist"`

	// Providers maps well-known service providers to their canonical
	// spelling. Matched case-insensitively against the full document text
	// regardless of recognizer availability.
	Providers []string `json:"providers"`

	// OrgLikeLabels are the recognizer categories pooled as organization
	// candidates. The recognizer conflates orgs, products and facilities
	// for vendor-detection purposes.
	OrgLikeLabels []string `json:"org_like_labels"`

	// DayFirst interprets ambiguous D/M numeric dates day-first instead of
	// the default US month-first.
	DayFirst bool `json:"day_first"`
}

// Defaults returns the shipped rule tables.
func Defaults() Rules {
	return Rules{
		Whitelist: []string{
			"Mark",
			"Sarah",
			"David",
			"Emily",
			"Michael",
			"Laura",
			"James",
			"Anna",
		},
		Providers: []string{
			// telecom
			"Verizon",
			"AT&T",
			"T-Mobile",
			"Comcast",
			"Spectrum",
			// tech
			"Microsoft",
			"Apple",
			"Google",
			"Amazon",
			"Adobe",
			// banking
			"Chase",
			"Bank of America",
			"Wells Fargo",
			"Citibank",
			"Capital One",
			"American Express",
			// insurance
			"Geico",
			"State Farm",
			"Allstate",
			"Progressive",
			// healthcare
			"Aetna",
			"Cigna",
			"UnitedHealthcare",
			"Blue Cross",
			"Kaiser Permanente",
			// utilities
			"Pacific Gas & Electric",
			"Con Edison",
			"Duke Energy",
			"National Grid",
		},
		OrgLikeLabels: []string{"ORGANIZATION", "PRODUCT", "FACILITY"},
		DayFirst:      false,
	}
}

// Load reads a rules file and merges it over the defaults. Empty arrays in
// the file fall back to the shipped tables. The file is validated against
// the rules schema before use.
func Load(path string) (Rules, error) {
	r := Defaults()
	if path == "" {
		return r, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("read rules file %s: %w", path, err)
	}
	if err := ValidateRulesJSON(raw); err != nil {
		return r, fmt.Errorf("rules file %s: %w", path, err)
	}
	var file Rules
	if err := json.Unmarshal(raw, &file); err != nil {
		return r, fmt.Errorf("decode rules file %s: %w", path, err)
	}
	if len(file.Whitelist) > 0 {
		r.Whitelist = file.Whitelist
	}
	if len(file.Providers) > 0 {
		r.Providers = file.Providers
	}
	if len(file.OrgLikeLabels) > 0 {
		r.OrgLikeLabels = file.OrgLikeLabels
	}
	r.DayFirst = file.DayFirst
	return r, nil
}
