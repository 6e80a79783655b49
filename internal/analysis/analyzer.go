// Package analysis is the content-based document analysis engine: it
// locates calendar dates, matches personal names against a whitelist,
// identifies organization/vendor names, rejects OCR noise and address
// fragments, and composes a canonical filename from the surviving facts.
package analysis

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/docforge/pdfutils/constants"
	"github.com/docforge/pdfutils/internal/rules"
)

// Result is the wire contract a front end depends on. Dates are unique and
// sorted descending; names and organizations are unique in insertion order.
type Result struct {
	Dates         []string `json:"dates"`
	Names         []string `json:"names"`
	Organizations []string `json:"organizations"`
	SuggestedName string   `json:"suggested_name"`
}

// TextSource supplies document text. Extraction failure is represented as
// an empty string, never an error.
type TextSource interface {
	Text(ctx context.Context, path string) string
}

// Analyzer drives the extraction pipeline for one document at a time. It
// holds no state between calls beyond the lazily initialized recognizer.
type Analyzer struct {
	Logger *slog.Logger
	Rules  rules.Rules
	Source TextSource

	recognizer *recognizerHandle
	providerRe *regexp.Regexp
	canonical  map[string]string // lowercased provider -> canonical spelling
	orgLike    map[Label]struct{}
}

// NewAnalyzer wires the engine. caps.NewRecognizer may be nil; the pipeline
// then runs with fallback-only organization detection and no person spans.
func NewAnalyzer(logger *slog.Logger, r rules.Rules, source TextSource, caps Capabilities) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Analyzer{
		Logger:     logger,
		Rules:      r,
		Source:     source,
		recognizer: &recognizerHandle{build: caps.NewRecognizer},
		canonical:  make(map[string]string, len(r.Providers)),
		orgLike:    make(map[Label]struct{}, len(r.OrgLikeLabels)),
	}
	a.providerRe = compileProviderPattern(r.Providers)
	for _, p := range r.Providers {
		a.canonical[strings.ToLower(p)] = p
	}
	for _, l := range r.OrgLikeLabels {
		a.orgLike[Label(strings.ToUpper(l))] = struct{}{}
	}
	return a
}

// Analyze extracts text from the document at path and runs the pipeline.
// A document where nothing is discoverable yields an all-empty result with
// only the fallback suggested name; that is a valid outcome, not an error.
func (a *Analyzer) Analyze(ctx context.Context, path string) Result {
	text := ""
	if a.Source != nil {
		text = a.Source.Text(ctx, path)
	}
	return a.AnalyzeText(text, filepath.Base(path))
}

// AnalyzeText runs the pipeline over already-extracted text. originalName
// seeds the synthesized filename when no facts survive.
func (a *Analyzer) AnalyzeText(text, originalName string) Result {
	res := Result{
		Dates:         ExtractDates(text, a.Rules.DayFirst),
		Names:         []string{},
		Organizations: []string{},
	}

	spans := a.extractEntities(text)

	var persons []Span
	var orgCandidates []string
	for _, s := range spans {
		if s.Label == LabelPerson {
			persons = append(persons, s)
			continue
		}
		if _, ok := a.orgLike[s.Label]; ok {
			orgCandidates = append(orgCandidates, s.Text)
		}
	}

	// the provider table is matched against the full text regardless of
	// whether the recognizer produced anything
	orgCandidates = append(orgCandidates, a.matchProviders(text)...)

	if names := FilterNames(persons, a.Rules.Whitelist); len(names) > 0 {
		res.Names = names
	}
	if orgs := FilterOrganizations(orgCandidates); len(orgs) > 0 {
		res.Organizations = orgs
	}

	res.SuggestedName = Synthesize(res.Organizations, res.Names, res.Dates, originalName)

	a.Logger.Debug("analysis complete",
		"original", originalName,
		"dates", len(res.Dates),
		"names", len(res.Names),
		"organizations", len(res.Organizations),
		"suggested", res.SuggestedName,
	)
	return res
}

// extractEntities is a plain adapter over the optional recognizer: at most
// the first RecognizerTextCap characters are labeled, and every failure is
// absorbed after an informational log line.
func (a *Analyzer) extractEntities(text string) []Span {
	rec := a.recognizer.get(a.Logger)
	if rec == nil || text == "" {
		return nil
	}
	spans, err := rec.Recognize(capRunes(text, constants.RecognizerTextCap))
	if err != nil {
		a.Logger.Info("entity recognition skipped", "error", err)
		return nil
	}
	return spans
}

// capRunes truncates s to at most n characters, never splitting a rune.
func capRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// matchProviders scans the full text with the provider alternation and
// returns canonical spellings in match order.
func (a *Analyzer) matchProviders(text string) []string {
	if a.providerRe == nil || text == "" {
		return nil
	}
	var out []string
	for _, m := range a.providerRe.FindAllString(text, -1) {
		if canon, ok := a.canonical[strings.ToLower(m)]; ok {
			out = append(out, canon)
		}
	}
	return out
}

func compileProviderPattern(providers []string) *regexp.Regexp {
	if len(providers) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(providers))
	for _, p := range providers {
		if p = strings.TrimSpace(p); p != "" {
			quoted = append(quoted, regexp.QuoteMeta(p))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil
	}
	return re
}
