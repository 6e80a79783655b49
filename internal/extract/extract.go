// Package extract pulls plain text from the leading pages of a PDF
// document. Extraction failure is deliberately soft: callers receive an
// empty string and the analysis pipeline continues with an empty result.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor reads document text via github.com/ledongthuc/pdf, bounded to
// the first MaxPages pages, with an mtime-keyed LRU cache in front.
type Extractor struct {
	Logger   *slog.Logger
	MaxPages int
	cache    *textCache
}

// NewExtractor builds an extractor. maxPages <= 0 falls back to 3,
// cacheEntries <= 0 disables caching.
func NewExtractor(logger *slog.Logger, maxPages, cacheEntries int) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if maxPages <= 0 {
		maxPages = 3
	}
	var cache *textCache
	if cacheEntries > 0 {
		cache = newTextCache(cacheEntries)
	}
	return &Extractor{Logger: logger, MaxPages: maxPages, cache: cache}
}

// Text returns the concatenated text of up to the first MaxPages pages.
// Any failure yields "": a document with no extractable text is a valid,
// if uninteresting, input.
func (e *Extractor) Text(ctx context.Context, path string) string {
	if err := ctx.Err(); err != nil {
		return ""
	}
	if e.cache != nil {
		if text, ok := e.cache.get(path); ok {
			return text
		}
	}

	text, err := e.extract(path)
	if err != nil {
		e.Logger.Info("text extraction unavailable", "path", path, "error", err)
		return ""
	}
	if e.cache != nil {
		e.cache.put(path, text)
	}
	return text
}

// PageCount returns the page count of a PDF, 0 on any failure.
func (e *Extractor) PageCount(path string) int {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	return reader.NumPage()
}

func (e *Extractor) extract(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	pages := reader.NumPage()
	if pages > e.MaxPages {
		pages = e.MaxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// one unreadable page doesn't doom the rest
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return Normalize(b.String()), nil
}
