package ingest

import (
	"context"
	"log/slog"

	"github.com/docforge/pdfutils/internal/rename"
)

// RunAutoAnalysis consumes watcher events and runs a dry-run rename over
// each discovered document, so a suggestion is logged (and usage recorded)
// the moment a file lands in a watched directory. It blocks until ctx is
// cancelled or the event channel closes.
func RunAutoAnalysis(ctx context.Context, logger *slog.Logger, orch *rename.Orchestrator, events <-chan string, errs <-chan error) {
	if logger == nil {
		logger = slog.Default()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-events:
			if !ok {
				return
			}
			out := orch.Rename(ctx, path, "", true)
			logger.Info("discovered document",
				"path", path,
				"state", string(out.State),
				"suggested", out.Analysis.SuggestedName,
			)
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
