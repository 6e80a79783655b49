// Package rename drives the analysis pipeline to completion and performs
// the conflict-safe filesystem rename. A rename job walks
// ANALYZING → SUGGESTED → (DRY_RUN_END | RENAMING → RENAMED/CONFLICT/FAILED);
// the filesystem mutation and the in-memory reference rebind are one
// conceptual transaction: no rebind happens unless the rename succeeded.
package rename

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/docforge/pdfutils/constants"
	"github.com/docforge/pdfutils/internal/analysis"
	"github.com/docforge/pdfutils/internal/registry"
	"github.com/docforge/pdfutils/internal/repository"
)

// Outcome reports a finished rename job. Analysis is populated whenever it
// ran, even for failed jobs, so a caller can retry with a manual name.
type Outcome struct {
	JobID    uuid.UUID             `json:"job_id"`
	Success  bool                  `json:"success"`
	State    constants.RenameState `json:"state"`
	Message  string                `json:"message"`
	Path     string                `json:"path"`
	Analysis analysis.Result       `json:"analysis"`
}

// Recorder is the slice of the repository the orchestrator needs. nil is
// allowed; bookkeeping is then skipped.
type Recorder interface {
	RecordUsage(ctx context.Context, name string) error
	AppendRename(ctx context.Context, rec repository.RenameRecord) error
}

// Orchestrator coordinates analysis, conflict checks, the rename syscall,
// and the registry rebind.
type Orchestrator struct {
	Logger   *slog.Logger
	Analyzer *analysis.Analyzer
	Registry *registry.Registry
	Recorder Recorder
}

func NewOrchestrator(logger *slog.Logger, a *analysis.Analyzer, reg *registry.Registry, rec Recorder) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{Logger: logger, Analyzer: a, Registry: reg, Recorder: rec}
}

// Analyze runs the pipeline without touching the filesystem.
func (o *Orchestrator) Analyze(ctx context.Context, path string) analysis.Result {
	o.record(ctx, "analyze")
	return o.Analyzer.Analyze(ctx, path)
}

// Rename analyzes the document at path and renames it within its
// directory. newName overrides the synthesized suggestion when non-empty;
// dryRun stops after the suggestion without mutating anything.
func (o *Orchestrator) Rename(ctx context.Context, path, newName string, dryRun bool) Outcome {
	out := Outcome{JobID: uuid.New(), Path: path, State: constants.StateAnalyzing}
	log := o.Logger.With("job_id", out.JobID, "path", path)

	if _, err := os.Stat(path); err != nil {
		out.State = constants.StateFailed
		out.Message = fmt.Sprintf("source file not found: %s", path)
		log.Warn("rename failed before analysis", "error", err)
		return out
	}

	out.Analysis = o.Analyzer.Analyze(ctx, path)
	out.State = constants.StateSuggested

	if dryRun {
		o.record(ctx, "rename_dry_run")
		out.State = constants.StateDryRunEnd
		out.Success = true
		out.Message = fmt.Sprintf("suggested name: %s", out.Analysis.SuggestedName)
		log.Info("dry run complete", "suggested", out.Analysis.SuggestedName)
		return out
	}

	finalName := analysis.StripReserved(newName)
	if finalName == "" {
		finalName = out.Analysis.SuggestedName
	}
	dest := filepath.Join(filepath.Dir(path), finalName)

	out.State = constants.StateRenaming
	if occupied(dest, path) {
		out.State = constants.StateConflict
		out.Message = fmt.Sprintf("name collision: %s already exists", finalName)
		log.Warn("rename conflict", "destination", dest)
		return out
	}

	if err := os.Rename(path, dest); err != nil {
		out.State = constants.StateFailed
		out.Message = fmt.Sprintf("rename failed: %v", err)
		log.Error("rename syscall failed", "destination", dest, "error", err)
		return out
	}

	// filesystem mutation succeeded; every in-memory reference moves
	// before the call returns
	if o.Registry != nil {
		moved := o.Registry.Rebind(path, dest)
		log.Debug("references rebound", "count", moved)
	}

	o.record(ctx, "rename")
	if o.Recorder != nil {
		if err := o.Recorder.AppendRename(ctx, repository.RenameRecord{
			OldPath:       path,
			NewPath:       dest,
			SuggestedName: out.Analysis.SuggestedName,
			Dates:         out.Analysis.Dates,
			Names:         out.Analysis.Names,
			Organizations: out.Analysis.Organizations,
		}); err != nil {
			log.Warn("history append failed", "error", err)
		}
	}

	out.State = constants.StateRenamed
	out.Success = true
	out.Path = dest
	out.Message = fmt.Sprintf("renamed to %s", finalName)
	log.Info("rename complete", "destination", dest)
	return out
}

// occupied reports whether dest exists and is not the source itself.
func occupied(dest, source string) bool {
	destInfo, err := os.Stat(dest)
	if err != nil {
		return false
	}
	srcInfo, err := os.Stat(source)
	if err != nil {
		return true
	}
	return !os.SameFile(destInfo, srcInfo)
}

func (o *Orchestrator) record(ctx context.Context, fn string) {
	if o.Recorder == nil {
		return
	}
	if err := o.Recorder.RecordUsage(ctx, fn); err != nil {
		o.Logger.Warn("usage record failed", "function", fn, "error", err)
	}
}
