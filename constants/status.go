package constants

// RenameState is the canonical state of a rename job as it moves through
// the orchestrator.
type RenameState string

// Stable values (these exact strings are stored in rename history rows).
const (
	StateAnalyzing RenameState = "ANALYZING"   // analysis in progress
	StateSuggested RenameState = "SUGGESTED"   // analysis done, name composed
	StateDryRunEnd RenameState = "DRY_RUN_END" // terminal: suggestion only, no mutation
	StateRenaming  RenameState = "RENAMING"    // rename attempt in progress
	StateRenamed   RenameState = "RENAMED"     // terminal: file moved, references rebound
	StateConflict  RenameState = "CONFLICT"    // terminal: destination occupied, no mutation
	StateFailed    RenameState = "FAILED"      // terminal: missing source or filesystem error
)

// Terminal reports whether a state ends the rename job.
func (s RenameState) Terminal() bool {
	switch s {
	case StateDryRunEnd, StateRenamed, StateConflict, StateFailed:
		return true
	}
	return false
}
