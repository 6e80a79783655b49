// Package printing submits documents to the system print spooler via lpr.
package printing

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/docforge/pdfutils/constants"
	"github.com/docforge/pdfutils/internal/common"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		slog.Error("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10), // cap at 8KB
		)
	} else {
		slog.Debug("exec ok",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"stdout_bytes", out.Len(),
			"stderr_bytes", errb.Len(),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// Printer submits PDFs to lpr. Printer name is optional; the spooler's
// default destination is used when it is empty.
type Printer struct {
	Logger *slog.Logger
	Runner Runner
}

func NewPrinter(logger *slog.Logger, runner Runner) *Printer {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = execRunner{}
	}
	return &Printer{Logger: logger, Runner: runner}
}

// Print spools the document at path. Only PDF files are accepted.
func (p *Printer) Print(ctx context.Context, path, printer string) error {
	if constants.NormalizeExt(filepath.Ext(path)) != constants.PDFExtension {
		return common.NewAppError("PRINT_ERROR", fmt.Sprintf("not a PDF: %s", path), common.ErrInvalidInput)
	}
	if _, err := os.Stat(path); err != nil {
		return common.NewAppError("PRINT_ERROR", path, common.ErrFileNotFound)
	}

	args := []string{}
	if printer != "" {
		args = append(args, "-P", printer)
	}
	args = append(args, path)

	_, stderr, err := p.Runner.Run(ctx, "lpr", args...)
	if err != nil {
		return common.WrapError(err,
			fmt.Sprintf("print %s: %s", path, strings.TrimSpace(string(stderr))))
	}

	p.Logger.Info("print submitted", "path", path, "printer", printer)
	return nil
}
