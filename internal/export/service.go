package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/docforge/pdfutils/internal/repository"
)

// HistorySource is the slice of the repository the exporter reads.
type HistorySource interface {
	ListRenames(ctx context.Context, limit int) ([]repository.RenameRecord, error)
}

// Service is a tiny façade over the repository that produces XLSX bytes
// for rename-history exports.
type Service struct {
	history HistorySource
	logger  *slog.Logger
}

func NewService(history HistorySource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{history: history, logger: logger}
}

// ExportHistoryXLSX returns an XLSX workbook (as bytes) with the rename
// history, newest first. limit <= 0 exports everything.
func (s *Service) ExportHistoryXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	recs, err := s.history.ListRenames(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query rename history: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Rename History"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet so the workbook opens on the history
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Renamed At",
		"Old Path",
		"New Path",
		"Suggested Name",
		"Dates",
		"Names",
		"Organizations",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if !r.RenamedAt.IsZero() {
			write(1, r.RenamedAt.Format("2006-01-02 15:04:05"))
		} else {
			write(1, "")
		}
		write(2, r.OldPath)
		write(3, r.NewPath)
		write(4, r.SuggestedName)
		write(5, strings.Join(r.Dates, ", "))
		write(6, strings.Join(r.Names, ", "))
		write(7, strings.Join(r.Organizations, ", "))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 20) // timestamp
	_ = f.SetColWidth(sheet, "B", "C", 60) // paths
	_ = f.SetColWidth(sheet, "D", "D", 40) // suggested name
	_ = f.SetColWidth(sheet, "E", "G", 30) // facts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
