package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docforge/pdfutils/internal/repository"
)

type stubHistory struct {
	recs []repository.RenameRecord
	err  error
}

func (s stubHistory) ListRenames(_ context.Context, _ int) ([]repository.RenameRecord, error) {
	return s.recs, s.err
}

func TestExportHistoryXLSX(t *testing.T) {
	src := stubHistory{recs: []repository.RenameRecord{
		{
			OldPath:       "/docs/scan_001.pdf",
			NewPath:       "/docs/Verizon-for_Mark-2024-03-03.pdf",
			SuggestedName: "Verizon-for_Mark-2024-03-03.pdf",
			Dates:         []string{"2024-03-03"},
			Names:         []string{"Mark"},
			Organizations: []string{"Verizon"},
			RenamedAt:     time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		},
	}}

	svc := NewService(src, nil)
	data, err := svc.ExportHistoryXLSX(context.Background(), 0)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Rename History")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Old Path", rows[0][1])
	assert.Equal(t, "/docs/scan_001.pdf", rows[1][1])
	assert.Equal(t, "Verizon-for_Mark-2024-03-03.pdf", rows[1][3])
	assert.Equal(t, "2024-03-03", rows[1][4])
}

func TestExportHistoryXLSXQueryError(t *testing.T) {
	svc := NewService(stubHistory{err: errors.New("db down")}, nil)
	_, err := svc.ExportHistoryXLSX(context.Background(), 0)
	assert.Error(t, err)
}
