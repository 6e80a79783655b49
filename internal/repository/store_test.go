package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Config{
		DSN: filepath.Join(t.TempDir(), "pdfutils.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUsageRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u, err := s.GetUsage(ctx, "rename")
	require.NoError(t, err)
	require.Equal(t, int64(0), u.Count)

	require.NoError(t, s.RecordUsage(ctx, "rename"))
	require.NoError(t, s.RecordUsage(ctx, "rename"))
	require.NoError(t, s.RecordUsage(ctx, "analyze"))

	u, err = s.GetUsage(ctx, "rename")
	require.NoError(t, err)
	require.Equal(t, int64(2), u.Count)
	require.WithinDuration(t, time.Now().UTC(), u.LastUsed, time.Minute)

	all, err := s.ListUsage(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "rename", all[0].Name)
}

func TestRenameHistoryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := RenameRecord{
		OldPath:       "/docs/scan.pdf",
		NewPath:       "/docs/Verizon-for_Mark-2024-03-03.pdf",
		SuggestedName: "Verizon-for_Mark-2024-03-03.pdf",
		Dates:         []string{"2024-03-03"},
		Names:         []string{"Mark"},
		Organizations: []string{"Verizon"},
	}
	require.NoError(t, s.AppendRename(ctx, rec))

	got, err := s.ListRenames(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, rec.NewPath, got[0].NewPath)
	require.Equal(t, []string{"2024-03-03"}, got[0].Dates)
	require.Equal(t, []string{"Mark"}, got[0].Names)
	require.NotEqual(t, "", got[0].ID.String())
	require.False(t, got[0].RenamedAt.IsZero())
}

func TestHealthCheck(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.HealthCheck(context.Background(), time.Second))
}
