package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}

func TestStartWatcherInitialScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}, InitialScan: true})
	require.NoError(t, err)

	select {
	case p := <-evCh:
		assert.Equal(t, filepath.Join(dir, "a.pdf"), p)
	case <-time.After(2 * time.Second):
		t.Fatal("expected initial-scan event")
	}
}

func TestStartWatcherEmitsNewPDF(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)

	path := filepath.Join(dir, "new.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	select {
	case p := <-evCh:
		assert.Equal(t, path, p)
	case <-time.After(3 * time.Second):
		t.Fatal("expected create event")
	}
}

func TestStartWatcherIgnoresNonPDF(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	pdf := filepath.Join(dir, "real.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644))

	// the PDF arrives; the txt file written before it never does
	select {
	case p := <-evCh:
		assert.Equal(t, pdf, p)
	case <-time.After(3 * time.Second):
		t.Fatal("expected create event")
	}
}

// A burst of arrivals with an aggressive debounce: every file must be
// emitted while the timer races the event stream. Run with -race.
func TestStartWatcherBurstWithDebounce(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}, Debounce: time.Microsecond})
	require.NoError(t, err)

	const n = 200
	seen := make(map[string]struct{}, n)
	done := make(chan struct{})
	go func() {
		defer close(done)
		deadline := time.After(10 * time.Second)
		for len(seen) < n {
			select {
			case p, ok := <-evCh:
				if !ok {
					return
				}
				seen[p] = struct{}{}
			case <-deadline:
				return
			}
		}
	}()

	for i := 0; i < n; i++ {
		name := filepath.Join(dir, fmt.Sprintf("burst_%03d.pdf", i))
		require.NoError(t, os.WriteFile(name, []byte("%PDF-1.4"), 0o644))
	}

	<-done
	assert.Len(t, seen, n)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF("/x/y.pdf"))
	assert.True(t, isPDF("/x/y.PDF"))
	assert.False(t, isPDF("/x/y.txt"))
	assert.False(t, isPDF("/x/noext"))
}
