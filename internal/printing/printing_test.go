package printing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	name   string
	args   []string
	stderr []byte
	err    error
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.name = name
	s.args = args
	return nil, s.stderr, s.err
}

func writePDF(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

func TestPrintSubmitsToLpr(t *testing.T) {
	path := writePDF(t, t.TempDir())
	r := &stubRunner{}
	p := NewPrinter(nil, r)

	require.NoError(t, p.Print(context.Background(), path, ""))
	assert.Equal(t, "lpr", r.name)
	assert.Equal(t, []string{path}, r.args)
}

func TestPrintNamedPrinter(t *testing.T) {
	path := writePDF(t, t.TempDir())
	r := &stubRunner{}
	p := NewPrinter(nil, r)

	require.NoError(t, p.Print(context.Background(), path, "office"))
	assert.Equal(t, []string{"-P", "office", path}, r.args)
}

func TestPrintRejectsNonPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	r := &stubRunner{}
	err := NewPrinter(nil, r).Print(context.Background(), path, "")
	assert.Error(t, err)
	assert.Empty(t, r.name, "runner must not be invoked for non-PDF input")
}

func TestPrintMissingFile(t *testing.T) {
	err := NewPrinter(nil, &stubRunner{}).Print(context.Background(), filepath.Join(t.TempDir(), "ghost.pdf"), "")
	assert.Error(t, err)
}

func TestPrintSpoolerFailure(t *testing.T) {
	path := writePDF(t, t.TempDir())
	r := &stubRunner{err: errors.New("exit status 1"), stderr: []byte("no default destination")}

	err := NewPrinter(nil, r).Print(context.Background(), path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no default destination")
}
