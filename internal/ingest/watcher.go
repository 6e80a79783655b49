// Package ingest discovers PDF documents on disk: a recursive fsnotify
// watcher feeds newly arrived files to the analysis pipeline in dry-run
// mode so suggestions are ready before anyone asks.
package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docforge/pdfutils/constants"
)

type WatchConfig struct {
	Logger      *slog.Logger
	Roots       []string // directories to watch (recursive)
	InitialScan bool     // if true, walk roots and emit PDFs already present
	Debounce    time.Duration
}

// StartWatcher emits paths of discovered PDFs until ctx is cancelled. Only
// create and write events count: a rename into a watched directory arrives
// as a create, and renames performed by the orchestrator itself must not
// re-trigger analysis of the old path.
func StartWatcher(ctx context.Context, cfg WatchConfig) (<-chan string, <-chan error, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		cfg.Logger.Error("watcher start failed: no roots provided")
		return nil, nil, errors.New("no roots provided")
	}
	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cfg.Logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}

	// PDF filtering happens during the walk: directories are registered,
	// existing PDFs optionally emitted, everything else skipped.
	for _, root := range cfg.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && isPDF(path) {
				select {
				case evCh <- path:
				default:
				}
			}
			return nil
		})
		if err != nil {
			cfg.Logger.Error("failed to add root directory", "root", root, "error", err)
			_ = w.Close()
			return nil, nil, err
		}
	}

	go watchLoop(ctx, cfg, w, evCh, errCh)
	return evCh, errCh, nil
}

// watchLoop owns the pending set. The debounce timer fires back into the
// select below through its channel, so only this goroutine ever touches
// the set.
func watchLoop(ctx context.Context, cfg WatchConfig, w *fsnotify.Watcher, evCh chan<- string, errCh chan<- error) {
	defer close(evCh)
	defer close(errCh)
	defer func() { _ = w.Close() }()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]struct{})

	flush := func() {
		for p := range pending {
			select {
			case evCh <- p:
			default:
			}
			delete(pending, p)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-timer.C:
			flush()

		case e, ok := <-w.Events:
			if !ok {
				return
			}
			if e.Op.Has(fsnotify.Create) {
				// a directory created under a watched root must itself
				// be watched before its contents start arriving
				if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
					if err := w.Add(e.Name); err != nil {
						cfg.Logger.Warn("failed to watch new directory", "path", e.Name, "error", err)
					}
					continue
				}
			}
			if !isPDF(e.Name) || !e.Op.Has(fsnotify.Create|fsnotify.Write) {
				continue
			}

			pending[e.Name] = struct{}{}
			if cfg.Debounce <= 0 {
				flush()
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(cfg.Debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			cfg.Logger.Error("watcher error", "error", err)
			select {
			case errCh <- err:
			default:
			}
		}
	}
}

func isPDF(path string) bool {
	return constants.NormalizeExt(filepath.Ext(path)) == constants.PDFExtension
}
