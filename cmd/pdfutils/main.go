package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/docforge/pdfutils/internal/analysis"
	"github.com/docforge/pdfutils/internal/config"
	"github.com/docforge/pdfutils/internal/export"
	"github.com/docforge/pdfutils/internal/extract"
	"github.com/docforge/pdfutils/internal/ingest"
	"github.com/docforge/pdfutils/internal/printing"
	"github.com/docforge/pdfutils/internal/registry"
	"github.com/docforge/pdfutils/internal/rename"
	"github.com/docforge/pdfutils/internal/repository"
	"github.com/docforge/pdfutils/internal/rules"
)

func main() {
	// Define flags
	analyzeFlag := flag.String("analyze", "", "analyze a document and print the facts without renaming")
	renameFlag := flag.String("rename", "", "analyze and rename a document in place")
	nameFlag := flag.String("name", "", "override the synthesized filename (with -rename)")
	dryRunFlag := flag.Bool("dry-run", false, "stop after the suggestion, mutate nothing (with -rename)")
	watchFlag := flag.String("watch", "", "watch a directory and suggest names for arriving PDFs")
	exportFlag := flag.String("export", "", "write the rename history as XLSX to the given path")
	printFlag := flag.String("print", "", "submit a PDF to the system print spooler")
	printerFlag := flag.String("printer", "", "printer destination (with -print)")
	verboseFlag := flag.Bool("v", false, "debug logging")

	flag.Parse()

	_ = godotenv.Load()

	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ruleSet, err := rules.Load(cfg.Analysis.RulesPath)
	if err != nil {
		logger.Error("loading rules", "error", err)
		os.Exit(1)
	}
	ruleSet.DayFirst = cfg.Analysis.DayFirst

	extractor := extract.NewExtractor(logger, cfg.Analysis.MaxPages, cfg.Analysis.CacheEntries)
	analyzer := analysis.NewAnalyzer(logger, ruleSet, extractor, analysis.Capabilities{
		NewRecognizer: analysis.NewHeuristicRecognizer,
	})

	// bookkeeping is best-effort on the CLI; analysis works without it
	var store *repository.Store
	if s, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Database.DSN,
		DialTimeout: cfg.Database.DialTimeout,
	}, logger); err != nil {
		logger.Warn("store unavailable, history disabled", "error", err)
	} else {
		store = s
		defer store.Close()
	}

	var recorder rename.Recorder
	if store != nil {
		recorder = store
	}
	orch := rename.NewOrchestrator(logger, analyzer, registry.New(), recorder)

	switch {
	case *analyzeFlag != "":
		res := orch.Analyze(ctx, *analyzeFlag)
		printJSON(res)

	case *renameFlag != "":
		out := orch.Rename(ctx, *renameFlag, *nameFlag, *dryRunFlag)
		printJSON(out)
		if !out.Success {
			os.Exit(1)
		}

	case *watchFlag != "":
		evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Logger:      logger,
			Roots:       []string{*watchFlag},
			InitialScan: true,
			Debounce:    cfg.Watch.Debounce,
		})
		if err != nil {
			logger.Error("starting watcher", "error", err)
			os.Exit(1)
		}
		logger.Info("watching", "dir", *watchFlag)
		ingest.RunAutoAnalysis(ctx, logger, orch, evCh, errCh)

	case *exportFlag != "":
		if store == nil {
			logger.Error("export requires the history store")
			os.Exit(1)
		}
		data, err := export.NewService(store, logger).ExportHistoryXLSX(ctx, 0)
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*exportFlag, data, 0o644); err != nil {
			logger.Error("writing export", "path", *exportFlag, "error", err)
			os.Exit(1)
		}
		logger.Info("history exported", "path", *exportFlag)

	case *printFlag != "":
		if err := printing.NewPrinter(logger, nil).Print(ctx, *printFlag, *printerFlag); err != nil {
			logger.Error("print failed", "error", err)
			os.Exit(1)
		}
		logger.Info("print submitted", "path", *printFlag)

	default:
		fmt.Println("Usage: pdfutils -analyze <file> | -rename <file> [-name <new>] [-dry-run] | -watch <dir> | -export <path> | -print <file> [-printer <dest>]")
		flag.PrintDefaults()
		os.Exit(2)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
