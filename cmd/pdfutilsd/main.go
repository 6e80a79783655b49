package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

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
	"github.com/docforge/pdfutils/internal/server"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(slogger)

	// Env
	if err := godotenv.Load(); err != nil {
		log.Debugw("no .env file loaded", "error", err)
	}
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store
	store, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Database.DSN,
		DialTimeout: cfg.Database.DialTimeout,
	}, slogger)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Errorw("closing store", "error", err)
		}
	}()
	if err := store.HealthCheck(ctx, cfg.Database.DialTimeout); err != nil {
		log.Fatalf("store health failed: %v", err)
	}
	log.Infow("store health OK")

	// Rules
	ruleSet, err := rules.Load(cfg.Analysis.RulesPath)
	if err != nil {
		log.Fatalf("loading rules: %v", err)
	}
	ruleSet.DayFirst = cfg.Analysis.DayFirst

	// Engine
	extractor := extract.NewExtractor(slogger, cfg.Analysis.MaxPages, cfg.Analysis.CacheEntries)
	analyzer := analysis.NewAnalyzer(slogger, ruleSet, extractor, analysis.Capabilities{
		NewRecognizer: analysis.NewHeuristicRecognizer,
	})
	reg := registry.New()
	orch := rename.NewOrchestrator(slogger, analyzer, reg, store)
	exporter := export.NewService(store, slogger)
	printer := printing.NewPrinter(slogger, nil)

	// Directory watcher
	if cfg.Watch.Dir != "" {
		evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Logger:   slogger,
			Roots:    []string{cfg.Watch.Dir},
			Debounce: cfg.Watch.Debounce,
		})
		if err != nil {
			log.Fatalf("starting watcher: %v", err)
		}
		go ingest.RunAutoAnalysis(ctx, slogger, orch, evCh, errCh)
		log.Infow("watching directory", "dir", cfg.Watch.Dir)
	}

	// HTTP server
	api := server.NewServer(slogger, orch, reg, extractor, store, exporter, printer)
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: api.Router()}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("http shutdown", "error", err)
	}
	log.Info("stopped.")
}
