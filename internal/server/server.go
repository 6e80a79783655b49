// Package server exposes the engine over HTTP: analysis and rename jobs,
// the document/page registry, usage counters, and history export.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/docforge/pdfutils/internal/export"
	"github.com/docforge/pdfutils/internal/extract"
	"github.com/docforge/pdfutils/internal/printing"
	"github.com/docforge/pdfutils/internal/registry"
	"github.com/docforge/pdfutils/internal/rename"
	"github.com/docforge/pdfutils/internal/repository"
)

// Server holds the state for the REST API server.
type Server struct {
	logger    *slog.Logger
	orch      *rename.Orchestrator
	registry  *registry.Registry
	extractor *extract.Extractor
	store     *repository.Store
	exporter  *export.Service
	printer   *printing.Printer
	router    *gin.Engine
}

// NewServer wires the HTTP surface. store, exporter, and printer may be
// nil; the corresponding endpoints then answer 503.
func NewServer(logger *slog.Logger, orch *rename.Orchestrator, reg *registry.Registry, ex *extract.Extractor, store *repository.Store, exporter *export.Service, printer *printing.Printer) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:    logger,
		orch:      orch,
		registry:  reg,
		extractor: ex,
		store:     store,
		exporter:  exporter,
		printer:   printer,
		router:    gin.New(),
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

// Router exposes the gin engine for http.Server wiring and tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	s.router.POST("/v1/analyze", s.handleAnalyze)
	s.router.POST("/v1/rename", s.handleRename)

	s.router.GET("/v1/documents", s.handleListDocuments)
	s.router.POST("/v1/documents", s.handleLoadDocument)
	s.router.DELETE("/v1/documents", s.handleRemoveDocument)

	s.router.GET("/v1/pages", s.handleListPages)
	s.router.POST("/v1/pages/move", s.handleMovePage)
	s.router.DELETE("/v1/pages/:index", s.handleRemovePage)

	s.router.GET("/v1/preview", s.handleGetPreview)
	s.router.PUT("/v1/preview", s.handleSetPreview)

	s.router.GET("/v1/usage", s.handleUsage)
	s.router.GET("/v1/export", s.handleExport)
	s.router.POST("/v1/print", s.handlePrint)
}
