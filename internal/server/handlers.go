package server

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docforge/pdfutils/constants"
	"github.com/docforge/pdfutils/internal/common"
)

func (s *Server) healthCheck(c *gin.Context) {
	if s.store != nil {
		if err := s.store.HealthCheck(c.Request.Context(), 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze runs the pipeline without touching the filesystem.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if _, err := os.Stat(req.Path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found: " + req.Path})
		return
	}
	c.JSON(http.StatusOK, s.orch.Analyze(c.Request.Context(), req.Path))
}

// handleRename runs the full rename job. dry_run defaults to false;
// new_name overrides the synthesized suggestion.
func (s *Server) handleRename(c *gin.Context) {
	var req struct {
		Path    string `json:"path" binding:"required"`
		NewName string `json:"new_name"`
		DryRun  bool   `json:"dry_run"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	out := s.orch.Rename(c.Request.Context(), req.Path, req.NewName, req.DryRun)
	status := http.StatusOK
	switch out.State {
	case constants.StateConflict:
		status = http.StatusConflict
	case constants.StateFailed:
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, out)
}

func (s *Server) handleListDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"documents": s.registry.Documents(),
		"preview":   s.registry.Preview(),
	})
}

func (s *Server) handleLoadDocument(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if _, err := os.Stat(req.Path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found: " + req.Path})
		return
	}

	pages := 0
	if s.extractor != nil {
		pages = s.extractor.PageCount(req.Path)
	}
	loaded := s.registry.Load(req.Path, pages)
	c.JSON(http.StatusOK, gin.H{"loaded": loaded, "page_count": pages})
}

func (s *Server) handleRemoveDocument(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter is required"})
		return
	}
	if !s.registry.Remove(path) {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not loaded: " + path})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListPages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pages": s.registry.Pages()})
}

func (s *Server) handleMovePage(c *gin.Context) {
	var req struct {
		From *int `json:"from" binding:"required"`
		To   *int `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}
	if err := s.registry.MovePage(*req.From, *req.To); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": s.registry.Pages()})
}

func (s *Server) handleRemovePage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}
	if err := s.registry.RemovePage(index); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetPreview(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"preview": s.registry.Preview()})
}

func (s *Server) handleSetPreview(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if err := s.registry.SetPreview(req.Path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": s.registry.Preview()})
}

func (s *Server) handleUsage(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "usage store not configured"})
		return
	}
	usage, err := s.store.ListUsage(c.Request.Context())
	if err != nil {
		s.logger.Error("usage query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "usage query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// handleExport streams the rename history as an XLSX attachment.
func (s *Server) handleExport(c *gin.Context) {
	if s.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export not configured"})
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	data, err := s.exporter.ExportHistoryXLSX(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="rename_history.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) handlePrint(c *gin.Context) {
	if s.printer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "printing not configured"})
		return
	}
	var req struct {
		Path    string `json:"path" binding:"required"`
		Printer string `json:"printer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if err := s.printer.Print(c.Request.Context(), req.Path, req.Printer); err != nil {
		status := http.StatusInternalServerError
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			switch {
			case errors.Is(err, common.ErrInvalidInput):
				status = http.StatusBadRequest
			case errors.Is(err, common.ErrFileNotFound):
				status = http.StatusNotFound
			}
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusAccepted)
}
