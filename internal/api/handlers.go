package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"energyrelay/internal/models"
	"energyrelay/internal/uploads"
)

// Pipeline is the request pipeline behind both endpoints.
type Pipeline interface {
	ExtractAndAnalyze(ctx context.Context, file *uploads.File) (*models.Report, error)
	AnalyzeText(ctx context.Context, text string) (*models.Report, error)
}

// Handler wires HTTP routes to the pipeline and owns uploads for the length
// of a request.
type Handler struct {
	pipeline       Pipeline
	uploads        *uploads.Store
	allowedOrigins []string
	logger         *zap.Logger
}

// NewHandler constructs a Handler instance. An empty allowedOrigins list
// allows every origin.
func NewHandler(p Pipeline, store *uploads.Store, allowedOrigins []string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		pipeline:       p,
		uploads:        store,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.corsMiddleware())
	router.GET("/health", h.health)
	router.POST("/extract-and-analyze", h.extractAndAnalyze)
	router.POST("/analyze-text", h.analyzeText)
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	if len(h.allowedOrigins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = h.allowedOrigins
	return cors.New(cfg)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) extractAndAnalyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader.Size == 0 {
		writeFailure(c, http.StatusBadRequest, errNoFile, "")
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		h.fail(c, errProcessingFailed, err)
		return
	}
	file, err := h.uploads.Save(fileHeader.Filename, src)
	_ = src.Close()
	if err != nil {
		h.fail(c, errProcessingFailed, err)
		return
	}
	// The pipeline releases the file after OCR; this covers paths that never reach it.
	defer file.Release()

	report, err := h.pipeline.ExtractAndAnalyze(detach(c), file)
	if err != nil {
		label := errProcessingFailed
		if kind, ok := models.KindOf(err); ok && kind == models.KindOCRProcessing {
			label = errOCRFailed
		}
		h.fail(c, label, err)
		return
	}
	writeReport(c, report)
}

type analyzeTextRequest struct {
	Text string `json:"text"`
}

func (h *Handler) analyzeText(c *gin.Context) {
	var req analyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		writeFailure(c, http.StatusBadRequest, errNoText, "")
		return
	}
	report, err := h.pipeline.AnalyzeText(detach(c), req.Text)
	if err != nil {
		var se *models.StageError
		if errors.As(err, &se) && se.Kind == models.KindValidation {
			writeFailure(c, http.StatusBadRequest, errNoText, "")
			return
		}
		h.fail(c, errAnalysisFailed, err)
		return
	}
	writeReport(c, report)
}

func (h *Handler) fail(c *gin.Context, label string, err error) {
	details := err.Error()
	var se *models.StageError
	if errors.As(err, &se) {
		// Provider messages are passed through as-is, even when empty.
		details = se.Message
	}
	h.logger.Error(label, zap.String("path", c.FullPath()), zap.String("error", err.Error()))
	writeFailure(c, http.StatusInternalServerError, label, details)
}

// detach keeps request-scoped values but ignores client disconnects, so an
// issued provider call always runs to completion.
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
