package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"energyrelay/internal/models"
)

const (
	errNoFile           = "No file uploaded"
	errNoText           = "No text provided for analysis"
	errOCRFailed        = "OCR processing failed"
	errProcessingFailed = "Processing failed"
	errAnalysisFailed   = "Analysis failed"
)

func writeReport(c *gin.Context, report *models.Report) {
	payload := models.SuccessPayload{Success: true}
	if report.Analysis != nil {
		payload.Analysis = report.Analysis.Text
	}
	if report.Extraction != nil {
		text := report.Extraction.Text
		payload.ExtractedText = &text
	}
	c.JSON(http.StatusOK, payload)
}

func writeFailure(c *gin.Context, status int, label, details string) {
	c.JSON(status, models.FailurePayload{Error: label, Details: details})
}
