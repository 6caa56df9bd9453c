package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"energyrelay/internal/config"
	"energyrelay/internal/models"
)

const DefaultEndpoint = "https://api.ocr.space/parse/image"

// Fixed OCR settings: English, table-aware, PDF input.
const (
	language = "eng"
	isTable  = "true"
	filetype = "pdf"
)

// Client calls the OCR.space parse endpoint.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewClient builds a Client from provider configuration. A nil httpClient
// means an http.Client with default settings.
func NewClient(cfg config.ProviderConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		client:   httpClient,
		logger:   logger,
	}
}

// Extract sends doc to the provider and joins the recognized text segments.
// Errors are *models.StageError values.
func (c *Client) Extract(ctx context.Context, doc io.Reader, filename string) (*models.ExtractionResult, error) {
	body, contentType, err := c.buildForm(doc, filename)
	if err != nil {
		return nil, models.NewStageError(models.KindProvider, "", fmt.Errorf("build ocr request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, models.NewStageError(models.KindProvider, "", fmt.Errorf("build ocr request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)

	reqID := uuid.NewString()
	start := time.Now()
	c.logger.Info("ocr.request", zap.String("req_id", reqID), zap.String("url", c.endpoint), zap.Int("content_length", body.Len()))

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("ocr.send_error", zap.String("req_id", reqID), zap.Error(err))
		return nil, models.NewStageError(models.KindTransport, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewStageError(models.KindTransport, "", fmt.Errorf("read ocr response: %w", err))
	}
	c.logger.Info("ocr.response",
		zap.String("req_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	if resp.StatusCode/100 != 2 {
		return nil, models.NewStageError(models.KindProvider,
			fmt.Sprintf("ocr provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))), nil)
	}
	return parseResponse(raw)
}

func (c *Client) buildForm(doc io.Reader, filename string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("apikey", c.apiKey); err != nil {
		return nil, "", err
	}
	if filename == "" {
		filename = "document.pdf"
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, doc); err != nil {
		return nil, "", err
	}
	fields := [][2]string{
		{"language", language},
		{"isTable", isTable},
		{"filetype", filetype},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

func parseResponse(raw []byte) (*models.ExtractionResult, error) {
	var payload response
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, models.NewStageError(models.KindProvider, "", fmt.Errorf("decode ocr response: %w", err))
	}
	if payload.IsErroredOnProcessing == nil {
		return nil, models.NewStageError(models.KindProvider, "ocr response missing IsErroredOnProcessing", nil)
	}
	if *payload.IsErroredOnProcessing {
		return nil, &models.StageError{Kind: models.KindOCRProcessing, Message: string(payload.ErrorMessage)}
	}

	segments := make([]string, 0, len(payload.ParsedResults))
	for i, r := range payload.ParsedResults {
		if r.ParsedText == nil {
			return nil, models.NewStageError(models.KindProvider, fmt.Sprintf("ocr result %d missing ParsedText", i), nil)
		}
		segments = append(segments, *r.ParsedText)
	}
	text := strings.Join(segments, "\n")
	if text == "" {
		text = models.PlaceholderText
	}
	return &models.ExtractionResult{Segments: segments, Text: text}, nil
}
