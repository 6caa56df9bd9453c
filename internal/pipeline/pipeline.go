package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"energyrelay/internal/models"
	"energyrelay/internal/uploads"
)

// Extractor is the text-extraction stage.
type Extractor interface {
	Extract(ctx context.Context, doc io.Reader, filename string) (*models.ExtractionResult, error)
}

// Analyzer is the analysis stage.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*models.AnalysisResult, error)
}

// Pipeline runs the stages of one request in order. It keeps no state
// between calls.
type Pipeline struct {
	extractor Extractor
	analyzer  Analyzer
	logger    *zap.Logger
}

func New(extractor Extractor, analyzer Analyzer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{extractor: extractor, analyzer: analyzer, logger: logger}
}

// ExtractAndAnalyze runs OCR on file, then analysis on the extracted text.
// The upload is released once the OCR call has returned, whatever its outcome.
func (p *Pipeline) ExtractAndAnalyze(ctx context.Context, file *uploads.File) (*models.Report, error) {
	if file == nil {
		return nil, models.NewStageError(models.KindValidation, "No file uploaded", nil)
	}
	extraction, err := p.extract(ctx, file)
	if err != nil {
		return nil, err
	}
	analysis, err := p.analyzer.Analyze(ctx, extraction.Text)
	if err != nil {
		return nil, err
	}
	return &models.Report{Extraction: extraction, Analysis: analysis}, nil
}

// AnalyzeText runs the analysis stage on text supplied by the caller.
func (p *Pipeline) AnalyzeText(ctx context.Context, text string) (*models.Report, error) {
	if text == "" {
		return nil, models.NewStageError(models.KindValidation, "No text provided for analysis", nil)
	}
	analysis, err := p.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	return &models.Report{Analysis: analysis}, nil
}

func (p *Pipeline) extract(ctx context.Context, file *uploads.File) (*models.ExtractionResult, error) {
	defer func() {
		if err := file.Release(); err != nil {
			p.logger.Warn("release upload failed", zap.String("path", file.Path), zap.Error(err))
		}
	}()

	doc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer doc.Close()

	extraction, err := p.extractor.Extract(ctx, doc, file.Name)
	if err != nil {
		return nil, err
	}
	if extraction == nil {
		return nil, models.NewStageError(models.KindProvider, "", errors.New("ocr returned no result"))
	}
	return extraction, nil
}
