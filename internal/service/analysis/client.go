package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"energyrelay/internal/config"
	"energyrelay/internal/models"
)

const (
	Model     = "claude-3-7-sonnet-20250219"
	MaxTokens = 4000
)

// ChatModel is the part of eino's chat model contract the analysis stage needs.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Client turns text into an energy report through the LLM provider.
type Client struct {
	chatModel ChatModel
	logger    *zap.Logger
}

// NewClaudeChatModel builds the Anthropic chat model with the fixed model and
// output limit. Sampling parameters stay at provider defaults.
func NewClaudeChatModel(ctx context.Context, cfg config.ProviderConfig) (*claude.ChatModel, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("claude api key required")
	}
	var baseURLPtr *string
	if cfg.BaseURL != "" {
		baseURLPtr = &cfg.BaseURL
	}
	chatModel, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:    cfg.APIKey,
		Model:     Model,
		BaseURL:   baseURLPtr,
		MaxTokens: MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("init claude model: %w", err)
	}
	return chatModel, nil
}

// NewClient wraps chatModel.
func NewClient(chatModel ChatModel, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{chatModel: chatModel, logger: logger}
}

// Analyze sends exactly one request for text and returns the reply text.
// Errors are *models.StageError values.
func (c *Client) Analyze(ctx context.Context, text string) (*models.AnalysisResult, error) {
	messages := BuildMessages(text)

	reqID := uuid.NewString()
	start := time.Now()
	c.logger.Info("analysis.request", zap.String("req_id", reqID), zap.String("model", Model), zap.Int("input_chars", len(messages[0].Content)))

	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		c.logger.Error("analysis.send_error", zap.String("req_id", reqID), zap.Error(err))
		return nil, models.NewStageError(models.KindAnalysis, "", err)
	}
	if resp == nil || resp.Content == "" {
		return nil, models.NewStageError(models.KindProvider, "empty analysis response", nil)
	}
	c.logger.Info("analysis.response",
		zap.String("req_id", reqID),
		zap.Int("output_chars", len(resp.Content)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return &models.AnalysisResult{Text: resp.Content}, nil
}
