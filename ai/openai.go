package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIConfig holds settings for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL     string // e.g. "http://localhost:8000/v1"
	APIKey      string // local servers accept any value
	Model       string
	Temperature float64
}

// OpenAI implements Provider for any OpenAI-compatible chat-completions API.
type OpenAI struct {
	client      *openai.Client
	baseURL     string
	model       string
	temperature float64
	logger      *zap.Logger
}

var _ Provider = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI-compatible provider.
func NewOpenAI(cfg OpenAIConfig, logger *zap.Logger) (*OpenAI, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = baseURL

	return &OpenAI{
		client:      openai.NewClientWithConfig(clientConfig),
		baseURL:     baseURL,
		model:       model,
		temperature: cfg.Temperature,
		logger:      logger.Named("llm"),
	}, nil
}

func (o *OpenAI) Name() string {
	return fmt.Sprintf("OpenAI-compatible (%s)", o.model)
}

// Model returns the configured model name.
func (o *OpenAI) Model() string {
	return o.model
}

// BaseURL returns the configured endpoint.
func (o *OpenAI) BaseURL() string {
	return o.baseURL
}

func (o *OpenAI) Chat(ctx context.Context, messages []Message) (string, error) {
	apiMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		apiMsgs = append(apiMsgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	o.logger.Debug("LLM request",
		zap.String("model", o.model),
		zap.Int("messages", len(messages)),
		zap.Float64("temperature", o.temperature))

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    apiMsgs,
		Temperature: float32(o.temperature),
	})
	if err != nil {
		o.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", &ServiceError{Provider: o.Name(), Err: describeAPIError(err)}
	}

	if len(resp.Choices) == 0 {
		return "", &ServiceError{Provider: o.Name(), Err: errors.New("no choices in response")}
	}

	o.logger.Info("LLM request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// describeAPIError adds the HTTP status to API errors.
func describeAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("API error (%d): %w", apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("request error (%d): %w", reqErr.HTTPStatusCode, err)
	}
	return err
}
