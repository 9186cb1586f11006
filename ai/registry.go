package ai

import (
	"fmt"

	"github.com/DachengChen/smartbi/config"
	"go.uber.org/zap"
)

// SupportedProviders lists available provider names for display.
var SupportedProviders = []string{"openai", "placeholder"}

// NewProvider creates a provider from the LLM config.
func NewProvider(cfg config.LLMConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAI(OpenAIConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		}, logger)

	case "placeholder":
		return NewPlaceholder(), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider %q. Supported: %v", cfg.Provider, SupportedProviders)
	}
}
