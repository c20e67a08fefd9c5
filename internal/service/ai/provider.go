package ai

import (
	"context"
	"fmt"

	"github.com/campusmind/backend/internal/config"
)

// NewCompleter picks the completer for cfg.Provider. It returns
// ErrNotConfigured when credentials are missing.
func NewCompleter(ctx context.Context, cfg config.AIConfig) (Completer, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	switch cfg.Provider {
	case config.ProviderGroq, config.ProviderOpenAI:
		return NewOpenAICompleter(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case config.ProviderArk:
		chatModel, err := cfg.NewChatModel(ctx, float32(Temperature), MaxOutputTokens)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		completer, err := NewChainCompleter(ctx, chatModel)
		if err != nil {
			return nil, err
		}
		return completer, nil
	case config.ProviderMock:
		return EchoCompleter{}, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
}
