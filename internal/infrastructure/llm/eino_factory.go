// Package llm provides the completion service client.
package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"edu-tutor-api/internal/config"
)

// EinoFactory lazily builds the Eino ChatModel for the configured
// completion provider. The model is created once and reused.
type EinoFactory struct {
	config *config.LLMConfig

	mu    sync.Mutex
	model model.BaseChatModel
}

// NewEinoFactory creates the factory.
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
	}
}

// Get returns the ChatModel, creating it on first use.
func (f *EinoFactory) Get(ctx context.Context) (model.BaseChatModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.model != nil {
		return f.model, nil
	}

	maxTokens := f.config.MaxTokens
	temperature := float32(f.config.Temperature)

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      f.config.APIKey,
		BaseURL:     f.config.BaseURL,
		Model:       f.config.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		Timeout:     f.config.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", f.config.Model, err)
	}

	f.model = chatModel
	return chatModel, nil
}
