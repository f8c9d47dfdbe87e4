package fallback

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	srcmodel "eino_grocery_bot/src/model"
)

// Supported LLM_PROVIDER values
const (
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
	ProviderArk      = "ark"
	ProviderDeepSeek = "deepseek"
	ProviderNone     = "none"
)

// NewChatModel creates the chat model selected by config.Provider.
// ProviderNone returns a nil model, which disables the gateway.
func NewChatModel(ctx context.Context, config srcmodel.LLMConfig) (model.BaseChatModel, error) {
	switch strings.ToLower(config.Provider) {
	case ProviderNone, "":
		return nil, nil

	case ProviderOpenAI:
		if config.APIKey == "" {
			return nil, fmt.Errorf("LLM_API_KEY is required for provider %q", config.Provider)
		}
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  config.APIKey,
			BaseURL: config.BaseURL,
			Model:   config.Model,
			Timeout: config.Timeout,
		})

	case ProviderOllama:
		baseURL := config.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   config.Model,
			Timeout: config.Timeout,
		})

	case ProviderArk:
		if config.APIKey == "" {
			return nil, fmt.Errorf("LLM_API_KEY is required for provider %q", config.Provider)
		}
		timeout := config.Timeout
		return ark.NewChatModel(ctx, &ark.ChatModelConfig{
			APIKey:  config.APIKey,
			BaseURL: config.BaseURL,
			Model:   config.Model,
			Timeout: &timeout,
		})

	case ProviderDeepSeek:
		if config.APIKey == "" {
			return nil, fmt.Errorf("LLM_API_KEY is required for provider %q", config.Provider)
		}
		return deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:  config.APIKey,
			BaseURL: config.BaseURL,
			Model:   config.Model,
			Timeout: config.Timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}
}
