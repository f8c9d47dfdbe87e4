package config

import (
	"fmt"
	"time"

	"eino_grocery_bot/internal/core"
	"eino_grocery_bot/src/llm/fallback"
	"eino_grocery_bot/src/model"
)

// LoadLocation resolves the TIMEZONE setting used for festival dates.
// An empty name means the process local zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %v", name, err)
	}
	return loc, nil
}

// BuildCoreConfig creates core.Config from the environment configuration
func BuildCoreConfig(botConfig model.BotConfig) (core.Config, error) {
	loc, err := LoadLocation(botConfig.Timezone)
	if err != nil {
		return core.Config{}, err
	}

	if botConfig.FAQThreshold < 0 || botConfig.FAQThreshold > 100 {
		return core.Config{}, fmt.Errorf("FAQ_THRESHOLD must be within 0-100, got %d", botConfig.FAQThreshold)
	}
	if botConfig.ItemThreshold < 0 || botConfig.ItemThreshold > 100 {
		return core.Config{}, fmt.Errorf("ITEM_THRESHOLD must be within 0-100, got %d", botConfig.ItemThreshold)
	}

	return core.Config{
		StoreName:     botConfig.StoreName,
		FAQThreshold:  botConfig.FAQThreshold,
		ItemThreshold: botConfig.ItemThreshold,
		Location:      loc,
		Flow:          core.DefaultFlow(),
	}, nil
}

// BuildGatewayConfig creates the fallback gateway settings
func BuildGatewayConfig(botConfig model.BotConfig, llmConfig model.LLMConfig) fallback.Config {
	return fallback.Config{
		StoreName:      botConfig.StoreName,
		MaxTokens:      llmConfig.MaxTokens,
		Temperature:    llmConfig.Temperature,
		MaxPromptChars: llmConfig.MaxPromptChars,
	}
}
