package model

import "time"

// ----------------------------------------------------
// ================ Config ================

// LogConfig holds configuration for the zerolog logger
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"console"`
	Output     string `envconfig:"LOG_OUTPUT" default:"stderr"`
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/grocery_bot.log"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
}

// BotConfig holds the knowledge files and the resolver thresholds
type BotConfig struct {
	StoreName      string `envconfig:"STORE_NAME" default:"Zepto"`
	FAQFile        string `envconfig:"FAQ_FILE" default:"data/faq.json"`
	CatalogFile    string `envconfig:"CATALOG_FILE" default:"data/catalog.json"`
	UnansweredFile string `envconfig:"UNANSWERED_FILE" default:"data/unanswered.json"`
	FAQThreshold   int    `envconfig:"FAQ_THRESHOLD" default:"70"`
	ItemThreshold  int    `envconfig:"ITEM_THRESHOLD" default:"75"`
	Timezone       string `envconfig:"TIMEZONE" default:"Asia/Kolkata"`
}

// LLMConfig holds configuration for the fallback chat model
type LLMConfig struct {
	Provider       string        `envconfig:"LLM_PROVIDER" default:"openai"`
	Model          string        `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	APIKey         string        `envconfig:"LLM_API_KEY"`
	BaseURL        string        `envconfig:"LLM_BASE_URL"`
	MaxTokens      int           `envconfig:"LLM_MAX_TOKENS" default:"150"`
	Temperature    float32       `envconfig:"LLM_TEMPERATURE" default:"0.7"`
	Timeout        time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`
	MaxPromptChars int           `envconfig:"LLM_MAX_PROMPT_CHARS" default:"2000"`
}

// SessionConfig selects the context store and transcript sink backend
type SessionConfig struct {
	RedisURL string        `envconfig:"REDIS_URL"`
	TTL      time.Duration `envconfig:"SESSION_TTL" default:"40m"`
}

// ServerConfig holds configuration for the HTTP chat API
type ServerConfig struct {
	Addr           string        `envconfig:"HTTP_ADDR" default:":8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`
}
