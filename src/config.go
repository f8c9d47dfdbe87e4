package src

import (
	"eino_grocery_bot/src/model"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogConfig     model.LogConfig     `envconfig:""`
	BotConfig     model.BotConfig     `envconfig:""`
	LLMConfig     model.LLMConfig     `envconfig:""`
	SessionConfig model.SessionConfig `envconfig:""`
	ServerConfig  model.ServerConfig  `envconfig:""`
}

// LoadConfig reads the optional .env files and then the process environment.
// Variables already set in the environment win over the files.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file %s: %w", file, err)
		}
	}

	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %v", err)
	}

	return &config, nil
}
