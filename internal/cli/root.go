// Package cli holds the grocery_bot commands.
package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"eino_grocery_bot/src"
	"eino_grocery_bot/src/logger"
)

var (
	envFile string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "grocery_bot",
	Short: "Grocery store support bot",
	Long: `grocery_bot answers store FAQs, catalog prices and festival offers,
and falls back to a chat model for everything else.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional env file loaded before the environment")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(unansweredCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadApp reads the configuration, starts the logger and wires the bot
func loadApp(ctx context.Context) (*App, error) {
	cfg, err := src.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	if err := logger.InitLogger(cfg.LogConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return NewApp(ctx, cfg)
}
