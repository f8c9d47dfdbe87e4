package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"eino_grocery_bot/internal/storage"
	"eino_grocery_bot/pkg"
	"eino_grocery_bot/src"
	"eino_grocery_bot/src/logger"
)

var unansweredJSON bool

var unansweredCmd = &cobra.Command{
	Use:   "unanswered",
	Short: "List the questions the bot could not answer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := src.LoadConfig(envFile)
		if err != nil {
			return err
		}
		if err := logger.InitLogger(cfg.LogConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		unanswered, err := storage.NewJSONUnansweredLog(cfg.BotConfig.UnansweredFile)
		if err != nil {
			return err
		}
		records, err := unanswered.List()
		if err != nil {
			return err
		}
		return printUnanswered(cmd.OutOrStdout(), records, unansweredJSON)
	},
}

func init() {
	unansweredCmd.Flags().BoolVar(&unansweredJSON, "json", false, "print the raw JSON records")
}

func printUnanswered(out io.Writer, records []pkg.UnansweredRecord, asJSON bool) error {
	if asJSON {
		data, err := sonic.ConfigStd.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal unanswered records: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(records) == 0 {
		color.New(color.FgGreen).Fprintln(out, "✅ No unanswered questions")
		return nil
	}

	header := color.New(color.Bold)
	header.Fprintf(out, "%d unanswered question(s)\n", len(records))
	for _, record := range records {
		fmt.Fprintf(out, "%s  %s\n", record.Timestamp.Format(time.DateTime), record.Question)
	}
	return nil
}
