package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"eino_grocery_bot/internal/core"
)

var (
	askSessionID string
	askVerbose   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Example: `  grocery_bot ask "what is the price of 5 kg rice"
  grocery_bot ask --session abc "what about it"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		sessionID := askSessionID
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		output, err := app.Processor.Execute(cmd.Context(), core.ProcessorInput{
			SessionID: sessionID,
			Message:   strings.Join(args, " "),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, output.Response)
		if askVerbose {
			dim := color.New(color.Faint)
			dim.Fprintf(out, "session:     %s\n", sessionID)
			dim.Fprintf(out, "resolved by: %s\n", output.ResolvedBy)
			dim.Fprintf(out, "path:        %s\n", formatPath(output.ExecutionPath))
			dim.Fprintf(out, "took:        %dms\n", output.ProcessingTime)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSessionID, "session", "", "session id, to ask follow-up questions")
	askCmd.Flags().BoolVarP(&askVerbose, "verbose", "v", false, "show how the answer was resolved")
}

func formatPath(path []core.State) string {
	parts := make([]string, len(path))
	for i, state := range path {
		parts[i] = string(state)
	}
	return strings.Join(parts, " -> ")
}
