package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"eino_grocery_bot/internal/core"
	"eino_grocery_bot/internal/server"
	"eino_grocery_bot/internal/storage"
	"eino_grocery_bot/internal/text"
	"eino_grocery_bot/src/logger"
)

// Farewell ends an interactive session
const Farewell = "Bye! 👋 Have a great day!"

// ExitWords end the chat loop
var ExitWords = []string{"exit", "quit", "bye", "stop"}

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the bot in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		sessionID := chatSessionID
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		return runChat(cmd.Context(), app.Processor, os.Stdin, cmd.OutOrStdout(), app.Config.BotConfig.StoreName, sessionID)
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "resume a session id instead of starting a new one")
}

// IsExitWord reports whether a line ends the chat
func IsExitWord(line string) bool {
	normalized := text.Normalize(line)
	for _, word := range ExitWords {
		if normalized == word {
			return true
		}
	}
	return false
}

// runChat reads one utterance per line until an exit word or EOF. The
// session context is reset when the loop ends.
func runChat(ctx context.Context, chat server.Chatter, in io.Reader, out io.Writer, storeName, sessionID string) error {
	you := color.New(color.FgCyan, color.Bold)
	bot := color.New(color.FgGreen)

	color.New(color.FgYellow).Fprintf(out, "🛒 %s assistant (type exit to quit)\n", storeName)

	defer func() {
		if err := chat.ResetSession(ctx, sessionID); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
			logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to reset session")
		}
	}()

	scanner := bufio.NewScanner(in)
	for {
		you.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if IsExitWord(line) {
			bot.Fprintf(out, "Bot: %s\n", Farewell)
			return nil
		}

		output, err := chat.Execute(ctx, core.ProcessorInput{SessionID: sessionID, Message: line})
		if err != nil {
			return err
		}
		bot.Fprintf(out, "Bot: %s\n", output.Response)
	}
}
