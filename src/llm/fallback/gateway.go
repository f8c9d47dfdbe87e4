// Package fallback asks a chat model when no deterministic resolver could
// answer. Every failure is reported in Outcome.Err and never panics or
// blocks the turn beyond the model client's own timeout.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"eino_grocery_bot/pkg"
	"eino_grocery_bot/src/logger"
)

var (
	ErrEmptyCompletion = errors.New("fallback model returned empty content")
	ErrGatewayDisabled = errors.New("fallback gateway is disabled")
)

// doubleAnswerPrefix matches "Yes, yes," / "No. No" style openers
var doubleAnswerPrefix = regexp.MustCompile(`(?i)^\s*(yes|no)\b[\s,.!:;-]*(yes|no)\b`)

// Config holds the generation settings of the gateway
type Config struct {
	StoreName      string
	MaxTokens      int
	Temperature    float32
	MaxPromptChars int
}

// Outcome is the result of one fallback call. Text is set only when Err is nil.
type Outcome struct {
	Text string
	Err  error
}

// OK reports whether the outcome carries a usable answer
func (o Outcome) OK() bool {
	return o.Err == nil && o.Text != ""
}

// Gateway is the text-in/text-out boundary to the generative model
type Gateway struct {
	chain  compose.Runnable[map[string]any, *schema.Message]
	config Config
}

// NewGateway compiles the prompt template and chatModel into one chain.
// A nil chatModel yields a disabled gateway whose Ask always fails with
// ErrGatewayDisabled.
func NewGateway(ctx context.Context, chatModel model.BaseChatModel, config Config) (*Gateway, error) {
	g := &Gateway{config: config}
	if chatModel == nil {
		return g, nil
	}

	// Template → ChatModel
	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(createFallbackTemplate()).
		AppendChatModel(chatModel).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile fallback chain: %w", err)
	}
	g.chain = chain
	return g, nil
}

// Enabled reports whether a model is configured
func (g *Gateway) Enabled() bool {
	return g != nil && g.chain != nil
}

// Ask sends the raw utterance with the session context to the model
func (g *Gateway) Ask(ctx context.Context, raw string, convCtx pkg.ConversationContext) Outcome {
	if !g.Enabled() {
		return Outcome{Err: ErrGatewayDisabled}
	}

	logger.FromContext(ctx).Debug().Str("store", g.config.StoreName).Msg("🤖 Calling fallback model")

	out, err := g.chain.Invoke(ctx, map[string]any{
		"store":    g.config.StoreName,
		"context":  describeContext(convCtx),
		"question": truncate(strings.TrimSpace(raw), g.config.MaxPromptChars),
	}, compose.WithChatModelOption(
		model.WithMaxTokens(g.config.MaxTokens),
		model.WithTemperature(g.config.Temperature),
	))
	if err != nil {
		return Outcome{Err: fmt.Errorf("fallback generation failed: %w", err)}
	}
	if out == nil {
		return Outcome{Err: ErrEmptyCompletion}
	}

	text := CollapseDoubleAnswer(strings.TrimSpace(out.Content))
	if text == "" {
		return Outcome{Err: ErrEmptyCompletion}
	}
	return Outcome{Text: text}
}

// CollapseDoubleAnswer turns a repeated leading Yes/No ("Yes, yes, ...")
// into a single one. The second word must repeat the first and close its
// clause, so "Yes, no problem" is left alone.
func CollapseDoubleAnswer(text string) string {
	m := doubleAnswerPrefix.FindStringSubmatchIndex(text)
	if m == nil {
		return text
	}

	first, second, rest := text[m[2]:m[3]], text[m[4]:m[5]], text[m[1]:]
	if !strings.EqualFold(first, second) {
		return text
	}
	if next := strings.TrimLeft(rest, " "); next != "" && !strings.ContainsAny(next[:1], ",.!:;") {
		return text
	}
	return first + rest
}
