package nodes

import (
	"context"
	"strings"

	"eino_grocery_bot/internal/core"
	"eino_grocery_bot/pkg"
	"eino_grocery_bot/src/llm/fallback"
)

// Asker is the text-in/text-out capability behind the fallback state
type Asker interface {
	Ask(ctx context.Context, raw string, convCtx pkg.ConversationContext) fallback.Outcome
}

// FallbackNode delegates to the generative model. Failures come back in
// NodeOutput.Error and are treated as no match by the processor.
type FallbackNode struct {
	gateway Asker
}

func NewFallbackNode(gateway Asker) *FallbackNode {
	return &FallbackNode{gateway: gateway}
}

// Execute sends the raw utterance, not the normalized query
func (f *FallbackNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	if strings.TrimSpace(input.Raw) == "" {
		return core.NoMatch(), nil
	}

	var convCtx pkg.ConversationContext
	if input.Context != nil {
		convCtx = *input.Context
	}

	outcome := f.gateway.Ask(ctx, input.Raw, convCtx)
	if !outcome.OK() {
		if outcome.Err == nil {
			outcome.Err = fallback.ErrEmptyCompletion
		}
		return core.NodeOutput{Error: outcome.Err}, nil
	}
	return core.Answered(outcome.Text), nil
}

func (f *FallbackNode) GetName() string {
	return "fallback"
}

func (f *FallbackNode) GetType() core.NodeType {
	return core.NodeTypeGateway
}
