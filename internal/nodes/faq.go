package nodes

import (
	"context"

	"eino_grocery_bot/internal/core"
	"eino_grocery_bot/internal/fuzzy"
	"eino_grocery_bot/internal/knowledge"
	"eino_grocery_bot/src/logger"
)

// FAQNode answers canned questions by token-set similarity
type FAQNode struct {
	kb        *knowledge.KnowledgeBase
	threshold int
}

// NewFAQNode creates a new FAQ node. Matches must score strictly above
// config.FAQThreshold.
func NewFAQNode(kb *knowledge.KnowledgeBase, config core.Config) *FAQNode {
	return &FAQNode{kb: kb, threshold: config.FAQThreshold}
}

func (f *FAQNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	match, ok := fuzzy.ExtractOne(input.Query, f.kb.FAQKeys(), fuzzy.TokenSetRatio)
	if !ok || match.Score <= float64(f.threshold) {
		return core.NoMatch(), nil
	}

	logger.FromContext(ctx).Debug().
		Str("question", match.Candidate).
		Float64("score", match.Score).
		Msg("📚 FAQ matched")
	return core.Answered(f.kb.FAQ(match.Index).Answer), nil
}

func (f *FAQNode) GetName() string {
	return "faq"
}

func (f *FAQNode) GetType() core.NodeType {
	return core.NodeTypeResolver
}
