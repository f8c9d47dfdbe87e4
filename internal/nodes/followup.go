package nodes

import (
	"context"

	"eino_grocery_bot/internal/core"
	"eino_grocery_bot/internal/knowledge"
	"eino_grocery_bot/internal/text"
	"eino_grocery_bot/pkg"
)

// FollowupMarkers open an anaphoric or continuation question
var FollowupMarkers = []string{"what about", "how about", "and", "also", "it", "that", "this", "same"}

// FollowupNode answers continuation questions from the session context
type FollowupNode struct {
	kb *knowledge.KnowledgeBase
}

func NewFollowupNode(kb *knowledge.KnowledgeBase) *FollowupNode {
	return &FollowupNode{kb: kb}
}

// Execute only fires for a continuation marker with a remembered category
func (f *FollowupNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	if input.Context == nil || input.Context.LastCategory == "" || !IsFollowup(input.Query) {
		return core.NoMatch(), nil
	}

	singular := text.SingularizePhrase(input.Query)
	for _, entry := range f.kb.Entries() {
		if text.ContainsPhrase(input.Query, entry.Item) || text.ContainsPhrase(singular, text.SingularizePhrase(entry.Item)) {
			*input.Context = pkg.ConversationContext{LastItem: entry.Item, LastCategory: entry.Category}
			return core.Answered(AvailabilityStatement(entry)), nil
		}
	}

	if input.Context.LastItem != "" {
		return core.Answered(ContextStatement(input.Context.LastItem, input.Context.LastCategory)), nil
	}
	return core.NoMatch(), nil
}

// IsFollowup reports whether the normalized query starts with a marker
func IsFollowup(query string) bool {
	for _, marker := range FollowupMarkers {
		if text.HasPrefixPhrase(query, marker) {
			return true
		}
	}
	return false
}

func (f *FollowupNode) GetName() string {
	return "context_followup"
}

func (f *FollowupNode) GetType() core.NodeType {
	return core.NodeTypeResolver
}
