package nodes

import (
	"context"
	"fmt"

	"eino_grocery_bot/internal/core"
	"eino_grocery_bot/internal/knowledge"
	"eino_grocery_bot/internal/text"
)

// FestivalNode greets by festival name or on the festival's date
type FestivalNode struct {
	kb *knowledge.KnowledgeBase
}

func NewFestivalNode(kb *knowledge.KnowledgeBase) *FestivalNode {
	return &FestivalNode{kb: kb}
}

// Execute returns the first festival, in catalog order, named in the query
// or falling on input.Now
func (f *FestivalNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	for _, festival := range f.kb.Festivals() {
		if text.ContainsPhrase(input.Query, festival.Name) || festival.OnDate(input.Now) {
			return core.Answered(fmt.Sprintf("%s 🎉 %s", festival.Wish, festival.Offer)), nil
		}
	}
	return core.NoMatch(), nil
}

func (f *FestivalNode) GetName() string {
	return "festival"
}

func (f *FestivalNode) GetType() core.NodeType {
	return core.NodeTypeResolver
}
