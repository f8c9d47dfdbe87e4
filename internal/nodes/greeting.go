package nodes

import (
	"context"
	"fmt"

	"eino_grocery_bot/internal/core"
	"eino_grocery_bot/internal/text"
)

// Greetings is the fixed greeting vocabulary, matched per token
var Greetings = map[string]bool{
	"hi":    true,
	"hii":   true,
	"hello": true,
	"hey":   true,
	"hola":  true,
}

// GreetingNode short-circuits the turn with a welcome message
type GreetingNode struct {
	welcome string
}

// NewGreetingNode creates a new greeting node
func NewGreetingNode(config core.Config) *GreetingNode {
	return &GreetingNode{
		welcome: fmt.Sprintf("Hi 👋! Welcome to %s — how can I help you today?", config.StoreName),
	}
}

// Execute answers when any token of the query is a greeting
func (g *GreetingNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	for _, token := range text.Tokens(input.Query) {
		if Greetings[token] {
			return core.Answered(g.welcome), nil
		}
	}
	return core.NoMatch(), nil
}

// GetName returns the node name
func (g *GreetingNode) GetName() string {
	return "greeting"
}

// GetType returns the node type
func (g *GreetingNode) GetType() core.NodeType {
	return core.NodeTypeGreeting
}
