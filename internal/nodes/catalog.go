package nodes

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"eino_grocery_bot/internal/core"
	"eino_grocery_bot/internal/fuzzy"
	"eino_grocery_bot/internal/knowledge"
	"eino_grocery_bot/internal/slots"
	"eino_grocery_bot/internal/text"
	"eino_grocery_bot/pkg"
	"eino_grocery_bot/src/logger"
)

// RestrictedGroup is a denylisted category with its rejection message.
// Message takes the store name and the matched keyword.
type RestrictedGroup struct {
	Name     string
	Keywords []string
	Message  string
}

// RestrictedGroups are checked in order, before any item match
var RestrictedGroups = []RestrictedGroup{
	{
		Name:     "appliances",
		Keywords: []string{"washing machine", "fridge", "television", "tv", "microwave", "ac", "refrigerator", "vacuum cleaner"},
		Message:  "%s doesn’t sell large appliances like %s. It mainly offers groceries and small gadgets.",
	},
	{
		Name:     "footwear",
		Keywords: []string{"shoes", "sandals", "slippers", "footwear"},
		Message:  "%s doesn’t sell %s. It mainly offers groceries, snacks, and household essentials.",
	},
	{
		Name:     "fashion",
		Keywords: []string{"clothes", "clothing", "shirt", "tshirt", "jeans", "dress", "saree", "kurta", "jacket"},
		Message:  "%s doesn’t sell clothing like %s yet, but new categories are being added soon.",
	},
}

// minSubstringKeyword is the shortest restricted keyword matched as a substring
const minSubstringKeyword = 4

// shieldWords contain a restricted keyword without naming the product
var shieldWords = map[string]bool{"address": true, "addresses": true}

// ElectronicsWords mention electronics without naming an item
var ElectronicsWords = []string{"electronics", "electronic", "gadgets", "gadget"}

// ElectronicsCategory is the catalog category listed by the carve-out answer
const ElectronicsCategory = "electronics"

// HowToPrefixes ask for directions; priced answers are suppressed for them
var HowToPrefixes = []string{"how to", "how do i", "how can i", "where to", "where can i", "find"}

// priceWords are dropped before partial matching so "price" does not hit "rice"
var priceWords = map[string]bool{
	"price": true, "prices": true, "cost": true, "costs": true, "rate": true, "rates": true,
}

// CatalogNode resolves item, price and quantity questions
type CatalogNode struct {
	kb        *knowledge.KnowledgeBase
	store     string
	threshold int
}

// NewCatalogNode creates a new catalog node. Partial matches must score
// strictly above config.ItemThreshold.
func NewCatalogNode(kb *knowledge.KnowledgeBase, config core.Config) *CatalogNode {
	return &CatalogNode{kb: kb, store: config.StoreName, threshold: config.ItemThreshold}
}

// Execute runs restriction, electronics, item match and response selection
// in that order
func (c *CatalogNode) Execute(ctx context.Context, input core.NodeInput) (core.NodeOutput, error) {
	query := input.Query
	singular := text.SingularizePhrase(query)

	if answer, ok := c.rejectRestricted(query, singular); ok {
		return core.Answered(answer), nil
	}

	if c.mentionsElectronicsOnly(query, singular) {
		return core.Answered(c.electronicsAnswer()), nil
	}

	entry, ok := c.MatchItem(query)
	if !ok {
		return core.NoMatch(), nil
	}

	if input.Context != nil {
		*input.Context = pkg.ConversationContext{LastItem: entry.Item, LastCategory: entry.Category}
	}
	logger.FromContext(ctx).Debug().Str("item", entry.Item).Str("category", entry.Category).Msg("🛒 Catalog item matched")

	if s := slots.Extract(query); s.HasQuantity {
		return core.Answered(BulkStatement(entry, s)), nil
	}
	if IsHowTo(query) {
		return core.NoMatch(), nil
	}
	return core.Answered(AvailabilityStatement(entry)), nil
}

// MatchItem returns the first catalog entry, in definition order, that the
// query names as a token phrase (after singularization) or matches by
// partial similarity.
func (c *CatalogNode) MatchItem(query string) (knowledge.CatalogEntry, bool) {
	singular := text.SingularizePhrase(query)
	cleaned := withoutPriceWords(query)

	for _, entry := range c.kb.Entries() {
		if text.ContainsPhrase(query, entry.Item) || text.ContainsPhrase(singular, text.SingularizePhrase(entry.Item)) {
			return entry, true
		}
		if fuzzy.PartialRatio(entry.Item, cleaned) > float64(c.threshold) {
			return entry, true
		}
	}
	return knowledge.CatalogEntry{}, false
}

func (c *CatalogNode) rejectRestricted(query, singular string) (string, bool) {
	query, singular = withoutShieldWords(query), withoutShieldWords(singular)
	for _, group := range RestrictedGroups {
		for _, keyword := range group.Keywords {
			if containsKeyword(query, keyword) || containsKeyword(singular, text.SingularizePhrase(keyword)) {
				return fmt.Sprintf(group.Message, c.store, keyword), true
			}
		}
	}
	return "", false
}

// containsKeyword finds keywords of minSubstringKeyword runes or more
// anywhere in the query ("minifridge"). Shorter ones ("ac", "tv") only
// match whole words.
func containsKeyword(query, keyword string) bool {
	if utf8.RuneCountInString(keyword) < minSubstringKeyword {
		return text.ContainsPhrase(query, keyword)
	}
	return strings.Contains(query, keyword)
}

func withoutShieldWords(query string) string {
	tokens := text.Tokens(query)
	kept := tokens[:0]
	for _, token := range tokens {
		if !shieldWords[token] {
			kept = append(kept, token)
		}
	}
	return strings.Join(kept, " ")
}

// mentionsElectronicsOnly is true for "do you sell electronics" but not for
// "electronic charger", where an item is named
func (c *CatalogNode) mentionsElectronicsOnly(query, singular string) bool {
	generic := false
	for _, word := range ElectronicsWords {
		if text.ContainsPhrase(query, word) {
			generic = true
			break
		}
	}
	if !generic {
		return false
	}

	for _, entry := range c.kb.Entries() {
		if text.ContainsPhrase(query, entry.Item) || text.ContainsPhrase(singular, text.SingularizePhrase(entry.Item)) {
			return false
		}
	}
	return true
}

func (c *CatalogNode) electronicsAnswer() string {
	var items []string
	for _, category := range c.kb.Categories() {
		if strings.EqualFold(category.Name, ElectronicsCategory) {
			for _, entry := range category.Items {
				items = append(items, entry.Item)
			}
		}
	}
	if len(items) == 0 {
		return fmt.Sprintf("%s sells a small range of electronics and gadgets, but no large appliances.", c.store)
	}
	return fmt.Sprintf("%s sells small electronics like %s, but no large appliances.", c.store, joinList(items))
}

// IsHowTo reports whether the normalized query asks for directions
func IsHowTo(query string) bool {
	for _, prefix := range HowToPrefixes {
		if text.HasPrefixPhrase(query, prefix) {
			return true
		}
	}
	return false
}

func withoutPriceWords(query string) string {
	tokens := text.Tokens(query)
	kept := tokens[:0]
	for _, token := range tokens {
		if !priceWords[token] {
			kept = append(kept, token)
		}
	}
	return strings.Join(kept, " ")
}

// joinList renders "a", "a and b", "a, b and c"
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

func (c *CatalogNode) GetName() string {
	return "catalog"
}

func (c *CatalogNode) GetType() core.NodeType {
	return core.NodeTypeResolver
}
