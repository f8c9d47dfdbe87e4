// Package knowledge holds the read-only FAQ and catalog data the resolvers
// consult. A KnowledgeBase is built once at startup and never mutated, so a
// single value is safe to share between sessions without locking.
package knowledge

import (
	"time"

	"eino_grocery_bot/internal/text"
)

// FAQEntry is one canned question and its answer
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CatalogEntry is one sellable item with its unit price
type CatalogEntry struct {
	Category string  `json:"category"`
	Item     string  `json:"item"`
	Price    float64 `json:"price"`
}

// Category groups items in definition order
type Category struct {
	Name  string         `json:"name"`
	Items []CatalogEntry `json:"items"`
}

// Festival carries the greeting shown by name mention or on its date
type Festival struct {
	Name  string    `json:"name"`
	Date  time.Time `json:"date"`
	Wish  string    `json:"wish"`
	Offer string    `json:"offer"`
}

// OnDate reports whether the festival falls on the calendar day of t
func (f Festival) OnDate(t time.Time) bool {
	y1, m1, d1 := f.Date.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// KnowledgeBase is the immutable FAQ + catalog + festival store.
//
// Iteration order is part of the contract: categories, items and festivals
// are kept in the order they were defined in the source documents, and
// first-match-wins lookups rely on it.
type KnowledgeBase struct {
	faqs       []FAQEntry
	faqKeys    []string
	categories []Category
	entries    []CatalogEntry
	festivals  []Festival
}

// New builds a KnowledgeBase from already decoded data, keeping the given order
func New(faqs []FAQEntry, categories []Category, festivals []Festival) *KnowledgeBase {
	kb := &KnowledgeBase{
		faqs:       append([]FAQEntry(nil), faqs...),
		categories: make([]Category, 0, len(categories)),
		festivals:  append([]Festival(nil), festivals...),
	}

	for _, faq := range kb.faqs {
		kb.faqKeys = append(kb.faqKeys, text.Normalize(faq.Question))
	}

	for _, category := range categories {
		items := make([]CatalogEntry, 0, len(category.Items))
		for _, entry := range category.Items {
			entry.Category = category.Name
			items = append(items, entry)
			kb.entries = append(kb.entries, entry)
		}
		kb.categories = append(kb.categories, Category{Name: category.Name, Items: items})
	}

	return kb
}

// FAQKeys returns the normalized FAQ questions in definition order.
// The slice must not be modified.
func (kb *KnowledgeBase) FAQKeys() []string {
	return kb.faqKeys
}

// FAQ returns the entry behind FAQKeys()[i]
func (kb *KnowledgeBase) FAQ(i int) FAQEntry {
	return kb.faqs[i]
}

// Categories returns the catalog categories in definition order
func (kb *KnowledgeBase) Categories() []Category {
	return kb.categories
}

// Entries returns every catalog item, category by category, in definition order
func (kb *KnowledgeBase) Entries() []CatalogEntry {
	return kb.entries
}

// Festivals returns the festivals in definition order
func (kb *KnowledgeBase) Festivals() []Festival {
	return kb.festivals
}

// Stats summarises the loaded data for startup logs
func (kb *KnowledgeBase) Stats() (faqs, categories, items, festivals int) {
	return len(kb.faqs), len(kb.categories), len(kb.entries), len(kb.festivals)
}
