package knowledge

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the festival date format in the catalog document
const DateLayout = "2006-01-02"

// catalogDocument sections
const (
	itemsKey     = "items"
	festivalsKey = "festivals"
)

type festivalDetails struct {
	Date  string `yaml:"date"`
	Wish  string `yaml:"wish"`
	Offer string `yaml:"offer"`
}

// Load reads both knowledge documents. Any error here is a startup error:
// the bot cannot serve a session without its knowledge base.
func Load(faqPath, catalogPath string, loc *time.Location) (*KnowledgeBase, error) {
	faqs, err := LoadFAQ(faqPath)
	if err != nil {
		return nil, err
	}

	categories, festivals, err := LoadCatalog(catalogPath, loc)
	if err != nil {
		return nil, err
	}

	return New(faqs, categories, festivals), nil
}

// LoadFAQ reads a question -> answer mapping, keeping document order.
// JSON documents are accepted as-is since JSON is valid YAML.
func LoadFAQ(path string) ([]FAQEntry, error) {
	root, err := readMapping(path)
	if err != nil {
		return nil, err
	}

	faqs := make([]FAQEntry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("faq %q: answer must be a string (line %d)", key.Value, value.Line)
		}
		faqs = append(faqs, FAQEntry{Question: key.Value, Answer: value.Value})
	}
	return faqs, nil
}

// LoadCatalog reads the nested category -> item -> price mapping and the
// festival table, keeping document order for both.
func LoadCatalog(path string, loc *time.Location) ([]Category, []Festival, error) {
	if loc == nil {
		loc = time.Local
	}

	root, err := readMapping(path)
	if err != nil {
		return nil, nil, err
	}

	var categories []Category
	var festivals []Festival
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case itemsKey:
			categories, err = decodeCategories(value)
		case festivalsKey:
			festivals, err = decodeFestivals(value, loc)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("catalog %s: %w", path, err)
		}
	}

	if len(categories) == 0 {
		return nil, nil, fmt.Errorf("catalog %s: no %q section or it is empty", path, itemsKey)
	}
	return categories, festivals, nil
}

func decodeCategories(node *yaml.Node) ([]Category, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%q must be a mapping (line %d)", itemsKey, node.Line)
	}

	categories := make([]Category, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, items := node.Content[i].Value, node.Content[i+1]
		if items.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("category %q must map items to prices (line %d)", name, items.Line)
		}

		category := Category{Name: name}
		for j := 0; j+1 < len(items.Content); j += 2 {
			item := strings.ToLower(strings.TrimSpace(items.Content[j].Value))
			var price float64
			if err := items.Content[j+1].Decode(&price); err != nil {
				return nil, fmt.Errorf("item %q in %q: invalid price: %w", item, name, err)
			}
			if price <= 0 {
				return nil, fmt.Errorf("item %q in %q: price must be positive, got %v", item, name, price)
			}
			category.Items = append(category.Items, CatalogEntry{Category: name, Item: item, Price: price})
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func decodeFestivals(node *yaml.Node, loc *time.Location) ([]Festival, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%q must be a mapping (line %d)", festivalsKey, node.Line)
	}

	festivals := make([]Festival, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := strings.ToLower(strings.TrimSpace(node.Content[i].Value))

		var details festivalDetails
		if err := node.Content[i+1].Decode(&details); err != nil {
			return nil, fmt.Errorf("festival %q: %w", name, err)
		}
		date, err := time.ParseInLocation(DateLayout, details.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("festival %q: invalid date %q: %w", name, details.Date, err)
		}

		festivals = append(festivals, Festival{Name: name, Date: date, Wish: details.Wish, Offer: details.Offer})
	}
	return festivals, nil
}

// readMapping parses path and returns its top-level mapping node
func readMapping(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading knowledge file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing knowledge file %s: %w", path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("error parsing knowledge file %s: top level must be a mapping", path)
	}
	return doc.Content[0], nil
}
