package nodes

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"eino_grocery_bot/internal/knowledge"
	"eino_grocery_bot/internal/slots"
)

// title capitalises every word ("wheat flour" -> "Wheat Flour").
// A Caser is stateful, so one is built per call.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// formatPrice drops a zero fraction: 30 -> "30", 25.5 -> "25.5"
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// AvailabilityStatement is the plain catalog answer
func AvailabilityStatement(entry knowledge.CatalogEntry) string {
	return fmt.Sprintf("%s is available under %s for ₹%s.",
		title(entry.Item), title(entry.Category), formatPrice(entry.Price))
}

// BulkStatement prices a quantity, echoing the unit as written. The total
// is rounded to paise.
func BulkStatement(entry knowledge.CatalogEntry, s slots.Slots) string {
	total := formatPrice(math.Round(float64(s.Quantity)*entry.Price*100) / 100)
	price := formatPrice(entry.Price)
	if s.Unit == "" {
		return fmt.Sprintf("%s — %d costs ₹%s (₹%s each).", title(entry.Item), s.Quantity, total, price)
	}
	return fmt.Sprintf("%s — %d %s costs ₹%s (₹%s/%s).", title(entry.Item), s.Quantity, s.Unit, total, price, s.Unit)
}

// ContextStatement echoes the remembered item without a fresh price lookup
func ContextStatement(item, category string) string {
	return fmt.Sprintf("%s is available under %s.", title(item), title(category))
}
