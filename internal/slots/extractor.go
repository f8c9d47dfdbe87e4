// Package slots pulls a quantity and unit out of a normalized query.
package slots

import (
	"regexp"
	"strconv"
	"strings"
)

// Units is the closed unit vocabulary: weight, volume, count and packaging
var Units = map[string]bool{
	// weight
	"kg": true, "kgs": true, "kilo": true, "kilos": true, "kilogram": true, "kilograms": true,
	"g": true, "gm": true, "gms": true, "gram": true, "grams": true,
	// volume
	"l": true, "ltr": true, "ltrs": true, "litre": true, "litres": true, "liter": true, "liters": true,
	"ml": true,
	// count
	"pc": true, "pcs": true, "piece": true, "pieces": true, "dozen": true, "unit": true, "units": true,
	// packaging
	"pack": true, "packs": true, "packet": true, "packets": true, "bottle": true, "bottles": true,
	"box": true, "boxes": true, "bag": true, "bags": true, "can": true, "cans": true, "jar": true, "jars": true,
}

var (
	digitRun    = regexp.MustCompile(`\d+`)
	leadingWord = regexp.MustCompile(`^\s*([a-z]+)\b`)
)

// Slots is the result of an extraction. Zero values mean "not mentioned".
type Slots struct {
	Quantity    int
	HasQuantity bool
	Unit        string
}

// Extract finds the first run of digits and, when it is directly followed by
// a known unit word ("5 kg", "5kg"), that unit. Only the first numeric mention
// is considered: "2kg rice and 3kg sugar" yields 2 kg.
func Extract(query string) Slots {
	loc := digitRun.FindStringIndex(query)
	if loc == nil {
		return Slots{}
	}

	qty, err := strconv.Atoi(query[loc[0]:loc[1]])
	if err != nil {
		// digit runs too long for an int are not quantities
		return Slots{}
	}

	slots := Slots{Quantity: qty, HasQuantity: true}
	if m := leadingWord.FindStringSubmatch(query[loc[1]:]); m != nil && Units[strings.ToLower(m[1])] {
		slots.Unit = m[1]
	}
	return slots
}
