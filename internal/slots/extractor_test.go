package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Slots
	}{
		{"quantity with spaced unit", "5 kg rice", Slots{Quantity: 5, HasQuantity: true, Unit: "kg"}},
		{"quantity with glued unit", "price of 2kg onion", Slots{Quantity: 2, HasQuantity: true, Unit: "kg"}},
		{"packaging unit", "3 packets of maggi", Slots{Quantity: 3, HasQuantity: true, Unit: "packets"}},
		{"quantity without unit", "i need 12 eggs", Slots{Quantity: 12, HasQuantity: true}},
		{"unknown word after number", "2 rice", Slots{Quantity: 2, HasQuantity: true}},
		{"only first mention", "2kg rice and 3kg sugar", Slots{Quantity: 2, HasQuantity: true, Unit: "kg"}},
		{"no digits", "price of rice", Slots{}},
		{"unit prefix is not a unit", "5 kgx rice", Slots{Quantity: 5, HasQuantity: true}},
		{"overflowing digits", "99999999999999999999999 rice", Slots{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Extract(tc.query))
		})
	}
}
