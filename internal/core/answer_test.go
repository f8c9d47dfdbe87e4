package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsYesNoQuestion(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"can i order eggs", true},
		{"do you sell shoes", true},
		{"does zepto deliver at night", true},
		{"should i pay online", true},
		{"is there a delivery fee", true},
		{"candy price", false},
		{"what is zepto", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.want, IsYesNoQuestion(tc.query))
		})
	}
}

func TestWrapYesNo(t *testing.T) {
	tests := []struct {
		answer string
		want   string
	}{
		{"Apple is available under Fruits for ₹120.", "Yes, Apple is available under Fruits for ₹120."},
		{"Zepto doesn’t sell shoes. It mainly offers groceries, snacks, and household essentials.", "No, Zepto doesn’t sell shoes. It mainly offers groceries, snacks, and household essentials."},
		{"Zepto doesn't sell that yet.", "No, Zepto doesn't sell that yet."},
		{"Sorry, that item is out of stock.", "No, Sorry, that item is out of stock."},
		{"That product is unavailable in your city.", "No, That product is unavailable in your city."},
		{"We do not deliver after midnight.", "No, We do not deliver after midnight."},
		{"Yes, we deliver eggs.", "Yes, we deliver eggs."},
		{"yes. Eggs are in Dairy.", "Yes, Eggs are in Dairy."},
		{"No, we don't deliver there.", "No, we don't deliver there."},
		{"Nothing beats fresh mangoes, we stock them.", "Yes, Nothing beats fresh mangoes, we stock them."},
	}

	for _, tc := range tests {
		t.Run(tc.answer, func(t *testing.T) {
			assert.Equal(t, tc.want, WrapYesNo(tc.answer))
		})
	}
}
