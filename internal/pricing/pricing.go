// Package pricing computes derived line-item amounts and bill totals.
// All functions are pure; bounds checking belongs to the caller.
package pricing

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pragatibook/pragatibook-backend/internal/models"
)

const inchesPerFoot = 12

// ItemAmount resolves a line item's amount from its raw inputs.
//
// With a positive quantity: a priced measurement yields
// totalInches * rate * quantity, a bare rate yields rate * quantity.
// Without a quantity: a priced measurement yields totalInches * rate
// (quantity treated as 1), and everything else yields 0 — including a
// rate-only item. That last case is intentionally not symmetric with the
// quantity branch; the billing form has always worked this way and saved
// bills depend on it.
func ItemAmount(feet, inches, quantity, rate float64) float64 {
	hasMeasurement := feet > 0 || inches > 0

	if quantity > 0 {
		switch {
		case hasMeasurement && rate > 0:
			totalInches := feet*inchesPerFoot + inches
			return totalInches * rate * quantity
		case rate > 0:
			return rate * quantity
		default:
			return 0
		}
	}

	if hasMeasurement && rate > 0 {
		totalInches := feet*inchesPerFoot + inches
		return totalInches * rate * 1
	}
	return 0
}

// BillTotal sums the item amounts. No rounding is applied here; rendering
// to two decimals is a presentation concern.
func BillTotal(items []models.BillItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Amount
	}
	return total
}

// Recalculate rederives every item amount and the bill total, overwriting
// whatever the client sent. Items without an id get one assigned.
func Recalculate(items []models.BillItem) ([]models.BillItem, float64) {
	out := make([]models.BillItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.Amount = ItemAmount(item.Feet, item.Inches, item.Quantity, item.Rate)
		out[i] = item
	}
	return out, BillTotal(out)
}

// ValidateItems enforces the save-boundary rule: every item needs a rate and
// either a measurement or a quantity. Amounts are still computed for preview
// on invalid items; only persisting is refused.
func ValidateItems(items []models.BillItem) error {
	for i, item := range items {
		hasMeasurement := item.Feet > 0 || item.Inches > 0
		hasQuantity := item.Quantity > 0
		if item.Rate <= 0 || (!hasMeasurement && !hasQuantity) {
			return fmt.Errorf("item %d must have a rate and either measurements (feet/inches) or quantity", i+1)
		}
	}
	return nil
}
