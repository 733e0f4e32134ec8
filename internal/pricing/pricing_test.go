package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pragatibook/pragatibook-backend/internal/models"
)

func TestItemAmount(t *testing.T) {
	tests := []struct {
		name     string
		feet     float64
		inches   float64
		quantity float64
		rate     float64
		want     float64
	}{
		{"measurement with quantity and rate", 2, 6, 3, 10, 900}, // 30in * 10 * 3
		{"quantity and rate only", 0, 0, 5, 20, 100},
		{"measurement and rate, no quantity", 1, 0, 0, 10, 120}, // 12in * 10 * 1
		{"rate only, no quantity, no measurement", 0, 0, 0, 10, 0},
		{"quantity only, no rate", 0, 0, 4, 0, 0},
		{"measurement only, no rate", 3, 2, 0, 0, 0},
		{"inches only with rate", 0, 11, 0, 2, 22},
		{"fractional measurement", 0.5, 0, 0, 10, 60},
		{"everything zero", 0, 0, 0, 0, 0},
		{"quantity with measurement but no rate", 2, 0, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemAmount(tt.feet, tt.inches, tt.quantity, tt.rate)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestItemAmountIsPure(t *testing.T) {
	first := ItemAmount(2, 6, 3, 10)
	second := ItemAmount(2, 6, 3, 10)
	assert.Equal(t, first, second)
}

func TestBillTotal(t *testing.T) {
	items := []models.BillItem{
		{Amount: 900},
		{Amount: 100},
		{Amount: 120},
		{Amount: 0},
	}
	assert.InDelta(t, 1120, BillTotal(items), 1e-9)
}

func TestBillTotalEmpty(t *testing.T) {
	assert.Zero(t, BillTotal(nil))
}

func TestRecalculateOverwritesClientValues(t *testing.T) {
	items := []models.BillItem{
		{ID: "a", Feet: 2, Inches: 6, Quantity: 3, Rate: 10, Amount: 1},
		{ID: "b", Quantity: 5, Rate: 20, Amount: 99999},
	}

	out, total := Recalculate(items)

	require.Len(t, out, 2)
	assert.InDelta(t, 900, out[0].Amount, 1e-9)
	assert.InDelta(t, 100, out[1].Amount, 1e-9)
	assert.InDelta(t, 1000, total, 1e-9)

	// input slice is untouched
	assert.InDelta(t, 1, items[0].Amount, 1e-9)
}

func TestRecalculateAssignsMissingIDs(t *testing.T) {
	out, _ := Recalculate([]models.BillItem{{Rate: 10, Quantity: 1}})
	require.Len(t, out, 1)
	assert.NotEmpty(t, out[0].ID)
}

func TestValidateItems(t *testing.T) {
	valid := []models.BillItem{
		{Feet: 1, Rate: 5},
		{Quantity: 2, Rate: 5},
	}
	assert.NoError(t, ValidateItems(valid))

	noRate := []models.BillItem{{Feet: 1}}
	assert.Error(t, ValidateItems(noRate))

	rateOnly := []models.BillItem{{Rate: 5}}
	assert.Error(t, ValidateItems(rateOnly))
}
