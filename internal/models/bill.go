package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// BillItem is one row of a bill. Feet/inches and rate come from the form;
// Amount is always derived by the pricing engine, never trusted from a client.
type BillItem struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Feet     float64 `json:"feet"`
	Inches   float64 `json:"inches"`
	Quantity float64 `json:"quantity,omitempty"`
	Rate     float64 `json:"defaultValue"`
	Amount   float64 `json:"calculatedValue"`
}

// BillItems is stored as a single JSONB column; items are replaced as a set
// on every bill update, never patched row-by-row.
type BillItems []BillItem

func (items BillItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

func (items *BillItems) Scan(value interface{}) error {
	if value == nil {
		*items = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported type %T for bill items", value)
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, items)
}

type Bill struct {
	gorm.Model
	UserID       uint      `gorm:"not null;index" json:"userId"`
	CustomerName string    `gorm:"not null" json:"customerName"`
	Description  string    `json:"description,omitempty"`
	Date         string    `gorm:"not null" json:"date"` // ISO date, not a timestamp
	Items        BillItems `gorm:"type:jsonb" json:"items"`
	Total        float64   `json:"total"`
}

type BillResponse struct {
	ID           uint       `json:"id"`
	UserID       uint       `json:"userId"`
	CustomerName string     `json:"customerName"`
	Description  string     `json:"description,omitempty"`
	Date         string     `json:"date"`
	Items        []BillItem `json:"items"`
	Total        float64    `json:"total"`
	CreatedAt    string     `json:"createdAt"`
	UpdatedAt    string     `json:"updatedAt"`
}

func (b *Bill) ToResponse() BillResponse {
	return BillResponse{
		ID:           b.ID,
		UserID:       b.UserID,
		CustomerName: b.CustomerName,
		Description:  b.Description,
		Date:         b.Date,
		Items:        b.Items,
		Total:        b.Total,
		CreatedAt:    b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// BillRequest is the create/update payload. Total and per-item amounts may be
// present (the form sends them for preview) but are recomputed server-side.
type BillRequest struct {
	CustomerName string     `json:"customerName" validate:"required"`
	Description  string     `json:"description"`
	Date         string     `json:"date" validate:"required"`
	Items        []BillItem `json:"items" validate:"required,min=1"`
	Total        float64    `json:"total"`
}
