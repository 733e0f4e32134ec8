package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CustomField is a user-defined label/value pair shown on rendered invoices.
type CustomField struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Position string `json:"position"` // "header", "footer" or "billing"
}

type CustomFields []CustomField

func (f CustomFields) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *CustomFields) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported type %T for custom fields", value)
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, f)
}

// TemplateSettings holds one user's invoice template customization.
// One row per user, upserted as a whole.
type TemplateSettings struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID uint   `gorm:"not null;uniqueIndex" json:"userId"`
	Name   string `json:"name"`

	CompanyName     string `json:"companyName"`
	CompanySubtitle string `json:"companySubtitle"`
	CompanyAddress  string `json:"companyAddress"`
	CompanyPhone    string `json:"companyPhone"`
	CompanyEmail    string `json:"companyEmail"`
	CompanyWebsite  string `json:"companyWebsite"`

	LogoURL      string `json:"logoUrl,omitempty"`
	LogoSize     string `json:"logoSize"`     // "small", "medium", "large"
	LogoPosition string `json:"logoPosition"` // "left", "center", "right"

	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	AccentColor     string `json:"accentColor"`
	TextColor       string `json:"textColor"`
	BackgroundColor string `json:"backgroundColor"`

	HeaderStyle string `json:"headerStyle"` // "modern", "classic", "minimal"
	FontSize    string `json:"fontSize"`
	Spacing     string `json:"spacing"`

	ShowLogo           bool `json:"showLogo"`
	ShowCompanyAddress bool `json:"showCompanyAddress"`
	ShowDueDate        bool `json:"showDueDate"`
	ShowPaymentTerms   bool `json:"showPaymentTerms"`
	ShowFooter         bool `json:"showFooter"`
	ShowItemNumbers    bool `json:"showItemNumbers"`
	ShowMeasurements   bool `json:"showMeasurements"`

	CustomFields CustomFields `gorm:"type:jsonb" json:"customFields"`

	PaymentTerms  string `json:"paymentTerms"`
	FooterText    string `json:"footerText"`
	InvoicePrefix string `json:"invoicePrefix"`
	DueDays       int    `json:"dueDays"`
}

// DefaultTemplateSettings returns the settings a user sees before saving any.
func DefaultTemplateSettings(userID uint) *TemplateSettings {
	return &TemplateSettings{
		UserID:             userID,
		Name:               "Default",
		CompanyName:        "PragatiBook",
		LogoSize:           "medium",
		LogoPosition:       "left",
		PrimaryColor:       "#f97316",
		SecondaryColor:     "#dc2626",
		AccentColor:        "#f97316",
		TextColor:          "#333333",
		BackgroundColor:    "#ffffff",
		HeaderStyle:        "modern",
		FontSize:           "medium",
		Spacing:            "normal",
		ShowLogo:           true,
		ShowCompanyAddress: true,
		ShowDueDate:        true,
		ShowPaymentTerms:   true,
		ShowFooter:         true,
		ShowItemNumbers:    true,
		ShowMeasurements:   true,
		PaymentTerms:       "Payment due within 30 days",
		InvoicePrefix:      "INV",
		DueDays:            30,
	}
}
