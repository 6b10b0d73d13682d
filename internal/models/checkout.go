package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// LinkStatus represents the lifecycle status of a checkout link
type LinkStatus string

const (
	LinkDraft    LinkStatus = "draft"
	LinkActive   LinkStatus = "active"
	LinkInactive LinkStatus = "inactive"
)

// MethodType represents the type of payment method
type MethodType string

const (
	MethodManual      MethodType = "manual"
	MethodPaymentLink MethodType = "payment-link"
)

// MethodStatus represents the status of a payment method
type MethodStatus string

const (
	MethodActive   MethodStatus = "active"
	MethodPending  MethodStatus = "pending"
	MethodInactive MethodStatus = "inactive"
)

// CustomField is a single form field a customer fills in during checkout
type CustomField struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
	Value       string `json:"value,omitempty"`
}

// CountryOverride holds country-specific details that replace a method's
// global instructions/fields wholesale when present and non-empty
type CountryOverride struct {
	Instructions   string        `json:"instructions,omitempty"`
	CustomFields   []CustomField `json:"custom_fields,omitempty"`
	AdditionalInfo string        `json:"additional_info,omitempty"`
}

// CustomFieldList is a JSONB column holding an ordered list of custom fields
type CustomFieldList []CustomField

func (l CustomFieldList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]CustomField{})
	}
	return json.Marshal([]CustomField(l))
}

func (l *CustomFieldList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("custom_fields: expected []byte")
	}
	return json.Unmarshal(bytes, l)
}

// CountryOverrideMap is a JSONB column mapping ISO country codes to overrides
type CountryOverrideMap map[string]CountryOverride

func (m CountryOverrideMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(map[string]CountryOverride{})
	}
	return json.Marshal(map[string]CountryOverride(m))
}

func (m *CountryOverrideMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(map[string]CountryOverride)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("country_specific_details: expected []byte")
	}
	return json.Unmarshal(bytes, m)
}

// StringArray custom type for PostgreSQL text[]
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return "{" + stringArrayJoin(s) + "}", nil
}

func stringArrayJoin(arr []string) string {
	result := ""
	for i, v := range arr {
		if i > 0 {
			result += ","
		}
		result += "\"" + v + "\""
	}
	return result
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return s.parsePostgresArray(string(v))
	case string:
		return s.parsePostgresArray(v)
	}
	return nil
}

func (s *StringArray) parsePostgresArray(str string) error {
	if str == "{}" || str == "" {
		*s = []string{}
		return nil
	}

	str = str[1 : len(str)-1]

	var result []string
	var current string
	inQuotes := false

	for _, char := range str {
		switch char {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				result = append(result, current)
				current = ""
			} else {
				current += string(char)
			}
		default:
			current += string(char)
		}
	}

	if current != "" {
		result = append(result, current)
	}

	*s = result
	return nil
}

// CheckoutLink represents a merchant-published, slug-addressed checkout page.
// Slugs are globally unique because the public checkout URL carries only the
// slug, even though each link is owned by exactly one merchant.
type CheckoutLink struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MerchantID string     `gorm:"type:varchar(255);not null;index:idx_checkout_links_merchant;uniqueIndex:idx_checkout_links_merchant_slug" json:"merchantId"`
	Slug       string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_checkout_links_slug;uniqueIndex:idx_checkout_links_merchant_slug" json:"slug"`

	Title    string     `gorm:"type:varchar(255);not null" json:"title"`
	Amount   float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency string     `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Status   LinkStatus `gorm:"type:varchar(20);not null;default:'draft';index:idx_checkout_links_status" json:"status"`
	IsActive bool       `gorm:"default:true" json:"isActive"`

	// Empty means the link is usable from every country in the catalogue
	ActiveCountryCodes StringArray `gorm:"type:text[]" json:"activeCountryCodes"`

	ExpiresAt *time.Time `json:"expiresAt,omitempty"`

	// Presentation
	Heading       string `gorm:"type:varchar(255)" json:"heading,omitempty"`
	LogoURL       string `gorm:"type:varchar(500)" json:"logoUrl,omitempty"`
	ReviewMessage string `gorm:"type:text" json:"reviewMessage,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for CheckoutLink
func (CheckoutLink) TableName() string {
	return "checkout_links"
}

// PaymentMethod represents a manual payment method a merchant offers.
// Global instructions/custom fields act as the fallback; entries in
// CountrySpecificDetails replace them wholesale for that country.
type PaymentMethod struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MerchantID string       `gorm:"type:varchar(255);not null;index:idx_payment_methods_merchant" json:"merchantId"`
	Name       string       `gorm:"type:varchar(255);not null" json:"name"`
	Type       MethodType   `gorm:"type:varchar(20);not null;default:'manual'" json:"type"`
	Status     MethodStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_payment_methods_status" json:"status"`

	// Countries where this method is offered at all
	Countries StringArray `gorm:"type:text[]" json:"countries"`

	// Global fallbacks
	Instructions            string          `gorm:"type:text" json:"instructions,omitempty"`
	InstructionsForCheckout string          `gorm:"type:text" json:"instructionsForCheckout,omitempty"`
	CustomFields            CustomFieldList `gorm:"type:jsonb" json:"customFields"`

	// Per-country replacements keyed by ISO 3166-1 alpha-2 code
	CountrySpecificDetails CountryOverrideMap `gorm:"type:jsonb" json:"countrySpecificDetails"`

	DisplayOrder int `gorm:"default:0" json:"displayOrder"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for PaymentMethod
func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// SupportsCountry reports whether the method is offered in the given country
func (m *PaymentMethod) SupportsCountry(countryCode string) bool {
	for _, c := range m.Countries {
		if c == countryCode {
			return true
		}
	}
	return false
}

// MerchantSettings holds per-merchant presentation settings surfaced to the
// public checkout page alongside a validated link
type MerchantSettings struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MerchantID   string    `gorm:"type:varchar(255);not null;unique;index:idx_merchant_settings_merchant" json:"merchantId"`
	BusinessName string    `gorm:"type:varchar(255)" json:"businessName,omitempty"`
	SupportEmail string    `gorm:"type:varchar(255)" json:"supportEmail,omitempty"`
	LogoURL      string    `gorm:"type:varchar(500)" json:"logoUrl,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for MerchantSettings
func (MerchantSettings) TableName() string {
	return "merchant_settings"
}
