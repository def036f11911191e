// internal/domain/academy/entity.go
package academy

import "time"

type AcademyType string

const (
	TypeClub    AcademyType = "CLUB"
	TypeAcademy AcademyType = "ACADEMY"
)

// BillingGateway holds the credentials used against the external billing system.
type BillingGateway struct {
	Enabled bool   `json:"enabled" db:"odoo_enabled"`
	APIKey  string `json:"-" db:"odoo_api_key"`
	Secret  string `json:"-" db:"odoo_secret"`
}

type Academy struct {
	ID      int64          `json:"id" db:"id"`
	Slug    string         `json:"slug" db:"slug"`
	Name    string         `json:"name" db:"name"`
	Type    AcademyType    `json:"type" db:"type"`
	Billing BillingGateway `json:"billing" db:"-"`

	// Branding
	LogoURL      string `json:"logo_url,omitempty" db:"logo_url"`
	PrimaryColor string `json:"primary_color,omitempty" db:"primary_color"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BillingReady reports whether the academy can talk to the billing system.
func (a *Academy) BillingReady() bool {
	return a.Billing.Enabled && a.Billing.APIKey != "" && a.Billing.Secret != ""
}
