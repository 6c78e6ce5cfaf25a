package models

import "time"

// OfferScope determines what an offer applies to.
type OfferScope string

const (
	OfferScopeCategory OfferScope = "category"
	OfferScopeProduct  OfferScope = "product"
)

// Offer represents a time-bound discount on a category or product.
type Offer struct {
	ID              string     `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	Scope           OfferScope `db:"scope" json:"scope"`
	Target          string     `db:"target" json:"target"`
	DiscountPercent int        `db:"discount_percent" json:"discount_percent"`
	StartsAt        time.Time  `db:"starts_at" json:"starts_at"`
	EndsAt          time.Time  `db:"ends_at" json:"ends_at"`
	Active          bool       `db:"active" json:"active"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
