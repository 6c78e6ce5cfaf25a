package models

import "time"

// Coupon represents a discount code redeemable at checkout.
type Coupon struct {
	ID              string    `db:"id" json:"id"`
	Code            string    `db:"code" json:"code"`
	Description     string    `db:"description" json:"description"`
	DiscountPercent int       `db:"discount_percent" json:"discount_percent"`
	MaxUses         int       `db:"max_uses" json:"max_uses"`
	UsedCount       int       `db:"used_count" json:"used_count"`
	ValidFrom       time.Time `db:"valid_from" json:"valid_from"`
	ValidUntil      time.Time `db:"valid_until" json:"valid_until"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Usable reports whether the coupon can still be redeemed at the given time.
func (c Coupon) Usable(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return false
	}
	return !now.Before(c.ValidFrom) && now.Before(c.ValidUntil)
}
