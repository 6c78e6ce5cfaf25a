package models

import "time"

// PaymentStatus is the verification state of a manual payment submission.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

// PaymentVerification represents a customer-submitted payment reference
// awaiting manual review. Like login approvals, the pending state may be
// resolved at most once.
type PaymentVerification struct {
	ID            string        `db:"id" json:"id"`
	OrderID       string        `db:"order_id" json:"order_id"`
	OrderNumber   string        `db:"order_number" json:"order_number"`
	CustomerEmail string        `db:"customer_email" json:"customer_email"`
	Reference     string        `db:"reference" json:"reference"`
	Method        string        `db:"method" json:"method"`
	AmountCents   int64         `db:"amount_cents" json:"amount_cents"`
	Status        PaymentStatus `db:"status" json:"status"`
	SubmittedAt   time.Time     `db:"submitted_at" json:"submitted_at"`
	ReviewedAt    *time.Time    `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy    *string       `db:"reviewed_by" json:"reviewed_by,omitempty"`
}

// PaymentFilter captures filtering criteria for verification listings.
type PaymentFilter struct {
	Status   PaymentStatus
	Page     int
	PageSize int
}
