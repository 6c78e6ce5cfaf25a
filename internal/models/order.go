package models

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// nextOrderStatus lists the allowed forward transitions per state.
var nextOrderStatus = map[OrderStatus][]OrderStatus{
	OrderPlaced:  {OrderShipped, OrderCancelled},
	OrderShipped: {OrderDelivered, OrderCancelled},
}

// CanTransition reports whether an order may move from its current status to
// the target status.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, allowed := range nextOrderStatus[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order represents a storefront order as seen by the admin panel.
type Order struct {
	ID            string      `db:"id" json:"id"`
	Number        string      `db:"number" json:"number"`
	CustomerID    string      `db:"customer_id" json:"customer_id"`
	CustomerEmail string      `db:"customer_email" json:"customer_email"`
	Status        OrderStatus `db:"status" json:"status"`
	TotalCents    int64       `db:"total_cents" json:"total_cents"`
	ItemCount     int         `db:"item_count" json:"item_count"`
	PlacedAt      time.Time   `db:"placed_at" json:"placed_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// OrderFilter captures filtering criteria for order listings.
type OrderFilter struct {
	Status    OrderStatus
	Customer  string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
