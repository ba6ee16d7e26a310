package models

import "time"

// CartItem is one line in a user's cart. UnitPrice is captured from the
// catalog when the line is first added and is not re-synced afterwards.
type CartItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unitPrice" bson:"unitPrice"`
}

// Cart holds one user's pre-checkout items. One document per user.
type Cart struct {
	UserID     string     `json:"userId" bson:"userId"`
	Items      []CartItem `json:"items" bson:"items"`
	TotalPrice float64    `json:"totalPrice" bson:"totalPrice"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Recalculate restores the totalPrice invariant after any mutation.
func (c *Cart) Recalculate() {
	total := 0.0
	for _, it := range c.Items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	c.TotalPrice = total
}
