package models

import "time"

type Product struct {
	ProductID     string    `json:"productId" bson:"productId"`
	Name          string    `json:"name" bson:"name"`
	Description   string    `json:"description" bson:"description"`
	Price         float64   `json:"price" bson:"price"`
	DiscountPrice *float64  `json:"discountPrice,omitempty" bson:"discountPrice,omitempty"`
	Category      string    `json:"category" bson:"category"` // coffee, tea, dessert, other
	Stock         int       `json:"stock" bson:"stock"`
	Images        []string  `json:"images" bson:"images"`
	IsActive      bool      `json:"isActive" bson:"isActive"`
	CreatedBy     string    `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}
