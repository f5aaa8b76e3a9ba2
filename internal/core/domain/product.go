package domain

import "time"

// Product is an inventory item sold by a seller.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	TenantID    string    `json:"tenant_id" bson:"tenant_id"`
	SellerID    string    `json:"seller_id" bson:"seller_id"`
	Name        string    `json:"name" bson:"name"`
	SKU         string    `json:"sku" bson:"sku"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// InStock reports whether at least n units are available.
func (p *Product) InStock(n int) bool {
	return p.Quantity >= n
}
