package schema

// OrderItemForm is a single product line of an order.
type OrderItemForm struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int    `json:"quantity"   validate:"gt=0,max=10000"`
}

// OrderForm places an order against a seller's inventory. Prices are taken
// from the products, never from the payload.
type OrderForm struct {
	CustomerName  string          `json:"customer_name"  validate:"required,min=2,max=120"`
	CustomerEmail string          `json:"customer_email" validate:"required,email"`
	Items         []OrderItemForm `json:"items"          validate:"required,min=1,max=100,dive"`
	SellerID      string          `json:"seller_id"      validate:"omitempty,max=64"`
}

func (f *OrderForm) normalize() {
	f.CustomerName = name(f.CustomerName)
	f.CustomerEmail = email(f.CustomerEmail)
	f.SellerID = collapse(f.SellerID)
	for i := range f.Items {
		f.Items[i].ProductID = collapse(f.Items[i].ProductID)
	}
}

// OrderStatusForm moves an order through its lifecycle.
type OrderStatusForm struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped delivered cancelled"`
}

// OrderQuery filters the order list view.
type OrderQuery struct {
	ListQuery
	Status string `query:"status" validate:"omitempty,oneof=pending paid shipped delivered cancelled"`
}
