package schema

// ProductForm is the payload of the inventory item dialog.
type ProductForm struct {
	Name        string  `json:"name"        validate:"required,min=2,max=120"`
	SKU         string  `json:"sku"         validate:"required,sku"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Quantity    int     `json:"quantity"    validate:"gte=0"`
	SellerID    string  `json:"seller_id"   validate:"omitempty,max=64"`
}

func (f *ProductForm) normalize() {
	f.Name = collapse(f.Name)
	f.SKU = upper(f.SKU)
	f.Description = collapse(f.Description)
	f.Price = cents(f.Price)
	f.SellerID = collapse(f.SellerID)
}

// QuantityForm sets the stock of a product. Quantity is a pointer so that an
// explicit zero passes the required check.
type QuantityForm struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}
