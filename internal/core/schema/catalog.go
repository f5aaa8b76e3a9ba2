package schema

// ServiceForm is the payload of the catalog service dialog.
type ServiceForm struct {
	Name        string  `json:"name"        validate:"required,min=2,max=120"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
	Category    string  `json:"category"    validate:"omitempty,max=60"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Active      *bool   `json:"active"`
}

func (f *ServiceForm) normalize() {
	f.Name = collapse(f.Name)
	f.Description = collapse(f.Description)
	f.Category = lower(f.Category)
	f.Price = cents(f.Price)
}

// IsActive returns the submitted active flag, defaulting to true.
func (f *ServiceForm) IsActive() bool {
	return f.Active == nil || *f.Active
}
