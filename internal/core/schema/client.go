package schema

// ClientForm is the payload of the client create/update dialog.
// SellerID is only honoured for admins.
type ClientForm struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=60"`
	LastName  string `json:"last_name"  validate:"required,min=2,max=60"`
	Email     string `json:"email"      validate:"required,email,max=254"`
	Phone     string `json:"phone"      validate:"omitempty,phone"`
	Company   string `json:"company"    validate:"omitempty,max=120"`
	TaxID     string `json:"tax_id"     validate:"omitempty,alphanum,min=10,max=13"`
	Notes     string `json:"notes"      validate:"omitempty,max=1000"`
	UserID    string `json:"user_id"    validate:"omitempty,max=64"`
	SellerID  string `json:"seller_id"  validate:"omitempty,max=64"`
}

func (f *ClientForm) normalize() {
	f.FirstName = name(f.FirstName)
	f.LastName = name(f.LastName)
	f.Email = email(f.Email)
	f.Phone = phone(f.Phone)
	f.Company = collapse(f.Company)
	f.TaxID = upper(f.TaxID)
	f.Notes = collapse(f.Notes)
	f.UserID = collapse(f.UserID)
	f.SellerID = collapse(f.SellerID)
}
