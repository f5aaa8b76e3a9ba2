package domain

import "time"

// Client is a customer of the accounting practice, owned by a seller.
type Client struct {
	ID        string    `json:"id" bson:"_id"`
	TenantID  string    `json:"tenant_id" bson:"tenant_id"`
	SellerID  string    `json:"seller_id" bson:"seller_id"`
	UserID    string    `json:"user_id,omitempty" bson:"user_id,omitempty"`
	FirstName string    `json:"first_name" bson:"first_name"`
	LastName  string    `json:"last_name" bson:"last_name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Company   string    `json:"company,omitempty" bson:"company,omitempty"`
	TaxID     string    `json:"tax_id,omitempty" bson:"tax_id,omitempty"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// FullName returns the display name of the client.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
