package domain

import "time"

const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
	RoleSeller     = "seller"
	RoleClient     = "client"
)

// Roles lists every role in display order.
var Roles = []string{RoleAdmin, RoleAccountant, RoleSeller, RoleClient}

// ValidRole reports whether role belongs to the closed set of roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaffRole reports whether role owns records (accountants and sellers).
func IsStaffRole(role string) bool {
	return role == RoleAccountant || role == RoleSeller
}

// User models an account that can sign in to a tenant.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	TenantID     string    `json:"tenant_id" bson:"tenant_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
