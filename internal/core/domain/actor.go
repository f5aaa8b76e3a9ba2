package domain

// Actor is the authenticated caller of an action. It is resolved from the
// session token and passed explicitly to every service operation.
type Actor struct {
	UserID   string
	TenantID string
	Role     string
	Name     string
	Email    string
}

// IsAdmin reports whether the actor administers its tenant.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// IsStaff reports whether the actor is an accountant or a seller.
func (a *Actor) IsStaff() bool {
	return a != nil && IsStaffRole(a.Role)
}

// Can reports whether the actor's role grants p.
func (a *Actor) Can(p Permission) bool {
	if a == nil {
		return false
	}
	for _, granted := range rolePermissions[a.Role] {
		if granted == p {
			return true
		}
	}
	return false
}

// OwnerScope returns the owner id list queries must be restricted to.
// Admins see every owner in the tenant, so the scope is empty for them.
func (a *Actor) OwnerScope() string {
	if a.IsAdmin() {
		return ""
	}
	return a.UserID
}
