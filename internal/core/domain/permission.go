package domain

// Permission names a capability granted to a role.
type Permission string

const (
	PermClientsRead   Permission = "clients:read"
	PermClientsWrite  Permission = "clients:write"
	PermProductsRead  Permission = "products:read"
	PermProductsWrite Permission = "products:write"
	PermPaymentsRead  Permission = "payments:read"
	PermPaymentsWrite Permission = "payments:write"
	PermOrdersRead    Permission = "orders:read"
	PermOrdersWrite   Permission = "orders:write"
	PermServicesRead  Permission = "services:read"
	PermServicesWrite Permission = "services:write"
	PermUsersRead     Permission = "users:read"
	PermUsersWrite    Permission = "users:write"
	PermRolesAssign   Permission = "roles:assign"
	PermOwnerReassign Permission = "owner:reassign"
)

var staffPermissions = []Permission{
	PermClientsRead, PermClientsWrite,
	PermProductsRead, PermProductsWrite,
	PermPaymentsRead, PermPaymentsWrite,
	PermOrdersRead, PermOrdersWrite,
	PermServicesRead,
	PermUsersRead,
}

var rolePermissions = map[string][]Permission{
	RoleAdmin: {
		PermClientsRead, PermClientsWrite,
		PermProductsRead, PermProductsWrite,
		PermPaymentsRead, PermPaymentsWrite,
		PermOrdersRead, PermOrdersWrite,
		PermServicesRead, PermServicesWrite,
		PermUsersRead, PermUsersWrite,
		PermRolesAssign, PermOwnerReassign,
	},
	RoleAccountant: staffPermissions,
	RoleSeller:     staffPermissions,
	RoleClient: {
		PermPaymentsRead,
		PermOrdersRead,
		PermServicesRead,
	},
}

// PermissionsFor returns a copy of the permissions granted to role.
func PermissionsFor(role string) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
