package ports

import "context"

// Revalidator drops the cached views of the given paths after a mutation so
// the next list or detail fetch reads fresh data.
type Revalidator interface {
	Invalidate(ctx context.Context, tenantID string, paths ...string) error
}

// View paths revalidated by the actions. Detail views append "/<id>".
const (
	ClientsPath  = "/api/clients"
	ProductsPath = "/api/products"
	PaymentsPath = "/api/payments"
	OrdersPath   = "/api/orders"
	ServicesPath = "/api/services"
	UsersPath    = "/api/users"
)
