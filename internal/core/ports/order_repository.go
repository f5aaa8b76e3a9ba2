package ports

import (
	"context"

	"github.com/contalink/backoffice/internal/core/domain"
)

// OrderFilter extends ListFilter with order specific criteria.
type OrderFilter struct {
	ListFilter
	Status        string
	CustomerEmail string // client role: only orders placed with its email
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	// Delete removes the order only while it is still in status; an order
	// that moved on in the meantime yields domain.ErrInvalidTransition.
	Delete(ctx context.Context, tenantID, id string, status domain.OrderStatus) error
	FindByID(ctx context.Context, tenantID, id string) (*domain.Order, error)
	// UpdateStatus moves the order from one status to another as a single
	// compare-and-set. It returns domain.ErrInvalidTransition when the order
	// is no longer in from.
	UpdateStatus(ctx context.Context, tenantID, id string, from, to domain.OrderStatus) error
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, int64, error)
}
