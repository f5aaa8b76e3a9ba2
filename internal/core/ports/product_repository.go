package ports

import (
	"context"

	"github.com/contalink/backoffice/internal/core/domain"
)

// ProductRepository defines persistence operations for inventory items.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, tenantID, id string) error
	FindByID(ctx context.Context, tenantID, id string) (*domain.Product, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Product, int64, error)
	// SetQuantity overwrites the stock of a product.
	SetQuantity(ctx context.Context, tenantID, id string, quantity int) error
	// AdjustQuantity adds delta to the stock. A negative delta only applies when
	// enough units are available, otherwise domain.ErrInsufficientStock.
	AdjustQuantity(ctx context.Context, tenantID, id string, delta int) error
}
