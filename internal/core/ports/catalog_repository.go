package ports

import (
	"context"

	"github.com/contalink/backoffice/internal/core/domain"
)

// CatalogFilter extends ListFilter for the service catalog.
type CatalogFilter struct {
	ListFilter
	ActiveOnly bool
}

// CatalogRepository defines persistence operations for catalog services.
type CatalogRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, tenantID, id string) error
	FindByID(ctx context.Context, tenantID, id string) (*domain.Service, error)
	List(ctx context.Context, filter CatalogFilter) ([]*domain.Service, int64, error)
}
