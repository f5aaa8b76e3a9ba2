package ports

import (
	"context"

	"github.com/contalink/backoffice/internal/core/domain"
)

// UserFilter extends ListFilter for user listings and the user picker.
type UserFilter struct {
	ListFilter
	Role string
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail looks an account up across tenants; emails are unique.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, tenantID, id string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
	UpdateRole(ctx context.Context, tenantID, id, role string) error
	Delete(ctx context.Context, tenantID, id string) error
}
