package ports

import (
	"context"

	"github.com/contalink/backoffice/internal/core/domain"
)

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	Update(ctx context.Context, c *domain.Client) error
	// Delete removes a client; it returns domain.ErrNotFound when nothing matched.
	Delete(ctx context.Context, tenantID, id string) error
	FindByID(ctx context.Context, tenantID, id string) (*domain.Client, error)
	// FindByUserID returns the clients linked to a login account.
	FindByUserID(ctx context.Context, tenantID, userID string) ([]*domain.Client, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Client, int64, error)
}
