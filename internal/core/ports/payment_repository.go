package ports

import (
	"context"
	"time"

	"github.com/contalink/backoffice/internal/core/domain"
)

// PaymentFilter extends ListFilter with payment specific criteria.
type PaymentFilter struct {
	ListFilter
	ClientIDs []string // optional: restrict to these clients
	Status    string
	Method    string
	From      time.Time // optional: paid_at >= From
	To        time.Time // optional: paid_at < To
}

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	Delete(ctx context.Context, tenantID, id string) error
	FindByID(ctx context.Context, tenantID, id string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, tenantID, id, status string) error
	// ReassignOwner moves every payment of a client to a new owner.
	ReassignOwner(ctx context.Context, tenantID, clientID, ownerID string) error
	List(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, int64, error)
	// Stats aggregates the payments matching filter; paging fields are ignored.
	Stats(ctx context.Context, filter PaymentFilter) (*domain.PaymentStats, error)
}
