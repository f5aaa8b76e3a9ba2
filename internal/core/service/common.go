package service

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog"

	"github.com/contalink/backoffice/internal/api/metrics"
	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// requireActor rejects anonymous callers.
func requireActor(actor *domain.Actor) error {
	if actor == nil || actor.UserID == "" || actor.TenantID == "" {
		return domain.ErrUnauthenticated
	}
	return nil
}

// authorize runs the steps every action shares before touching data:
// identity, then the payload schema, then the role permission.
func authorize(actor *domain.Actor, form any, perm domain.Permission) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if form != nil {
		if err := schema.Validate(form); err != nil {
			return err
		}
	}
	if !actor.Can(perm) {
		return domain.ErrForbidden
	}
	return nil
}

// listFilter turns a validated list query into a tenant and owner scoped filter.
func listFilter(actor *domain.Actor, q *schema.ListQuery) ports.ListFilter {
	f := ports.ListFilter{
		TenantID: actor.TenantID,
		OwnerID:  actor.OwnerScope(),
		Page:     1,
		Limit:    defaultPageSize,
		Desc:     true,
	}
	if q == nil {
		return f
	}
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.Limit > 0 {
		f.Limit = min(q.Limit, maxPageSize)
	}
	f.Sort = q.Sort
	f.Search = q.Search
	if q.Order == "asc" {
		f.Desc = false
	}
	return f
}

// resolveSeller decides the owner of a new record. Non-admins always own what
// they create; an admin must pick a staff member of its tenant.
func resolveSeller(ctx context.Context, users ports.UserRepository, actor *domain.Actor, requested string) (string, error) {
	if !actor.IsAdmin() {
		return actor.UserID, nil
	}
	if requested == "" {
		return "", domain.ErrSellerRequired
	}
	return checkSeller(ctx, users, actor.TenantID, requested)
}

func checkSeller(ctx context.Context, users ports.UserRepository, tenantID, id string) (string, error) {
	u, err := users.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.NewValidationError("seller_id", "no es un vendedor válido")
		}
		return "", err
	}
	if !domain.IsStaffRole(u.Role) {
		return "", domain.NewValidationError("seller_id", "no es un vendedor válido")
	}
	return u.ID, nil
}

// owns reports whether a non-admin actor may see or mutate a record owned by ownerID.
func owns(actor *domain.Actor, ownerID string) bool {
	return actor.IsAdmin() || ownerID == actor.UserID
}

// revalidate drops the cached views of paths. A failure never fails the action.
func revalidate(ctx context.Context, rv ports.Revalidator, log zerolog.Logger, tenantID string, paths ...string) {
	if rv == nil {
		return
	}
	if err := rv.Invalidate(ctx, tenantID, paths...); err != nil {
		log.Warn().Err(err).Strs("paths", paths).Msg("view revalidation failed")
		return
	}
	metrics.ViewInvalidationsTotal.Add(float64(len(paths)))
}

// observe records the outcome of an action.
func observe(resource, action string, err error) {
	metrics.ActionsTotal.WithLabelValues(resource, action, outcome(err)).Inc()
}

func outcome(err error) string {
	var verr *domain.ValidationError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &verr), errors.Is(err, domain.ErrSellerRequired),
		errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrInsufficientStock):
		return metrics.OutcomeInvalid
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrSelfModification):
		return metrics.OutcomeDenied
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrOrderLocked):
		return metrics.OutcomeConflict
	case errors.Is(err, domain.ErrRateLimited):
		return metrics.OutcomeLimited
	default:
		return metrics.OutcomeError
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
