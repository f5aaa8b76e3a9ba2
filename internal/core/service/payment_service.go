package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/contalink/backoffice/internal/api/metrics"
	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

const (
	paymentsPath = ports.PaymentsPath
	// exportLimit caps the rows of a single export.
	exportLimit = 10000
)

// paymentViews are the cached payment views that depend on who owns a
// client and which account it is linked to.
var paymentViews = []string{paymentsPath, paymentsPath + "/stats"}

type paymentService struct {
	repo     ports.PaymentRepository
	clients  ports.ClientRepository
	exporter ports.PaymentExporter
	rv       ports.Revalidator
	log      zerolog.Logger
}

// NewPaymentService returns a PaymentService implementation.
func NewPaymentService(
	repo ports.PaymentRepository,
	clients ports.ClientRepository,
	exporter ports.PaymentExporter,
	rv ports.Revalidator,
	log zerolog.Logger,
) ports.PaymentService {
	return &paymentService{repo: repo, clients: clients, exporter: exporter, rv: rv, log: log}
}

// Create registers a payment for a client. The payment is owned by the
// client's seller; non-admins may only register payments of their clients.
func (s *paymentService) Create(ctx context.Context, actor *domain.Actor, form *schema.PaymentForm) (_ *domain.Payment, err error) {
	defer func() { observe("payments", "create", err) }()

	if err := authorize(actor, form, domain.PermPaymentsWrite); err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, actor.TenantID, form.ClientID)
	if err != nil || !owns(actor, client.SellerID) {
		if err == nil || errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("client_id", "el cliente no existe")
		}
		return nil, fmt.Errorf("create payment: %w", err)
	}

	now := time.Now().UTC()
	paidAt := now
	if form.PaidAt != nil {
		paidAt = form.PaidAt.UTC()
	}
	p := &domain.Payment{
		ID:        uuid.NewString(),
		TenantID:  actor.TenantID,
		OwnerID:   client.SellerID,
		ClientID:  client.ID,
		Amount:    form.Amount,
		Currency:  form.Currency,
		Method:    form.Method,
		Status:    form.Status,
		Reference: form.Reference,
		PaidAt:    paidAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.log.Info().Str("payment_id", p.ID).Str("client_id", p.ClientID).Float64("amount", p.Amount).Str("actor", actor.UserID).Msg("payment registered")
	revalidate(ctx, s.rv, s.log, actor.TenantID, paymentsPath, paymentsPath+"/stats", clientsPath+"/"+client.ID)
	return p, nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, actor *domain.Actor, id string, form *schema.PaymentStatusForm) (_ *domain.Payment, err error) {
	defer func() { observe("payments", "update_status", err) }()

	if err := authorize(actor, form, domain.PermPaymentsWrite); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.Status == form.Status {
		return p, nil
	}
	if err := s.repo.UpdateStatus(ctx, actor.TenantID, id, form.Status); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	p.Status = form.Status
	p.UpdatedAt = time.Now().UTC()

	s.log.Info().Str("payment_id", id).Str("status", form.Status).Str("actor", actor.UserID).Msg("payment status updated")
	revalidate(ctx, s.rv, s.log, actor.TenantID, paymentsPath, paymentsPath+"/stats", paymentsPath+"/"+id)
	return p, nil
}

func (s *paymentService) Delete(ctx context.Context, actor *domain.Actor, id string) (err error) {
	defer func() { observe("payments", "delete", err) }()

	if err := authorize(actor, nil, domain.PermPaymentsWrite); err != nil {
		return err
	}
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, actor.TenantID, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	s.log.Info().Str("payment_id", id).Str("actor", actor.UserID).Msg("payment deleted")
	revalidate(ctx, s.rv, s.log, actor.TenantID, paymentsPath, paymentsPath+"/stats", paymentsPath+"/"+id)
	return nil
}

func (s *paymentService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Payment, error) {
	if err := authorize(actor, nil, domain.PermPaymentsRead); err != nil {
		return nil, err
	}
	return s.load(ctx, actor, id)
}

func (s *paymentService) List(ctx context.Context, actor *domain.Actor, q *schema.PaymentQuery) (*ports.Page[*domain.Payment], error) {
	f, empty, err := s.filter(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	if empty {
		return ports.NewPage[*domain.Payment](nil, 0, f.Page, f.Limit), nil
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return ports.NewPage(items, total, f.Page, f.Limit), nil
}

// Stats aggregates the payments visible to the actor.
func (s *paymentService) Stats(ctx context.Context, actor *domain.Actor, q *schema.PaymentQuery) (*domain.PaymentStats, error) {
	f, empty, err := s.filter(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	if empty {
		return &domain.PaymentStats{ByStatus: map[string]domain.StatusTotal{}, ByMethod: map[string]domain.StatusTotal{}}, nil
	}
	stats, err := s.repo.Stats(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("payment stats: %w", err)
	}
	if stats.Count > 0 {
		stats.AverageAmount = roundCents(stats.TotalAmount / float64(stats.Count))
	}
	return stats, nil
}

func (s *paymentService) Export(ctx context.Context, actor *domain.Actor, q *schema.PaymentQuery) (_ []byte, err error) {
	defer func() { observe("payments", "export", err) }()

	f, empty, err := s.filter(ctx, actor, q)
	if err != nil {
		return nil, err
	}

	var rows []*domain.Payment
	if !empty {
		f.Page, f.Limit = 1, maxPageSize
		for len(rows) < exportLimit {
			items, total, err := s.repo.List(ctx, f)
			if err != nil {
				return nil, fmt.Errorf("export payments: %w", err)
			}
			rows = append(rows, items...)
			if len(items) < f.Limit || int64(len(rows)) >= total {
				break
			}
			f.Page++
		}
	}

	timer := prometheus.NewTimer(metrics.ExportDuration)
	defer timer.ObserveDuration()

	out, err := s.exporter.Payments(rows)
	if err != nil {
		return nil, fmt.Errorf("export payments: %w", err)
	}
	s.log.Info().Int("rows", len(rows)).Str("actor", actor.UserID).Msg("payments exported")
	return out, nil
}

// filter builds the repository filter for the actor. Staff see the payments
// they own, clients the payments of the client records linked to their
// account. empty reports that nothing can match.
func (s *paymentService) filter(ctx context.Context, actor *domain.Actor, q *schema.PaymentQuery) (f ports.PaymentFilter, empty bool, err error) {
	if q == nil {
		q = &schema.PaymentQuery{}
	}
	if err := authorize(actor, q, domain.PermPaymentsRead); err != nil {
		return f, false, err
	}

	f = ports.PaymentFilter{
		ListFilter: listFilter(actor, &q.ListQuery),
		Status:     q.Status,
		Method:     q.Method,
	}
	if q.ClientID != "" {
		f.ClientIDs = []string{q.ClientID}
	}
	if q.From != "" {
		f.From, _ = time.Parse(time.DateOnly, q.From)
	}
	if q.To != "" {
		to, _ := time.Parse(time.DateOnly, q.To)
		f.To = to.AddDate(0, 0, 1)
	}

	if actor.Role == domain.RoleClient {
		f.OwnerID = ""
		ids, err := s.linkedClients(ctx, actor)
		if err != nil {
			return f, false, err
		}
		if q.ClientID != "" {
			ids = intersect(ids, q.ClientID)
		}
		if len(ids) == 0 {
			return f, true, nil
		}
		f.ClientIDs = ids
	}
	return f, false, nil
}

func (s *paymentService) linkedClients(ctx context.Context, actor *domain.Actor) ([]string, error) {
	linked, err := s.clients.FindByUserID(ctx, actor.TenantID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("linked clients: %w", err)
	}
	ids := make([]string, 0, len(linked))
	for _, c := range linked {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (s *paymentService) load(ctx context.Context, actor *domain.Actor, id string) (*domain.Payment, error) {
	p, err := s.repo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleClient {
		ids, err := s.linkedClients(ctx, actor)
		if err != nil {
			return nil, err
		}
		if len(intersect(ids, p.ClientID)) == 0 {
			return nil, domain.ErrNotFound
		}
		return p, nil
	}
	if !owns(actor, p.OwnerID) {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func intersect(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return []string{id}
		}
	}
	return nil
}
