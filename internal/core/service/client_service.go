package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

const clientsPath = ports.ClientsPath

type clientService struct {
	repo     ports.ClientRepository
	payments ports.PaymentRepository
	users    ports.UserRepository
	rv       ports.Revalidator
	log      zerolog.Logger
}

// NewClientService returns a ClientService implementation. Payments follow
// their client when it moves to another seller.
func NewClientService(
	repo ports.ClientRepository,
	payments ports.PaymentRepository,
	users ports.UserRepository,
	rv ports.Revalidator,
	log zerolog.Logger,
) ports.ClientService {
	return &clientService{repo: repo, payments: payments, users: users, rv: rv, log: log}
}

func (s *clientService) Create(ctx context.Context, actor *domain.Actor, form *schema.ClientForm) (_ *domain.Client, err error) {
	defer func() { observe("clients", "create", err) }()

	if err := authorize(actor, form, domain.PermClientsWrite); err != nil {
		return nil, err
	}
	sellerID, err := resolveSeller(ctx, s.users, actor, form.SellerID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLinkedUser(ctx, actor.TenantID, form.UserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	client := &domain.Client{
		ID:        uuid.NewString(),
		TenantID:  actor.TenantID,
		SellerID:  sellerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyClientForm(client, form)

	if err := s.repo.Create(ctx, client); err != nil {
		s.log.Error().Err(err).Str("tenant_id", actor.TenantID).Msg("failed to create client")
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.log.Info().Str("client_id", client.ID).Str("seller_id", sellerID).Str("actor", actor.UserID).Msg("client created")
	revalidate(ctx, s.rv, s.log, actor.TenantID, clientsPath)
	return client, nil
}

// Update applies form to an owned client. The owner only changes when an
// admin submits a different seller_id; for everybody else it is ignored.
// A new owner takes the client's payments with it. Payment views are
// revalidated whenever ownership or the linked client account changes, since
// both decide who sees those payments.
func (s *clientService) Update(ctx context.Context, actor *domain.Actor, id string, form *schema.ClientForm) (_ *domain.Client, err error) {
	defer func() { observe("clients", "update", err) }()

	if err := authorize(actor, form, domain.PermClientsWrite); err != nil {
		return nil, err
	}
	client, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	reassigned := false
	if actor.Can(domain.PermOwnerReassign) && form.SellerID != "" && form.SellerID != client.SellerID {
		sellerID, err := checkSeller(ctx, s.users, actor.TenantID, form.SellerID)
		if err != nil {
			return nil, err
		}
		client.SellerID = sellerID
		reassigned = true
	}
	relinked := form.UserID != client.UserID
	if relinked {
		if err := s.checkLinkedUser(ctx, actor.TenantID, form.UserID); err != nil {
			return nil, err
		}
	}

	applyClientForm(client, form)
	client.UpdatedAt = time.Now().UTC()

	// Payments move first: a failed client write leaves the seller_id change
	// pending, so a retry repeats the cascade.
	if reassigned {
		if err := s.payments.ReassignOwner(ctx, actor.TenantID, client.ID, client.SellerID); err != nil {
			return nil, fmt.Errorf("reassign client payments: %w", err)
		}
	}
	if err := s.repo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}

	s.log.Info().Str("client_id", client.ID).Bool("reassigned", reassigned).Str("actor", actor.UserID).Msg("client updated")
	paths := []string{clientsPath, clientsPath + "/" + id}
	if reassigned || relinked {
		paths = append(paths, paymentViews...)
	}
	revalidate(ctx, s.rv, s.log, actor.TenantID, paths...)
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, actor *domain.Actor, id string) (err error) {
	defer func() { observe("clients", "delete", err) }()

	if err := authorize(actor, nil, domain.PermClientsWrite); err != nil {
		return err
	}
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, actor.TenantID, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}

	s.log.Info().Str("client_id", id).Str("actor", actor.UserID).Msg("client deleted")
	revalidate(ctx, s.rv, s.log, actor.TenantID, append([]string{clientsPath, clientsPath + "/" + id}, paymentViews...)...)
	return nil
}

func (s *clientService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Client, error) {
	if err := authorize(actor, nil, domain.PermClientsRead); err != nil {
		return nil, err
	}
	return s.load(ctx, actor, id)
}

func (s *clientService) List(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.Client], error) {
	if q == nil {
		q = &schema.ListQuery{}
	}
	if err := authorize(actor, q, domain.PermClientsRead); err != nil {
		return nil, err
	}
	f := listFilter(actor, q)
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return ports.NewPage(items, total, f.Page, f.Limit), nil
}

// load fetches a client the actor may see. Records of other owners are
// reported as missing.
func (s *clientService) load(ctx context.Context, actor *domain.Actor, id string) (*domain.Client, error) {
	client, err := s.repo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if !owns(actor, client.SellerID) {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

// checkLinkedUser verifies that userID, when set, is a client account of the tenant.
func (s *clientService) checkLinkedUser(ctx context.Context, tenantID, userID string) error {
	if userID == "" {
		return nil
	}
	u, err := s.users.FindByID(ctx, tenantID, userID)
	if errors.Is(err, domain.ErrUserNotFound) || (err == nil && u.Role != domain.RoleClient) {
		return domain.NewValidationError("user_id", "no es una cuenta de cliente válida")
	}
	return err
}

func applyClientForm(c *domain.Client, form *schema.ClientForm) {
	c.FirstName = form.FirstName
	c.LastName = form.LastName
	c.Email = form.Email
	c.Phone = form.Phone
	c.Company = form.Company
	c.TaxID = form.TaxID
	c.Notes = form.Notes
	c.UserID = form.UserID
}
