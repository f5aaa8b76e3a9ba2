package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

const servicesPath = ports.ServicesPath

type catalogService struct {
	repo ports.CatalogRepository
	rv   ports.Revalidator
	log  zerolog.Logger
}

// NewCatalogService returns a CatalogService implementation. Every role may
// browse the catalog; only admins maintain it.
func NewCatalogService(repo ports.CatalogRepository, rv ports.Revalidator, log zerolog.Logger) ports.CatalogService {
	return &catalogService{repo: repo, rv: rv, log: log}
}

func (s *catalogService) Create(ctx context.Context, actor *domain.Actor, form *schema.ServiceForm) (_ *domain.Service, err error) {
	defer func() { observe("services", "create", err) }()

	if err := authorize(actor, form, domain.PermServicesWrite); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	svc := &domain.Service{
		ID:          uuid.NewString(),
		TenantID:    actor.TenantID,
		Name:        form.Name,
		Description: form.Description,
		Category:    form.Category,
		Price:       form.Price,
		Active:      form.IsActive(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.log.Info().Str("service_id", svc.ID).Str("actor", actor.UserID).Msg("catalog service created")
	revalidate(ctx, s.rv, s.log, actor.TenantID, servicesPath)
	return svc, nil
}

func (s *catalogService) Update(ctx context.Context, actor *domain.Actor, id string, form *schema.ServiceForm) (_ *domain.Service, err error) {
	defer func() { observe("services", "update", err) }()

	if err := authorize(actor, form, domain.PermServicesWrite); err != nil {
		return nil, err
	}
	svc, err := s.repo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	svc.Name = form.Name
	svc.Description = form.Description
	svc.Category = form.Category
	svc.Price = form.Price
	if form.Active != nil {
		svc.Active = *form.Active
	}
	svc.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}

	s.log.Info().Str("service_id", id).Str("actor", actor.UserID).Msg("catalog service updated")
	revalidate(ctx, s.rv, s.log, actor.TenantID, servicesPath, servicesPath+"/"+id)
	return svc, nil
}

func (s *catalogService) Delete(ctx context.Context, actor *domain.Actor, id string) (err error) {
	defer func() { observe("services", "delete", err) }()

	if err := authorize(actor, nil, domain.PermServicesWrite); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, actor.TenantID, id); err != nil {
		return err
	}

	s.log.Info().Str("service_id", id).Str("actor", actor.UserID).Msg("catalog service deleted")
	revalidate(ctx, s.rv, s.log, actor.TenantID, servicesPath, servicesPath+"/"+id)
	return nil
}

func (s *catalogService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Service, error) {
	if err := authorize(actor, nil, domain.PermServicesRead); err != nil {
		return nil, err
	}
	svc, err := s.repo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if !svc.Active && !actor.IsAdmin() {
		return nil, domain.ErrNotFound
	}
	return svc, nil
}

// List returns the catalog. Inactive services are only listed for admins.
func (s *catalogService) List(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.Service], error) {
	if q == nil {
		q = &schema.ListQuery{}
	}
	if err := authorize(actor, q, domain.PermServicesRead); err != nil {
		return nil, err
	}
	f := ports.CatalogFilter{ListFilter: listFilter(actor, q), ActiveOnly: !actor.IsAdmin()}
	f.OwnerID = ""
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return ports.NewPage(items, total, f.Page, f.Limit), nil
}
