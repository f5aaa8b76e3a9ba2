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

const productsPath = ports.ProductsPath

type productService struct {
	repo  ports.ProductRepository
	users ports.UserRepository
	rv    ports.Revalidator
	log   zerolog.Logger
}

// NewProductService returns a ProductService implementation.
func NewProductService(repo ports.ProductRepository, users ports.UserRepository, rv ports.Revalidator, log zerolog.Logger) ports.ProductService {
	return &productService{repo: repo, users: users, rv: rv, log: log}
}

func (s *productService) Create(ctx context.Context, actor *domain.Actor, form *schema.ProductForm) (_ *domain.Product, err error) {
	defer func() { observe("products", "create", err) }()

	if err := authorize(actor, form, domain.PermProductsWrite); err != nil {
		return nil, err
	}
	sellerID, err := resolveSeller(ctx, s.users, actor, form.SellerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:          uuid.NewString(),
		TenantID:    actor.TenantID,
		SellerID:    sellerID,
		Name:        form.Name,
		SKU:         form.SKU,
		Description: form.Description,
		Price:       form.Price,
		Quantity:    form.Quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info().Str("product_id", p.ID).Str("sku", p.SKU).Str("actor", actor.UserID).Msg("product created")
	revalidate(ctx, s.rv, s.log, actor.TenantID, productsPath)
	return p, nil
}

func (s *productService) Update(ctx context.Context, actor *domain.Actor, id string, form *schema.ProductForm) (_ *domain.Product, err error) {
	defer func() { observe("products", "update", err) }()

	if err := authorize(actor, form, domain.PermProductsWrite); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if actor.Can(domain.PermOwnerReassign) && form.SellerID != "" && form.SellerID != p.SellerID {
		sellerID, err := checkSeller(ctx, s.users, actor.TenantID, form.SellerID)
		if err != nil {
			return nil, err
		}
		p.SellerID = sellerID
	}

	p.Name = form.Name
	p.SKU = form.SKU
	p.Description = form.Description
	p.Price = form.Price
	p.Quantity = form.Quantity
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.log.Info().Str("product_id", p.ID).Str("actor", actor.UserID).Msg("product updated")
	revalidate(ctx, s.rv, s.log, actor.TenantID, productsPath, productsPath+"/"+id)
	return p, nil
}

// UpdateQuantity overwrites the stock of an owned product.
func (s *productService) UpdateQuantity(ctx context.Context, actor *domain.Actor, id string, form *schema.QuantityForm) (_ *domain.Product, err error) {
	defer func() { observe("products", "update_quantity", err) }()

	if err := authorize(actor, form, domain.PermProductsWrite); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetQuantity(ctx, actor.TenantID, id, *form.Quantity); err != nil {
		return nil, fmt.Errorf("update quantity: %w", err)
	}
	p.Quantity = *form.Quantity

	s.log.Info().Str("product_id", id).Int("quantity", p.Quantity).Str("actor", actor.UserID).Msg("stock updated")
	revalidate(ctx, s.rv, s.log, actor.TenantID, productsPath, productsPath+"/"+id)
	return p, nil
}

func (s *productService) Delete(ctx context.Context, actor *domain.Actor, id string) (err error) {
	defer func() { observe("products", "delete", err) }()

	if err := authorize(actor, nil, domain.PermProductsWrite); err != nil {
		return err
	}
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, actor.TenantID, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.log.Info().Str("product_id", id).Str("actor", actor.UserID).Msg("product deleted")
	revalidate(ctx, s.rv, s.log, actor.TenantID, productsPath, productsPath+"/"+id)
	return nil
}

func (s *productService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Product, error) {
	if err := authorize(actor, nil, domain.PermProductsRead); err != nil {
		return nil, err
	}
	return s.load(ctx, actor, id)
}

func (s *productService) List(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.Product], error) {
	if q == nil {
		q = &schema.ListQuery{}
	}
	if err := authorize(actor, q, domain.PermProductsRead); err != nil {
		return nil, err
	}
	f := listFilter(actor, q)
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return ports.NewPage(items, total, f.Page, f.Limit), nil
}

func (s *productService) load(ctx context.Context, actor *domain.Actor, id string) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if !owns(actor, p.SellerID) {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
