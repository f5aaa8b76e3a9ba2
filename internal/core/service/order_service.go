package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

const ordersPath = ports.OrdersPath

type orderService struct {
	repo     ports.OrderRepository
	products ports.ProductRepository
	users    ports.UserRepository
	rv       ports.Revalidator
	log      zerolog.Logger
}

// NewOrderService returns an OrderService implementation.
func NewOrderService(
	repo ports.OrderRepository,
	products ports.ProductRepository,
	users ports.UserRepository,
	rv ports.Revalidator,
	log zerolog.Logger,
) ports.OrderService {
	return &orderService{repo: repo, products: products, users: users, rv: rv, log: log}
}

// Create places an order against the seller's inventory. Names and prices are
// copied from the products and the ordered units are taken out of stock; if
// any line cannot be reserved the units already taken are put back.
func (s *orderService) Create(ctx context.Context, actor *domain.Actor, form *schema.OrderForm) (_ *domain.Order, err error) {
	defer func() { observe("orders", "create", err) }()

	if err := authorize(actor, form, domain.PermOrdersWrite); err != nil {
		return nil, err
	}
	sellerID, err := resolveSeller(ctx, s.users, actor, form.SellerID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(form.Items))
	var total float64
	for i, line := range form.Items {
		p, err := s.products.FindByID(ctx, actor.TenantID, line.ProductID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("create order: %w", err)
		}
		if err != nil || p.SellerID != sellerID {
			return nil, domain.NewValidationError(itemField(i, "product_id"), "el producto no existe")
		}
		item := domain.OrderItem{ProductID: p.ID, Name: p.Name, Quantity: line.Quantity, UnitPrice: p.Price}
		items = append(items, item)
		total += item.Subtotal()
	}

	reserved := make([]domain.OrderItem, 0, len(items))
	for i, item := range items {
		if err := s.products.AdjustQuantity(ctx, actor.TenantID, item.ProductID, -item.Quantity); err != nil {
			s.restock(ctx, actor.TenantID, reserved)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, fmt.Errorf("%w: %s (%s)", domain.ErrInsufficientStock, item.Name, itemField(i, "quantity"))
			}
			return nil, fmt.Errorf("reserve stock: %w", err)
		}
		reserved = append(reserved, item)
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:            uuid.NewString(),
		TenantID:      actor.TenantID,
		SellerID:      sellerID,
		CustomerName:  form.CustomerName,
		CustomerEmail: form.CustomerEmail,
		Items:         items,
		Total:         roundCents(total),
		Status:        domain.OrderPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		s.restock(ctx, actor.TenantID, reserved)
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.Info().Str("order_id", order.ID).Float64("total", order.Total).Int("items", len(items)).Str("actor", actor.UserID).Msg("order created")
	revalidate(ctx, s.rv, s.log, actor.TenantID, s.paths(order)...)
	return order, nil
}

// UpdateStatus moves an order through its lifecycle. Cancelling returns the
// reserved units to stock.
func (s *orderService) UpdateStatus(ctx context.Context, actor *domain.Actor, id string, form *schema.OrderStatusForm) (_ *domain.Order, err error) {
	defer func() { observe("orders", "update_status", err) }()

	if err := authorize(actor, form, domain.PermOrdersWrite); err != nil {
		return nil, err
	}
	order, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	next := domain.OrderStatus(form.Status)
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, order.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, actor.TenantID, id, order.Status, next); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	// Only the caller whose write matched gets here, so stock is returned once.
	if order.Status.HoldsStock() && !next.HoldsStock() {
		s.restock(ctx, actor.TenantID, order.Items)
	}
	order.Status = next
	order.UpdatedAt = time.Now().UTC()

	s.log.Info().Str("order_id", id).Str("status", string(next)).Str("actor", actor.UserID).Msg("order status updated")
	revalidate(ctx, s.rv, s.log, actor.TenantID, s.paths(order)...)
	return order, nil
}

// Delete removes a pending or cancelled order; pending orders release their stock.
func (s *orderService) Delete(ctx context.Context, actor *domain.Actor, id string) (err error) {
	defer func() { observe("orders", "delete", err) }()

	if err := authorize(actor, nil, domain.PermOrdersWrite); err != nil {
		return err
	}
	order, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if !order.Status.Deletable() {
		return domain.ErrOrderLocked
	}
	if err := s.repo.Delete(ctx, actor.TenantID, id, order.Status); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if order.Status.HoldsStock() {
		s.restock(ctx, actor.TenantID, order.Items)
	}

	s.log.Info().Str("order_id", id).Str("actor", actor.UserID).Msg("order deleted")
	revalidate(ctx, s.rv, s.log, actor.TenantID, s.paths(order)...)
	return nil
}

func (s *orderService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Order, error) {
	if err := authorize(actor, nil, domain.PermOrdersRead); err != nil {
		return nil, err
	}
	return s.load(ctx, actor, id)
}

func (s *orderService) List(ctx context.Context, actor *domain.Actor, q *schema.OrderQuery) (*ports.Page[*domain.Order], error) {
	if q == nil {
		q = &schema.OrderQuery{}
	}
	if err := authorize(actor, q, domain.PermOrdersRead); err != nil {
		return nil, err
	}
	f := ports.OrderFilter{ListFilter: listFilter(actor, &q.ListQuery), Status: q.Status}
	if actor.Role == domain.RoleClient {
		f.OwnerID = ""
		f.CustomerEmail = actor.Email
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return ports.NewPage(items, total, f.Page, f.Limit), nil
}

// load fetches an order visible to the actor: any order for admins, owned
// orders for staff and orders placed with their email for clients.
func (s *orderService) load(ctx context.Context, actor *domain.Actor, id string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	visible := owns(actor, order.SellerID)
	if actor.Role == domain.RoleClient {
		visible = actor.Email != "" && order.CustomerEmail == actor.Email
	}
	if !visible {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// restock returns items to inventory. Failures are logged; the order change
// they belong to has already been applied.
func (s *orderService) restock(ctx context.Context, tenantID string, items []domain.OrderItem) {
	for _, item := range items {
		if err := s.products.AdjustQuantity(ctx, tenantID, item.ProductID, item.Quantity); err != nil {
			s.log.Error().Err(err).Str("product_id", item.ProductID).Int("quantity", item.Quantity).Msg("failed to restock product")
		}
	}
}

func (s *orderService) paths(order *domain.Order) []string {
	paths := []string{ordersPath, ordersPath + "/" + order.ID, productsPath}
	for _, item := range order.Items {
		paths = append(paths, productsPath+"/"+item.ProductID)
	}
	return paths
}

func itemField(i int, field string) string {
	return "items[" + strconv.Itoa(i) + "]." + field
}
