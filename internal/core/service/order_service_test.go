package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/schema"
)

type orderFixture struct {
	svc      *orderService
	orders   *stubOrderRepo
	products *stubProductRepo
	rv       *stubRevalidator
}

func newOrderFixture() orderFixture {
	products := newStubProductRepo(
		&domain.Product{ID: "mug", TenantID: tenant, SellerID: "seller_1", Name: "Taza", Price: 120.5, Quantity: 10},
		&domain.Product{ID: "tee", TenantID: tenant, SellerID: "seller_1", Name: "Playera", Price: 250, Quantity: 1},
		&domain.Product{ID: "cap", TenantID: tenant, SellerID: "seller_2", Name: "Gorra", Price: 180, Quantity: 4},
	)
	orders := newStubOrderRepo()
	rv := &stubRevalidator{}
	svc := NewOrderService(orders, products, tenantUsers(), rv, zerolog.Nop()).(*orderService)
	return orderFixture{svc: svc, orders: orders, products: products, rv: rv}
}

func orderForm(items ...schema.OrderItemForm) *schema.OrderForm {
	return &schema.OrderForm{CustomerName: "bea buyer", CustomerEmail: "Buyer@Example.com", Items: items}
}

func TestOrderService_Create(t *testing.T) {
	fx := newOrderFixture()

	o, err := fx.svc.Create(context.Background(), sellerActor, orderForm(
		schema.OrderItemForm{ProductID: "mug", Quantity: 2},
		schema.OrderItemForm{ProductID: "tee", Quantity: 1},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Total != 491 {
		t.Errorf("expected total 491, got %v", o.Total)
	}
	if o.Status != domain.OrderPending || o.SellerID != "seller_1" {
		t.Errorf("unexpected order %+v", o)
	}
	if o.Items[0].Name != "Taza" || o.Items[0].UnitPrice != 120.5 {
		t.Errorf("expected product data to be copied, got %+v", o.Items[0])
	}
	if o.CustomerEmail != "buyer@example.com" {
		t.Errorf("expected normalized email, got %q", o.CustomerEmail)
	}
	if fx.products.quantity("mug") != 8 || fx.products.quantity("tee") != 0 {
		t.Errorf("expected stock to be reserved, got mug=%d tee=%d", fx.products.quantity("mug"), fx.products.quantity("tee"))
	}
	if !fx.rv.has(ordersPath) || !fx.rv.has(productsPath+"/mug") {
		t.Errorf("expected orders and products to be revalidated, got %v", fx.rv.paths)
	}
}

func TestOrderService_Create_InsufficientStockRollsBack(t *testing.T) {
	fx := newOrderFixture()

	_, err := fx.svc.Create(context.Background(), sellerActor, orderForm(
		schema.OrderItemForm{ProductID: "mug", Quantity: 3},
		schema.OrderItemForm{ProductID: "tee", Quantity: 2},
	))
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if fx.products.quantity("mug") != 10 || fx.products.quantity("tee") != 1 {
		t.Errorf("expected stock to be restored, got mug=%d tee=%d", fx.products.quantity("mug"), fx.products.quantity("tee"))
	}
	if len(fx.orders.byID) != 0 {
		t.Error("expected no order to be stored")
	}
}

func TestOrderService_Create_StoreFailureRollsBack(t *testing.T) {
	fx := newOrderFixture()
	fx.orders.createErr = errStore

	_, err := fx.svc.Create(context.Background(), sellerActor, orderForm(schema.OrderItemForm{ProductID: "mug", Quantity: 4}))
	if !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if fx.products.quantity("mug") != 10 {
		t.Errorf("expected stock to be restored, got %d", fx.products.quantity("mug"))
	}
}

func TestOrderService_Create_ForeignProduct(t *testing.T) {
	fx := newOrderFixture()

	_, err := fx.svc.Create(context.Background(), sellerActor, orderForm(
		schema.OrderItemForm{ProductID: "mug", Quantity: 1},
		schema.OrderItemForm{ProductID: "cap", Quantity: 1},
	))
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || !verr.Has("items[1].product_id") {
		t.Fatalf("expected items[1].product_id validation error, got %v", err)
	}
	if fx.products.quantity("mug") != 10 {
		t.Error("stock must not change")
	}
}

func TestOrderService_Create_AdminRequiresSeller(t *testing.T) {
	fx := newOrderFixture()

	_, err := fx.svc.Create(context.Background(), adminActor, orderForm(schema.OrderItemForm{ProductID: "mug", Quantity: 1}))
	if !errors.Is(err, domain.ErrSellerRequired) {
		t.Fatalf("expected ErrSellerRequired, got %v", err)
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	o, err := fx.svc.Create(ctx, sellerActor, orderForm(schema.OrderItemForm{ProductID: "mug", Quantity: 5}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := fx.svc.UpdateStatus(ctx, sellerActor, o.ID, &schema.OrderStatusForm{Status: "delivered"}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for pending->delivered, got %v", err)
	}
	if _, err := fx.svc.UpdateStatus(ctx, sellerActor, o.ID, &schema.OrderStatusForm{Status: "paid"}); err != nil {
		t.Fatalf("pending->paid: %v", err)
	}
	if _, err := fx.svc.UpdateStatus(ctx, otherSeller, o.ID, &schema.OrderStatusForm{Status: "shipped"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign seller, got %v", err)
	}

	updated, err := fx.svc.UpdateStatus(ctx, sellerActor, o.ID, &schema.OrderStatusForm{Status: "cancelled"})
	if err != nil {
		t.Fatalf("paid->cancelled: %v", err)
	}
	if updated.Status != domain.OrderCancelled {
		t.Errorf("expected cancelled, got %s", updated.Status)
	}
	if fx.products.quantity("mug") != 10 {
		t.Errorf("expected cancelled order to restock, got %d", fx.products.quantity("mug"))
	}

	if _, err := fx.svc.UpdateStatus(ctx, sellerActor, o.ID, &schema.OrderStatusForm{Status: "paid"}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("cancelled is terminal, got %v", err)
	}
}

func TestOrderService_Delete(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	pending, _ := fx.svc.Create(ctx, sellerActor, orderForm(schema.OrderItemForm{ProductID: "mug", Quantity: 2}))
	paid, _ := fx.svc.Create(ctx, sellerActor, orderForm(schema.OrderItemForm{ProductID: "mug", Quantity: 3}))
	if _, err := fx.svc.UpdateStatus(ctx, sellerActor, paid.ID, &schema.OrderStatusForm{Status: "paid"}); err != nil {
		t.Fatalf("pay: %v", err)
	}

	if err := fx.svc.Delete(ctx, sellerActor, paid.ID); !errors.Is(err, domain.ErrOrderLocked) {
		t.Fatalf("expected ErrOrderLocked for a paid order, got %v", err)
	}
	if err := fx.svc.Delete(ctx, sellerActor, pending.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fx.products.quantity("mug") != 7 {
		t.Errorf("expected pending order stock to be released, got %d", fx.products.quantity("mug"))
	}
	if _, err := fx.svc.Get(ctx, sellerActor, pending.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected deleted order to be gone, got %v", err)
	}
}

// readTogether holds every caller after its order read until n callers have
// read, so all of them act on the same snapshot.
func readTogether(orders *stubOrderRepo, n int) {
	var reads sync.WaitGroup
	reads.Add(n)
	orders.afterFind = func() {
		reads.Done()
		reads.Wait()
	}
}

func TestOrderService_ConcurrentCancelRestocksOnce(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	o, err := fx.svc.Create(ctx, sellerActor, orderForm(schema.OrderItemForm{ProductID: "mug", Quantity: 2}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	readTogether(fx.orders, 2)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.svc.UpdateStatus(ctx, sellerActor, o.ID, &schema.OrderStatusForm{Status: "cancelled"})
		}(i)
	}
	wg.Wait()
	fx.orders.afterFind = nil

	var lost int
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrInvalidTransition):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if lost != 1 {
		t.Fatalf("expected exactly one cancel to lose the race, got errs=%v", errs)
	}
	if got := fx.products.quantity("mug"); got != 10 {
		t.Errorf("expected stock back to 10, got %d", got)
	}
}

func TestOrderService_CancelRacingDeleteRestocksOnce(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	o, err := fx.svc.Create(ctx, sellerActor, orderForm(schema.OrderItemForm{ProductID: "mug", Quantity: 3}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	readTogether(fx.orders, 2)

	var cancelErr, deleteErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, cancelErr = fx.svc.UpdateStatus(ctx, sellerActor, o.ID, &schema.OrderStatusForm{Status: "cancelled"})
	}()
	go func() {
		defer wg.Done()
		deleteErr = fx.svc.Delete(ctx, sellerActor, o.ID)
	}()
	wg.Wait()
	fx.orders.afterFind = nil

	if (cancelErr == nil) == (deleteErr == nil) {
		t.Fatalf("expected exactly one write to win, got cancel=%v delete=%v", cancelErr, deleteErr)
	}
	if got := fx.products.quantity("mug"); got != 10 {
		t.Errorf("expected stock back to 10, got %d", got)
	}
}

func TestOrderService_ClientSeesOwnOrders(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	mine, _ := fx.svc.Create(ctx, sellerActor, orderForm(schema.OrderItemForm{ProductID: "mug", Quantity: 1}))
	other := orderForm(schema.OrderItemForm{ProductID: "mug", Quantity: 1})
	other.CustomerEmail = "someone@example.com"
	theirs, _ := fx.svc.Create(ctx, sellerActor, other)

	if _, err := fx.svc.Get(ctx, clientActor, mine.ID); err != nil {
		t.Fatalf("client should see its order: %v", err)
	}
	if _, err := fx.svc.Get(ctx, clientActor, theirs.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	page, err := fx.svc.List(ctx, clientActor, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || fx.orders.lastList.CustomerEmail != clientActor.Email || fx.orders.lastList.OwnerID != "" {
		t.Errorf("unexpected client listing %d %+v", page.Total, fx.orders.lastList)
	}

	if _, err := fx.svc.UpdateStatus(ctx, clientActor, mine.ID, &schema.OrderStatusForm{Status: "cancelled"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("clients cannot change orders, got %v", err)
	}
}
