package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
	"github.com/contalink/backoffice/internal/core/session"
)

var (
	sellerActor = &domain.Actor{UserID: "seller_1", TenantID: "t1", Role: domain.RoleSeller, Email: "seller@example.com"}
	clientActor = &domain.Actor{UserID: "client_user", TenantID: "t1", Role: domain.RoleClient, Email: "buyer@example.com"}
)

// newContext builds an echo context for method and target. A non-empty body
// is sent as JSON; a non-nil actor is stored the way the Auth middleware does.
func newContext(method, target, body string, actor *domain.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if actor != nil {
		req = req.WithContext(session.WithActor(req.Context(), actor))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type stubAuthService struct {
	registerFn func(ctx context.Context, tenantID string, form *schema.UserForm) (*domain.User, error)
	loginFn    func(ctx context.Context, form *schema.LoginForm) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, tenantID string, form *schema.UserForm) (*domain.User, error) {
	return s.registerFn(ctx, tenantID, form)
}

func (s *stubAuthService) Login(ctx context.Context, form *schema.LoginForm) (string, *domain.User, error) {
	return s.loginFn(ctx, form)
}

type stubClientService struct {
	createFn func(ctx context.Context, actor *domain.Actor, form *schema.ClientForm) (*domain.Client, error)
	updateFn func(ctx context.Context, actor *domain.Actor, id string, form *schema.ClientForm) (*domain.Client, error)
	deleteFn func(ctx context.Context, actor *domain.Actor, id string) error
	getFn    func(ctx context.Context, actor *domain.Actor, id string) (*domain.Client, error)
	listFn   func(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.Client], error)
}

func (s *stubClientService) Create(ctx context.Context, actor *domain.Actor, form *schema.ClientForm) (*domain.Client, error) {
	return s.createFn(ctx, actor, form)
}

func (s *stubClientService) Update(ctx context.Context, actor *domain.Actor, id string, form *schema.ClientForm) (*domain.Client, error) {
	return s.updateFn(ctx, actor, id, form)
}

func (s *stubClientService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubClientService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Client, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubClientService) List(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.Client], error) {
	return s.listFn(ctx, actor, q)
}

type stubPaymentService struct {
	ports.PaymentService
	listFn   func(ctx context.Context, actor *domain.Actor, q *schema.PaymentQuery) (*ports.Page[*domain.Payment], error)
	exportFn func(ctx context.Context, actor *domain.Actor, q *schema.PaymentQuery) ([]byte, error)
}

func (s *stubPaymentService) List(ctx context.Context, actor *domain.Actor, q *schema.PaymentQuery) (*ports.Page[*domain.Payment], error) {
	return s.listFn(ctx, actor, q)
}

func (s *stubPaymentService) Export(ctx context.Context, actor *domain.Actor, q *schema.PaymentQuery) ([]byte, error) {
	return s.exportFn(ctx, actor, q)
}

type stubUserService struct {
	ports.UserService
	searchFn  func(ctx context.Context, actor *domain.Actor, q *schema.UserSearchQuery) ([]*domain.User, error)
	listFn    func(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.User], error)
	currentFn func(ctx context.Context, actor *domain.Actor) (*domain.User, error)
}

func (s *stubUserService) Search(ctx context.Context, actor *domain.Actor, q *schema.UserSearchQuery) ([]*domain.User, error) {
	return s.searchFn(ctx, actor, q)
}

func (s *stubUserService) List(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.User], error) {
	return s.listFn(ctx, actor, q)
}

func (s *stubUserService) Current(ctx context.Context, actor *domain.Actor) (*domain.User, error) {
	return s.currentFn(ctx, actor)
}

type stubContactService struct {
	sendFn func(ctx context.Context, clientIP string, form *schema.ContactForm) error
}

func (s *stubContactService) Send(ctx context.Context, clientIP string, form *schema.ContactForm) error {
	return s.sendFn(ctx, clientIP, form)
}

type stubProductService struct {
	ports.ProductService
	createFn   func(ctx context.Context, actor *domain.Actor, form *schema.ProductForm) (*domain.Product, error)
	quantityFn func(ctx context.Context, actor *domain.Actor, id string, form *schema.QuantityForm) (*domain.Product, error)
	deleteFn   func(ctx context.Context, actor *domain.Actor, id string) error
	getFn      func(ctx context.Context, actor *domain.Actor, id string) (*domain.Product, error)
}

func (s *stubProductService) Create(ctx context.Context, actor *domain.Actor, form *schema.ProductForm) (*domain.Product, error) {
	return s.createFn(ctx, actor, form)
}

func (s *stubProductService) UpdateQuantity(ctx context.Context, actor *domain.Actor, id string, form *schema.QuantityForm) (*domain.Product, error) {
	return s.quantityFn(ctx, actor, id, form)
}

func (s *stubProductService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubProductService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Product, error) {
	return s.getFn(ctx, actor, id)
}

type stubOrderService struct {
	ports.OrderService
	createFn func(ctx context.Context, actor *domain.Actor, form *schema.OrderForm) (*domain.Order, error)
	statusFn func(ctx context.Context, actor *domain.Actor, id string, form *schema.OrderStatusForm) (*domain.Order, error)
	deleteFn func(ctx context.Context, actor *domain.Actor, id string) error
	listFn   func(ctx context.Context, actor *domain.Actor, q *schema.OrderQuery) (*ports.Page[*domain.Order], error)
}

func (s *stubOrderService) Create(ctx context.Context, actor *domain.Actor, form *schema.OrderForm) (*domain.Order, error) {
	return s.createFn(ctx, actor, form)
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, actor *domain.Actor, id string, form *schema.OrderStatusForm) (*domain.Order, error) {
	return s.statusFn(ctx, actor, id, form)
}

func (s *stubOrderService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubOrderService) List(ctx context.Context, actor *domain.Actor, q *schema.OrderQuery) (*ports.Page[*domain.Order], error) {
	return s.listFn(ctx, actor, q)
}

type stubCatalogService struct {
	ports.CatalogService
	createFn func(ctx context.Context, actor *domain.Actor, form *schema.ServiceForm) (*domain.Service, error)
	deleteFn func(ctx context.Context, actor *domain.Actor, id string) error
	listFn   func(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.Service], error)
}

func (s *stubCatalogService) Create(ctx context.Context, actor *domain.Actor, form *schema.ServiceForm) (*domain.Service, error) {
	return s.createFn(ctx, actor, form)
}

func (s *stubCatalogService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubCatalogService) List(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.Service], error) {
	return s.listFn(ctx, actor, q)
}

// memoryViewCache is an in-memory ViewCache with the same generation check
// as the Redis one.
type memoryViewCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gens    map[string]int64
	getErr  error
}

func newMemoryViewCache() *memoryViewCache {
	return &memoryViewCache{entries: map[string][]byte{}, gens: map[string]int64{}}
}

func (m *memoryViewCache) Get(_ context.Context, tenantID, path, variant string) ([]byte, int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, 0, false, m.getErr
	}
	body, ok := m.entries[tenantID+"|"+path+"|"+variant]
	return body, m.gens[tenantID+"|"+path], ok, nil
}

func (m *memoryViewCache) Set(_ context.Context, tenantID, path, variant string, gen int64, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens[tenantID+"|"+path] != gen {
		return nil
	}
	m.entries[tenantID+"|"+path+"|"+variant] = body
	return nil
}

func (m *memoryViewCache) Invalidate(_ context.Context, tenantID string, paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, path := range paths {
		m.gens[tenantID+"|"+path]++
		prefix := tenantID + "|" + path + "|"
		for k := range m.entries {
			if strings.HasPrefix(k, prefix) {
				delete(m.entries, k)
			}
		}
	}
	return nil
}

func (m *memoryViewCache) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
