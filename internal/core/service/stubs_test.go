package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var errStore = errors.New("store unavailable")

func page[T any](items []T, f ports.ListFilter) ([]T, int64) {
	total := int64(len(items))
	start := f.Skip()
	if start > len(items) {
		start = len(items)
	}
	end := len(items)
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}
	return items[start:end], total
}

type stubClientRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Client
	createErr error
	lastList  ports.ListFilter
}

func newStubClientRepo(clients ...*domain.Client) *stubClientRepo {
	r := &stubClientRepo{byID: make(map[string]*domain.Client)}
	for _, c := range clients {
		r.byID[c.ID] = c
	}
	return r
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubClientRepo) Update(_ context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || c.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, tenantID, id string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || c.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) FindByUserID(_ context.Context, tenantID, userID string) ([]*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Client
	for _, c := range r.byID {
		if c.TenantID == tenantID && c.UserID == userID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

// List applies the same scoping the real Mongo repo would use.
func (r *stubClientRepo) List(_ context.Context, f ports.ListFilter) ([]*domain.Client, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = f
	var matched []*domain.Client
	for _, c := range r.byID {
		if c.TenantID != f.TenantID || (f.OwnerID != "" && c.SellerID != f.OwnerID) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.FullName()+" "+c.Email), strings.ToLower(f.Search)) {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}
	items, total := page(matched, f)
	return items, total, nil
}

type stubProductRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Product
	adjust []int // deltas applied, in order
}

func newStubProductRepo(products ...*domain.Product) *stubProductRepo {
	r := &stubProductRepo{byID: make(map[string]*domain.Product)}
	for _, p := range products {
		r.byID[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.TenantID == p.TenantID && existing.SKU == p.SKU {
			return domain.ErrConflict
		}
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, tenantID, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) List(_ context.Context, f ports.ListFilter) ([]*domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Product
	for _, p := range r.byID {
		if p.TenantID == f.TenantID && (f.OwnerID == "" || p.SellerID == f.OwnerID) {
			clone := *p
			matched = append(matched, &clone)
		}
	}
	items, total := page(matched, f)
	return items, total, nil
}

func (r *stubProductRepo) SetQuantity(_ context.Context, tenantID, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	return nil
}

// AdjustQuantity mirrors the conditional update of the Mongo repo.
func (r *stubProductRepo) AdjustQuantity(_ context.Context, tenantID, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if p.Quantity+delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.Quantity += delta
	r.adjust = append(r.adjust, delta)
	return nil
}

func (r *stubProductRepo) quantity(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id].Quantity
}

type stubPaymentRepo struct {
	mu       sync.Mutex
	byID     map[string]*domain.Payment
	lastList ports.PaymentFilter
	listed   int
}

func newStubPaymentRepo(payments ...*domain.Payment) *stubPaymentRepo {
	r := &stubPaymentRepo{byID: make(map[string]*domain.Payment)}
	for _, p := range payments {
		r.byID[p.ID] = p
	}
	return r
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubPaymentRepo) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, tenantID, id string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPaymentRepo) UpdateStatus(_ context.Context, tenantID, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	p.Status = status
	return nil
}

func (r *stubPaymentRepo) ReassignOwner(_ context.Context, tenantID, clientID, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.TenantID == tenantID && p.ClientID == clientID {
			p.OwnerID = ownerID
		}
	}
	return nil
}

func (r *stubPaymentRepo) match(f ports.PaymentFilter) []*domain.Payment {
	var matched []*domain.Payment
	for _, p := range r.byID {
		if p.TenantID != f.TenantID || (f.OwnerID != "" && p.OwnerID != f.OwnerID) {
			continue
		}
		if len(f.ClientIDs) > 0 && !contains(f.ClientIDs, p.ClientID) {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

func (r *stubPaymentRepo) List(_ context.Context, f ports.PaymentFilter) ([]*domain.Payment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = f
	r.listed++
	items, total := page(r.match(f), f.ListFilter)
	return items, total, nil
}

func (r *stubPaymentRepo) Stats(_ context.Context, f ports.PaymentFilter) (*domain.PaymentStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &domain.PaymentStats{ByStatus: map[string]domain.StatusTotal{}, ByMethod: map[string]domain.StatusTotal{}}
	for _, p := range r.match(f) {
		stats.Count++
		stats.TotalAmount += p.Amount
		st := stats.ByStatus[p.Status]
		st.Count++
		st.Amount += p.Amount
		stats.ByStatus[p.Status] = st
	}
	return stats, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type stubOrderRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Order
	createErr error
	lastList  ports.OrderFilter
	afterFind func() // runs after every FindByID, outside the lock
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *o
	r.byID[o.ID] = &clone
	return nil
}

// Delete and UpdateStatus mirror the status-guarded writes of the Mongo repo.
func (r *stubOrderRepo) Delete(_ context.Context, tenantID, id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok || o.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if o.Status != status {
		return domain.ErrInvalidTransition
	}
	delete(r.byID, id)
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, tenantID, id string) (*domain.Order, error) {
	r.mu.Lock()
	o, ok := r.byID[id]
	var clone domain.Order
	if ok {
		clone = *o
	}
	r.mu.Unlock()

	if r.afterFind != nil {
		r.afterFind()
	}
	if !ok || clone.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return &clone, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, tenantID, id string, from, to domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok || o.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if o.Status != from {
		return domain.ErrInvalidTransition
	}
	o.Status = to
	return nil
}

func (r *stubOrderRepo) List(_ context.Context, f ports.OrderFilter) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = f
	var matched []*domain.Order
	for _, o := range r.byID {
		if o.TenantID != f.TenantID || (f.OwnerID != "" && o.SellerID != f.OwnerID) {
			continue
		}
		if f.CustomerEmail != "" && o.CustomerEmail != f.CustomerEmail {
			continue
		}
		clone := *o
		matched = append(matched, &clone)
	}
	items, total := page(matched, f.ListFilter)
	return items, total, nil
}

type stubCatalogRepo struct {
	byID     map[string]*domain.Service
	lastList ports.CatalogFilter
}

func newStubCatalogRepo(services ...*domain.Service) *stubCatalogRepo {
	r := &stubCatalogRepo{byID: make(map[string]*domain.Service)}
	for _, s := range services {
		r.byID[s.ID] = s
	}
	return r
}

func (r *stubCatalogRepo) Create(_ context.Context, s *domain.Service) error {
	clone := *s
	r.byID[s.ID] = &clone
	return nil
}

func (r *stubCatalogRepo) Update(_ context.Context, s *domain.Service) error {
	clone := *s
	r.byID[s.ID] = &clone
	return nil
}

func (r *stubCatalogRepo) Delete(_ context.Context, tenantID, id string) error {
	s, ok := r.byID[id]
	if !ok || s.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCatalogRepo) FindByID(_ context.Context, tenantID, id string) (*domain.Service, error) {
	s, ok := r.byID[id]
	if !ok || s.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubCatalogRepo) List(_ context.Context, f ports.CatalogFilter) ([]*domain.Service, int64, error) {
	r.lastList = f
	var matched []*domain.Service
	for _, s := range r.byID {
		if s.TenantID == f.TenantID && (!f.ActiveOnly || s.Active) {
			clone := *s
			matched = append(matched, &clone)
		}
	}
	items, total := page(matched, f.ListFilter)
	return items, total, nil
}

type stubUserRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := *user
	r.byID[user.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, tenantID, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.TenantID != tenantID {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.User
	for _, u := range r.byID {
		if u.TenantID != f.TenantID || (f.Role != "" && u.Role != f.Role) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(f.Search)) {
			continue
		}
		clone := *u
		matched = append(matched, &clone)
	}
	items, total := page(matched, f.ListFilter)
	return items, total, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, tenantID, id, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.TenantID != tenantID {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.TenantID != tenantID {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubRevalidator struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (r *stubRevalidator) Invalidate(_ context.Context, _ string, paths ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.paths = append(r.paths, paths...)
	return nil
}

func (r *stubRevalidator) has(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return contains(r.paths, path)
}

type stubMailer struct {
	sent []ports.Email
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg ports.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allow, l.err
}

type stubExporter struct {
	rows []*domain.Payment
}

func (e *stubExporter) Payments(payments []*domain.Payment) ([]byte, error) {
	e.rows = payments
	return []byte("xlsx"), nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

const tenant = "tenant_1"

var (
	adminActor  = &domain.Actor{UserID: "admin_1", TenantID: tenant, Role: domain.RoleAdmin, Email: "admin@example.com"}
	sellerActor = &domain.Actor{UserID: "seller_1", TenantID: tenant, Role: domain.RoleSeller, Email: "seller@example.com"}
	otherSeller = &domain.Actor{UserID: "seller_2", TenantID: tenant, Role: domain.RoleSeller, Email: "seller2@example.com"}
	clientActor = &domain.Actor{UserID: "client_user", TenantID: tenant, Role: domain.RoleClient, Email: "buyer@example.com"}
)

func tenantUsers() *stubUserRepo {
	return newStubUserRepo(
		&domain.User{ID: "admin_1", TenantID: tenant, Name: "Ana Admin", Email: "admin@example.com", Role: domain.RoleAdmin},
		&domain.User{ID: "seller_1", TenantID: tenant, Name: "Sam Seller", Email: "seller@example.com", Role: domain.RoleSeller},
		&domain.User{ID: "seller_2", TenantID: tenant, Name: "Sol Seller", Email: "seller2@example.com", Role: domain.RoleSeller},
		&domain.User{ID: "acct_1", TenantID: tenant, Name: "Alex Contador", Email: "acct@example.com", Role: domain.RoleAccountant},
		&domain.User{ID: "client_user", TenantID: tenant, Name: "Bea Buyer", Email: "buyer@example.com", Role: domain.RoleClient},
	)
}
