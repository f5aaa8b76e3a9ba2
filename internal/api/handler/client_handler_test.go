package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

func TestClientHandler_Create(t *testing.T) {
	stub := &stubClientService{
		createFn: func(ctx context.Context, actor *domain.Actor, form *schema.ClientForm) (*domain.Client, error) {
			if actor != sellerActor {
				t.Fatalf("actor not forwarded: %+v", actor)
			}
			if form.FirstName != "Jane" || form.Email != "jane@x.com" {
				t.Fatalf("unexpected form: %+v", form)
			}
			return &domain.Client{ID: "c1", FirstName: form.FirstName, SellerID: actor.UserID}, nil
		},
	}
	handler := NewClientHandler(stub, nil)

	c, rec := newContext(http.MethodPost, "/api/clients", `{"first_name":"Jane","last_name":"Doe","email":"jane@x.com"}`, sellerActor)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Message == "" {
		t.Fatalf("expected a success notification, got %+v", resp)
	}
}

func TestClientHandler_Create_ValidationError(t *testing.T) {
	stub := &stubClientService{
		createFn: func(ctx context.Context, actor *domain.Actor, form *schema.ClientForm) (*domain.Client, error) {
			return nil, domain.NewValidationError("email", "debe ser un correo electrónico válido")
		},
	}
	handler := NewClientHandler(stub, nil)

	c, _ := newContext(http.MethodPost, "/api/clients", `{"first_name":"A","last_name":"Doe","email":"not-an-email"}`, sellerActor)
	err := handler.Create(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) || !ve.Has("email") {
		t.Fatalf("expected validation error on email, got %v", err)
	}
}

func TestClientHandler_Update_ForwardsID(t *testing.T) {
	stub := &stubClientService{
		updateFn: func(ctx context.Context, actor *domain.Actor, id string, form *schema.ClientForm) (*domain.Client, error) {
			return &domain.Client{ID: id}, nil
		},
	}
	handler := NewClientHandler(stub, nil)

	c, rec := newContext(http.MethodPut, "/api/clients/c9", `{"first_name":"Jane","last_name":"Doe","email":"jane@x.com"}`, sellerActor)
	c.SetParamNames("id")
	c.SetParamValues("c9")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestClientHandler_Delete_RequiresConfirmation(t *testing.T) {
	deleted := false
	stub := &stubClientService{
		deleteFn: func(ctx context.Context, actor *domain.Actor, id string) error {
			deleted = true
			return nil
		},
	}
	handler := NewClientHandler(stub, nil)

	c, _ := newContext(http.MethodDelete, "/api/clients/c1", "", sellerActor)
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := handler.Delete(c); !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	if deleted {
		t.Fatalf("delete must not run without confirmation")
	}

	c, rec := newContext(http.MethodDelete, "/api/clients/c1?confirm=true", "", sellerActor)
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !deleted || rec.Code != http.StatusOK {
		t.Fatalf("expected confirmed delete, got %d", rec.Code)
	}
}

func TestClientHandler_Delete_NotFound(t *testing.T) {
	stub := &stubClientService{
		deleteFn: func(ctx context.Context, actor *domain.Actor, id string) error {
			return domain.ErrNotFound
		},
	}
	handler := NewClientHandler(stub, nil)

	c, _ := newContext(http.MethodDelete, "/api/clients/missing?confirm=true", "", sellerActor)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := handler.Delete(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientHandler_List_BindsQuery(t *testing.T) {
	stub := &stubClientService{
		listFn: func(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.Client], error) {
			if q.Page != 2 || q.Limit != 5 || q.Search != "doe" || q.Order != "asc" {
				t.Fatalf("unexpected query: %+v", q)
			}
			return ports.NewPage([]*domain.Client{{ID: "c1"}}, 6, 2, 5), nil
		},
	}
	handler := NewClientHandler(stub, nil)

	c, rec := newContext(http.MethodGet, "/api/clients?page=2&limit=5&search=doe&order=asc", "", sellerActor)
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Data ListData[map[string]any] `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data.Items) != 1 || resp.Data.Pagination.TotalPages != 2 || resp.Data.Pagination.Total != 6 {
		t.Fatalf("unexpected list payload: %s", rec.Body.String())
	}
}

func TestClientHandler_List_Cached(t *testing.T) {
	calls := 0
	stub := &stubClientService{
		listFn: func(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.Client], error) {
			calls++
			return ports.NewPage([]*domain.Client{{ID: "c1"}}, 1, 1, 20), nil
		},
	}
	cache := newMemoryViewCache()
	handler := NewClientHandler(stub, NewViews(cache, zerolog.Nop()))

	var bodies []string
	for i := 0; i < 2; i++ {
		c, rec := newContext(http.MethodGet, "/api/clients?page=1", "", sellerActor)
		if err := handler.List(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		bodies = append(bodies, rec.Body.String())
	}

	if calls != 1 {
		t.Fatalf("expected the second request to be served from cache, service called %d times", calls)
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("cached body differs:\n%s\n%s", bodies[0], bodies[1])
	}

	// A different caller gets its own entry.
	other := &domain.Actor{UserID: "seller_2", TenantID: "t1", Role: domain.RoleSeller}
	c, _ := newContext(http.MethodGet, "/api/clients?page=1", "", other)
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if calls != 2 || cache.len() != 2 {
		t.Fatalf("expected a per-caller cache entry, calls=%d entries=%d", calls, cache.len())
	}
}

func TestClientHandler_List_MutationDuringLoadNotCached(t *testing.T) {
	cache := newMemoryViewCache()
	calls := 0
	stub := &stubClientService{
		listFn: func(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.Client], error) {
			calls++
			if calls == 1 {
				// A write commits and revalidates while this list is loading.
				_ = cache.Invalidate(ctx, actor.TenantID, ports.ClientsPath)
			}
			return ports.NewPage([]*domain.Client{{ID: "c1"}}, 1, 1, 20), nil
		},
	}
	handler := NewClientHandler(stub, NewViews(cache, zerolog.Nop()))

	for i := 0; i < 2; i++ {
		c, rec := newContext(http.MethodGet, "/api/clients", "", sellerActor)
		if err := handler.List(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if i == 0 && cache.len() != 0 {
			t.Fatalf("a body loaded across an invalidation must not be cached")
		}
	}
	if calls != 2 {
		t.Fatalf("expected the second request to reload, service called %d times", calls)
	}
	if cache.len() != 1 {
		t.Fatalf("expected the fresh body to be cached, entries=%d", cache.len())
	}
}

func TestClientHandler_List_CacheUnavailable(t *testing.T) {
	calls := 0
	stub := &stubClientService{
		listFn: func(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.Client], error) {
			calls++
			return ports.NewPage[*domain.Client](nil, 0, 1, 20), nil
		},
	}
	cache := newMemoryViewCache()
	cache.getErr = errors.New("connection refused")
	handler := NewClientHandler(stub, NewViews(cache, zerolog.Nop()))

	c, rec := newContext(http.MethodGet, "/api/clients", "", sellerActor)
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if calls != 1 || rec.Code != http.StatusOK {
		t.Fatalf("expected an uncached response, calls=%d code=%d", calls, rec.Code)
	}
}
