package ports

import (
	"context"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/schema"
)

// ClientService is the set of server actions on clients.
type ClientService interface {
	Create(ctx context.Context, actor *domain.Actor, form *schema.ClientForm) (*domain.Client, error)
	Update(ctx context.Context, actor *domain.Actor, id string, form *schema.ClientForm) (*domain.Client, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Client, error)
	List(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*Page[*domain.Client], error)
}

// ProductService is the set of server actions on inventory.
type ProductService interface {
	Create(ctx context.Context, actor *domain.Actor, form *schema.ProductForm) (*domain.Product, error)
	Update(ctx context.Context, actor *domain.Actor, id string, form *schema.ProductForm) (*domain.Product, error)
	UpdateQuantity(ctx context.Context, actor *domain.Actor, id string, form *schema.QuantityForm) (*domain.Product, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Product, error)
	List(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*Page[*domain.Product], error)
}

// PaymentService is the set of server actions on payments.
type PaymentService interface {
	Create(ctx context.Context, actor *domain.Actor, form *schema.PaymentForm) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, actor *domain.Actor, id string, form *schema.PaymentStatusForm) (*domain.Payment, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Payment, error)
	List(ctx context.Context, actor *domain.Actor, q *schema.PaymentQuery) (*Page[*domain.Payment], error)
	Stats(ctx context.Context, actor *domain.Actor, q *schema.PaymentQuery) (*domain.PaymentStats, error)
	// Export renders every payment matching q as an XLSX workbook.
	Export(ctx context.Context, actor *domain.Actor, q *schema.PaymentQuery) ([]byte, error)
}

// OrderService is the set of server actions on orders.
type OrderService interface {
	Create(ctx context.Context, actor *domain.Actor, form *schema.OrderForm) (*domain.Order, error)
	UpdateStatus(ctx context.Context, actor *domain.Actor, id string, form *schema.OrderStatusForm) (*domain.Order, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Order, error)
	List(ctx context.Context, actor *domain.Actor, q *schema.OrderQuery) (*Page[*domain.Order], error)
}

// CatalogService is the set of server actions on the tenant's service catalog.
type CatalogService interface {
	Create(ctx context.Context, actor *domain.Actor, form *schema.ServiceForm) (*domain.Service, error)
	Update(ctx context.Context, actor *domain.Actor, id string, form *schema.ServiceForm) (*domain.Service, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Service, error)
	List(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*Page[*domain.Service], error)
}

// CurrentUser is the signed-in user together with what its role grants.
type CurrentUser struct {
	User        *domain.User        `json:"user"`
	Permissions []domain.Permission `json:"permissions"`
}

// UserService is the set of server actions on user accounts.
type UserService interface {
	Search(ctx context.Context, actor *domain.Actor, q *schema.UserSearchQuery) ([]*domain.User, error)
	List(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*Page[*domain.User], error)
	Create(ctx context.Context, actor *domain.Actor, form *schema.UserForm) (*domain.User, error)
	AssignRole(ctx context.Context, actor *domain.Actor, id string, form *schema.RoleForm) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	Current(ctx context.Context, actor *domain.Actor) (*domain.User, error)
	CurrentWithPermissions(ctx context.Context, actor *domain.Actor) (*CurrentUser, error)
}

// AuthService handles account registration and sign-in.
type AuthService interface {
	Register(ctx context.Context, tenantID string, form *schema.UserForm) (*domain.User, error)
	Login(ctx context.Context, form *schema.LoginForm) (string, *domain.User, error)
}

// ContactService delivers messages from the public contact form.
type ContactService interface {
	Send(ctx context.Context, clientIP string, form *schema.ContactForm) error
}

// PaymentExporter renders payments as a downloadable document.
type PaymentExporter interface {
	Payments(payments []*domain.Payment) ([]byte, error)
}
