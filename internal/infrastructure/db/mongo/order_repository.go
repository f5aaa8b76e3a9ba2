package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
)

const collectionOrders = "orders"

var orderList = listSpec{
	ownerField: "seller_id",
	sortable:   fields("created_at", "updated_at", "total", "status", "customer_name"),
	searchable: []string{"customer_name", "customer_email"},
}

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	return insert(ctx, r.col, o)
}

func (r *OrderRepository) Delete(ctx context.Context, tenantID, id string, status domain.OrderStatus) error {
	return removeIf(ctx, r.col, tenantID, id, bson.M{"status": string(status)}, domain.ErrInvalidTransition)
}

func (r *OrderRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.Order, error) {
	return findOne[domain.Order](ctx, r.col, tenantID, id, domain.ErrNotFound)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, tenantID, id string, from, to domain.OrderStatus) error {
	update := bson.M{"status": string(to), "updated_at": time.Now().UTC()}
	return setIf(ctx, r.col, tenantID, id, bson.M{"status": string(from)}, update, domain.ErrInvalidTransition)
}

func (r *OrderRepository) List(ctx context.Context, f ports.OrderFilter) ([]*domain.Order, int64, error) {
	filter := orderList.filter(f.ListFilter)
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CustomerEmail != "" {
		filter["customer_email"] = f.CustomerEmail
	}
	return list[domain.Order](ctx, r.col, filter, orderList.findOptions(f.ListFilter))
}

// EnsureIndexes creates necessary indexes on the orders collection.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "seller_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "customer_email", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
