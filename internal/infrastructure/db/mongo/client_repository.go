package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
)

const collectionClients = "clients"

var clientList = listSpec{
	ownerField: "seller_id",
	sortable:   fields("created_at", "updated_at", "first_name", "last_name", "email", "company"),
	searchable: []string{"first_name", "last_name", "email", "company", "tax_id"},
}

type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

var _ ports.ClientRepository = (*ClientRepository)(nil)

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	return insert(ctx, r.col, c)
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	return replace(ctx, r.col, c.TenantID, c.ID, c)
}

func (r *ClientRepository) Delete(ctx context.Context, tenantID, id string) error {
	return remove(ctx, r.col, tenantID, id, domain.ErrNotFound)
}

func (r *ClientRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.Client, error) {
	return findOne[domain.Client](ctx, r.col, tenantID, id, domain.ErrNotFound)
}

// FindByUserID returns the clients linked to a login account.
func (r *ClientRepository) FindByUserID(ctx context.Context, tenantID, userID string) ([]*domain.Client, error) {
	items, _, err := list[domain.Client](ctx, r.col,
		bson.M{"tenant_id": tenantID, "user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	return items, err
}

func (r *ClientRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.Client, int64, error) {
	return list[domain.Client](ctx, r.col, clientList.filter(f), clientList.findOptions(f))
}

// EnsureIndexes creates necessary indexes on the clients collection.
func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "seller_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "user_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
