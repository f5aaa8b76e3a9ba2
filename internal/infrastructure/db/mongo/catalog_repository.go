package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
)

const collectionServices = "services"

var catalogList = listSpec{
	sortable:   fields("created_at", "name", "category", "price"),
	searchable: []string{"name", "description", "category"},
}

// CatalogRepository stores the tenant's service catalog.
type CatalogRepository struct {
	col *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{col: db.Collection(collectionServices)}
}

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

func (r *CatalogRepository) Create(ctx context.Context, s *domain.Service) error {
	return insert(ctx, r.col, s)
}

func (r *CatalogRepository) Update(ctx context.Context, s *domain.Service) error {
	return replace(ctx, r.col, s.TenantID, s.ID, s)
}

func (r *CatalogRepository) Delete(ctx context.Context, tenantID, id string) error {
	return remove(ctx, r.col, tenantID, id, domain.ErrNotFound)
}

func (r *CatalogRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.Service, error) {
	return findOne[domain.Service](ctx, r.col, tenantID, id, domain.ErrNotFound)
}

func (r *CatalogRepository) List(ctx context.Context, f ports.CatalogFilter) ([]*domain.Service, int64, error) {
	filter := catalogList.filter(f.ListFilter)
	if f.ActiveOnly {
		filter["active"] = true
	}
	return list[domain.Service](ctx, r.col, filter, catalogList.findOptions(f.ListFilter))
}

// EnsureIndexes creates necessary indexes on the services collection.
func (r *CatalogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "active", Value: 1}, {Key: "name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
