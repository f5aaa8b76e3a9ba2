package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
)

const collectionProducts = "products"

var productList = listSpec{
	ownerField: "seller_id",
	sortable:   fields("created_at", "updated_at", "name", "sku", "price", "quantity"),
	searchable: []string{"name", "sku", "description"},
}

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return insert(ctx, r.col, p)
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	return replace(ctx, r.col, p.TenantID, p.ID, p)
}

func (r *ProductRepository) Delete(ctx context.Context, tenantID, id string) error {
	return remove(ctx, r.col, tenantID, id, domain.ErrNotFound)
}

func (r *ProductRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.Product, error) {
	return findOne[domain.Product](ctx, r.col, tenantID, id, domain.ErrNotFound)
}

func (r *ProductRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.Product, int64, error) {
	return list[domain.Product](ctx, r.col, productList.filter(f), productList.findOptions(f))
}

func (r *ProductRepository) SetQuantity(ctx context.Context, tenantID, id string, quantity int) error {
	return set(ctx, r.col, tenantID, id, bson.M{"quantity": quantity, "updated_at": time.Now().UTC()}, domain.ErrNotFound)
}

// AdjustQuantity atomically adds delta to the stock. Decrements carry a
// quantity >= -delta guard so concurrent orders cannot oversell.
func (r *ProductRepository) AdjustQuantity(ctx context.Context, tenantID, id string, delta int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := byID(tenantID, id)
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: tell a missing product apart from a short one.
	err = r.col.FindOne(ctx, byID(tenantID, id), options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrInsufficientStock
}

// EnsureIndexes creates necessary indexes on the products collection.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "seller_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "sku", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
