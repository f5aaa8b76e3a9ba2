package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
)

const collectionUsers = "users"

var userList = listSpec{
	sortable:   fields("created_at", "name", "email", "role"),
	searchable: []string{"name", "email"},
}

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := insert(ctx, r.col, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	created := *user
	return &created, nil
}

// FindByEmail looks the account up across tenants; the email index is unique.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.col, tenantID, id, domain.ErrUserNotFound)
}

func (r *UserRepository) List(ctx context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	filter := userList.filter(f.ListFilter)
	if f.Role != "" {
		filter["role"] = f.Role
	}
	return list[domain.User](ctx, r.col, filter, userList.findOptions(f.ListFilter))
}

func (r *UserRepository) UpdateRole(ctx context.Context, tenantID, id, role string) error {
	return set(ctx, r.col, tenantID, id, bson.M{"role": role, "updated_at": time.Now().UTC()}, domain.ErrUserNotFound)
}

func (r *UserRepository) Delete(ctx context.Context, tenantID, id string) error {
	return remove(ctx, r.col, tenantID, id, domain.ErrUserNotFound)
}

// EnsureIndexes creates necessary indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "role", Value: 1}, {Key: "name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
