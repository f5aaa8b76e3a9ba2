package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Repositories groups the collections of the back-office.
type Repositories struct {
	Clients  *ClientRepository
	Products *ProductRepository
	Payments *PaymentRepository
	Orders   *OrderRepository
	Catalog  *CatalogRepository
	Users    *UserRepository
}

// NewRepositories binds every repository to db.
func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Clients:  NewClientRepository(db),
		Products: NewProductRepository(db),
		Payments: NewPaymentRepository(db),
		Orders:   NewOrderRepository(db),
		Catalog:  NewCatalogRepository(db),
		Users:    NewUserRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	for name, ensure := range map[string]func(context.Context) error{
		collectionClients:  r.Clients.EnsureIndexes,
		collectionProducts: r.Products.EnsureIndexes,
		collectionPayments: r.Payments.EnsureIndexes,
		collectionOrders:   r.Orders.EnsureIndexes,
		collectionServices: r.Catalog.EnsureIndexes,
		collectionUsers:    r.Users.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}
