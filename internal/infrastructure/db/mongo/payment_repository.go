package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
)

const collectionPayments = "payments"

var paymentList = listSpec{
	ownerField: "owner_id",
	sortable:   fields("created_at", "paid_at", "amount", "status", "method"),
	searchable: []string{"reference", "client_id"},
}

type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

var _ ports.PaymentRepository = (*PaymentRepository)(nil)

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return insert(ctx, r.col, p)
}

func (r *PaymentRepository) Delete(ctx context.Context, tenantID, id string) error {
	return remove(ctx, r.col, tenantID, id, domain.ErrNotFound)
}

func (r *PaymentRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.Payment, error) {
	return findOne[domain.Payment](ctx, r.col, tenantID, id, domain.ErrNotFound)
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, tenantID, id, status string) error {
	return set(ctx, r.col, tenantID, id, bson.M{"status": status, "updated_at": time.Now().UTC()}, domain.ErrNotFound)
}

func (r *PaymentRepository) ReassignOwner(ctx context.Context, tenantID, clientID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx,
		bson.M{"tenant_id": tenantID, "client_id": clientID},
		bson.M{"$set": bson.M{"owner_id": ownerID, "updated_at": time.Now().UTC()}},
	)
	return err
}

func (r *PaymentRepository) List(ctx context.Context, f ports.PaymentFilter) ([]*domain.Payment, int64, error) {
	return list[domain.Payment](ctx, r.col, paymentFilter(f), paymentList.findOptions(f.ListFilter))
}

// statsRow is one group of the stats aggregation.
type statsRow struct {
	Key    string  `bson:"_id"`
	Count  int64   `bson:"count"`
	Amount float64 `bson:"amount"`
}

// Stats totals the matching payments by status and by method in a single
// aggregation.
func (r *PaymentRepository) Stats(ctx context.Context, f ports.PaymentFilter) (*domain.PaymentStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	group := func(field string) bson.A {
		return bson.A{bson.M{"$group": bson.M{
			"_id":    "$" + field,
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$amount"},
		}}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: paymentFilter(f)}},
		{{Key: "$facet", Value: bson.M{
			"by_status": group("status"),
			"by_method": group("method"),
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var facets []struct {
		ByStatus []statsRow `bson:"by_status"`
		ByMethod []statsRow `bson:"by_method"`
	}
	if err := cur.All(ctx, &facets); err != nil {
		return nil, err
	}

	stats := &domain.PaymentStats{
		ByStatus: make(map[string]domain.StatusTotal),
		ByMethod: make(map[string]domain.StatusTotal),
	}
	if len(facets) == 0 {
		return stats, nil
	}
	for _, row := range facets[0].ByStatus {
		stats.ByStatus[row.Key] = domain.StatusTotal{Count: row.Count, Amount: row.Amount}
		stats.Count += row.Count
		stats.TotalAmount += row.Amount
		switch row.Key {
		case domain.PaymentCompleted:
			stats.CompletedAmount = row.Amount
		case domain.PaymentPending:
			stats.PendingAmount = row.Amount
		}
	}
	for _, row := range facets[0].ByMethod {
		stats.ByMethod[row.Key] = domain.StatusTotal{Count: row.Count, Amount: row.Amount}
	}
	return stats, nil
}

func paymentFilter(f ports.PaymentFilter) bson.M {
	filter := paymentList.filter(f.ListFilter)
	if len(f.ClientIDs) > 0 {
		filter["client_id"] = bson.M{"$in": f.ClientIDs}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Method != "" {
		filter["method"] = f.Method
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		paid := bson.M{}
		if !f.From.IsZero() {
			paid["$gte"] = f.From
		}
		if !f.To.IsZero() {
			paid["$lt"] = f.To
		}
		filter["paid_at"] = paid
	}
	return filter
}

// EnsureIndexes creates necessary indexes on the payments collection.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "owner_id", Value: 1}, {Key: "paid_at", Value: -1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "client_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
