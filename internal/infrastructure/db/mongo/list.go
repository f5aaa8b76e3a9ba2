package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
)

const defaultSort = "created_at"

// listSpec describes how a collection is listed: the owner field used for
// scoping, the fields a client may sort by and the fields searched by text.
type listSpec struct {
	ownerField string
	sortable   map[string]bool
	searchable []string
}

// filter returns the tenant, owner and search criteria of f.
func (s listSpec) filter(f ports.ListFilter) bson.M {
	filter := bson.M{"tenant_id": f.TenantID}
	if f.OwnerID != "" && s.ownerField != "" {
		filter[s.ownerField] = f.OwnerID
	}
	if f.Search != "" && len(s.searchable) > 0 {
		pattern := containsRegex(f.Search)
		or := make(bson.A, 0, len(s.searchable))
		for _, field := range s.searchable {
			or = append(or, bson.M{field: pattern})
		}
		filter["$or"] = or
	}
	return filter
}

// findOptions returns the sort and page window of f. Unknown sort fields fall
// back to created_at; _id breaks ties so pages are stable.
func (s listSpec) findOptions(f ports.ListFilter) *options.FindOptions {
	field := defaultSort
	if s.sortable[f.Sort] {
		field = f.Sort
	}
	dir := 1
	if f.Desc {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit)).SetSkip(int64(f.Skip()))
	}
	return opts
}

// containsRegex matches text anywhere in a field, case-insensitively.
// Regex metacharacters typed by the user are matched literally.
func containsRegex(text string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(text), "$options": "i"}
}

// list runs a paged query and the matching count.
func list[T any](ctx context.Context, col *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]*T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	items := make([]*T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// findOne decodes the tenant's document with the given id.
func findOne[T any](ctx context.Context, col *mongo.Collection, tenantID, id string, notFound error) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc T
	err := col.FindOne(ctx, byID(tenantID, id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, err
	}
	return &doc, nil
}

// replace overwrites the tenant's document with the given id.
func replace(ctx context.Context, col *mongo.Collection, tenantID, id string, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.ReplaceOne(ctx, byID(tenantID, id), doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrConflict
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// insert adds doc, reporting unique index violations as domain.ErrConflict.
func insert(ctx context.Context, col *mongo.Collection, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

// remove deletes the tenant's document with the given id.
func remove(ctx context.Context, col *mongo.Collection, tenantID, id string, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, byID(tenantID, id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}

// set applies a $set update to the tenant's document with the given id.
func set(ctx context.Context, col *mongo.Collection, tenantID, id string, update bson.M, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.UpdateOne(ctx, byID(tenantID, id), bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}

// setIf is set guarded by extra filter criteria. When the document exists
// but no longer matches guard, mismatch is returned.
func setIf(ctx context.Context, col *mongo.Collection, tenantID, id string, guard, update bson.M, mismatch error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.UpdateOne(ctx, guarded(tenantID, id, guard), bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return missOrMismatch(ctx, col, tenantID, id, mismatch)
	}
	return nil
}

// removeIf is remove guarded by extra filter criteria.
func removeIf(ctx context.Context, col *mongo.Collection, tenantID, id string, guard bson.M, mismatch error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, guarded(tenantID, id, guard))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return missOrMismatch(ctx, col, tenantID, id, mismatch)
	}
	return nil
}

// missOrMismatch tells a missing document apart from one a guard rejected.
func missOrMismatch(ctx context.Context, col *mongo.Collection, tenantID, id string, mismatch error) error {
	n, err := col.CountDocuments(ctx, byID(tenantID, id), options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return mismatch
}

func guarded(tenantID, id string, guard bson.M) bson.M {
	filter := byID(tenantID, id)
	for k, v := range guard {
		filter[k] = v
	}
	return filter
}

func byID(tenantID, id string) bson.M {
	return bson.M{"_id": id, "tenant_id": tenantID}
}

func fields(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
