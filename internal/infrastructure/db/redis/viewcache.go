package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultViewTTL = 5 * time.Minute

// ViewCache stores rendered list views and drops them when the underlying
// data changes.
//
// Key format:
//
//	view:<tenant>:<path>:<variant hash>  cached body
//	viewtag:<tenant>:<path>              set of the body keys of a path
//	viewgen:<tenant>:<path>              generation, bumped by Invalidate
//
// A body is only stored while the generation read on the preceding miss is
// still current, so a load that raced a mutation is not cached.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewCache creates a ViewCache wrapping the given Redis client.
func NewViewCache(client *redis.Client, ttl time.Duration) *ViewCache {
	if ttl <= 0 {
		ttl = defaultViewTTL
	}
	return &ViewCache{client: client, ttl: ttl}
}

// Get returns the cached body of path for variant. On a miss ok is false and
// gen is the generation to hand back to Set.
func (c *ViewCache) Get(ctx context.Context, tenantID, path, variant string) (body []byte, gen int64, ok bool, err error) {
	vals, err := c.client.MGet(ctx, c.gen(tenantID, path), c.key(tenantID, path, variant)).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("view cache get: %w", err)
	}
	if g, isStr := vals[0].(string); isStr {
		if gen, err = strconv.ParseInt(g, 10, 64); err != nil {
			return nil, 0, false, fmt.Errorf("view cache generation: %w", err)
		}
	}
	if b, isStr := vals[1].(string); isStr {
		return []byte(b), gen, true, nil
	}
	return nil, gen, false, nil
}

// Set stores body and tags it with path so Invalidate can find it. Nothing
// is stored when path was invalidated after gen was read.
func (c *ViewCache) Set(ctx context.Context, tenantID, path, variant string, gen int64, body []byte) error {
	key := c.key(tenantID, path, variant)
	tag := c.tag(tenantID, path)
	genKey := c.gen(tenantID, path)

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleView
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, body, c.ttl)
			pipe.SAdd(ctx, tag, key)
			pipe.Expire(ctx, tag, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, errStaleView) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("view cache set: %w", err)
	}
	return nil
}

// Invalidate drops every cached variant of paths and bumps their generation.
func (c *ViewCache) Invalidate(ctx context.Context, tenantID string, paths ...string) error {
	for _, path := range paths {
		if err := c.client.Incr(ctx, c.gen(tenantID, path)).Err(); err != nil {
			return fmt.Errorf("view cache invalidate %s: %w", path, err)
		}
		tag := c.tag(tenantID, path)
		keys, err := c.client.SMembers(ctx, tag).Result()
		if err != nil {
			return fmt.Errorf("view cache invalidate %s: %w", path, err)
		}
		if err := c.client.Del(ctx, append(keys, tag)...).Err(); err != nil {
			return fmt.Errorf("view cache invalidate %s: %w", path, err)
		}
	}
	return nil
}

var errStaleView = errors.New("view generation changed")

func (c *ViewCache) key(tenantID, path, variant string) string {
	sum := sha256.Sum256([]byte(variant))
	return fmt.Sprintf("view:%s:%s:%s", tenantID, path, hex.EncodeToString(sum[:8]))
}

func (c *ViewCache) tag(tenantID, path string) string {
	return fmt.Sprintf("viewtag:%s:%s", tenantID, path)
}

func (c *ViewCache) gen(tenantID, path string) string {
	return fmt.Sprintf("viewgen:%s:%s", tenantID, path)
}
