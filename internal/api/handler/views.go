package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/contalink/backoffice/internal/api/metrics"
)

// ViewCache stores rendered list responses per tenant and path. Get reports
// the path's generation on a miss; Set drops the body when the path was
// invalidated since that generation.
type ViewCache interface {
	Get(ctx context.Context, tenantID, path, variant string) (body []byte, gen int64, ok bool, err error)
	Set(ctx context.Context, tenantID, path, variant string, gen int64, body []byte) error
}

// Views renders list responses through the view cache. A nil *Views, or one
// without a cache, always loads from the service.
type Views struct {
	cache ViewCache
	log   zerolog.Logger
}

// NewViews returns a Views backed by cache.
func NewViews(cache ViewCache, log zerolog.Logger) *Views {
	return &Views{cache: cache, log: log}
}

// list answers a list view. The cached body is keyed by the request path, the
// caller and the raw query string, since visibility depends on the caller's
// role and ownership. Cache failures degrade to an uncached response.
func (v *Views) list(c echo.Context, path string, load func(ctx context.Context) (any, error)) error {
	ctx := c.Request().Context()
	actor := actorFrom(c)
	if v == nil || v.cache == nil || actor == nil {
		data, err := load(ctx)
		if err != nil {
			return err
		}
		return ok(c, data)
	}

	variant := actor.UserID + ":" + actor.Role + "?" + c.QueryString()
	body, gen, hit, err := v.cache.Get(ctx, actor.TenantID, path, variant)
	if err != nil {
		v.log.Warn().Err(err).Str("path", path).Msg("view cache read failed")
	}
	if hit {
		metrics.ViewCacheTotal.WithLabelValues(metrics.OutcomeCacheHit).Inc()
		return c.JSONBlob(http.StatusOK, body)
	}
	metrics.ViewCacheTotal.WithLabelValues(metrics.OutcomeCacheMiss).Inc()

	data, err := load(ctx)
	if err != nil {
		return err
	}
	body, err = json.Marshal(Response{Success: true, Data: data})
	if err != nil {
		return err
	}
	if err := v.cache.Set(ctx, actor.TenantID, path, variant, gen, body); err != nil {
		v.log.Warn().Err(err).Str("path", path).Msg("view cache write failed")
	}
	return c.JSONBlob(http.StatusOK, body)
}
