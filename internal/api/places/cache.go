package places

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

var _ SearchClient = (*CachedSearchClient)(nil)

// CachedSearchClient memoizes collaborator results so repeated repair passes
// over the same neighborhood don't re-spend rate limit.
type CachedSearchClient struct {
	inner  SearchClient
	cache  *cache.Cache
	logger *slog.Logger
}

func NewCachedSearchClient(inner SearchClient, ttl time.Duration, logger *slog.Logger) *CachedSearchClient {
	return &CachedSearchClient{
		inner:  inner,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

func searchCacheKey(center types.Coordinates, radius float64, limit int, sortBy SortBy) string {
	return fmt.Sprintf("search:%.6f:%.6f:%.0f:%d:%s", center.Latitude, center.Longitude, radius, limit, sortBy)
}

func (c *CachedSearchClient) SearchNearby(ctx context.Context, center types.Coordinates, radiusMeters float64, limit int, sortBy SortBy) ([]Venue, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "SearchNearby")
	defer span.End()

	key := searchCacheKey(center, radiusMeters, limit, sortBy)
	span.SetAttributes(attribute.String("cache.key", key))

	if cached, found := c.cache.Get(key); found {
		if venues, ok := cached.([]Venue); ok {
			span.SetStatus(codes.Ok, "Served from cache")
			return venues, nil
		}
	}

	venues, err := c.inner.SearchNearby(ctx, center, radiusMeters, limit, sortBy)
	if err != nil {
		span.RecordError(err)
		c.logger.WarnContext(ctx, "place search failed", slog.Any("error", err))
		return nil, err
	}

	c.cache.Set(key, venues, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "Search completed")
	return venues, nil
}
