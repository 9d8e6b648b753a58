package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"real_estate/internal/domain"
)

const (
	keyDashboard      = "stats:dashboard"
	keyDashboardAdmin = "stats:dashboard:admin"
	keyDashboardRev   = "stats:dashboard:revenue"
	keyProperties     = "stats:properties"
	keyBlogs          = "stats:blogs"
	keyUsers          = "stats:users"
	keyContent        = "stats:content"
	keyRevenue        = "stats:revenue"
	keyTop            = "stats:top"
	keyActivity       = "stats:activity"
	keyListings       = "stats:listings"
)

// Cache prefixes dropped by each kind of write.
var (
	propertyWriteKeys   = []string{keyDashboard, keyProperties, keyRevenue, keyTop, keyActivity, keyListings}
	moderationWriteKeys = []string{keyDashboard, keyContent, keyTop, keyActivity}
	reviewWriteKeys     = []string{keyDashboard, keyContent, keyActivity, keyListings}
	sellWriteKeys       = []string{keyDashboard}
)

// cached is a cache-aside read. A ttl of 0 bypasses the cache entirely;
// cache failures never fail the read.
func cached[T any](ctx context.Context, c domain.Cache, ttl time.Duration, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	if ttl > 0 {
		if ok, _ := c.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if ttl > 0 {
		if err := c.Set(ctx, key, v, int(ttl.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return v, nil
}

func invalidate(ctx context.Context, c domain.Cache, prefixes []string) {
	for _, p := range prefixes {
		if err := c.DelPrefix(ctx, p); err != nil {
			log.Warn().Err(err).Str("prefix", p).Msg("cache invalidation failed")
		}
	}
}

// queryKey derives a stable cache key from a query value.
func queryKey(prefix string, q any) string {
	b, _ := json.Marshal(q)
	sum := sha1.Sum(b)
	return prefix + ":" + hex.EncodeToString(sum[:8])
}
