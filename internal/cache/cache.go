// Package cache provides the read-through caches the planner uses to avoid
// repeating route and reverse-geocoding calls.
package cache

import (
	"context"

	"github.com/mmcloughlin/geohash"
)

// keyPrecision is the geohash length used for coordinate keys. Eleven
// characters resolve to cells of roughly 15cm, so distinct coordinates
// only collide when they name the same spot.
const keyPrecision = 11

// Cache is a best-effort key/value store. Implementations must be safe for
// concurrent use. Put failures are the implementation's to log; callers
// never depend on a value having been stored.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Put(ctx context.Context, key string, v V)
}

// Nop never stores anything.
type Nop[V any] struct{}

func (Nop[V]) Get(context.Context, string) (V, bool) {
	var zero V
	return zero, false
}

func (Nop[V]) Put(context.Context, string, V) {}

// CoordinateKey returns the cache key for a single position.
func CoordinateKey(lat, lon float64) string {
	return geohash.EncodeWithPrecision(lat, lon, keyPrecision)
}

// RouteKey returns the cache key for a start/finish pair.
func RouteKey(startLat, startLon, finishLat, finishLon float64) string {
	return CoordinateKey(startLat, startLon) + ":" + CoordinateKey(finishLat, finishLon)
}
