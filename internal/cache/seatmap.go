package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeatMap caches rendered seat-map JSON per showtime in Redis.  The
// seat map is the hottest read in the system and tolerates a few
// seconds of staleness, so entries get a short TTL and every write that
// claims or releases seats invalidates the key immediately.
//
// A nil Redis client disables the cache: Get always misses and Set and
// Invalidate are no-ops, so callers never branch on availability.
type SeatMap struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSeatMap returns a seat-map cache over rdb with the given TTL.
func NewSeatMap(rdb *redis.Client, ttl time.Duration) *SeatMap {
	return &SeatMap{rdb: rdb, ttl: ttl}
}

func seatMapKey(showtimeID uint64) string {
	return fmt.Sprintf("seatmap:%d", showtimeID)
}

// Get returns the cached seat-map JSON for a showtime, or ok=false on a
// miss.  Redis errors count as misses; the caller falls back to the
// database either way.
func (c *SeatMap) Get(ctx context.Context, showtimeID uint64) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, seatMapKey(showtimeID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores the rendered seat-map JSON for a showtime.
func (c *SeatMap) Set(ctx context.Context, showtimeID uint64, data []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Set(ctx, seatMapKey(showtimeID), data, c.ttl).Err()
}

// Invalidate drops the cached seat map for a showtime.  Called after
// any transition that claims or releases seats.
func (c *SeatMap) Invalidate(ctx context.Context, showtimeID uint64) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, seatMapKey(showtimeID)).Err()
}
