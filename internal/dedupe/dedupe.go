package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard remembers which messages the pipeline has already processed,
// backed by redis SETNX with a TTL. It fails open: when redis is
// unavailable, processing is never blocked.
type Guard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewGuard(rdb *redis.Client, ttl time.Duration) *Guard {
	return &Guard{rdb: rdb, ttl: ttl}
}

// AcquireOnce returns true the first time a message key is seen and
// false for duplicates. A nil guard or a redis failure returns true.
func (g *Guard) AcquireOnce(ctx context.Context, messageKey string) bool {
	if g == nil || g.rdb == nil {
		return true
	}

	key := fmt.Sprintf("seen:%s", messageKey)

	ok, err := g.rdb.SetNX(ctx, key, 1, g.ttl).Result()
	if err != nil {
		// fail open: do not block processing when redis is down
		return true
	}
	return ok
}

// Release gives a claimed key back so the message is retried on the
// next run. Used when persisting the record fails after the claim.
func (g *Guard) Release(ctx context.Context, messageKey string) {
	if g == nil || g.rdb == nil {
		return
	}
	g.rdb.Del(ctx, fmt.Sprintf("seen:%s", messageKey))
}
